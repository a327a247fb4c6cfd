// Package cache persists the Index across editor restarts (§4.8): a
// metadata.json recording which files were indexed at what mtime/size, a
// symbols.bin bundle of each file's contribution, and a global.bin bundle
// of workspace-level template/ng-include bindings. Grounded on the
// teacher's dataindex.go (msgpack-marshaled records keyed for fast
// reload) and snippet_command.go (tidwall/pretty for readable JSON
// output) — adapted here from a bbolt key/value store to a pair of flat
// msgpack blobs, since the cache's access pattern is "load everything
// once, overwrite everything on save" rather than dataindex.go's
// per-key random access.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/pretty"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
)

// Version is bumped whenever the on-disk bundle shapes change in a way
// that isn't backward compatible. A mismatch between this constant and
// metadata.json's recorded version forces a full rescan (§4.8).
const Version = 2

// Cache is a handle on one workspace's on-disk cache directory.
type Cache struct {
	dir string
}

// New returns a Cache rooted at <workspaceRoot>/.angularjs-lsp/cache/v1.
func New(workspaceRoot string) *Cache {
	return &Cache{dir: filepath.Join(workspaceRoot, ".angularjs-lsp", "cache", "v1")}
}

func (c *Cache) metadataPath() string { return filepath.Join(c.dir, "metadata.json") }
func (c *Cache) symbolsPath() string  { return filepath.Join(c.dir, "symbols.bin") }
func (c *Cache) globalPath() string   { return filepath.Join(c.dir, "global.bin") }

// FileMeta is the recorded mtime/size for one cached file, used to decide
// whether its symbols.bin entry is still valid.
type FileMeta struct {
	MTime int64 `json:"mtime"`
	Size  int64 `json:"size"`
}

// Metadata is metadata.json's schema.
type Metadata struct {
	Version int                 `json:"version"`
	Files   map[string]FileMeta `json:"files"`
}

// statFile reads the current (mtime, size) for path.
func statFile(path string) (FileMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileMeta{}, err
	}
	return FileMeta{MTime: info.ModTime().UnixNano(), Size: info.Size()}, nil
}

// LoadResult reports what Load found.
type LoadResult struct {
	// Stale lists candidate paths whose cached entry is missing or
	// whose (mtime, size) no longer match disk — these must be
	// re-scanned by the caller.
	Stale []string
	// FullRescan is true when the cache itself is absent, version-
	// mismatched, or unreadable: every candidate is stale and nothing
	// was restored into ix.
	FullRescan bool
}

// Load validates metadata.json's version, classifies each of candidates
// as valid or stale by comparing recorded (mtime, size) against disk, and
// restores symbols.bin/global.bin entries for the valid ones into ix.
// Any deserialization error or version mismatch is treated as a full
// cache miss: every candidate comes back stale and ix is left untouched,
// never partially populated from a bundle that might be corrupt (§4.8
// "the cache is not corrupted in place").
func (c *Cache) Load(ix *index.Index, candidates []string) (LoadResult, error) {
	meta, err := c.readMetadata()
	if err != nil {
		return LoadResult{Stale: candidates, FullRescan: true}, err
	}
	if meta.Version != Version {
		return LoadResult{Stale: candidates, FullRescan: true},
			fmt.Errorf("cache version mismatch: have %d, want %d", meta.Version, Version)
	}

	bundles, err := c.readSymbols()
	if err != nil {
		return LoadResult{Stale: candidates, FullRescan: true}, err
	}
	global, err := c.readGlobal()
	if err != nil {
		return LoadResult{Stale: candidates, FullRescan: true}, err
	}

	valid := make(map[string]bool, len(candidates))
	var stale []string
	for _, path := range candidates {
		current, statErr := statFile(path)
		recorded, known := meta.Files[path]
		if statErr != nil || !known || current != recorded {
			stale = append(stale, path)
			continue
		}
		valid[path] = true
	}

	for path := range valid {
		if bundle, ok := bundles[path]; ok {
			restoreFileSymbols(ix, path, bundle)
		}
	}
	restoreGlobal(ix, global, valid)

	return LoadResult{Stale: stale}, nil
}

// Save snapshots ix's contribution for every file in files plus the
// workspace-level bindings, and overwrites the cache directory. Writes
// land in temp files first and are renamed into place, so a failure
// partway through never leaves metadata.json pointing at a truncated
// symbols.bin or global.bin.
func (c *Cache) Save(ix *index.Index, files []string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	meta := Metadata{Version: Version, Files: make(map[string]FileMeta, len(files))}
	bundles := make(map[string]FileSymbols, len(files))
	for _, path := range files {
		fm, err := statFile(path)
		if err != nil {
			continue
		}
		meta.Files[path] = fm
		bundles[path] = snapshotFileSymbols(ix, path)
	}
	global := GlobalSymbols{
		TemplateBindings:  ix.Templates.AllBindings(),
		NgIncludeBindings: ix.Templates.AllNgIncludeBindings(),
	}

	if err := c.writeMetadata(meta); err != nil {
		return err
	}
	if err := writeMsgpack(c.symbolsPath(), bundles); err != nil {
		return err
	}
	if err := writeMsgpack(c.globalPath(), global); err != nil {
		return err
	}
	return nil
}

func (c *Cache) readMetadata() (Metadata, error) {
	data, err := os.ReadFile(c.metadataPath())
	if err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("malformed metadata.json: %w", err)
	}
	return meta, nil
}

func (c *Cache) writeMetadata(meta Metadata) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return writeAtomic(c.metadataPath(), pretty.Pretty(raw))
}

func (c *Cache) readSymbols() (map[string]FileSymbols, error) {
	data, err := os.ReadFile(c.symbolsPath())
	if err != nil {
		return nil, err
	}
	var bundles map[string]FileSymbols
	if err := msgpack.Unmarshal(data, &bundles); err != nil {
		return nil, fmt.Errorf("malformed symbols.bin: %w", err)
	}
	return bundles, nil
}

func (c *Cache) readGlobal() (GlobalSymbols, error) {
	data, err := os.ReadFile(c.globalPath())
	if err != nil {
		return GlobalSymbols{}, err
	}
	var global GlobalSymbols
	if err := msgpack.Unmarshal(data, &global); err != nil {
		return GlobalSymbols{}, fmt.Errorf("malformed global.bin: %w", err)
	}
	return global, nil
}

func writeMsgpack(path string, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, data)
}

// writeAtomic writes data to a temp file in the same directory as path
// then renames it over path, so a crash mid-write leaves the previous
// cache contents intact rather than a half-written file.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", filepath.Base(path), err)
	}
	return nil
}
