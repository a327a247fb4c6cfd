package workspace

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	_ "modernc.org/sqlite"

	"github.com/angularjs-lsp/angularjs-lsp/internal/htmlanalyzer"
	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/jsanalyzer"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// Watcher tracks live filesystem changes under a root and re-analyzes
// the affected file(s) on write, insert, or remove — distinct from the
// incremental engine's debounced per-document editing path (§4.9),
// which reacts to LSP didChange on documents the editor has open. The
// watcher reacts to changes made outside the editor (git checkout, a
// build step, another process). Adapted from the teacher's
// filescanner.go watcher goroutine and its sqlite-backed mtime/size
// change table, here scoped to the watcher's own ephemeral db rather
// than the cross-session cache (§4.8 owns that artifact format).
type Watcher struct {
	root string
	cfg  Config
	ix   *index.Index

	db      *sql.DB
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	jsParser   *syntax.JSParser
	htmlAnalyz *htmlanalyzer.Analyzer

	// IsOpen reports whether a path has a live editor buffer. When set,
	// the watcher skips reanalyzing such paths entirely — the
	// incremental engine already owns that file's analysis from the
	// editor's in-memory text, which may be ahead of what's on disk.
	IsOpen func(path string) bool
}

// NewWatcher opens (creating if absent) the watcher's sqlite change
// table at dbPath and prepares the JS/HTML analyzers used for
// single-file re-analysis.
func NewWatcher(root string, cfg Config, ix *index.Index, dbPath string) (*Watcher, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create watcher db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open watcher database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS file_state (
		path TEXT PRIMARY KEY, size INTEGER NOT NULL, mtime INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize watcher table: %w", err)
	}

	jsParser, err := syntax.NewJSParser()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	htmlAnalyz, err := htmlanalyzer.NewAnalyzer()
	if err != nil {
		_ = db.Close()
		jsParser.Close()
		return nil, err
	}

	return &Watcher{
		root: root, cfg: cfg, ix: ix, db: db,
		jsParser: jsParser, htmlAnalyz: htmlAnalyz,
	}, nil
}

// Start begins watching root for changes, debouncing bursts by 200ms
// (the same window §4.9 uses for document edits) before re-analyzing.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fw

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() { _ = fw.Close() }()

		pendingAdds := make(map[string]bool)
		pendingRemoves := make(map[string]bool)
		debounce := time.NewTimer(time.Hour)
		debounce.Stop()

		process := func() {
			if len(pendingAdds) > 0 {
				for path := range pendingAdds {
					w.reanalyze(path)
				}
				pendingAdds = make(map[string]bool)
			}
			if len(pendingRemoves) > 0 {
				for path := range pendingRemoves {
					w.remove(path)
				}
				pendingRemoves = make(map[string]bool)
			}
		}

		reset := func() {
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(200 * time.Millisecond)
		}

		for {
			select {
			case <-ctx.Done():
				process()
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if !w.relevant(event.Name) {
					continue
				}
				switch {
				case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
					pendingAdds[event.Name] = true
					delete(pendingRemoves, event.Name)
					reset()
				case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					pendingRemoves[event.Name] = true
					delete(pendingAdds, event.Name)
					reset()
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.Printf("file watcher error: %v", err)
			case <-debounce.C:
				process()
			}
		}
	}()

	return w.addTree(w.root)
}

// relevant reports whether path is a JS/HTML file the config includes.
func (w *Watcher) relevant(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	isSource := ext == ".js" || ext == ".html" || ext == ".htm"
	if !isSource {
		info, err := os.Stat(path)
		return err == nil && info.IsDir()
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	return w.cfg.Included(rel)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr == nil && rel != "." && strings.HasPrefix(filepath.Base(rel), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("error watching directory %s: %v", path, err)
		}
		return nil
	})
}

// reanalyze clears the file's Index entries and runs a fresh full
// analysis: JS files get Pass1+Pass2, HTML files the full 4-pass plus
// embedded-script analysis (§4.9's "HTML edits run the full 4-pass
// single-file analysis"). After an HTML file it also analyzes whatever
// URIs are waiting in the Index's reanalysis queue; the analyzers do not
// add to that queue themselves.
func (w *Watcher) reanalyze(path string) {
	if w.IsOpen != nil && w.IsOpen(path) {
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		log.Printf("watcher: skipping unreadable file %s: %v", path, err)
		return
	}
	info, statErr := os.Stat(path)
	if statErr == nil {
		w.recordState(path, info)
	}

	w.ix.ClearDocument(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".js" {
		tree := w.jsParser.Parse(content)
		jsanalyzer.Analyze(tree, path, content, 0, w.ix)
		tree.Close()
		return
	}

	w.analyzeHTML(path, content)

	for _, child := range w.ix.DrainReanalysisQueue() {
		if child == path {
			continue
		}
		if childContent, err := os.ReadFile(child); err == nil {
			w.analyzeHTML(child, childContent)
		}
	}
}

func (w *Watcher) analyzeHTML(path string, content []byte) {
	parser := syntax.NewHTMLParser()
	defer parser.Close()
	tree := parser.Parse(content)
	defer tree.Close()
	w.htmlAnalyz.AnalyzeFull(tree, path, content, w.ix)
}

func (w *Watcher) remove(path string) {
	w.ix.ClearDocument(path)
	if _, err := w.db.Exec("DELETE FROM file_state WHERE path = ?", path); err != nil {
		log.Printf("watcher: failed to clear state for %s: %v", path, err)
	}
}

func (w *Watcher) recordState(path string, info os.FileInfo) {
	_, err := w.db.Exec(
		"INSERT OR REPLACE INTO file_state (path, size, mtime) VALUES (?, ?, ?)",
		path, info.Size(), info.ModTime().UnixNano(),
	)
	if err != nil {
		log.Printf("watcher: failed to record state for %s: %v", path, err)
	}
}

// Stop halts the watcher goroutine and releases its resources.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
		w.wg.Wait()
	}
	w.jsParser.Close()
	w.htmlAnalyz.Close()
	_ = w.db.Close()
}
