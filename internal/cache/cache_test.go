package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestSaveThenLoadRestoresDefinitions round-trips a single file's
// definitions through Save/Load with no disk changes in between, so
// every candidate should come back valid and the restored Index should
// answer lookups the same way the original did.
func TestSaveThenLoadRestoresDefinitions(t *testing.T) {
	dir := t.TempDir()
	jsPath := filepath.Join(dir, "app", "main.js")
	writeFile(t, jsPath, "angular.module('app').controller('MainCtrl', function($scope){});")

	ix := index.New()
	ix.AddDefinition(model.Symbol{
		Name: "MainCtrl", Kind: model.KindController, URI: jsPath,
		NameSpan: span.New(0, 30, 0, 38),
	})

	c := New(dir)
	require.NoError(t, c.Save(ix, []string{jsPath}))

	ix2 := index.New()
	result, err := c.Load(ix2, []string{jsPath})
	require.NoError(t, err)
	assert.Empty(t, result.Stale)
	assert.False(t, result.FullRescan)

	defs := ix2.GetDefinitions("MainCtrl")
	require.Len(t, defs, 1)
	assert.Equal(t, jsPath, defs[0].URI)
}

// TestLoadDetectsStaleFileByMtime simulates an on-disk edit after the
// cache was written: the file's content and mtime change, so Load must
// report it stale instead of restoring the cache's copy.
func TestLoadDetectsStaleFileByMtime(t *testing.T) {
	dir := t.TempDir()
	jsPath := filepath.Join(dir, "app", "main.js")
	writeFile(t, jsPath, "angular.module('app').controller('MainCtrl', function(){});")

	ix := index.New()
	c := New(dir)
	require.NoError(t, c.Save(ix, []string{jsPath}))

	// Touch the file with new content/mtime after the cache was written.
	writeFile(t, jsPath, "angular.module('app').controller('Changed', function(){});")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(jsPath, future, future))

	ix2 := index.New()
	result, err := c.Load(ix2, []string{jsPath})
	require.NoError(t, err)
	assert.Equal(t, []string{jsPath}, result.Stale)
}

// TestLoadMissingCacheReportsFullRescan exercises the no-metadata.json
// case: a fresh workspace should come back as a full rescan with no
// error treated as fatal by the caller.
func TestLoadMissingCacheReportsFullRescan(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	ix := index.New()

	result, err := c.Load(ix, []string{filepath.Join(dir, "app", "main.js")})
	require.Error(t, err)
	assert.True(t, result.FullRescan)
	assert.Len(t, result.Stale, 1)
}

// TestLoadVersionMismatchForcesFullRescan writes a metadata.json stamped
// with a stale version number and checks Load refuses to trust the rest
// of the bundle.
func TestLoadVersionMismatchForcesFullRescan(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	require.NoError(t, os.MkdirAll(c.dir, 0o755))
	writeFile(t, c.metadataPath(), `{"version": 1, "files": {}}`)

	ix := index.New()
	result, err := c.Load(ix, []string{"anything.js"})
	require.Error(t, err)
	assert.True(t, result.FullRescan)
}
