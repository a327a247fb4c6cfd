package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestScanAllFourPhases builds a tiny two-file project (a controller
// registration plus a template referencing its $scope property) and
// checks the full scan wires the cross-file reference end to end.
func TestScanAllFourPhases(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app/main.js", `
angular.module('app').controller('MainCtrl', ['$scope', function($scope) {
  $scope.title = 'hello';
}]);
`)
	writeFile(t, dir, "app/main.html", `
<div ng-controller="MainCtrl">{{ title }}</div>
`)

	ix := index.New()
	scanner := New(dir, DefaultConfig(), ix)
	require.NoError(t, scanner.ScanAll())

	defs := ix.GetDefinitions("MainCtrl.$scope.title")
	require.Len(t, defs, 1)

	htmlURI := filepath.Join(dir, "app/main.html")
	refs := ix.HTML.ScopeReferences(htmlURI)
	require.NotEmpty(t, refs)
	assert.Equal(t, "title", refs[0].Path)
}

func TestScanAllRespectsExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "node_modules/vendored/lib.js", `angular.module('app').controller('Vendored', function(){});`)
	writeFile(t, dir, "app/main.js", `angular.module('app').controller('C', function(){});`)

	ix := index.New()
	scanner := New(dir, DefaultConfig(), ix)
	require.NoError(t, scanner.ScanAll())

	assert.Empty(t, ix.GetDefinitions("Vendored"))
	assert.NotEmpty(t, ix.GetDefinitions("C"))
}
