package incremental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
)

// TestApplyJSAnalyzesAfterDebounce checks a JS edit is reflected in the
// Index only once the debounce window has elapsed.
func TestApplyJSAnalyzesAfterDebounce(t *testing.T) {
	ix := index.New()
	e, err := New(ix)
	require.NoError(t, err)
	defer e.Shutdown()

	done := make(chan string, 1)
	e.OnAnalyzed = func(uri string) { done <- uri }

	src := []byte(`angular.module('app').controller('MainCtrl', function($scope){
  $scope.title = 'hi';
});`)
	e.Apply("main.js", src, 1)

	select {
	case uri := <-done:
		assert.Equal(t, "main.js", uri)
	case <-time.After(2 * time.Second):
		t.Fatal("analysis did not complete in time")
	}

	assert.NotEmpty(t, ix.GetDefinitions("MainCtrl.$scope.title"))
}

// TestApplySupersededVersionAborts checks that a second Apply call
// before the first's debounce fires cancels the stale run: only the
// latest text's symbol ends up in the Index.
func TestApplySupersededVersionAborts(t *testing.T) {
	ix := index.New()
	e, err := New(ix)
	require.NoError(t, err)
	defer e.Shutdown()

	done := make(chan string, 2)
	e.OnAnalyzed = func(uri string) { done <- uri }

	e.Apply("main.js", []byte(`angular.module('app').controller('A', function($scope){ $scope.old = 1; });`), 1)
	e.Apply("main.js", []byte(`angular.module('app').controller('A', function($scope){ $scope.fresh = 1; });`), 2)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis did not complete in time")
	}

	assert.Empty(t, ix.GetDefinitions("A.$scope.old"))
	assert.NotEmpty(t, ix.GetDefinitions("A.$scope.fresh"))
}

// TestHTMLAnalysisRepublishesOpenJS verifies that after an HTML edit
// completes, OnRepublishAll is invoked with the set of open JS URIs.
func TestHTMLAnalysisRepublishesOpenJS(t *testing.T) {
	ix := index.New()
	e, err := New(ix)
	require.NoError(t, err)
	defer e.Shutdown()

	analyzed := make(chan string, 1)
	republished := make(chan []string, 1)
	e.OnAnalyzed = func(uri string) { analyzed <- uri }
	e.OnRepublishAll = func(uris []string) { republished <- uris }

	e.Apply("main.js", []byte(`angular.module('app').controller('A', function($scope){});`), 1)
	<-analyzed

	e.Apply("main.html", []byte(`<div ng-controller="A">{{ x }}</div>`), 1)
	<-analyzed

	select {
	case uris := <-republished:
		assert.Contains(t, uris, "main.js")
	case <-time.After(2 * time.Second):
		t.Fatal("republish did not fire in time")
	}
}
