package jsanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

func parseJS(t *testing.T, src string) syntax.Tree {
	t.Helper()
	p, err := syntax.NewJSParser()
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p.Parse([]byte(src))
}

// TestDIGatingOfReferences is spec scenario S1: MyService.doSomething is
// only recorded as a reference inside the controller that actually
// injects MyService.
func TestDIGatingOfReferences(t *testing.T) {
	src := `angular.module('app').service('MyService', function(){ this.doSomething=function(){}; })
.controller('A', ['$scope','MyService', function($scope, MyService){ MyService.doSomething(); }])
.controller('B', ['$scope', function($scope){ MyService.doSomething(); }]);
`
	tree := parseJS(t, src)
	defer tree.Close()
	ix := index.New()

	Analyze(tree, "a.js", []byte(src), 0, ix)

	refs := ix.GetReferences("MyService.doSomething")
	require.Len(t, refs, 1)
	assert.Equal(t, 1, refs[0].Span.StartLine, "reference must be located on controller A's line")
}

// TestInjectArrayWithIIFE is spec scenario S2: the $inject array pattern
// resolves the bare-identifier registration's dependencies via prescan.
func TestInjectArrayWithIIFE(t *testing.T) {
	src := `(function(){ angular.module('app').controller('C', C); C.$inject=['notifyService']; function C(notifyService){ notifyService.showNotify(); } })();
`
	tree := parseJS(t, src)
	defer tree.Close()
	ix := index.New()

	Analyze(tree, "a.js", []byte(src), 0, ix)

	refs := ix.GetReferences("notifyService.showNotify")
	assert.Len(t, refs, 1)
}

// TestFirstWinsScopeAssignment is spec scenario S3: the first $scope.count
// assignment is the definition; the following two are references.
func TestFirstWinsScopeAssignment(t *testing.T) {
	src := `angular.module('app').controller('T', ['$scope', function($scope){ $scope.count=0; $scope.count=1; $scope.count=2; }]);
`
	tree := parseJS(t, src)
	defer tree.Close()
	ix := index.New()

	Analyze(tree, "a.js", []byte(src), 0, ix)

	assert.Len(t, ix.GetDefinitions("T.$scope.count"), 1)
	assert.Len(t, ix.GetReferences("T.$scope.count"), 2)
}

// TestEmbeddedScriptLineOffset checks that a non-zero lineOffset shifts
// every recorded position, the mechanism used for <script> blocks
// embedded in HTML (§4.4, §9).
func TestEmbeddedScriptLineOffset(t *testing.T) {
	src := `angular.module('app').controller('A', ['$scope', function($scope){ $scope.x=1; }]);
`
	tree := parseJS(t, src)
	defer tree.Close()
	ix := index.New()

	Analyze(tree, "page.html", []byte(src), 10, ix)

	defs := ix.GetDefinitions("A.$scope.x")
	require.Len(t, defs, 1)
	assert.Equal(t, 10, defs[0].NameSpan.StartLine)
}

// TestRouteProviderTemplateBinding checks $routeProvider.when registers a
// TemplateBinding usable to resolve the HTML side (groundwork for S4).
func TestRouteProviderTemplateBinding(t *testing.T) {
	src := `angular.module('app').config(function($routeProvider){
  $routeProvider.when('/p', {templateUrl: 'v/p.html', controller: 'P'});
});
`
	tree := parseJS(t, src)
	defer tree.Close()
	ix := index.New()

	Analyze(tree, "routes.js", []byte(src), 0, ix)

	bindings := ix.Templates.GetTemplateBindings("v/p.html")
	require.Len(t, bindings, 1)
	assert.Equal(t, "P", bindings[0].ControllerName)
}

// TestDirectiveRegistrationRecorded grounds scenario S6's JS half: a
// directive definition must exist for the resolver to later connect HTML
// usage sites to.
func TestDirectiveRegistrationRecorded(t *testing.T) {
	src := `angular.module('app').directive('myWidget', function(){ return {}; });
`
	tree := parseJS(t, src)
	defer tree.Close()
	ix := index.New()

	Analyze(tree, "a.js", []byte(src), 0, ix)

	assert.True(t, ix.Definitions.HasDefinition("myWidget"))
}
