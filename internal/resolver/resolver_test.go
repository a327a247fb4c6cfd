package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
)

// TestRouteProviderResolvesHtmlUser is spec scenario S4: a template
// bound only via $routeProvider (no ng-controller in the HTML) resolves
// `user` to the $scope.user assignment in the JS controller.
func TestRouteProviderResolvesHtmlUser(t *testing.T) {
	ix := index.New()

	ix.Templates.AddTemplateBinding(model.TemplateBinding{
		TemplatePath: "v/p.html", ControllerName: "P", Source: model.SourceRouteProvider, URI: "routes.js",
	})
	ix.AddDefinition(model.Symbol{
		Name: "P.$scope.user", Kind: model.KindScopeProperty, URI: "p.js",
		NameSpan: span.New(3, 10, 3, 14),
	})
	ix.HTML.AddScopeReference(model.HtmlScopeReference{
		Path: "user", URI: "v/p.html", Span: span.New(0, 3, 0, 7),
	})

	r := New(ix)
	res, ok := r.Resolve("v/p.html", 0, 5)
	require.True(t, ok)
	assert.Equal(t, "P.$scope.user", res.Name)
}

// TestRootScopeShadowedByScopeProperty is spec scenario/property 7: when
// both Ctrl.$scope.x and <module>.$rootScope.x exist, a reference to x
// inside Ctrl resolves to the $scope symbol.
func TestRootScopeShadowedByScopeProperty(t *testing.T) {
	ix := index.New()

	ix.Controllers.AddHTML(model.HtmlControllerScope{
		ControllerName: "MainCtrl", URI: "p.html", StartLine: 0, EndLine: 10,
	})
	ix.Controllers.AddJS(model.ControllerScope{
		ControllerName: "MainCtrl", ModuleName: "app", URI: "main.js", StartLine: 0, EndLine: 5,
	})
	ix.AddDefinition(model.Symbol{Name: "MainCtrl.$scope.x", URI: "main.js", NameSpan: span.New(1, 0, 1, 1)})
	ix.AddDefinition(model.Symbol{Name: "app.$rootScope.x", URI: "main.js", NameSpan: span.New(2, 0, 2, 1)})
	ix.HTML.AddScopeReference(model.HtmlScopeReference{Path: "x", URI: "p.html", Span: span.New(5, 0, 5, 1)})

	r := New(ix)
	res, ok := r.Resolve("p.html", 5, 0)
	require.True(t, ok)
	assert.Equal(t, "MainCtrl.$scope.x", res.Name)
}

// TestNgIncludeResolvesInheritedScopeAcrossDirectories is spec scenario
// S5 exercised with a realistic workspace layout: the parent and child
// templates live under a shared "views/" directory rather than at bare
// filenames, confirming InheritedContextForChild's TemplatePath/
// ResolvedFilename match holds once both carry directory-qualified URIs.
func TestNgIncludeResolvesInheritedScopeAcrossDirectories(t *testing.T) {
	ix := index.New()

	ix.Controllers.AddHTML(model.HtmlControllerScope{
		ControllerName: "Outer", URI: "views/outer.html", StartLine: 0, EndLine: 20,
	})
	ix.Controllers.AddJS(model.ControllerScope{
		ControllerName: "Outer", ModuleName: "app", URI: "views/outer.js", StartLine: 0, EndLine: 5,
	})
	ix.AddDefinition(model.Symbol{Name: "Outer.$scope.msg", URI: "views/outer.js", NameSpan: span.New(1, 0, 1, 1)})

	ix.Templates.AddNgIncludeBinding(model.NgIncludeBinding{
		ParentURI:        "views/outer.html",
		TemplatePath:     "views/c.html",
		ResolvedFilename: "views/c.html",
		Inherited: model.InheritedContext{
			Controllers: []model.HtmlControllerScope{{
				ControllerName: "Outer", URI: "views/outer.html", StartLine: 0, EndLine: 20,
			}},
		},
	})

	ix.HTML.AddScopeReference(model.HtmlScopeReference{
		Path: "msg", URI: "views/c.html", Span: span.New(2, 0, 2, 3),
	})

	r := New(ix)
	res, ok := r.Resolve("views/c.html", 2, 1)
	require.True(t, ok)
	assert.Equal(t, "Outer.$scope.msg", res.Name)
}

// TestControllerAsAliasResolution checks `vm.prop` resolves through a
// controller-as alias to the controller's $scope property.
func TestControllerAsAliasResolution(t *testing.T) {
	ix := index.New()

	ix.Controllers.AddHTML(model.HtmlControllerScope{
		ControllerName: "MainCtrl", Alias: "vm", HasAlias: true, URI: "p.html", StartLine: 0, EndLine: 10,
	})
	ix.AddDefinition(model.Symbol{Name: "MainCtrl.$scope.name", URI: "main.js", NameSpan: span.New(1, 0, 1, 1)})
	ix.HTML.AddScopeReference(model.HtmlScopeReference{Path: "vm.name", URI: "p.html", Span: span.New(5, 0, 5, 7)})

	r := New(ix)
	res, ok := r.Resolve("p.html", 5, 3)
	require.True(t, ok)
	assert.Equal(t, "MainCtrl.$scope.name", res.Name)
}
