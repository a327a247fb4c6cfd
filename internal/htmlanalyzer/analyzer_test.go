package htmlanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer()
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func parseHTML(src string) syntax.Tree {
	p := syntax.NewHTMLParser()
	return p.Parse([]byte(src))
}

func TestNgControllerScopeRecorded(t *testing.T) {
	src := `<div ng-controller="MainCtrl as vm"><p>{{ vm.name }}</p></div>`
	tree := parseHTML(src)
	defer tree.Close()
	ix := index.New()
	a := newAnalyzer(t)

	a.AnalyzeFull(tree, "p.html", []byte(src), ix)

	scopes := ix.Controllers.HTMLScopesInURI("p.html")
	require.Len(t, scopes, 1)
	assert.Equal(t, "MainCtrl", scopes[0].ControllerName)
	assert.True(t, scopes[0].HasAlias)
	assert.Equal(t, "vm", scopes[0].Alias)
}

// TestNgIncludeBindingCarriesParentController covers the parent side of
// spec scenario S5: analyzing the parent records an ng-include binding for
// the child template that carries the enclosing controller's context.
func TestNgIncludeBindingCarriesParentController(t *testing.T) {
	parentSrc := `<div ng-controller="Outer"><ng-include src="'c.html'"></ng-include></div>`
	tree := parseHTML(parentSrc)
	defer tree.Close()
	ix := index.New()
	a := newAnalyzer(t)

	a.AnalyzeFull(tree, "p.html", []byte(parentSrc), ix)

	bindings := ix.Templates.NgIncludeBindingsForURI("p.html")
	require.Len(t, bindings, 1)
	assert.Equal(t, "c.html", bindings[0].TemplatePath)
	require.Len(t, bindings[0].Inherited.Controllers, 1)
	assert.Equal(t, "Outer", bindings[0].Inherited.Controllers[0].ControllerName)
}

func TestNgRepeatLocalVariableCollected(t *testing.T) {
	src := `<ul><li ng-repeat="item in items">{{ item.name }}</li></ul>`
	tree := parseHTML(src)
	defer tree.Close()
	ix := index.New()
	a := newAnalyzer(t)

	a.AnalyzeFull(tree, "p.html", []byte(src), ix)

	locals := ix.HTML.LocalVariables("p.html")
	require.Len(t, locals, 1)
	assert.Equal(t, "item", locals[0].Name)

	refs := ix.HTML.LocalVariableReferences("p.html")
	require.Len(t, refs, 1)
	assert.Equal(t, "item", refs[0].Name)
}

// TestDirectiveKebabUsageRecorded is spec scenario S6: both an
// element-name and attribute-name usage of a custom directive are
// recorded, normalized to camelCase.
func TestDirectiveKebabUsageRecorded(t *testing.T) {
	src := `<my-widget></my-widget><div my-widget></div>`
	tree := parseHTML(src)
	defer tree.Close()
	ix := index.New()
	a := newAnalyzer(t)

	a.AnalyzeFull(tree, "p.html", []byte(src), ix)

	refs := ix.HTML.DirectiveReferences("p.html")
	var elementUsages, attrUsages int
	for _, r := range refs {
		if r.Name != "myWidget" {
			continue
		}
		if r.Usage == model.UsageElement {
			elementUsages++
		} else {
			attrUsages++
		}
	}
	assert.Equal(t, 1, elementUsages)
	assert.Equal(t, 1, attrUsages)
}

func TestFormBindingScopedToController(t *testing.T) {
	src := `<div ng-controller="MainCtrl"><form name="myForm"></form></div>`
	tree := parseHTML(src)
	defer tree.Close()
	ix := index.New()
	a := newAnalyzer(t)

	a.AnalyzeFull(tree, "p.html", []byte(src), ix)

	forms := ix.HTML.FormBindings("p.html")
	require.Len(t, forms, 1)
	assert.Equal(t, "myForm", forms[0].FormName)
	assert.Equal(t, 0, forms[0].ScopeSpan.StartLine)
}
