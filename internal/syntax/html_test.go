package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLParserBasicWalk(t *testing.T) {
	p := NewHTMLParser()
	defer p.Close()

	src := []byte(`<div ng-controller="MainCtrl"><span ng-bind="name"></span></div>`)
	tree := p.Parse(src)
	defer tree.Close()

	root := tree.RootNode()
	require.NotNil(t, root)
	assert.Equal(t, "document", root.Kind())
	assert.Greater(t, root.NamedChildCount(), 0)
}

func TestHTMLParserTextSlicesSource(t *testing.T) {
	p := NewHTMLParser()
	defer p.Close()

	src := []byte(`<p>hello</p>`)
	tree := p.Parse(src)
	defer tree.Close()

	assert.Equal(t, src, tree.RootNode().Text())
}

func TestHTMLParserFindsElementByKind(t *testing.T) {
	p := NewHTMLParser()
	defer p.Close()

	src := []byte(`<div><input ng-model="user.name"/></div>`)
	tree := p.Parse(src)
	defer tree.Close()

	var found bool
	var visit func(n Node)
	visit = func(n Node) {
		if n == nil {
			return
		}
		if n.Kind() == "element" || n.Kind() == "self_closing_tag" {
			found = true
		}
		for i := 0; i < n.NamedChildCount(); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(tree.RootNode())
	assert.True(t, found, "expected to find an element node")
}
