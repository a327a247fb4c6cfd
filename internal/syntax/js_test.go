package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSParserBasicWalk(t *testing.T) {
	p, err := NewJSParser()
	require.NoError(t, err)
	defer p.Close()

	src := []byte(`angular.module('app', []).controller('MainCtrl', function($scope) {});`)
	tree := p.Parse(src)
	defer tree.Close()

	root := tree.RootNode()
	require.NotNil(t, root)
	assert.Equal(t, "program", root.Kind())
	assert.Greater(t, root.NamedChildCount(), 0)
	assert.False(t, root.IsError())
}

func TestJSParserTextSlicesSource(t *testing.T) {
	p, err := NewJSParser()
	require.NoError(t, err)
	defer p.Close()

	src := []byte(`var x = 1;`)
	tree := p.Parse(src)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, src, root.Text())
}

func TestJSParserDetectsErrorNode(t *testing.T) {
	p, err := NewJSParser()
	require.NoError(t, err)
	defer p.Close()

	src := []byte(`function( { {{{ broken`)
	tree := p.Parse(src)
	defer tree.Close()

	var found bool
	var visit func(n Node)
	visit = func(n Node) {
		if n == nil {
			return
		}
		if n.IsError() {
			found = true
			return
		}
		for i := 0; i < n.NamedChildCount(); i++ {
			visit(n.NamedChild(i))
			if found {
				return
			}
		}
	}
	visit(tree.RootNode())
	assert.True(t, found, "expected at least one error node in malformed source")
}
