package syntax

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// jsNode wraps the official tree-sitter binding's node type, the same one
// the teacher already exercises in internal/tree_sitter_helper.
type jsNode struct {
	n       *tree_sitter.Node
	content []byte
}

func wrapJS(n *tree_sitter.Node, content []byte) Node {
	if n == nil {
		return nil
	}
	return jsNode{n: n, content: content}
}

func (j jsNode) Kind() string { return j.n.Kind() }

func (j jsNode) StartByte() uint { return uint(j.n.StartByte()) }
func (j jsNode) EndByte() uint   { return uint(j.n.EndByte()) }

func (j jsNode) StartPoint() (row, col uint) {
	p := j.n.Range().StartPoint
	return uint(p.Row), uint(p.Column)
}

func (j jsNode) EndPoint() (row, col uint) {
	p := j.n.Range().EndPoint
	return uint(p.Row), uint(p.Column)
}

func (j jsNode) NamedChildCount() int { return int(j.n.NamedChildCount()) }

func (j jsNode) NamedChild(i int) Node {
	return wrapJS(j.n.NamedChild(uint(i)), j.content)
}

func (j jsNode) ChildByFieldName(name string) Node {
	return wrapJS(j.n.ChildByFieldName(name), j.content)
}

func (j jsNode) Parent() Node {
	return wrapJS(j.n.Parent(), j.content)
}

func (j jsNode) Text() []byte {
	return j.n.Utf8Text(j.content)
}

func (j jsNode) IsError() bool {
	return j.n.IsError() || j.n.IsMissing()
}

// jsTree holds the underlying tree alongside the source it was parsed
// from, since Utf8Text needs the original bytes on every node access.
type jsTree struct {
	tree    *tree_sitter.Tree
	content []byte
}

func (t jsTree) RootNode() Node {
	root := t.tree.RootNode()
	return wrapJS(&root, t.content)
}

func (t jsTree) Close() { t.tree.Close() }

// JSParser parses JavaScript source with the official tree-sitter
// binding and the tree-sitter-javascript grammar.
type JSParser struct {
	parser *tree_sitter.Parser
}

// NewJSParser builds a ready-to-use JS parser. Callers must Close it.
func NewJSParser() (*JSParser, error) {
	parser := tree_sitter.NewParser()
	lang := tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	if err := parser.SetLanguage(lang); err != nil {
		return nil, err
	}
	return &JSParser{parser: parser}, nil
}

func (p *JSParser) Parse(source []byte) Tree {
	tree := p.parser.Parse(source, nil)
	return jsTree{tree: tree, content: source}
}

func (p *JSParser) Close() { p.parser.Close() }
