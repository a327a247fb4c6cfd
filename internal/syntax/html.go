package syntax

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
)

// htmlNode wraps smacker/go-tree-sitter's node type. This binding (rather
// than the official tree-sitter/go-tree-sitter used for JS) is the one the
// pack exercises for HTML parsing (see jinterlante1206-AleutianLocal's
// ast.HTMLParser), so it's adopted here for the HTML grammar specifically.
type htmlNode struct {
	n       *sitter.Node
	content []byte
}

func wrapHTML(n *sitter.Node, content []byte) Node {
	if n == nil {
		return nil
	}
	return htmlNode{n: n, content: content}
}

func (h htmlNode) Kind() string { return h.n.Type() }

func (h htmlNode) StartByte() uint { return uint(h.n.StartByte()) }
func (h htmlNode) EndByte() uint   { return uint(h.n.EndByte()) }

func (h htmlNode) StartPoint() (row, col uint) {
	p := h.n.StartPoint()
	return uint(p.Row), uint(p.Column)
}

func (h htmlNode) EndPoint() (row, col uint) {
	p := h.n.EndPoint()
	return uint(p.Row), uint(p.Column)
}

func (h htmlNode) NamedChildCount() int { return int(h.n.NamedChildCount()) }

func (h htmlNode) NamedChild(i int) Node {
	return wrapHTML(h.n.NamedChild(i), h.content)
}

func (h htmlNode) ChildByFieldName(name string) Node {
	return wrapHTML(h.n.ChildByFieldName(name), h.content)
}

func (h htmlNode) Parent() Node {
	return wrapHTML(h.n.Parent(), h.content)
}

func (h htmlNode) Text() []byte {
	return []byte(h.n.Content(h.content))
}

func (h htmlNode) IsError() bool {
	return h.n.IsError() || h.n.IsMissing()
}

type htmlTree struct {
	tree    *sitter.Tree
	content []byte
}

func (t htmlTree) RootNode() Node {
	if t.tree == nil {
		return nil
	}
	return wrapHTML(t.tree.RootNode(), t.content)
}

func (t htmlTree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

// HTMLParser parses HTML source with smacker/go-tree-sitter's html grammar.
type HTMLParser struct {
	parser *sitter.Parser
}

// NewHTMLParser builds a ready-to-use HTML parser. Callers must Close it.
func NewHTMLParser() *HTMLParser {
	parser := sitter.NewParser()
	parser.SetLanguage(html.GetLanguage())
	return &HTMLParser{parser: parser}
}

func (p *HTMLParser) Parse(source []byte) Tree {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return htmlTree{tree: nil, content: source}
	}
	return htmlTree{tree: tree, content: source}
}

func (p *HTMLParser) Close() {}
