// Package syntax is the syntax adapter (spec §4.1): it exposes parsed
// source files as an abstract tree that the analyzers and the Index
// depend on, without leaking a specific tree-sitter binding's node type
// into the rest of the core. Two concrete grammars back it today — JS
// (github.com/tree-sitter/go-tree-sitter + tree-sitter-javascript) and
// HTML (github.com/smacker/go-tree-sitter + its html grammar) — chosen
// because those are the two tree-sitter bindings the pack this module
// was grounded on actually exercises for JS and HTML source.
package syntax

import "github.com/angularjs-lsp/angularjs-lsp/internal/span"

// Node is the minimal surface the analyzers need from a parsed tree:
// kind, byte range, row/col range, ordered named children, and
// field-based child lookup. Both backends (JS, HTML) implement it.
type Node interface {
	Kind() string
	StartByte() uint
	EndByte() uint
	StartPoint() (row, col uint)
	EndPoint() (row, col uint)
	NamedChildCount() int
	NamedChild(i int) Node
	ChildByFieldName(name string) Node
	// Parent returns the enclosing node, or nil at the root. Used by
	// JSDoc lookup to find a preceding comment sibling, the same
	// parent-then-scan-siblings idiom the teacher's twig parser uses.
	Parent() Node
	// Text slices the original source by this node's byte range.
	Text() []byte
	// IsError reports whether this is a tree-sitter ERROR/MISSING node.
	// Analyzers skip these nodes rather than failing the file (§4.1,
	// §7 ParseError).
	IsError() bool
}

// Span converts a Node's row/col range into the core's Span type. JS
// columns are the tree's native column units (bytes); callers that need
// UTF-16 columns for HTML translate at collection time (see
// internal/htmlanalyzer), per the spec's UTF-16 boundary rule.
func Span(n Node) span.Span {
	sr, sc := n.StartPoint()
	er, ec := n.EndPoint()
	return span.New(int(sr), int(sc), int(er), int(ec))
}

// Tree is an immutable parsed syntax tree with a single root. The tree
// is consumed inside one analyzer invocation and then Close()d; the
// HTML four-pass discipline re-walks the same Tree instead of
// re-parsing per pass.
type Tree interface {
	RootNode() Node
	Close()
}

// Parser parses a byte buffer for one grammar into a Tree. Implementers
// tolerate unparsable input by producing error nodes rather than failing
// (spec §4.1).
type Parser interface {
	Parse(source []byte) Tree
	Close()
}
