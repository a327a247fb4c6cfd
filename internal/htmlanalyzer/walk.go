// Package htmlanalyzer is the four-pass HTML analyzer (§4.5): it walks a
// parsed HTML tree in ordered passes, recognizing ng-controller scopes,
// ng-include/ng-view inheritance edges, form bindings, and AngularJS
// expression references in directive attributes and interpolations.
package htmlanalyzer

import (
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
	"github.com/angularjs-lsp/angularjs-lsp/internal/util"
)

// walk calls visit(n) for every node in the subtree rooted at n,
// pre-order, stopping descent wherever visit returns false.
func walk(n syntax.Node, visit func(syntax.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for i := 0; i < n.NamedChildCount(); i++ {
		walk(n.NamedChild(i), visit)
	}
}

// spanUtf16 converts a node's byte-column range into a Span whose
// columns are UTF-16 code units, as LSP requires (§4.5 "all passes
// convert byte columns to UTF-16 code-unit columns at the boundary").
func spanUtf16(n syntax.Node, content []byte) span.Span {
	s := syntax.Span(n)
	s.StartCol = util.Utf16Column(util.LineText(content, s.StartLine), s.StartCol)
	s.EndCol = util.Utf16Column(util.LineText(content, s.EndLine), s.EndCol)
	return s
}

func text(n syntax.Node) string {
	if n == nil {
		return ""
	}
	return string(n.Text())
}

// isTag reports whether n is a start_tag or self_closing_tag node.
func isTag(n syntax.Node) bool {
	return n != nil && (n.Kind() == "start_tag" || n.Kind() == "self_closing_tag")
}

// tagName returns the tag_name child's text for a start/self_closing tag.
func tagName(tag syntax.Node) string {
	for i := 0; i < tag.NamedChildCount(); i++ {
		c := tag.NamedChild(i)
		if c.Kind() == "tag_name" {
			return text(c)
		}
	}
	return ""
}

// attr is a single parsed attribute: its name, raw value (unquoted), and
// the span of the value (or the whole attribute if it has no value).
type attr struct {
	name      string
	value     string
	hasValue  bool
	nameNode  syntax.Node
	valueNode syntax.Node
}

// attrs returns every attribute on a start/self_closing tag node.
func attrs(tag syntax.Node) []attr {
	var out []attr
	for i := 0; i < tag.NamedChildCount(); i++ {
		c := tag.NamedChild(i)
		if c.Kind() != "attribute" {
			continue
		}
		var a attr
		for j := 0; j < c.NamedChildCount(); j++ {
			gc := c.NamedChild(j)
			switch gc.Kind() {
			case "attribute_name":
				a.name = text(gc)
				a.nameNode = gc
			case "quoted_attribute_value":
				a.hasValue = true
				a.valueNode = gc
				a.value = unquote(gc)
			case "attribute_value":
				a.hasValue = true
				a.valueNode = gc
				a.value = text(gc)
			}
		}
		if a.name != "" {
			out = append(out, a)
		}
	}
	return out
}

// unquote extracts a quoted_attribute_value's inner attribute_value
// child text if present, falling back to stripping surrounding quote
// characters from the raw text.
func unquote(n syntax.Node) string {
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() == "attribute_value" {
			return text(c)
		}
	}
	raw := text(n)
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

// findAttr returns the attribute named name (exact, case-sensitive match
// on either the plain or the "data-" prefixed form), or ok=false.
func findAttr(tag syntax.Node, name string) (attr, bool) {
	for _, a := range attrs(tag) {
		if a.name == name || a.name == "data-"+name {
			return a, true
		}
	}
	return attr{}, false
}

// elementOf returns the owning element node for a start/self_closing
// tag — its parent, when that parent is an "element" node.
func elementOf(tag syntax.Node) syntax.Node {
	p := tag.Parent()
	if p != nil && (p.Kind() == "element" || p.Kind() == "script_element") {
		return p
	}
	return tag
}
