// Package jsanalyzer is the two-pass JS analyzer (§4.4): it walks a
// parsed JS tree and recognizes AngularJS registration patterns, DI
// arrays, $inject assignments, $scope/$rootScope property assignments,
// and route/state/modal configs, populating the Index.
package jsanalyzer

import (
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
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

// spanOf converts a node's range to a Span, applying the embedded-script
// line offset (§4.4: "with a line offset added to every recorded
// position" for <script> blocks extracted from HTML).
func spanOf(n syntax.Node, lineOffset int) span.Span {
	s := syntax.Span(n)
	s.StartLine += lineOffset
	s.EndLine += lineOffset
	return s
}

// text returns n's source text, or "" for a nil node.
func text(n syntax.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return string(n.Text())
}

// stringLiteralText extracts the quoted text of a `string` node (its
// `string_fragment` child), or "" for an empty string literal with no
// fragment child.
func stringLiteralText(n syntax.Node, content []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	if n.Kind() != "string" && n.Kind() != "template_string" {
		return "", false
	}
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() == "string_fragment" {
			return text(c, content), true
		}
	}
	return "", true
}

// callee returns the member_expression's object and property-name text
// for a call_expression node, e.g. for `angular.module(...)` returns
// (identifier "angular", "module", true).
func callee(callExpr syntax.Node, content []byte) (object syntax.Node, property string, ok bool) {
	if callExpr == nil || callExpr.Kind() != "call_expression" {
		return nil, "", false
	}
	fn := callExpr.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "member_expression" {
		return nil, "", false
	}
	prop := fn.ChildByFieldName("property")
	if prop == nil {
		return nil, "", false
	}
	return fn.ChildByFieldName("object"), text(prop, content), true
}

// callArgs returns the positional argument nodes of a call_expression.
func callArgs(callExpr syntax.Node) []syntax.Node {
	if callExpr == nil {
		return nil
	}
	args := callExpr.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	out := make([]syntax.Node, 0, args.NamedChildCount())
	for i := 0; i < args.NamedChildCount(); i++ {
		out = append(out, args.NamedChild(i))
	}
	return out
}

// objectRootIdentifier returns the root identifier of a
// member_expression/call_expression chain, e.g. `$routeProvider` ->
// "$routeProvider" or `angular.module('app')` -> "angular".
func objectRootIdentifier(n syntax.Node, content []byte) (string, bool) {
	for n != nil {
		switch n.Kind() {
		case "identifier":
			return text(n, content), true
		case "member_expression":
			n = n.ChildByFieldName("object")
		case "call_expression":
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return "", false
			}
			n = fn
		default:
			return "", false
		}
	}
	return "", false
}
