package htmlanalyzer

import (
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// angularPseudoVars are never scope references (§4.5 expression parsing
// policy).
var angularPseudoVars = map[string]bool{
	"$index": true, "$first": true, "$last": true, "$middle": true,
	"$odd": true, "$even": true, "$id": true, "$parent": true, "$root": true,
	"true": true, "false": true, "null": true, "undefined": true, "this": true,
}

// stripFilters removes AngularJS filter syntax (a top-level `|`, not
// `||`) from an expression, keeping only the left-hand operand.
func stripFilters(expr string) string {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '|':
			if depth == 0 && (i+1 >= len(expr) || expr[i+1] != '|') && (i == 0 || expr[i-1] != '|') {
				return b.String()
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// scopeRefCandidate is one identifier or dotted-path occurrence found in
// an expression, with its position relative to the start of the parsed
// expression string (line/col offsets are applied by the caller).
type scopeRefCandidate struct {
	path string
	row  uint
	col  uint
}

// collectExpressionRefs parses expr (already filter-stripped) as a JS
// expression with parser and returns every bare-identifier and dotted
// member-chain occurrence, skipping names in skip (local/iterator vars
// and Angular pseudo-variables) — §4.5 "For a member expression a.b,
// record BOTH a.b and a as scope references".
func collectExpressionRefs(expr string, parser *syntax.JSParser, skip map[string]bool) []scopeRefCandidate {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	tree := parser.Parse([]byte(expr))
	defer tree.Close()
	root := tree.RootNode()
	if root == nil {
		return nil
	}

	var out []scopeRefCandidate
	walk(root, func(n syntax.Node) bool {
		switch n.Kind() {
		case "member_expression":
			if path, ok := memberChainText(n); ok {
				row, col := n.StartPoint()
				out = append(out, scopeRefCandidate{path: path, row: row, col: col})
				root := rootOfChain(n)
				if root != "" && !skip[root] && !angularPseudoVars[root] && root != path {
					rrow, rcol := chainRootPoint(n)
					out = append(out, scopeRefCandidate{path: root, row: rrow, col: rcol})
				}
				return false
			}
			return true
		case "identifier":
			name := text(n)
			if skip[name] || angularPseudoVars[name] {
				return true
			}
			row, col := n.StartPoint()
			out = append(out, scopeRefCandidate{path: name, row: row, col: col})
			return true
		}
		return true
	})
	return out
}

// memberChainText flattens a member_expression made entirely of
// identifier/member_expression nodes into its dotted text, e.g.
// "vm.user.name". Returns ok=false for computed access or non-identifier
// roots (e.g. `users[0]`, `a().b`), which are left to identifier-level
// collection instead.
func memberChainText(n syntax.Node) (string, bool) {
	var parts []string
	cur := n
	for cur != nil && cur.Kind() == "member_expression" {
		prop := cur.ChildByFieldName("property")
		if prop == nil || prop.Kind() != "property_identifier" {
			return "", false
		}
		parts = append([]string{text(prop)}, parts...)
		cur = cur.ChildByFieldName("object")
	}
	if cur == nil || cur.Kind() != "identifier" {
		return "", false
	}
	parts = append([]string{text(cur)}, parts...)
	return strings.Join(parts, "."), true
}

func rootOfChain(n syntax.Node) string {
	cur := n
	for cur != nil && cur.Kind() == "member_expression" {
		cur = cur.ChildByFieldName("object")
	}
	if cur == nil || cur.Kind() != "identifier" {
		return ""
	}
	return text(cur)
}

func chainRootPoint(n syntax.Node) (uint, uint) {
	cur := n
	for cur != nil && cur.Kind() == "member_expression" {
		cur = cur.ChildByFieldName("object")
	}
	if cur == nil {
		return n.StartPoint()
	}
	return cur.StartPoint()
}
