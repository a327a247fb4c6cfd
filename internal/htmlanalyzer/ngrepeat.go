package htmlanalyzer

import (
	"regexp"
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// ngRepeatPattern matches `item in xs`, `(k, v) in xs`, with an optional
// `track by ...` trailer.
var ngRepeatPattern = regexp.MustCompile(`^\s*(?:\(\s*(\w+)\s*,\s*(\w+)\s*\)|(\w+))\s+in\s+(.+?)(?:\s+track\s+by\s+.+)?$`)

// parseNgRepeat extracts the iteration variable name(s) and the
// collection expression from an ng-repeat attribute value.
func parseNgRepeat(value string) (vars []string, collection string, ok bool) {
	m := ngRepeatPattern.FindStringSubmatch(value)
	if m == nil {
		return nil, "", false
	}
	if m[1] != "" || m[2] != "" {
		vars = []string{m[1], m[2]}
	} else {
		vars = []string{m[3]}
	}
	return vars, strings.TrimSpace(m[4]), true
}

// ngInitAssignment is one `name = expr` statement from an ng-init value.
type ngInitAssignment struct {
	name string
	row  uint
	col  uint
}

// parseNgInit parses an ng-init value (e.g. "a = 1; b = 2") as a JS
// program and returns the locals it introduces, in source order.
func parseNgInit(value string, parser *syntax.JSParser) []ngInitAssignment {
	tree := parser.Parse([]byte(value))
	defer tree.Close()
	root := tree.RootNode()
	if root == nil {
		return nil
	}
	var out []ngInitAssignment
	walk(root, func(n syntax.Node) bool {
		if n.Kind() != "assignment_expression" {
			return true
		}
		left := n.ChildByFieldName("left")
		if left == nil || left.Kind() != "identifier" {
			return true
		}
		row, col := left.StartPoint()
		out = append(out, ngInitAssignment{name: text(left), row: row, col: col})
		return false
	})
	return out
}
