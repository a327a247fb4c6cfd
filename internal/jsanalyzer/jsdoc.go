package jsanalyzer

import (
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// statementContainerKinds are the node kinds whose named children are
// themselves statements — finding one means we've walked one level too
// far up from the actual enclosing statement.
var statementContainerKinds = map[string]bool{
	"program":         true,
	"statement_block":  true,
	"class_body":      true,
}

// jsdocFor finds the nearest preceding `/** ... */` comment attached to
// the statement containing n and returns its cleaned text, or "" if
// none is found (§4.4). Grounded on the teacher's own
// findPreviousComment (internal/twig/parser.go): walk to the parent,
// scan its named children for the matching sibling, then look
// backwards for a comment.
func jsdocFor(n syntax.Node, content []byte, lineOffset int) string {
	stmt := enclosingStatement(n)
	if stmt == nil {
		return ""
	}
	parent := stmt.Parent()
	if parent == nil {
		return ""
	}

	idx := -1
	for i := 0; i < parent.NamedChildCount(); i++ {
		c := parent.NamedChild(i)
		if c.StartByte() == stmt.StartByte() && c.EndByte() == stmt.EndByte() {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return ""
	}
	prev := parent.NamedChild(idx - 1)
	if prev == nil || prev.Kind() != "comment" {
		return ""
	}
	raw := text(prev, content)
	if !strings.HasPrefix(raw, "/**") {
		return ""
	}
	return cleanJSDoc(raw)
}

// enclosingStatement walks up from n to the node whose parent is a
// statement-container (program/statement_block/class_body) — i.e. n's
// nearest statement-level ancestor (or n itself if it already is one).
func enclosingStatement(n syntax.Node) syntax.Node {
	cur := n
	for cur != nil {
		p := cur.Parent()
		if p == nil {
			return cur
		}
		if statementContainerKinds[p.Kind()] {
			return cur
		}
		cur = p
	}
	return nil
}

// cleanJSDoc strips the /** */ delimiters and leading " * " on each line.
func cleanJSDoc(raw string) string {
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimSuffix(raw, "*/")
	lines := strings.Split(raw, "\n")
	var out []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
