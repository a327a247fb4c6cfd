package htmlanalyzer

import (
	"regexp"
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// controllerAsPattern matches `Ctrl as alias` in an ng-controller value.
var controllerAsPattern = regexp.MustCompile(`^\s*(\w+)\s+as\s+(\w+)\s*$`)

// pass1 visits every element's start tag; on an ng-controller /
// data-ng-controller attribute it records an HtmlControllerScope for the
// element's line range and a Reference to the controller name (§4.5
// Pass 1).
func pass1(root syntax.Node, uri string, content []byte, ix *index.Index) {
	walk(root, func(n syntax.Node) bool {
		if !isTag(n) {
			return true
		}
		a, ok := findAttr(n, "ng-controller")
		if !ok || !a.hasValue {
			return true
		}
		name, alias, hasAlias := parseControllerAs(a.value)
		if name == "" {
			return true
		}

		el := elementOf(n)
		elSpan := spanUtf16(el, content)
		ix.Controllers.AddHTML(model.HtmlControllerScope{
			ControllerName: name,
			Alias:          alias,
			HasAlias:       hasAlias,
			URI:            uri,
			StartLine:      elSpan.StartLine,
			EndLine:        elSpan.EndLine,
		})

		if a.valueNode != nil {
			nameSpan := attrValueNameSpan(a, content, name)
			ix.AddReference(model.SymbolReference{Name: name, URI: uri, Span: nameSpan})
		}
		return true
	})
}

func parseControllerAs(value string) (name, alias string, hasAlias bool) {
	if m := controllerAsPattern.FindStringSubmatch(value); m != nil {
		return m[1], m[2], true
	}
	return strings.TrimSpace(value), "", false
}

// attrValueNameSpan returns the span of name within an attribute value
// node, assuming the controller name starts the value text (it always
// does for both `"Ctrl"` and `"Ctrl as alias"`).
func attrValueNameSpan(a attr, content []byte, name string) span.Span {
	sp := spanUtf16(a.valueNode, content)
	sp.EndLine = sp.StartLine
	sp.EndCol = sp.StartCol + len(name)
	return sp
}
