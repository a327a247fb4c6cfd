package htmlanalyzer

import (
	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// formWalker re-traverses with the same controller-stack discipline as
// Pass 1.5 and inserts HtmlFormBinding entries into the Index, scoped to
// the enclosing controller (§4.5 Pass 2).
type formWalker struct {
	uri     string
	content []byte
	ix      *index.Index
	ctrlStack []model.HtmlControllerScope
}

func pass2(root syntax.Node, uri string, content []byte, ix *index.Index) {
	w := &formWalker{uri: uri, content: content, ix: ix}
	w.recurse(root)
}

func (w *formWalker) recurse(n syntax.Node) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "element", "self_closing_tag":
		w.visitTagged(n)
	default:
		for i := 0; i < n.NamedChildCount(); i++ {
			w.recurse(n.NamedChild(i))
		}
	}
}

func (w *formWalker) visitTagged(n syntax.Node) {
	tag := n
	if n.Kind() == "element" {
		tag = startTagChild(n)
	}
	if tag == nil {
		for i := 0; i < n.NamedChildCount(); i++ {
			w.recurse(n.NamedChild(i))
		}
		return
	}

	pushed := w.pushController(n, tag)
	w.finalizeForm(n, tag)

	for i := 0; i < n.NamedChildCount(); i++ {
		w.recurse(n.NamedChild(i))
	}

	if pushed {
		w.ctrlStack = w.ctrlStack[:len(w.ctrlStack)-1]
	}
}

func (w *formWalker) pushController(el, tag syntax.Node) bool {
	a, ok := findAttr(tag, "ng-controller")
	if !ok || !a.hasValue {
		return false
	}
	name, alias, hasAlias := parseControllerAs(a.value)
	if name == "" {
		return false
	}
	elSpan := spanUtf16(el, w.content)
	w.ctrlStack = append(w.ctrlStack, model.HtmlControllerScope{
		ControllerName: name,
		Alias:          alias,
		HasAlias:       hasAlias,
		URI:            w.uri,
		StartLine:      elSpan.StartLine,
		EndLine:        elSpan.EndLine,
	})
	return true
}

func (w *formWalker) finalizeForm(el, tag syntax.Node) {
	if tagName(tag) != "form" {
		return
	}
	a, ok := findAttr(tag, "name")
	if !ok || !a.hasValue || !isStaticIdentifier(a.value) {
		return
	}
	scope := spanUtf16(el, w.content)
	if len(w.ctrlStack) > 0 {
		c := w.ctrlStack[len(w.ctrlStack)-1]
		scope.StartLine, scope.EndLine = c.StartLine, c.EndLine
	}
	w.ix.HTML.AddFormBinding(model.HtmlFormBinding{
		FormName:  a.value,
		URI:       w.uri,
		ScopeSpan: scope,
		NameSpan:  spanUtf16(a.valueNode, w.content),
	})
}
