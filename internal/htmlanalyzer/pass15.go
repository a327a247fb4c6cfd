package htmlanalyzer

import (
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
	"github.com/angularjs-lsp/angularjs-lsp/internal/util"
)

// stackWalker carries the live controller/local-var/form stacks used by
// Pass 1.5 and Pass 2 (§4.5): entering an element with ng-controller
// pushes a frame, entering ng-repeat/ng-init pushes locals, leaving pops
// everything pushed at that depth together.
type stackWalker struct {
	uri     string
	content []byte
	ix      *index.Index
	jsp     *syntax.JSParser

	ctrlStack  []model.HtmlControllerScope
	localStack []model.HtmlLocalVariable
	formStack  []model.HtmlFormBinding
}

// pass15 records NgIncludeBinding and NgViewBinding carrying snapshots of
// the live stacks at each include/view site (§4.5 Pass 1.5).
func pass15(root syntax.Node, uri string, content []byte, ix *index.Index, jsp *syntax.JSParser) {
	w := &stackWalker{uri: uri, content: content, ix: ix, jsp: jsp}
	w.recurse(root)
}

func (w *stackWalker) recurse(n syntax.Node) {
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

func (w *stackWalker) visitTagged(n syntax.Node) {
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

	poppedCtrl := w.pushController(n, tag)
	poppedLocals := w.pushLocals(tag)
	poppedForm := w.pushForm(n, tag)

	w.checkNgInclude(n, tag)
	w.checkNgView(tag)

	for i := 0; i < n.NamedChildCount(); i++ {
		w.recurse(n.NamedChild(i))
	}

	if poppedCtrl {
		w.ctrlStack = w.ctrlStack[:len(w.ctrlStack)-1]
	}
	if poppedLocals > 0 {
		w.localStack = w.localStack[:len(w.localStack)-poppedLocals]
	}
	if poppedForm {
		w.formStack = w.formStack[:len(w.formStack)-1]
	}
}

func (w *stackWalker) pushController(el, tag syntax.Node) bool {
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

func (w *stackWalker) pushLocals(tag syntax.Node) int {
	count := 0
	if a, ok := findAttr(tag, "ng-repeat"); ok && a.hasValue {
		if vars, _, ok := parseNgRepeat(a.value); ok {
			base := spanUtf16(a.valueNode, w.content)
			for _, v := range vars {
				if v == "" {
					continue
				}
				w.localStack = append(w.localStack, model.HtmlLocalVariable{
					Name: v, Source: model.SourceNgRepeatIterator, URI: w.uri,
					NameSpan: base, ScopeSpan: base,
				})
				count++
			}
		}
	}
	if a, ok := findAttr(tag, "ng-init"); ok && a.hasValue {
		base := spanUtf16(a.valueNode, w.content)
		for _, asn := range parseNgInit(a.value, w.jsp) {
			w.localStack = append(w.localStack, model.HtmlLocalVariable{
				Name: asn.name, Source: model.SourceNgInit, URI: w.uri,
				NameSpan: base, ScopeSpan: base,
			})
			count++
		}
	}
	return count
}

// pushForm pushes a pending form-binding frame whose ScopeSpan is the
// enclosing controller scope, not the <form> element's (§4.5 Pass 1.5).
// Finalized into the Index by pass2.
func (w *stackWalker) pushForm(el, tag syntax.Node) bool {
	if tagName(tag) != "form" {
		return false
	}
	a, ok := findAttr(tag, "name")
	if !ok || !a.hasValue || !isStaticIdentifier(a.value) {
		return false
	}
	scope := spanUtf16(el, w.content)
	if len(w.ctrlStack) > 0 {
		c := w.ctrlStack[len(w.ctrlStack)-1]
		scope.StartLine, scope.EndLine = c.StartLine, c.EndLine
	}
	w.formStack = append(w.formStack, model.HtmlFormBinding{
		FormName:  a.value,
		URI:       w.uri,
		ScopeSpan: scope,
		NameSpan:  spanUtf16(a.valueNode, w.content),
	})
	return true
}

func isStaticIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func (w *stackWalker) snapshot() model.InheritedContext {
	ctrls := make([]model.HtmlControllerScope, len(w.ctrlStack))
	copy(ctrls, w.ctrlStack)
	locals := make([]model.HtmlLocalVariable, len(w.localStack))
	copy(locals, w.localStack)
	forms := make([]model.HtmlFormBinding, len(w.formStack))
	copy(forms, w.formStack)
	return model.InheritedContext{Controllers: ctrls, LocalVariables: locals, FormBindings: forms}
}

// checkNgInclude recognizes both `<ng-include src="'c.html'">` and
// `<div ng-include="'c.html'">`, resolves the quoted template literal,
// and registers an NgIncludeBinding carrying the current stack snapshot.
func (w *stackWalker) checkNgInclude(el, tag syntax.Node) {
	var raw string
	var lineSrc syntax.Node
	if a, ok := findAttr(tag, "ng-include"); ok && a.hasValue {
		raw, lineSrc = a.value, a.valueNode
	} else if tagName(tag) == "ng-include" {
		if a, ok := findAttr(tag, "src"); ok && a.hasValue {
			raw, lineSrc = a.value, a.valueNode
		}
	}
	if raw == "" {
		return
	}
	tpl, ok := unquoteStringLiteral(raw)
	if !ok {
		return
	}
	normalized := util.NormalizeTemplatePath(tpl)
	line := 0
	if lineSrc != nil {
		line = spanUtf16(lineSrc, w.content).StartLine
	}
	w.ix.Templates.AddNgIncludeBinding(model.NgIncludeBinding{
		ParentURI:        w.uri,
		TemplatePath:     normalized,
		ResolvedFilename: normalized,
		Line:             line,
		Inherited:        w.snapshot(),
	})
}

func (w *stackWalker) checkNgView(tag syntax.Node) {
	if _, ok := findAttr(tag, "ng-view"); !ok && tagName(tag) != "ng-view" {
		return
	}
	w.ix.Templates.AddNgViewBinding(model.NgViewBinding{
		ParentURI: w.uri,
		Inherited: w.snapshot(),
	})
}

// unquoteStringLiteral extracts the inner text of a single- or
// double-quoted JS string literal, e.g. `'c.html'` -> `c.html`.
func unquoteStringLiteral(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return s[1 : len(s)-1], true
		}
	}
	return "", false
}

// startTagChild returns an "element" node's start_tag child.
func startTagChild(el syntax.Node) syntax.Node {
	for i := 0; i < el.NamedChildCount(); i++ {
		c := el.NamedChild(i)
		if c.Kind() == "start_tag" {
			return c
		}
	}
	return nil
}
