package htmlanalyzer

import (
	"regexp"
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
	"github.com/angularjs-lsp/angularjs-lsp/internal/util"
)

var interpolationPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// refWalker is Pass 3's traversal: it tracks the live local-variable
// stack (ng-repeat/ng-init, this file only — inherited locals from
// ng-include are resolved later by the resolver against the Index's
// NgIncludeBinding snapshots, not re-derived here) while collecting
// local-var definitions, scope references, local-var references, and
// directive-usage references (§4.5 Pass 3).
type refWalker struct {
	uri     string
	content []byte
	ix      *index.Index
	jsp     *syntax.JSParser

	localStack []model.HtmlLocalVariable
}

// pass3 re-collects HTML references for uri. Callers must clear any
// prior references for uri first (ix.ClearHtmlReferences), since this
// pass only appends (§4.2 clearHtmlReferences contract).
func pass3(root syntax.Node, uri string, content []byte, ix *index.Index, jsp *syntax.JSParser) {
	w := &refWalker{uri: uri, content: content, ix: ix, jsp: jsp}
	w.recurse(root)
}

func (w *refWalker) recurse(n syntax.Node) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "element", "self_closing_tag":
		w.visitTagged(n)
	case "text":
		w.collectInterpolations(n)
	default:
		for i := 0; i < n.NamedChildCount(); i++ {
			w.recurse(n.NamedChild(i))
		}
	}
}

func (w *refWalker) visitTagged(n syntax.Node) {
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

	w.collectDirectiveReference(tagName(tag), true, tag)

	pushed := w.collectLocals(tag)

	for _, a := range attrs(tag) {
		w.collectDirectiveReference(a.name, false, tag)
		w.collectAttrExpression(a)
	}

	if n.Kind() == "element" {
		// ng-include/embedded-script children are not re-scanned here
		// (§4.5 Pass 3): skip descending into <ng-include> and <script>.
		if tagName(tag) != "ng-include" && tagName(tag) != "script" {
			for i := 0; i < n.NamedChildCount(); i++ {
				w.recurse(n.NamedChild(i))
			}
		}
	}

	if pushed > 0 {
		w.localStack = w.localStack[:len(w.localStack)-pushed]
	}
}

func (w *refWalker) collectLocals(tag syntax.Node) int {
	count := 0
	if a, ok := findAttr(tag, "ng-repeat"); ok && a.hasValue {
		if vars, collection, ok := parseNgRepeat(a.value); ok {
			base := spanUtf16(a.valueNode, w.content)
			for _, v := range vars {
				if v == "" {
					continue
				}
				lv := model.HtmlLocalVariable{Name: v, Source: model.SourceNgRepeatIterator, URI: w.uri, NameSpan: base, ScopeSpan: base}
				w.ix.HTML.AddLocalVariable(lv)
				w.localStack = append(w.localStack, lv)
				count++
			}
			w.collectExpr(collection, a.valueNode)
		}
	}
	if a, ok := findAttr(tag, "ng-init"); ok && a.hasValue {
		base := spanUtf16(a.valueNode, w.content)
		for _, asn := range parseNgInit(a.value, w.jsp) {
			lv := model.HtmlLocalVariable{Name: asn.name, Source: model.SourceNgInit, URI: w.uri, NameSpan: base, ScopeSpan: base}
			w.ix.HTML.AddLocalVariable(lv)
			w.localStack = append(w.localStack, lv)
			count++
		}
	}
	return count
}

func (w *refWalker) collectAttrExpression(a attr) {
	if !a.hasValue {
		return
	}
	name := strings.TrimPrefix(a.name, "data-")
	switch name {
	case "ng-repeat", "ng-init", "ng-controller":
		return
	}
	if !looksLikeExpressionAttr(name) {
		return
	}
	w.collectExpr(a.value, a.valueNode)
}

func looksLikeExpressionAttr(name string) bool {
	if strings.HasPrefix(name, "ng-") {
		return true
	}
	return !builtinAttributes[name]
}

func (w *refWalker) collectExpr(raw string, valueNode syntax.Node) {
	stripped := stripFilters(raw)
	candidates := collectExpressionRefs(stripped, w.jsp, w.localNames())
	baseRow, baseCol := valueNode.StartPoint()
	for _, c := range candidates {
		sp := w.absoluteSpan(baseRow, baseCol, c)
		w.ix.HTML.AddScopeReference(model.HtmlScopeReference{Path: c.path, URI: w.uri, Span: sp})
		if root := firstSegment(c.path); w.isLocal(root) {
			w.ix.HTML.AddLocalVariableReference(model.HtmlLocalVariableReference{Name: root, URI: w.uri, Span: sp})
		}
	}
}

func (w *refWalker) collectInterpolations(textNode syntax.Node) {
	raw := text(textNode)
	baseRow, baseCol := textNode.StartPoint()
	for _, m := range interpolationPattern.FindAllStringSubmatchIndex(raw, -1) {
		exprStart := m[2]
		expr := raw[m[2]:m[3]]
		stripped := stripFilters(expr)
		candidates := collectExpressionRefs(stripped, w.jsp, w.localNames())
		for _, c := range candidates {
			sp := w.absoluteSpanFromOffset(baseRow, baseCol, raw, exprStart, c)
			w.ix.HTML.AddScopeReference(model.HtmlScopeReference{Path: c.path, URI: w.uri, Span: sp})
			if root := firstSegment(c.path); w.isLocal(root) {
				w.ix.HTML.AddLocalVariableReference(model.HtmlLocalVariableReference{Name: root, URI: w.uri, Span: sp})
			}
		}
	}
}

func (w *refWalker) localNames() map[string]bool {
	out := make(map[string]bool, len(w.localStack))
	for _, lv := range w.localStack {
		out[lv.Name] = true
	}
	return out
}

func (w *refWalker) isLocal(name string) bool {
	for _, lv := range w.localStack {
		if lv.Name == name {
			return true
		}
	}
	return false
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

// absoluteSpan converts a candidate's position (relative to a single
// attribute value string) into a document-absolute, UTF-16-column span.
func (w *refWalker) absoluteSpan(baseRow, baseCol uint, c scopeRefCandidate) span.Span {
	row, col := combinePoint(baseRow, baseCol, c.row, c.col)
	line := util.LineText(w.content, int(row))
	startUtf16 := util.Utf16Column(line, int(col))
	endUtf16 := startUtf16 + len([]rune(c.path))
	return span.New(int(row), startUtf16, int(row), endUtf16)
}

// absoluteSpanFromOffset is like absoluteSpan but for a candidate found
// inside a `{{ expr }}` interpolation embedded in a text node; it walks
// raw to turn the expr-relative (row,col) into a document-absolute one.
func (w *refWalker) absoluteSpanFromOffset(baseRow, baseCol uint, raw string, exprStart int, c scopeRefCandidate) span.Span {
	exprRow, exprCol := combinePoint(baseRow, baseCol, 0, uint(exprStart))
	_ = raw
	row, col := combinePoint(exprRow, exprCol, c.row, c.col)
	line := util.LineText(w.content, int(row))
	startUtf16 := util.Utf16Column(line, int(col))
	endUtf16 := startUtf16 + len([]rune(c.path))
	return span.New(int(row), startUtf16, int(row), endUtf16)
}

// combinePoint offsets a sub-parse's (row,col) by the (row,col) of the
// fragment it was parsed from: same-row offsets add columns, later rows
// reset the column baseline.
func combinePoint(baseRow, baseCol, subRow, subCol uint) (uint, uint) {
	if subRow == 0 {
		return baseRow, baseCol + subCol
	}
	return baseRow + subRow, subCol
}

func (w *refWalker) collectDirectiveReference(rawName string, isElement bool, tag syntax.Node) {
	if rawName == "" {
		return
	}
	kebab := strings.TrimPrefix(rawName, "data-")
	camel := util.KebabToCamel(kebab)
	if isBuiltinOrNoise(kebab, camel, isElement) {
		return
	}
	var sp span.Span
	if isElement {
		sp = spanUtf16(tag, w.content)
	} else {
		for _, a := range attrs(tag) {
			if a.name == rawName {
				sp = spanUtf16(a.nameNode, w.content)
				break
			}
		}
	}
	usage := model.UsageAttribute
	if isElement {
		usage = model.UsageElement
	}
	w.ix.HTML.AddDirectiveReference(model.HtmlDirectiveReference{Name: camel, URI: w.uri, Span: sp, Usage: usage})
}
