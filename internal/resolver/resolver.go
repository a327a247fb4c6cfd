// Package resolver implements the cross-file position-to-symbol
// resolution algorithm of §4.6: given (URI, line, column) it classifies
// the token there and, for HTML positions, walks directive, local-var,
// form-binding, and scope-reference candidates against the Index's
// controller-inheritance chains.
package resolver

import (
	"sort"
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
)

// Kind identifies which branch of §4.6 produced a Resolution.
type Kind int

const (
	KindNone Kind = iota
	KindSymbol
	KindLocalVariable
	KindFormBinding
	KindDirective
)

// Resolution is the resolver's answer: the matched Symbol name (for
// go-to-definition) plus the concrete record that produced it, when
// more detail than a bare name is useful to a caller (hover, rename).
type Resolution struct {
	Kind     Kind
	Name     string
	Symbol   *model.Symbol
	LocalVar *model.HtmlLocalVariable
	Form     *model.HtmlFormBinding
}

// Resolver answers position queries against an Index.
type Resolver struct {
	ix *index.Index
}

func New(ix *index.Index) *Resolver {
	return &Resolver{ix: ix}
}

// Resolve implements §4.6's ordered resolution for (uri, line, col).
func (r *Resolver) Resolve(uri string, line, col int) (Resolution, bool) {
	if isJSFile(uri) {
		if name, ok := r.ix.FindSymbolAtPosition(uri, line, col); ok {
			return symbolResolution(r.ix, name), true
		}
		return Resolution{}, false
	}
	return r.resolveHTML(uri, line, col)
}

func isJSFile(uri string) bool {
	return strings.HasSuffix(uri, ".js")
}

func symbolResolution(ix *index.Index, name string) Resolution {
	res := Resolution{Kind: KindSymbol, Name: name}
	if defs := ix.GetDefinitions(name); len(defs) > 0 {
		s := defs[0]
		res.Symbol = &s
	}
	return res
}

func (r *Resolver) resolveHTML(uri string, line, col int) (Resolution, bool) {
	// (a) directive reference.
	for _, d := range r.ix.HTML.DirectiveReferences(uri) {
		if d.Span.Contains(line, col) {
			return symbolResolution(r.ix, d.Name), true
		}
	}

	// (b) local-variable definition.
	for _, lv := range r.ix.HTML.LocalVariables(uri) {
		if lv.NameSpan.Contains(line, col) {
			v := lv
			return Resolution{Kind: KindLocalVariable, Name: lv.Name, LocalVar: &v}, true
		}
	}

	// (c) local-variable reference.
	for _, ref := range r.ix.HTML.LocalVariableReferences(uri) {
		if !ref.Span.Contains(line, col) {
			continue
		}
		if lv, ok := r.findLocalVariable(uri, line, ref.Name); ok {
			return Resolution{Kind: KindLocalVariable, Name: lv.Name, LocalVar: &lv}, true
		}
	}

	// (d) form-binding definition.
	for _, f := range r.ix.HTML.FormBindings(uri) {
		if f.NameSpan.Contains(line, col) {
			v := f
			return Resolution{Kind: KindFormBinding, Name: f.FormName, Form: &v}, true
		}
	}

	// (e) scope reference.
	for _, sref := range r.ix.HTML.ScopeReferences(uri) {
		if !sref.Span.Contains(line, col) {
			continue
		}
		if res, ok := r.resolveScopeReference(uri, line, sref.Path); ok {
			return res, true
		}
	}

	return Resolution{}, false
}

// findLocalVariable looks up name among this file's own locals first,
// then among the inherited-via-ng-include locals (§4.6 step c).
func (r *Resolver) findLocalVariable(uri string, line int, name string) (model.HtmlLocalVariable, bool) {
	for _, lv := range r.ix.HTML.LocalVariables(uri) {
		if lv.Name == name && lv.ScopeSpan.ContainsLine(line) {
			return lv, true
		}
	}
	inherited := r.ix.Templates.InheritedContextForChild(uri)
	for _, lv := range inherited.LocalVariables {
		if lv.Name == name {
			return lv, true
		}
	}
	return model.HtmlLocalVariable{}, false
}

// findFormBinding looks up name among this file's forms then the
// inherited ones (§4.6 step e.i).
func (r *Resolver) findFormBinding(uri string, line int, name string) (model.HtmlFormBinding, bool) {
	for _, f := range r.ix.HTML.FormBindings(uri) {
		if f.FormName == name && f.ScopeSpan.ContainsLine(line) {
			return f, true
		}
	}
	inherited := r.ix.Templates.InheritedContextForChild(uri)
	for _, f := range inherited.FormBindings {
		if f.FormName == name {
			return f, true
		}
	}
	return model.HtmlFormBinding{}, false
}

// resolveScopeReference implements §4.6 step (e): base-name dispatch
// over forms, locals, controller-as aliases, and finally every enclosing
// controller's $scope/$rootScope.
func (r *Resolver) resolveScopeReference(uri string, line int, path string) (Resolution, bool) {
	base, rest, dotted := splitBase(path)

	if f, ok := r.findFormBinding(uri, line, base); ok {
		v := f
		return Resolution{Kind: KindFormBinding, Name: f.FormName, Form: &v}, true
	}
	if lv, ok := r.findLocalVariable(uri, line, base); ok {
		v := lv
		return Resolution{Kind: KindLocalVariable, Name: lv.Name, LocalVar: &v}, true
	}

	controllers := r.resolveControllersForHtml(uri, line)

	if dotted {
		if ctrl, ok := r.resolveControllerByAlias(uri, line, base); ok {
			if res, ok := r.tryControllerPath(ctrl, rest); ok {
				return res, true
			}
		}
		return Resolution{}, false
	}

	for _, ctrl := range controllers {
		if res, ok := r.tryControllerPath(ctrl, base); ok {
			return res, true
		}
	}
	return Resolution{}, false
}

// tryControllerPath tries `Ctrl.$scope.path` then falls through to
// `<module>.$rootScope.path` if no $scope symbol shadows it (§4.6, §8
// property 7).
func (r *Resolver) tryControllerPath(ctrl model.HtmlControllerScope, path string) (Resolution, bool) {
	scopeName := ctrl.ControllerName + ".$scope." + path
	if r.ix.Definitions.HasDefinition(scopeName) {
		return symbolResolution(r.ix, scopeName), true
	}
	for _, js := range r.ix.Controllers.JSByName(ctrl.ControllerName) {
		rootName := js.ModuleName + ".$rootScope." + path
		if r.ix.Definitions.HasDefinition(rootName) {
			return symbolResolution(r.ix, rootName), true
		}
	}
	return Resolution{}, false
}

// resolveControllerByAlias matches alias against ng-controller `as`
// aliases in scope, then against component controllerAs bindings for
// this URI (§4.6 step e.ii).
func (r *Resolver) resolveControllerByAlias(uri string, line int, alias string) (model.HtmlControllerScope, bool) {
	for _, ctrl := range r.resolveControllersForHtml(uri, line) {
		if ctrl.HasAlias && ctrl.Alias == alias {
			return ctrl, true
		}
	}
	for _, c := range r.ix.Components.ForTemplatePath(uri) {
		if c.ControllerAs == alias {
			return model.HtmlControllerScope{ControllerName: c.ControllerName, URI: uri}, true
		}
	}
	return model.HtmlControllerScope{}, false
}

// resolveControllersForHtml enumerates, outer to inner: controllers
// inherited from ng-include, ng-controller scopes containing line
// (sorted outer-to-inner by span size), template bindings for this URI,
// and the component-template controller if nothing else matched (§4.6).
func (r *Resolver) resolveControllersForHtml(uri string, line int) []model.HtmlControllerScope {
	var out []model.HtmlControllerScope
	seen := make(map[string]bool)
	add := func(c model.HtmlControllerScope) {
		if c.ControllerName == "" || seen[c.ControllerName] {
			return
		}
		seen[c.ControllerName] = true
		out = append(out, c)
	}

	inherited := r.ix.Templates.InheritedContextForChild(uri)
	for _, c := range inherited.Controllers {
		add(c)
	}

	local := r.ix.Controllers.HTMLScopesContainingLine(uri, line)
	sort.SliceStable(local, func(i, j int) bool {
		si := span.New(local[i].StartLine, 0, local[i].EndLine, 0)
		sj := span.New(local[j].StartLine, 0, local[j].EndLine, 0)
		return si.Size() > sj.Size()
	})
	for _, c := range local {
		add(c)
	}

	for _, b := range r.ix.Templates.GetTemplateBindings(uri) {
		add(model.HtmlControllerScope{ControllerName: b.ControllerName, URI: uri, StartLine: 0, EndLine: maxLine})
	}

	if len(out) == 0 {
		for _, c := range r.ix.Components.ForTemplatePath(uri) {
			add(model.HtmlControllerScope{ControllerName: c.ControllerName, Alias: c.ControllerAs, HasAlias: c.ControllerAs != "", URI: uri, StartLine: 0, EndLine: maxLine})
		}
	}

	return out
}

// ControllersInScope exposes resolveControllersForHtml for completion:
// every controller (ng-include-inherited, ng-controller, template
// binding, or component) visible at (uri, line), outer to inner.
func (r *Resolver) ControllersInScope(uri string, line int) []model.HtmlControllerScope {
	return r.resolveControllersForHtml(uri, line)
}

const maxLine = int(^uint(0) >> 1)

// splitBase splits "alias.prop.chain" into ("alias", "prop.chain", true)
// or returns the whole path as base with dotted=false.
func splitBase(path string) (base, rest string, dotted bool) {
	i := strings.IndexByte(path, '.')
	if i < 0 {
		return path, "", false
	}
	return path[:i], path[i+1:], true
}
