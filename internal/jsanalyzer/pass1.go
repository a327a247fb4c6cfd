package jsanalyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
	"github.com/angularjs-lsp/angularjs-lsp/internal/util"
)

var registrationKinds = map[string]model.SymbolKind{
	"controller": model.KindController,
	"service":    model.KindService,
	"factory":    model.KindFactory,
	"directive":  model.KindDirective,
	"provider":   model.KindProvider,
	"filter":     model.KindFilter,
	"constant":   model.KindConstant,
	"value":      model.KindValue,
}

type scopeAssignment struct {
	kind       string // "scope", "rootScope", "this"
	path       string // dotted path after the receiver
	uri        string
	line       int
	col        int
	span       span.Span
	scope      *diScope
	isFunction bool
}

// pass1 walks the tree once, recognizing registration calls (building
// Symbols and diScopes) and route/state/modal template bindings, then a
// second sweep over the same tree collects $scope/$rootScope/this.x
// assignments and resolves them against the just-built scope list so
// first-wins semantics can be applied in source order (§4.4, §8 property 3).
func pass1(root syntax.Node, uri string, content []byte, lineOffset int, pre *prescanResult, ix *index.Index) []diScope {
	var scopes []diScope

	walk(root, func(n syntax.Node) bool {
		if n.Kind() != "call_expression" {
			return true
		}
		obj, prop, ok := callee(n, content)
		if !ok {
			return true
		}

		if kind, isReg := registrationKinds[prop]; isReg {
			handleRegistration(n, prop, kind, content, uri, lineOffset, pre, ix, &scopes)
			return true
		}

		switch prop {
		case "component":
			handleComponent(n, content, uri, lineOffset, ix)
		case "config", "run":
			handleConfigRun(n, content, uri, lineOffset, pre, &scopes)
		case "when", "otherwise", "state":
			handleRouteConfig(n, obj, prop, content, uri, lineOffset, ix)
		case "open":
			handleUibModalOpen(n, obj, content, uri, lineOffset, ix)
		}
		return true
	})

	collectScopeAssignments(root, uri, content, lineOffset, scopes, ix)
	return scopes
}

func handleRegistration(n syntax.Node, prop string, kind model.SymbolKind, content []byte, uri string, lineOffset int, pre *prescanResult, ix *index.Index, scopes *[]diScope) {
	args := callArgs(n)
	if len(args) < 1 {
		return
	}
	name, isStr := stringLiteralText(args[0], content)
	if !isStr || name == "" {
		return
	}
	moduleName, _ := moduleNameForChain(n, content)

	var secondArg syntax.Node
	if len(args) >= 2 {
		secondArg = args[1]
	}
	nameSpan := spanOf(args[0], lineOffset)
	di := resolveDI(secondArg, pre, content, nameSpan, lineOffset)

	sym := model.Symbol{
		Name:           name,
		Kind:           kind,
		URI:            uri,
		DefinitionSpan: di.bodySpan,
		NameSpan:       nameSpan,
		Docs:           jsdocFor(n, content, lineOffset),
		Parameters:     di.parameters,
	}
	ix.AddDefinition(sym)

	controllerName := ""
	if prop == "controller" {
		controllerName = name
		ix.Controllers.AddJS(model.ControllerScope{
			ControllerName: name,
			ModuleName:     moduleName,
			URI:            uri,
			StartLine:      di.bodySpan.StartLine,
			EndLine:        di.bodySpan.EndLine,
			Injected:       di.deps,
		})
	}
	*scopes = append(*scopes, newScope(controllerName, moduleName, di.deps, di.bodySpan))
}

func handleComponent(n syntax.Node, content []byte, uri string, lineOffset int, ix *index.Index) {
	args := callArgs(n)
	if len(args) < 2 {
		return
	}
	name, isStr := stringLiteralText(args[0], content)
	if !isStr {
		// `.component(Ident.name, Ident.config)` is not handled: no
		// component is registered for it, and the analyzer records no
		// ES6 export-default entry that could connect it later.
		return
	}
	obj := args[1]
	nameSpan := spanOf(args[0], lineOffset)

	controllerName, hasCtrl := stringField(obj, "controller", content)
	if !hasCtrl {
		controllerName = name
	}
	controllerAs, hasAs := stringField(obj, "controllerAs", content)
	if !hasAs {
		controllerAs = "$ctrl"
	}

	ix.AddDefinition(model.Symbol{
		Name:           name,
		Kind:           model.KindComponent,
		URI:            uri,
		DefinitionSpan: spanOf(obj, lineOffset),
		NameSpan:       nameSpan,
		Docs:           jsdocFor(n, content, lineOffset),
	})

	if tplNode := fieldValue(obj, "templateUrl", content); tplNode != nil && tplNode.Kind() == "string" {
		if raw, ok := stringLiteralText(tplNode, content); ok {
			ix.Components.Add(model.ComponentTemplateUrl{
				URI:            uri,
				TemplatePath:   util.NormalizeTemplatePath(raw),
				Line:           spanOf(tplNode, lineOffset).StartLine,
				Col:            spanOf(tplNode, lineOffset).StartCol,
				ControllerName: controllerName,
				ControllerAs:   controllerAs,
			})
		}
	}

	if bindings := fieldValue(obj, "bindings", content); bindings != nil && bindings.Kind() == "object" {
		for i := 0; i < bindings.NamedChildCount(); i++ {
			pair := bindings.NamedChild(i)
			if pair.Kind() != "pair" {
				continue
			}
			key := pair.ChildByFieldName("key")
			val := pair.ChildByFieldName("value")
			if key == nil || val == nil {
				continue
			}
			var keyText string
			switch key.Kind() {
			case "property_identifier", "identifier":
				keyText = text(key, content)
			case "string":
				keyText, _ = stringLiteralText(key, content)
			}
			if keyText == "" {
				continue
			}
			valText, _ := stringLiteralText(val, content)
			ix.AddDefinition(model.Symbol{
				Name:           fmt.Sprintf("%s.%s", controllerName, keyText),
				Kind:           model.KindComponentBinding,
				URI:            uri,
				DefinitionSpan: spanOf(pair, lineOffset),
				NameSpan:       spanOf(key, lineOffset),
				Docs:           fmt.Sprintf("Component binding: %s", bindingKind(valText)),
			})
		}
	}
}

func handleConfigRun(n syntax.Node, content []byte, uri string, lineOffset int, pre *prescanResult, scopes *[]diScope) {
	args := callArgs(n)
	if len(args) < 1 {
		return
	}
	di := resolveDI(args[len(args)-1], pre, content, spanOf(n, lineOffset), lineOffset)
	*scopes = append(*scopes, newScope("", "", di.deps, di.bodySpan))
}

// handleRouteConfig recognizes `$routeProvider.when/.otherwise(...)` and
// `$stateProvider.state(...)` configs that carry a {controller,
// templateUrl} object, registering a TemplateBinding (§4.4).
func handleRouteConfig(n syntax.Node, obj syntax.Node, prop string, content []byte, uri string, lineOffset int, ix *index.Index) {
	root, _ := objectRootIdentifier(obj, content)
	var source model.BindingSource
	switch {
	case root == "$routeProvider":
		source = model.SourceRouteProvider
	case root == "$stateProvider":
		source = model.SourceStateProvider
	default:
		return
	}

	args := callArgs(n)
	var cfg syntax.Node
	for _, a := range args {
		if a != nil && a.Kind() == "object" {
			cfg = a
		}
	}
	if cfg == nil {
		return
	}
	templateURL, hasURL := stringField(cfg, "templateUrl", content)
	controllerName, hasCtrl := stringField(cfg, "controller", content)
	if !hasURL || !hasCtrl {
		return
	}
	ix.Templates.AddTemplateBinding(model.TemplateBinding{
		TemplatePath:   util.NormalizeTemplatePath(templateURL),
		ControllerName: controllerName,
		Source:         source,
		URI:            uri,
		Line:           spanOf(n, lineOffset).StartLine,
	})
	_ = prop
}

// handleUibModalOpen recognizes `$uibModal.open({controller,
// templateUrl})`.
func handleUibModalOpen(n syntax.Node, obj syntax.Node, content []byte, uri string, lineOffset int, ix *index.Index) {
	root, _ := objectRootIdentifier(obj, content)
	if root != "$uibModal" {
		return
	}
	args := callArgs(n)
	if len(args) < 1 || args[0] == nil || args[0].Kind() != "object" {
		return
	}
	cfg := args[0]
	templateURL, hasURL := stringField(cfg, "templateUrl", content)
	controllerName, hasCtrl := stringField(cfg, "controller", content)
	if !hasURL || !hasCtrl {
		return
	}
	ix.Templates.AddTemplateBinding(model.TemplateBinding{
		TemplatePath:   util.NormalizeTemplatePath(templateURL),
		ControllerName: controllerName,
		Source:         model.SourceUibModal,
		URI:            uri,
		Line:           spanOf(n, lineOffset).StartLine,
	})
}

// moduleNameForChain descends a call_expression's callee object chain
// looking for the `angular.module('name', [...])` call the chain is
// rooted on, independent of pre-order traversal order.
func moduleNameForChain(n syntax.Node, content []byte) (string, bool) {
	cur := n
	for cur != nil && cur.Kind() == "call_expression" {
		obj, prop, ok := callee(cur, content)
		if !ok {
			return "", false
		}
		if prop == "module" {
			args := callArgs(cur)
			if len(args) >= 1 {
				if name, isStr := stringLiteralText(args[0], content); isStr {
					return name, true
				}
			}
			return "", false
		}
		cur = obj
	}
	return "", false
}

// collectScopeAssignments finds every $scope.x=, $rootScope.x=, and
// this.x= assignment in the file, sorts them into source order, and
// applies first-wins semantics per distinct qualified name (§4.4, §8
// property 3).
func collectScopeAssignments(root syntax.Node, uri string, content []byte, lineOffset int, scopes []diScope, ix *index.Index) {
	var found []scopeAssignment

	walk(root, func(n syntax.Node) bool {
		if n.Kind() != "assignment_expression" {
			return true
		}
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left == nil || right == nil || left.Kind() != "member_expression" {
			return true
		}
		receiver, path, ok := splitReceiverPath(left, content)
		if !ok {
			return true
		}

		sp := spanOf(left, lineOffset)
		sc := enclosingScope(scopes, sp.StartLine)
		if sc == nil {
			return true
		}
		isFn := right.Kind() == "function_expression" || right.Kind() == "arrow_function"

		switch receiver {
		case "$scope":
			if !sc.hasScope || sc.controllerName == "" {
				return true
			}
			found = append(found, scopeAssignment{kind: "scope", path: path, uri: uri, line: sp.StartLine, col: sp.StartCol, span: sp, scope: sc, isFunction: isFn})
		case "$rootScope":
			if !sc.hasRootScope {
				return true
			}
			found = append(found, scopeAssignment{kind: "rootScope", path: path, uri: uri, line: sp.StartLine, col: sp.StartCol, span: sp, scope: sc, isFunction: isFn})
		case "this":
			if sc.controllerName == "" {
				return true
			}
			found = append(found, scopeAssignment{kind: "this", path: path, uri: uri, line: sp.StartLine, col: sp.StartCol, span: sp, scope: sc, isFunction: isFn})
		}
		return true
	})

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].line != found[j].line {
			return found[i].line < found[j].line
		}
		return found[i].col < found[j].col
	})

	seen := make(map[string]bool)
	for _, a := range found {
		var qualified string
		var kind model.SymbolKind
		switch a.kind {
		case "scope":
			qualified = fmt.Sprintf("%s.$scope.%s", a.scope.controllerName, a.path)
			kind = model.KindScopeProperty
			if a.isFunction {
				kind = model.KindScopeMethod
			}
		case "rootScope":
			qualified = fmt.Sprintf("%s.$rootScope.%s", a.scope.moduleName, a.path)
			kind = model.KindRootScopeProperty
			if a.isFunction {
				kind = model.KindRootScopeMethod
			}
		case "this":
			qualified = fmt.Sprintf("%s.%s", a.scope.controllerName, a.path)
			ix.AddDefinition(model.Symbol{Name: qualified, Kind: model.KindMethod, URI: a.uri, DefinitionSpan: a.span, NameSpan: a.span})
			continue
		}
		if !seen[qualified] {
			seen[qualified] = true
			ix.AddDefinition(model.Symbol{Name: qualified, Kind: kind, URI: a.uri, DefinitionSpan: a.span, NameSpan: a.span})
		} else {
			ix.AddReference(model.SymbolReference{Name: qualified, URI: a.uri, Span: a.span})
		}
	}
}

// splitReceiverPath splits a member_expression chain `$scope.a.b` into
// its root receiver ("$scope") and the remaining dotted path ("a.b").
func splitReceiverPath(n syntax.Node, content []byte) (receiver, path string, ok bool) {
	var parts []string
	cur := n
	for cur != nil && cur.Kind() == "member_expression" {
		prop := cur.ChildByFieldName("property")
		if prop == nil {
			return "", "", false
		}
		parts = append([]string{text(prop, content)}, parts...)
		cur = cur.ChildByFieldName("object")
	}
	if cur == nil {
		return "", "", false
	}
	switch cur.Kind() {
	case "identifier", "this":
		receiver = text(cur, content)
		if cur.Kind() == "this" {
			receiver = "this"
		}
	default:
		return "", "", false
	}
	if len(parts) == 0 {
		return "", "", false
	}
	return receiver, strings.Join(parts, "."), true
}
