package jsanalyzer

import (
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// diResult is the outcome of resolving one of the four DI shapes (§4.4):
// the dependency names (in order), the body span to use as a
// definition's jump target, and the parameter names for signatureHelp.
type diResult struct {
	deps       []string
	bodySpan   span.Span
	parameters []string
	ok         bool
}

// resolveDI unifies the four second-argument shapes DI extraction must
// handle: inline function/arrow, DI array, ES6 class, and bare
// identifier referring to a same-file declaration.
func resolveDI(arg syntax.Node, pre *prescanResult, content []byte, fallback span.Span, lineOffset int) diResult {
	if arg == nil {
		return diResult{bodySpan: fallback}
	}

	switch arg.Kind() {
	case "function_expression", "arrow_function":
		params := paramNames(arg, content)
		return diResult{deps: params, bodySpan: spanOf(arg, lineOffset), parameters: params, ok: true}

	case "class", "class_expression":
		params := constructorParams(arg, content)
		return diResult{deps: params, bodySpan: spanOf(arg, lineOffset), parameters: params, ok: true}

	case "array":
		var deps []string
		var tail syntax.Node
		for i := 0; i < arg.NamedChildCount(); i++ {
			c := arg.NamedChild(i)
			if s, isStr := stringLiteralText(c, content); isStr {
				deps = append(deps, s)
				continue
			}
			tail = c
		}
		if tail == nil {
			return diResult{deps: deps, bodySpan: spanOf(arg, lineOffset), ok: true}
		}
		switch tail.Kind() {
		case "function_expression", "arrow_function":
			return diResult{deps: deps, bodySpan: spanOf(tail, lineOffset), parameters: paramNames(tail, content), ok: true}
		case "class", "class_expression":
			return diResult{deps: deps, bodySpan: spanOf(tail, lineOffset), parameters: constructorParams(tail, content), ok: true}
		case "identifier":
			if info, found := pre.functions[text(tail, content)]; found {
				return diResult{deps: deps, bodySpan: info.span, parameters: info.params, ok: true}
			}
			return diResult{deps: deps, bodySpan: spanOf(arg, lineOffset), ok: true}
		default:
			return diResult{deps: deps, bodySpan: spanOf(arg, lineOffset), ok: true}
		}

	case "identifier":
		name := text(arg, content)
		info, found := pre.functions[name]
		if !found {
			return diResult{bodySpan: fallback, ok: true}
		}
		deps := pre.injectMap[name]
		if deps == nil {
			deps = info.params
		}
		return diResult{deps: deps, bodySpan: info.span, parameters: info.params, ok: true}

	default:
		return diResult{bodySpan: spanOf(arg, lineOffset), ok: true}
	}
}

// hasDollarScope reports whether "$scope" is present among deps.
func hasDollarScope(deps []string) bool {
	for _, d := range deps {
		if d == "$scope" {
			return true
		}
	}
	return false
}

func hasDollarRootScope(deps []string) bool {
	for _, d := range deps {
		if d == "$rootScope" {
			return true
		}
	}
	return false
}
