package jsanalyzer

import (
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// funcInfo is a same-file function/class declaration's body span and
// parameter names, used to resolve DI shape 4 (bare identifier) and the
// function/class tail of a DI array (shape 2).
type funcInfo struct {
	span   span.Span
	params []string
}

// prescanResult holds whole-file context gathered before Pass 1 so that
// `Name.$inject = [...]` assignments and function/class declarations are
// known regardless of where in the file they appear relative to the
// registration call that references them (§4.4, scenario S2).
type prescanResult struct {
	functions map[string]funcInfo
	injectMap map[string][]string
}

func prescan(root syntax.Node, content []byte, lineOffset int) *prescanResult {
	r := &prescanResult{
		functions: make(map[string]funcInfo),
		injectMap: make(map[string][]string),
	}

	walk(root, func(n syntax.Node) bool {
		switch n.Kind() {
		case "function_declaration":
			if name := n.ChildByFieldName("name"); name != nil {
				r.functions[text(name, content)] = funcInfo{
					span:   spanOf(n, lineOffset),
					params: paramNames(n, content),
				}
			}
		case "class_declaration":
			if name := n.ChildByFieldName("name"); name != nil {
				r.functions[text(name, content)] = funcInfo{
					span:   spanOf(n, lineOffset),
					params: constructorParams(n, content),
				}
			}
		case "variable_declarator":
			name := n.ChildByFieldName("name")
			value := n.ChildByFieldName("value")
			if name == nil || value == nil || name.Kind() != "identifier" {
				break
			}
			switch value.Kind() {
			case "function_expression", "arrow_function":
				r.functions[text(name, content)] = funcInfo{
					span:   spanOf(value, lineOffset),
					params: paramNames(value, content),
				}
			case "class", "class_expression":
				r.functions[text(name, content)] = funcInfo{
					span:   spanOf(value, lineOffset),
					params: constructorParams(value, content),
				}
			}
		case "assignment_expression":
			left := n.ChildByFieldName("left")
			right := n.ChildByFieldName("right")
			if left == nil || right == nil || left.Kind() != "member_expression" {
				break
			}
			prop := left.ChildByFieldName("property")
			obj := left.ChildByFieldName("object")
			if prop == nil || obj == nil || obj.Kind() != "identifier" {
				break
			}
			if text(prop, content) != "$inject" || right.Kind() != "array" {
				break
			}
			var deps []string
			for i := 0; i < right.NamedChildCount(); i++ {
				if s, ok := stringLiteralText(right.NamedChild(i), content); ok {
					deps = append(deps, s)
				}
			}
			r.injectMap[text(obj, content)] = deps
		}
		return true
	})

	return r
}

// paramNames returns the parameter identifier names of a function-like
// node (function_declaration, function_expression, arrow_function).
// Arrow functions with a single bare parameter (no parens) store it
// directly in the "parameter" field rather than "parameters".
func paramNames(fn syntax.Node, content []byte) []string {
	if fn == nil {
		return nil
	}
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		if p := fn.ChildByFieldName("parameter"); p != nil {
			return []string{text(p, content)}
		}
		return nil
	}
	var out []string
	for i := 0; i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		switch p.Kind() {
		case "identifier":
			out = append(out, text(p, content))
		case "assignment_pattern":
			if left := p.ChildByFieldName("left"); left != nil {
				out = append(out, text(left, content))
			}
		default:
			out = append(out, text(p, content))
		}
	}
	return out
}

// constructorParams finds the `constructor` method of a class body and
// returns its parameter names (DI shape 3).
func constructorParams(classNode syntax.Node, content []byte) []string {
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for i := 0; i < body.NamedChildCount(); i++ {
		m := body.NamedChild(i)
		if m.Kind() != "method_definition" {
			continue
		}
		name := m.ChildByFieldName("name")
		if name != nil && text(name, content) == "constructor" {
			return paramNames(m, content)
		}
	}
	return nil
}
