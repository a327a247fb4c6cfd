package jsanalyzer

import "github.com/angularjs-lsp/angularjs-lsp/internal/syntax"

// fieldValue returns the value node of the pair named fieldName inside
// an object-literal node, or nil if absent.
func fieldValue(obj syntax.Node, fieldName string, content []byte) syntax.Node {
	if obj == nil || obj.Kind() != "object" {
		return nil
	}
	for i := 0; i < obj.NamedChildCount(); i++ {
		pair := obj.NamedChild(i)
		if pair.Kind() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		if key == nil {
			continue
		}
		var keyText string
		switch key.Kind() {
		case "property_identifier", "identifier":
			keyText = text(key, content)
		case "string":
			keyText, _ = stringLiteralText(key, content)
		default:
			continue
		}
		if keyText == fieldName {
			return pair.ChildByFieldName("value")
		}
	}
	return nil
}

// stringField returns a string-valued field, tolerating an unquoted
// identifier value.
func stringField(obj syntax.Node, fieldName string, content []byte) (string, bool) {
	v := fieldValue(obj, fieldName, content)
	if v == nil {
		return "", false
	}
	switch v.Kind() {
	case "string":
		s, _ := stringLiteralText(v, content)
		return s, true
	case "identifier":
		return text(v, content), true
	default:
		return "", false
	}
}

// bindingKind maps an AngularJS component binding definition symbol
// ('<', '@', '=', '&') to a human label for the ComponentBinding doc.
func bindingKind(sym string) string {
	switch sym {
	case "<":
		return "one-way"
	case "@":
		return "text"
	case "=":
		return "two-way"
	case "&":
		return "expression"
	default:
		return sym
	}
}
