package jsanalyzer

import (
	"fmt"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

var skipReceivers = map[string]bool{
	"this":    true,
	"console": true,
}

// pass2 walks the tree again, recording a reference for every
// `Obj.prop`/`Obj.method(...)` access where Obj is injected in the
// current position's DI scope (§4.4 Pass 2). The reference is recorded
// whether or not a definition "Obj.prop" has been indexed.
func pass2(root syntax.Node, uri string, content []byte, lineOffset int, scopes []diScope, ix *index.Index) {
	walk(root, func(n syntax.Node) bool {
		if n.Kind() != "member_expression" {
			return true
		}
		obj := n.ChildByFieldName("object")
		prop := n.ChildByFieldName("property")
		if obj == nil || prop == nil || obj.Kind() != "identifier" {
			return true
		}
		receiver := text(obj, content)
		if receiver == "" || receiver[0] == '$' || skipReceivers[receiver] {
			return true
		}

		sp := spanOf(n, lineOffset)
		sc := enclosingScope(scopes, sp.StartLine)
		if sc == nil || !sc.injects(receiver) {
			return true
		}

		candidate := fmt.Sprintf("%s.%s", receiver, text(prop, content))
		ix.AddReference(model.SymbolReference{Name: candidate, URI: uri, Span: sp})
		return true
	})
}
