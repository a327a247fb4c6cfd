package lsp

import (
	"context"
	"sort"

	"github.com/angularjs-lsp/angularjs-lsp/internal/lsp/protocol"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// semanticTokenTypes is the legend advertised in initialize's
// semanticTokensProvider capability; tokenTypeIndex below must stay in
// sync with its ordering.
var semanticTokenTypes = []string{"class", "method", "property", "variable", "parameter", "namespace"}

func tokenTypeIndex(k model.SymbolKind) (uint32, bool) {
	switch k {
	case model.KindController, model.KindService, model.KindFactory, model.KindProvider, model.KindComponent, model.KindDirective, model.KindExportedComponent:
		return 0, true // class
	case model.KindMethod, model.KindScopeMethod, model.KindRootScopeMethod:
		return 1, true // method
	case model.KindScopeProperty, model.KindRootScopeProperty, model.KindComponentBinding:
		return 2, true // property
	case model.KindFormBinding:
		return 3, true // variable
	case model.KindModule:
		return 5, true // namespace
	default:
		return 0, false
	}
}

// semanticTokensFull answers textDocument/semanticTokens/full by
// deriving tokens straight from the Index's definitions in uri (§6
// "derived from the Index"), delta-encoded per the LSP spec's five-
// uint32-per-token layout.
func (s *Server) semanticTokensFull(uri string) *protocol.SemanticTokens {
	type tok struct {
		line, col, length int
		typ               uint32
	}
	var toks []tok
	for _, sym := range s.ix.Definitions.All() {
		if sym.URI != uri {
			continue
		}
		typ, ok := tokenTypeIndex(sym.Kind)
		if !ok {
			continue
		}
		sp := sym.NameSpan
		if sp.EndLine != sp.StartLine {
			continue
		}
		toks = append(toks, tok{line: sp.StartLine, col: sp.StartCol, length: sp.EndCol - sp.StartCol, typ: typ})
	}
	sort.Slice(toks, func(i, j int) bool {
		if toks[i].line != toks[j].line {
			return toks[i].line < toks[j].line
		}
		return toks[i].col < toks[j].col
	})

	data := make([]uint32, 0, len(toks)*5)
	prevLine, prevCol := 0, 0
	for _, t := range toks {
		deltaLine := uint32(t.line - prevLine)
		deltaCol := uint32(t.col)
		if deltaLine == 0 {
			deltaCol = uint32(t.col - prevCol)
		}
		data = append(data, deltaLine, deltaCol, uint32(t.length), t.typ, 0)
		prevLine, prevCol = t.line, t.col
	}
	return &protocol.SemanticTokens{Data: data}
}

// refreshSemanticTokens notifies the client that previously issued
// semantic tokens may be stale, per §4.9's post-analysis refresh.
func (s *Server) refreshSemanticTokens() {
	if s.conn == nil {
		return
	}
	_ = s.conn.Notify(context.Background(), "workspace/semanticTokens/refresh", nil)
}
