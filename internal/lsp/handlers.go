package lsp

import (
	"fmt"
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/lsp/protocol"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/resolver"
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
)

func toRange(s span.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: s.StartLine, Character: s.StartCol},
		End:   protocol.Position{Line: s.EndLine, Character: s.EndCol},
	}
}

// hover answers textDocument/hover with the resolved symbol's kind,
// name, and stored doc comment, following §4.6's resolution order.
func (s *Server) hover(params *protocol.TextDocumentPositionParams) *protocol.Hover {
	res, ok := s.resolve.Resolve(params.TextDocument.URI, params.Position.Line, params.Position.Character)
	if !ok {
		return nil
	}

	var value string
	var rng *protocol.Range
	switch res.Kind {
	case resolver.KindSymbol:
		if res.Symbol == nil {
			return nil
		}
		value = fmt.Sprintf("**%s** (%s)", res.Symbol.Name, res.Symbol.Kind)
		if res.Symbol.Docs != "" {
			value += "\n\n" + res.Symbol.Docs
		}
		r := toRange(res.Symbol.NameSpan)
		rng = &r
	case resolver.KindLocalVariable:
		if res.LocalVar == nil {
			return nil
		}
		value = fmt.Sprintf("**%s** (local variable)", res.LocalVar.Name)
		r := toRange(res.LocalVar.NameSpan)
		rng = &r
	case resolver.KindFormBinding:
		if res.Form == nil {
			return nil
		}
		value = fmt.Sprintf("**%s** (form)", res.Form.FormName)
		r := toRange(res.Form.NameSpan)
		rng = &r
	default:
		return nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: value},
		Range:    rng,
	}
}

// definition answers textDocument/definition: the resolved symbol's
// DefinitionSpan, when the resolution carries one.
func (s *Server) definition(params *protocol.TextDocumentPositionParams) []protocol.Location {
	res, ok := s.resolve.Resolve(params.TextDocument.URI, params.Position.Line, params.Position.Character)
	if !ok {
		return nil
	}
	switch res.Kind {
	case resolver.KindSymbol:
		if res.Symbol == nil {
			return nil
		}
		return []protocol.Location{{URI: res.Symbol.URI, Range: toRange(res.Symbol.DefinitionSpan)}}
	case resolver.KindLocalVariable:
		if res.LocalVar == nil {
			return nil
		}
		return []protocol.Location{{URI: res.LocalVar.URI, Range: toRange(res.LocalVar.NameSpan)}}
	case resolver.KindFormBinding:
		if res.Form == nil {
			return nil
		}
		return []protocol.Location{{URI: res.Form.URI, Range: toRange(res.Form.NameSpan)}}
	default:
		return nil
	}
}

// references answers textDocument/references: every SymbolReference
// recorded under the resolved name, plus the definition site itself when
// the client asked for it.
func (s *Server) references(params *protocol.ReferenceParams) []protocol.Location {
	res, ok := s.resolve.Resolve(params.TextDocument.URI, params.Position.Line, params.Position.Character)
	if !ok || res.Name == "" {
		return nil
	}
	var out []protocol.Location
	if params.Context.IncludeDeclaration {
		for _, d := range s.ix.GetDefinitions(res.Name) {
			out = append(out, protocol.Location{URI: d.URI, Range: toRange(d.NameSpan)})
		}
	}
	for _, r := range s.ix.GetReferences(res.Name) {
		out = append(out, protocol.Location{URI: r.URI, Range: toRange(r.Span)})
	}
	return out
}

// prepareRename tells the editor which range will be renamed, refusing
// positions that don't resolve to a named symbol.
func (s *Server) prepareRename(params *protocol.TextDocumentPositionParams) *protocol.PrepareRenameResult {
	res, ok := s.resolve.Resolve(params.TextDocument.URI, params.Position.Line, params.Position.Character)
	if !ok || res.Name == "" {
		return nil
	}
	rng := protocol.Range{Start: params.Position, End: params.Position}
	if res.Symbol != nil {
		rng = toRange(res.Symbol.NameSpan)
	}
	name := res.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return &protocol.PrepareRenameResult{Range: rng, Placeholder: name}
}

// rename answers textDocument/rename: every definition and reference
// site of the resolved name gets its trailing path segment replaced with
// newName, preserving the `<owner>.` prefix untouched.
func (s *Server) rename(params *protocol.RenameParams) *protocol.WorkspaceEdit {
	res, ok := s.resolve.Resolve(params.TextDocument.URI, params.Position.Line, params.Position.Character)
	if !ok || res.Name == "" {
		return nil
	}

	changes := make(map[string][]protocol.TextEdit)
	apply := func(uri string, sp span.Span) {
		changes[uri] = append(changes[uri], protocol.TextEdit{Range: toRange(sp), NewText: params.NewName})
	}
	for _, d := range s.ix.GetDefinitions(res.Name) {
		apply(d.URI, d.NameSpan)
	}
	for _, r := range s.ix.GetReferences(res.Name) {
		apply(r.URI, r.Span)
	}
	if len(changes) == 0 {
		return nil
	}
	return &protocol.WorkspaceEdit{Changes: changes}
}

// completion answers textDocument/completion, following §6's per-file-
// type shape: JS gets scope properties, injected services, and root-
// scope properties of the enclosing controller; HTML gets in-scope
// locals, forms, controller-as aliases, enclosing controllers' $scope
// properties, and kebab-cased directive names.
func (s *Server) completion(params *protocol.TextDocumentPositionParams) *protocol.CompletionList {
	uri := params.TextDocument.URI
	line := params.Position.Line

	var items []protocol.CompletionItem
	if strings.HasSuffix(uri, ".js") {
		items = s.jsCompletions(uri, line)
	} else {
		items = s.htmlCompletions(uri, line)
	}
	return &protocol.CompletionList{IsIncomplete: false, Items: items}
}

func (s *Server) jsCompletions(uri string, line int) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, ctrl := range s.ix.Controllers.JSScopesInURI(uri) {
		if line < ctrl.StartLine || line > ctrl.EndLine {
			continue
		}
		prefix := ctrl.ControllerName + ".$scope."
		for _, sym := range s.ix.Definitions.All() {
			if strings.HasPrefix(sym.Name, prefix) {
				items = append(items, protocol.CompletionItem{
					Label: strings.TrimPrefix(sym.Name, prefix), Kind: kindFor(sym.Kind),
				})
			}
		}
		for _, svc := range ctrl.Injected {
			items = append(items, protocol.CompletionItem{Label: svc, Kind: protocol.CompletionKindClass})
		}
		rootPrefix := ctrl.ModuleName + ".$rootScope."
		for _, sym := range s.ix.Definitions.All() {
			if strings.HasPrefix(sym.Name, rootPrefix) {
				items = append(items, protocol.CompletionItem{
					Label: strings.TrimPrefix(sym.Name, rootPrefix), Kind: kindFor(sym.Kind),
				})
			}
		}
	}
	return items
}

func (s *Server) htmlCompletions(uri string, line int) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, lv := range s.ix.HTML.LocalVariables(uri) {
		if lv.ScopeSpan.ContainsLine(line) {
			items = append(items, protocol.CompletionItem{Label: lv.Name, Kind: protocol.CompletionKindVariable})
		}
	}
	for _, f := range s.ix.HTML.FormBindings(uri) {
		if f.ScopeSpan.ContainsLine(line) {
			items = append(items, protocol.CompletionItem{Label: f.FormName, Kind: protocol.CompletionKindVariable})
		}
	}
	for _, ctrl := range s.resolve.ControllersInScope(uri, line) {
		if ctrl.HasAlias {
			items = append(items, protocol.CompletionItem{Label: ctrl.Alias, Kind: protocol.CompletionKindClass})
		}
		prefix := ctrl.ControllerName + ".$scope."
		for _, sym := range s.ix.Definitions.All() {
			if strings.HasPrefix(sym.Name, prefix) {
				items = append(items, protocol.CompletionItem{
					Label: strings.TrimPrefix(sym.Name, prefix), Kind: kindFor(sym.Kind),
				})
			}
		}
	}
	seen := make(map[string]bool)
	for _, sym := range s.ix.Definitions.All() {
		if sym.Kind != model.KindDirective || seen[sym.Name] {
			continue
		}
		seen[sym.Name] = true
		items = append(items, protocol.CompletionItem{Label: sym.Name, Kind: protocol.CompletionKindClass})
	}
	return items
}

func kindFor(k model.SymbolKind) protocol.CompletionItemKind {
	switch k {
	case model.KindScopeMethod, model.KindRootScopeMethod, model.KindMethod:
		return protocol.CompletionKindMethod
	default:
		return protocol.CompletionKindField
	}
}

// signatureHelp answers textDocument/signatureHelp using the resolved
// symbol's stored Parameters (§6).
func (s *Server) signatureHelp(params *protocol.TextDocumentPositionParams) *protocol.SignatureHelp {
	res, ok := s.resolve.Resolve(params.TextDocument.URI, params.Position.Line, params.Position.Character)
	if !ok || res.Symbol == nil {
		return nil
	}
	paramInfos := make([]protocol.ParameterInformation, len(res.Symbol.Parameters))
	for i, p := range res.Symbol.Parameters {
		paramInfos[i] = protocol.ParameterInformation{Label: p}
	}
	label := fmt.Sprintf("%s(%s)", res.Symbol.Name, strings.Join(res.Symbol.Parameters, ", "))
	return &protocol.SignatureHelp{
		Signatures: []protocol.SignatureInformation{{Label: label, Parameters: paramInfos}},
	}
}

// documentSymbol answers textDocument/documentSymbol with every
// definition recorded in uri.
func (s *Server) documentSymbol(uri string) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, sym := range s.ix.Definitions.All() {
		if sym.URI != uri {
			continue
		}
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           symbolKindFor(sym.Kind),
			Range:          toRange(sym.DefinitionSpan),
			SelectionRange: toRange(sym.NameSpan),
		})
	}
	return out
}

// workspaceSymbol answers workspace/symbol with every definition whose
// name contains query (case-sensitive substring, matching the core's
// otherwise case-preserving identifier handling).
func (s *Server) workspaceSymbol(params *protocol.WorkspaceSymbolParams) []protocol.SymbolInformation {
	var out []protocol.SymbolInformation
	for _, sym := range s.ix.Definitions.All() {
		if params.Query != "" && !strings.Contains(sym.Name, params.Query) {
			continue
		}
		out = append(out, protocol.SymbolInformation{
			Name: sym.Name,
			Kind: symbolKindFor(sym.Kind),
			Location: protocol.Location{URI: sym.URI, Range: toRange(sym.NameSpan)},
		})
	}
	return out
}

func symbolKindFor(k model.SymbolKind) protocol.SymbolKind {
	switch k {
	case model.KindController, model.KindService, model.KindFactory, model.KindProvider, model.KindComponent:
		return protocol.SymbolKindClass
	case model.KindMethod, model.KindScopeMethod, model.KindRootScopeMethod:
		return protocol.SymbolKindMethod
	case model.KindScopeProperty, model.KindRootScopeProperty:
		return protocol.SymbolKindProperty
	default:
		return protocol.SymbolKindVariable
	}
}

// codeLens answers textDocument/codeLens: one lens per controller
// registration in uri, showing its reference count, derived straight
// from the Index the way §6 specifies.
func (s *Server) codeLens(uri string) []protocol.CodeLens {
	var out []protocol.CodeLens
	for _, sym := range s.ix.Definitions.All() {
		if sym.URI != uri || sym.Kind != model.KindController {
			continue
		}
		refCount := len(s.ix.GetReferences(sym.Name))
		out = append(out, protocol.CodeLens{
			Range: toRange(sym.NameSpan),
			Command: &protocol.Command{
				Title:   fmt.Sprintf("%d references", refCount),
				Command: "angularjs-lsp.showReferences",
				Arguments: []interface{}{sym.Name},
			},
		})
	}
	return out
}
