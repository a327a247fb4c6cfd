package cache

import (
	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// FileSymbols is one file's complete contribution to the Index, the unit
// symbols.bin bundles one entry per cached path.
type FileSymbols struct {
	Definitions     []model.Symbol
	References      []model.SymbolReference
	JSControllers   []model.ControllerScope
	HTMLControllers []model.HtmlControllerScope
	Locals          []model.HtmlLocalVariable
	LocalRefs       []model.HtmlLocalVariableReference
	Forms           []model.HtmlFormBinding
	ScopeRefs       []model.HtmlScopeReference
	DirectiveRefs   []model.HtmlDirectiveReference
	Components      []model.ComponentTemplateUrl
	Exports         []model.ExportInfo
}

// GlobalSymbols is the workspace-level bundle global.bin holds: bindings
// that don't belong to any single file's entry because they describe
// cross-file edges (a JS route config pointing at a template, a
// template including another template).
type GlobalSymbols struct {
	TemplateBindings  []model.TemplateBinding
	NgIncludeBindings []model.NgIncludeBinding
}

// snapshotFileSymbols gathers every record ix holds for uri into a
// FileSymbols bundle.
func snapshotFileSymbols(ix *index.Index, uri string) FileSymbols {
	return FileSymbols{
		Definitions:     ix.Definitions.DefinitionsForURI(uri),
		References:      ix.Definitions.ReferencesForURI(uri),
		JSControllers:   ix.Controllers.JSScopesInURI(uri),
		HTMLControllers: ix.Controllers.HTMLScopesInURI(uri),
		Locals:          ix.HTML.LocalVariables(uri),
		LocalRefs:       ix.HTML.LocalVariableReferences(uri),
		Forms:           ix.HTML.FormBindings(uri),
		ScopeRefs:       ix.HTML.ScopeReferences(uri),
		DirectiveRefs:   ix.HTML.DirectiveReferences(uri),
		Components:      ix.Components.ForURI(uri),
		Exports:         ix.Exports.ForURI(uri),
	}
}

// restoreFileSymbols replays a FileSymbols bundle back into ix through
// the same Add* entry points the analyzers use, so the idempotent-insert
// rules (first-wins on (URI, span start)) apply uniformly whether a
// record came from a fresh parse or a warm cache.
func restoreFileSymbols(ix *index.Index, uri string, bundle FileSymbols) {
	_ = uri
	for _, d := range bundle.Definitions {
		ix.AddDefinition(d)
	}
	for _, r := range bundle.References {
		ix.AddReference(r)
	}
	for _, sc := range bundle.JSControllers {
		ix.Controllers.AddJS(sc)
	}
	for _, sc := range bundle.HTMLControllers {
		ix.Controllers.AddHTML(sc)
	}
	for _, v := range bundle.Locals {
		ix.HTML.AddLocalVariable(v)
	}
	for _, r := range bundle.LocalRefs {
		ix.HTML.AddLocalVariableReference(r)
	}
	for _, f := range bundle.Forms {
		ix.HTML.AddFormBinding(f)
	}
	for _, r := range bundle.ScopeRefs {
		ix.HTML.AddScopeReference(r)
	}
	for _, r := range bundle.DirectiveRefs {
		ix.HTML.AddDirectiveReference(r)
	}
	for _, c := range bundle.Components {
		ix.Components.Add(c)
	}
	for _, e := range bundle.Exports {
		ix.Exports.Add(e)
	}
	ix.MarkHTMLAnalyzed(uri)
}

// restoreGlobal replays global.bin's bindings, skipping any whose owning
// file is not in valid — a stale file is about to be re-scanned, and
// re-scanning will re-establish (or correct) its own bindings through
// the ordinary analyzer path, so restoring its old bindings here would
// just be overwritten or, worse, leave a binding for content that no
// longer registers it.
func restoreGlobal(ix *index.Index, global GlobalSymbols, valid map[string]bool) {
	for _, b := range global.TemplateBindings {
		if !valid[b.URI] {
			continue
		}
		ix.Templates.AddTemplateBinding(b)
	}
	for _, b := range global.NgIncludeBindings {
		if b.ParentURI != "<route-view>" && !valid[b.ParentURI] {
			continue
		}
		ix.Templates.AddNgIncludeBinding(b)
	}
}
