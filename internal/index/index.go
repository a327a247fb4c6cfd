// Package index is the concurrent symbol store (§4.2): six sub-stores
// composed behind one Index, plus a pending-reanalysis queue and an
// analyzed-HTML set used by the incremental engine (§4.9).
package index

import (
	"sync"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// Index aggregates every sub-store the analyzers and resolver consult.
// Sub-stores use their own internal locking; Index adds no locking of
// its own for them, only for the reanalysis queue and analyzed set,
// matching §4.2's "no global locks" requirement.
type Index struct {
	Definitions *DefinitionStore
	Controllers *ControllerStore
	Templates   *TemplateStore
	HTML        *HtmlStore
	Components  *ComponentStore
	Exports     *ExportStore

	mu             sync.Mutex
	pendingReanalysis map[string]bool
	analyzedHTML      map[string]bool
}

func New() *Index {
	return &Index{
		Definitions:       NewDefinitionStore(),
		Controllers:       NewControllerStore(),
		Templates:         NewTemplateStore(),
		HTML:              NewHtmlStore(),
		Components:        NewComponentStore(),
		Exports:           NewExportStore(),
		pendingReanalysis: make(map[string]bool),
		analyzedHTML:      make(map[string]bool),
	}
}

// AddDefinition delegates to DefinitionStore.
func (ix *Index) AddDefinition(sym model.Symbol) { ix.Definitions.AddDefinition(sym) }

// AddReference delegates to DefinitionStore.
func (ix *Index) AddReference(ref model.SymbolReference) { ix.Definitions.AddReference(ref) }

// GetDefinitions delegates to DefinitionStore.
func (ix *Index) GetDefinitions(name string) []model.Symbol { return ix.Definitions.GetDefinitions(name) }

// GetReferences delegates to DefinitionStore.
func (ix *Index) GetReferences(name string) []model.SymbolReference {
	return ix.Definitions.GetReferences(name)
}

// FindSymbolAtPosition delegates to DefinitionStore.
func (ix *Index) FindSymbolAtPosition(uri string, line, col int) (string, bool) {
	return ix.Definitions.FindSymbolAtPosition(uri, line, col)
}

// MarkHTMLAnalyzed records that uri has completed a full 4-pass analysis
// at least once; IsHTMLAnalyzed reports it. No analyzer consults this set
// or calls QueueReanalysis, so a child template analyzed before its
// parent is not queued for reanalysis; the child picks up the parent's
// context only through InheritedContextForChild at lookup time.
func (ix *Index) MarkHTMLAnalyzed(uri string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.analyzedHTML[uri] = true
}

func (ix *Index) IsHTMLAnalyzed(uri string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.analyzedHTML[uri]
}

// QueueReanalysis enqueues uri for reanalysis (a child whose parent's
// inheritance just changed). The current URI is never queued for
// itself — callers must check before calling.
func (ix *Index) QueueReanalysis(uri string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.pendingReanalysis[uri] = true
}

// DrainReanalysisQueue returns and clears the set of URIs pending
// reanalysis.
func (ix *Index) DrainReanalysisQueue() []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	out := make([]string, 0, len(ix.pendingReanalysis))
	for uri := range ix.pendingReanalysis {
		out = append(out, uri)
	}
	ix.pendingReanalysis = make(map[string]bool)
	return out
}

// ClearDocument removes every per-file entry for uri across all
// sub-stores, including this URI's role as a parent in ng-include
// bindings (§4.2).
func (ix *Index) ClearDocument(uri string) {
	ix.Definitions.ClearURI(uri)
	ix.Controllers.ClearURI(uri)
	ix.Templates.ClearURI(uri)
	ix.HTML.ClearURI(uri)
	ix.Components.ClearURI(uri)
	ix.Exports.ClearURI(uri)

	ix.mu.Lock()
	delete(ix.analyzedHTML, uri)
	delete(ix.pendingReanalysis, uri)
	ix.mu.Unlock()
}

// ClearHtmlReferences is the narrower form HTML Pass 3 uses: clears only
// $scope references, local-var defs/refs, and directive refs, preserving
// ng-controller scopes, ng-include bindings, and form bindings collected
// in earlier passes (§4.2).
func (ix *Index) ClearHtmlReferences(uri string) {
	ix.HTML.ClearReferences(uri)
}

// ClearAll resets every sub-store and tracking set to empty, used by the
// `refreshIndex` command (§6).
func (ix *Index) ClearAll() {
	fresh := New()
	ix.Definitions = fresh.Definitions
	ix.Controllers = fresh.Controllers
	ix.Templates = fresh.Templates
	ix.HTML = fresh.HTML
	ix.Components = fresh.Components
	ix.Exports = fresh.Exports

	ix.mu.Lock()
	ix.pendingReanalysis = make(map[string]bool)
	ix.analyzedHTML = make(map[string]bool)
	ix.mu.Unlock()
}
