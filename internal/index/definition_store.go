package index

import (
	"sync"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/span"
)

// DefinitionStore holds name-keyed definitions and references, plus a
// reverse URI->names index so a single file's entries can be found and
// cleared without scanning every name bucket (§4.2).
type DefinitionStore struct {
	mu   sync.RWMutex
	defs map[string][]model.Symbol
	refs map[string][]model.SymbolReference

	defNamesByURI map[string]map[string]bool
	refNamesByURI map[string]map[string]bool
}

func NewDefinitionStore() *DefinitionStore {
	return &DefinitionStore{
		defs:          make(map[string][]model.Symbol),
		refs:          make(map[string][]model.SymbolReference),
		defNamesByURI: make(map[string]map[string]bool),
		refNamesByURI: make(map[string]map[string]bool),
	}
}

// AddDefinition inserts a symbol, idempotent on (URI, nameSpan start).
func (s *DefinitionStore) AddDefinition(sym model.Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.defs[sym.Name]
	for _, d := range existing {
		if d.URI == sym.URI && d.NameSpan.Start() == sym.NameSpan.Start() {
			return
		}
	}
	s.defs[sym.Name] = append(existing, sym)

	names := s.defNamesByURI[sym.URI]
	if names == nil {
		names = make(map[string]bool)
		s.defNamesByURI[sym.URI] = names
	}
	names[sym.Name] = true
}

// AddReference inserts a reference, idempotent on (URI, span start).
func (s *DefinitionStore) AddReference(ref model.SymbolReference) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.refs[ref.Name]
	for _, r := range existing {
		if r.URI == ref.URI && r.Span.Start() == ref.Span.Start() {
			return
		}
	}
	s.refs[ref.Name] = append(existing, ref)

	names := s.refNamesByURI[ref.URI]
	if names == nil {
		names = make(map[string]bool)
		s.refNamesByURI[ref.URI] = names
	}
	names[ref.Name] = true
}

// GetDefinitions returns a snapshot of all symbols registered under name.
func (s *DefinitionStore) GetDefinitions(name string) []model.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Symbol, len(s.defs[name]))
	copy(out, s.defs[name])
	return out
}

// GetReferences returns a snapshot of all references registered under name.
func (s *DefinitionStore) GetReferences(name string) []model.SymbolReference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SymbolReference, len(s.refs[name]))
	copy(out, s.refs[name])
	return out
}

// DefinitionsForURI returns a snapshot of every symbol defined in uri,
// used by the cache to serialize a file's contribution to symbols.bin.
func (s *DefinitionStore) DefinitionsForURI(uri string) []model.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Symbol
	for name := range s.defNamesByURI[uri] {
		for _, d := range s.defs[name] {
			if d.URI == uri {
				out = append(out, d)
			}
		}
	}
	return out
}

// ReferencesForURI returns a snapshot of every reference recorded in uri.
func (s *DefinitionStore) ReferencesForURI(uri string) []model.SymbolReference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.SymbolReference
	for name := range s.refNamesByURI[uri] {
		for _, r := range s.refs[name] {
			if r.URI == uri {
				out = append(out, r)
			}
		}
	}
	return out
}

// All returns a snapshot of every definition in the store, across every
// name and file, used by documentSymbol/workspaceSymbol and by
// completion's directive-name listing.
func (s *DefinitionStore) All() []model.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Symbol
	for _, syms := range s.defs {
		out = append(out, syms...)
	}
	return out
}

// HasDefinition reports whether any symbol is registered under name.
func (s *DefinitionStore) HasDefinition(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.defs[name]) > 0
}

// positionMatch is a candidate returned while scanning for the symbol at
// a position: whether it came from a definition (wins ties over a
// reference) and its span (for size-based tie-breaking).
type positionMatch struct {
	name       string
	span       span.Span
	isDefiniton bool
}

// FindSymbolAtPosition returns the name of the definition or reference
// whose span contains (line, col) in URI. Any containing definition beats
// every reference; among candidates of the same kind the smaller span
// wins (§4.2).
func (s *DefinitionStore) FindSymbolAtPosition(uri string, line, col int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *positionMatch

	for name, syms := range s.defs {
		for _, d := range syms {
			if d.URI != uri || !d.NameSpan.Contains(line, col) {
				continue
			}
			cand := positionMatch{name: name, span: d.NameSpan, isDefiniton: true}
			if better(&cand, best) {
				best = &cand
			}
		}
	}
	for name, refs := range s.refs {
		for _, r := range refs {
			if r.URI != uri || !r.Span.Contains(line, col) {
				continue
			}
			cand := positionMatch{name: name, span: r.Span, isDefiniton: false}
			if better(&cand, best) {
				best = &cand
			}
		}
	}
	if best == nil {
		return "", false
	}
	return best.name, true
}

// better reports whether cand should replace best under the tie-break
// rule: definition over reference, then smaller span wins.
func better(cand, best *positionMatch) bool {
	if best == nil {
		return true
	}
	if cand.isDefiniton != best.isDefiniton {
		return cand.isDefiniton
	}
	return cand.span.Size() < best.span.Size()
}

// ClearURI removes every definition and reference whose URI matches.
func (s *DefinitionStore) ClearURI(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range s.defNamesByURI[uri] {
		filtered := s.defs[name][:0]
		for _, d := range s.defs[name] {
			if d.URI != uri {
				filtered = append(filtered, d)
			}
		}
		if len(filtered) == 0 {
			delete(s.defs, name)
		} else {
			s.defs[name] = filtered
		}
	}
	delete(s.defNamesByURI, uri)

	for name := range s.refNamesByURI[uri] {
		filtered := s.refs[name][:0]
		for _, r := range s.refs[name] {
			if r.URI != uri {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == 0 {
			delete(s.refs, name)
		} else {
			s.refs[name] = filtered
		}
	}
	delete(s.refNamesByURI, uri)
}
