package index

import (
	"sync"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// htmlFileData is all per-file HTML-analyzer output for one URI.
type htmlFileData struct {
	locals        []model.HtmlLocalVariable
	localRefs     []model.HtmlLocalVariableReference
	forms         []model.HtmlFormBinding
	scopeRefs     []model.HtmlScopeReference
	directiveRefs []model.HtmlDirectiveReference
}

// HtmlStore holds every per-file HTML-analyzer record, keyed by URI.
type HtmlStore struct {
	mu   sync.RWMutex
	data map[string]*htmlFileData
}

func NewHtmlStore() *HtmlStore {
	return &HtmlStore{data: make(map[string]*htmlFileData)}
}

func (s *HtmlStore) entry(uri string) *htmlFileData {
	d, ok := s.data[uri]
	if !ok {
		d = &htmlFileData{}
		s.data[uri] = d
	}
	return d
}

func (s *HtmlStore) AddLocalVariable(v model.HtmlLocalVariable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(v.URI).locals = append(s.entry(v.URI).locals, v)
}

func (s *HtmlStore) AddLocalVariableReference(r model.HtmlLocalVariableReference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(r.URI).localRefs = append(s.entry(r.URI).localRefs, r)
}

func (s *HtmlStore) AddFormBinding(f model.HtmlFormBinding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(f.URI).forms = append(s.entry(f.URI).forms, f)
}

func (s *HtmlStore) AddScopeReference(r model.HtmlScopeReference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(r.URI).scopeRefs = append(s.entry(r.URI).scopeRefs, r)
}

func (s *HtmlStore) AddDirectiveReference(r model.HtmlDirectiveReference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(r.URI).directiveRefs = append(s.entry(r.URI).directiveRefs, r)
}

func (s *HtmlStore) LocalVariables(uri string) []model.HtmlLocalVariable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.data[uri]; ok {
		out := make([]model.HtmlLocalVariable, len(d.locals))
		copy(out, d.locals)
		return out
	}
	return nil
}

func (s *HtmlStore) LocalVariableReferences(uri string) []model.HtmlLocalVariableReference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.data[uri]; ok {
		out := make([]model.HtmlLocalVariableReference, len(d.localRefs))
		copy(out, d.localRefs)
		return out
	}
	return nil
}

func (s *HtmlStore) FormBindings(uri string) []model.HtmlFormBinding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.data[uri]; ok {
		out := make([]model.HtmlFormBinding, len(d.forms))
		copy(out, d.forms)
		return out
	}
	return nil
}

func (s *HtmlStore) ScopeReferences(uri string) []model.HtmlScopeReference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.data[uri]; ok {
		out := make([]model.HtmlScopeReference, len(d.scopeRefs))
		copy(out, d.scopeRefs)
		return out
	}
	return nil
}

func (s *HtmlStore) DirectiveReferences(uri string) []model.HtmlDirectiveReference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.data[uri]; ok {
		out := make([]model.HtmlDirectiveReference, len(d.directiveRefs))
		copy(out, d.directiveRefs)
		return out
	}
	return nil
}

// ClearURI removes all per-file HTML data for uri, form bindings
// included (used by clearDocument; it does not remove controller scopes
// or ng-include bindings — those are owned by ControllerStore and
// TemplateStore).
func (s *HtmlStore) ClearURI(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, uri)
}

// ClearReferences clears only $scope references, local-var defs/refs,
// and directive refs for uri, preserving forms — used by
// clearHtmlReferences (§4.2), which HTML Pass 3 calls before
// re-collecting references so ng-controller scopes, ng-include
// bindings and form bindings (collected in earlier passes) survive.
func (s *HtmlStore) ClearReferences(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[uri]
	if !ok {
		return
	}
	d.locals = nil
	d.localRefs = nil
	d.scopeRefs = nil
	d.directiveRefs = nil
}
