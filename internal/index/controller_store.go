package index

import (
	"sync"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// ControllerStore holds JS controller scopes and HTML ng-controller
// scopes, both keyed by owning URI.
type ControllerStore struct {
	mu     sync.RWMutex
	js     map[string][]model.ControllerScope
	html   map[string][]model.HtmlControllerScope
}

func NewControllerStore() *ControllerStore {
	return &ControllerStore{
		js:   make(map[string][]model.ControllerScope),
		html: make(map[string][]model.HtmlControllerScope),
	}
}

func (s *ControllerStore) AddJS(scope model.ControllerScope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.js[scope.URI] = append(s.js[scope.URI], scope)
}

func (s *ControllerStore) AddHTML(scope model.HtmlControllerScope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html[scope.URI] = append(s.html[scope.URI], scope)
}

// JSByName returns every JS controller scope registered under name,
// across all files.
func (s *ControllerStore) JSByName(name string) []model.ControllerScope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ControllerScope
	for _, scopes := range s.js {
		for _, sc := range scopes {
			if sc.ControllerName == name {
				out = append(out, sc)
			}
		}
	}
	return out
}

// JSScopesInURI returns a snapshot of the JS controller scopes declared
// in uri, used by the cache to serialize a file's contribution to
// symbols.bin.
func (s *ControllerStore) JSScopesInURI(uri string) []model.ControllerScope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ControllerScope, len(s.js[uri]))
	copy(out, s.js[uri])
	return out
}

// HTMLScopesInURI returns a snapshot of the HTML controller scopes
// declared in URI, in declaration order.
func (s *ControllerStore) HTMLScopesInURI(uri string) []model.HtmlControllerScope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.HtmlControllerScope, len(s.html[uri]))
	copy(out, s.html[uri])
	return out
}

// HTMLScopesContainingLine returns the HTML controller scopes in URI
// whose element range contains line, outer-to-inner is NOT guaranteed by
// this method alone — callers sort by span size when nesting order
// matters (§4.6 resolveControllersForHtml).
func (s *ControllerStore) HTMLScopesContainingLine(uri string, line int) []model.HtmlControllerScope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.HtmlControllerScope
	for _, sc := range s.html[uri] {
		if line >= sc.StartLine && line <= sc.EndLine {
			out = append(out, sc)
		}
	}
	return out
}

func (s *ControllerStore) ClearURI(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.js, uri)
	delete(s.html, uri)
}
