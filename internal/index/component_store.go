package index

import (
	"sync"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// ComponentStore holds `.component(...)` templateUrl records, keyed by
// owning JS URI.
type ComponentStore struct {
	mu   sync.RWMutex
	data map[string][]model.ComponentTemplateUrl
}

func NewComponentStore() *ComponentStore {
	return &ComponentStore{data: make(map[string][]model.ComponentTemplateUrl)}
}

func (s *ComponentStore) Add(c model.ComponentTemplateUrl) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[c.URI] = append(s.data[c.URI], c)
}

// ForTemplatePath returns every component whose normalized templateUrl
// matches path, across all files.
func (s *ComponentStore) ForTemplatePath(path string) []model.ComponentTemplateUrl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ComponentTemplateUrl
	for _, list := range s.data {
		for _, c := range list {
			if c.TemplatePath == path {
				out = append(out, c)
			}
		}
	}
	return out
}

// ForURI returns a snapshot of the components registered in uri, used by
// the cache to serialize a file's contribution to symbols.bin.
func (s *ComponentStore) ForURI(uri string) []model.ComponentTemplateUrl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ComponentTemplateUrl, len(s.data[uri]))
	copy(out, s.data[uri])
	return out
}

func (s *ComponentStore) ClearURI(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, uri)
}
