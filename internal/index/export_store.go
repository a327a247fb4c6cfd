package index

import (
	"sync"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// ExportStore holds ES6 `export default` descriptors, keyed by URI. The
// JS analyzer does not record exports, so entries come only from a cache
// restore (internal/cache), and no resolution step reads them to connect
// `Component.name`/`Component.config` patterns to a component.
type ExportStore struct {
	mu   sync.RWMutex
	data map[string][]model.ExportInfo
}

func NewExportStore() *ExportStore {
	return &ExportStore{data: make(map[string][]model.ExportInfo)}
}

func (s *ExportStore) Add(e model.ExportInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[e.URI] = append(s.data[e.URI], e)
}

// DefaultExport returns the first (and conventionally only) export
// default recorded for uri.
func (s *ExportStore) DefaultExport(uri string) (model.ExportInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.data[uri]
	if len(list) == 0 {
		return model.ExportInfo{}, false
	}
	return list[0], true
}

// ForURI returns a snapshot of every export recorded in uri, used by the
// cache to serialize a file's contribution to symbols.bin.
func (s *ExportStore) ForURI(uri string) []model.ExportInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ExportInfo, len(s.data[uri]))
	copy(out, s.data[uri])
	return out
}

func (s *ExportStore) ClearURI(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, uri)
}
