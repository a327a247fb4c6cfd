package index

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

const maxPropagationDepth = 64

// TemplateStore holds TemplateBindings (JS/ng-controller -> template),
// NgIncludeBindings (template -> template inheritance edges), NgViewBindings
// (the $routeProvider-reached virtual parents), and the set of template
// paths ever registered via $routeProvider. It implements the inheritance
// propagation algorithm of §4.3.
//
// NgIncludeBindings are keyed by a composite of (parent URI, binding
// line, normalized template path) — that keying discipline comes
// straight from the original implementation's template_store.rs. This
// store folds the composite into an xxhash-64 key rather than keeping
// the formatted string as the map key itself, the same fast
// content-keying idiom the teacher uses in php/indexer.go's file-hash
// table.
type TemplateStore struct {
	mu sync.RWMutex

	bindings      map[string][]model.TemplateBinding // normalized template path -> bindings
	bindingsByURI map[string][]string                // URI -> template paths it contributed bindings for

	ngIncludes       map[uint64]model.NgIncludeBinding
	ngIncludesByURI  map[string][]uint64 // parent URI -> keys, for clearDocument
	ngViews          []model.NgViewBinding
	routeProviderSet map[string]bool
}

func NewTemplateStore() *TemplateStore {
	return &TemplateStore{
		bindings:         make(map[string][]model.TemplateBinding),
		bindingsByURI:    make(map[string][]string),
		ngIncludes:       make(map[uint64]model.NgIncludeBinding),
		ngIncludesByURI:  make(map[string][]uint64),
		routeProviderSet: make(map[string]bool),
	}
}

func compositeKey(parentURI string, line int, templatePath string) string {
	return fmt.Sprintf("%s#%d#%s", parentURI, line, templatePath)
}

func hashKey(parentURI string, line int, templatePath string) uint64 {
	return xxhash.Sum64String(compositeKey(parentURI, line, templatePath))
}

// AddTemplateBinding registers a JS/ng-controller -> template link and
// propagates it as an inheritance root (§4.3: "treat T as a root with
// inheritance [C]").
func (s *TemplateStore) AddTemplateBinding(b model.TemplateBinding) {
	s.mu.Lock()
	for _, existing := range s.bindings[b.TemplatePath] {
		if existing.URI == b.URI && existing.Line == b.Line && existing.ControllerName == b.ControllerName {
			s.mu.Unlock()
			return
		}
	}
	s.bindings[b.TemplatePath] = append(s.bindings[b.TemplatePath], b)
	s.bindingsByURI[b.URI] = append(s.bindingsByURI[b.URI], b.TemplatePath)
	if b.Source == model.SourceRouteProvider {
		s.routeProviderSet[b.TemplatePath] = true
	}
	s.mu.Unlock()

	root := model.InheritedContext{
		Controllers: []model.HtmlControllerScope{{
			ControllerName: b.ControllerName,
			URI:            b.URI,
			StartLine:      0,
			EndLine:        int(^uint(0) >> 1),
		}},
	}
	s.propagate(b.TemplatePath, root, make(map[uint64]bool), 0)
}

// GetTemplateBindings returns a snapshot of the bindings for a
// (already-normalized) template path.
func (s *TemplateStore) GetTemplateBindings(templatePath string) []model.TemplateBinding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TemplateBinding, len(s.bindings[templatePath]))
	copy(out, s.bindings[templatePath])
	return out
}

// RouteProviderTemplatePaths returns every template path ever registered
// via $routeProvider, used to drive applyAllNgViewInheritances.
func (s *TemplateStore) RouteProviderTemplatePaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.routeProviderSet))
	for p := range s.routeProviderSet {
		out = append(out, p)
	}
	return out
}

// AddNgIncludeBinding inserts or merges an ng-include edge, then
// propagates its inherited context into any already-registered
// descendants (§4.3).
func (s *TemplateStore) AddNgIncludeBinding(b model.NgIncludeBinding) {
	key := hashKey(b.ParentURI, b.Line, b.TemplatePath)

	s.mu.Lock()
	if existing, ok := s.ngIncludes[key]; ok {
		existing.Inherited.MergeAppendIfAbsent(b.Inherited)
		s.ngIncludes[key] = existing
	} else {
		s.ngIncludes[key] = b
		s.ngIncludesByURI[b.ParentURI] = append(s.ngIncludesByURI[b.ParentURI], key)
	}
	inherited := s.ngIncludes[key].Inherited
	s.mu.Unlock()

	s.propagate(b.TemplatePath, inherited, make(map[uint64]bool), 0)
}

// AddNgViewBinding records a virtual ng-view parent context, consulted
// by applyAllNgViewInheritances.
func (s *TemplateStore) AddNgViewBinding(b model.NgViewBinding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ngViews = append(s.ngViews, b)
}

// ApplyAllNgViewInheritances synthesizes an NgIncludeBinding, carrying the
// union of every NgViewBinding's inherited context, for each template
// path ever registered via $routeProvider (§4.3). Call this at workspace
// scan Phase 3 and whenever the $routeProvider set changes.
func (s *TemplateStore) ApplyAllNgViewInheritances() {
	s.mu.RLock()
	union := model.InheritedContext{}
	for _, v := range s.ngViews {
		union.MergeAppendIfAbsent(v.Inherited)
	}
	paths := make([]string, 0, len(s.routeProviderSet))
	for p := range s.routeProviderSet {
		paths = append(paths, p)
	}
	s.mu.RUnlock()

	if len(s.ngViews) == 0 {
		return
	}
	for _, path := range paths {
		s.AddNgIncludeBinding(model.NgIncludeBinding{
			ParentURI:        "<route-view>",
			TemplatePath:     path,
			ResolvedFilename: path,
			Inherited:        union,
		})
	}
}

// propagate merges inherited into every existing NgIncludeBinding whose
// ParentURI ends with templatePath (i.e. that binding's parent IS the
// template being propagated from), then recurses into each of those
// bindings' own descendants. Depth-bounded and visited-set-guarded to
// tolerate cyclic ng-include graphs (§9).
func (s *TemplateStore) propagate(templatePath string, inherited model.InheritedContext, visited map[uint64]bool, depth int) {
	if depth >= maxPropagationDepth || templatePath == "" {
		return
	}

	s.mu.Lock()
	var toRecurse []model.NgIncludeBinding
	for key, b := range s.ngIncludes {
		if visited[key] {
			continue
		}
		if !strings.HasSuffix(b.ParentURI, templatePath) {
			continue
		}
		changed := b.Inherited.MergeAppendIfAbsent(inherited)
		s.ngIncludes[key] = b
		if changed {
			visited[key] = true
			toRecurse = append(toRecurse, b)
		}
	}
	s.mu.Unlock()

	for _, b := range toRecurse {
		s.propagate(b.TemplatePath, b.Inherited, visited, depth+1)
	}
}

// AllBindings returns a snapshot of every TemplateBinding across every
// template path, used to serialize the workspace-level global.bin bundle
// (§4.8).
func (s *TemplateStore) AllBindings() []model.TemplateBinding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.TemplateBinding
	for _, list := range s.bindings {
		out = append(out, list...)
	}
	return out
}

// AllNgIncludeBindings returns a snapshot of every NgIncludeBinding, used
// to serialize global.bin.
func (s *TemplateStore) AllNgIncludeBindings() []model.NgIncludeBinding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.NgIncludeBinding, 0, len(s.ngIncludes))
	for _, b := range s.ngIncludes {
		out = append(out, b)
	}
	return out
}

// GetNgIncludeBinding looks up a binding by its composite key.
func (s *TemplateStore) GetNgIncludeBinding(parentURI string, line int, templatePath string) (model.NgIncludeBinding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.ngIncludes[hashKey(parentURI, line, templatePath)]
	return b, ok
}

// NgIncludeBindingsForURI returns every ng-include edge whose parent is uri.
func (s *TemplateStore) NgIncludeBindingsForURI(uri string) []model.NgIncludeBinding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.ngIncludesByURI[uri]
	out := make([]model.NgIncludeBinding, 0, len(keys))
	for _, k := range keys {
		if b, ok := s.ngIncludes[k]; ok {
			out = append(out, b)
		}
	}
	return out
}

// InheritedContextForChild unions the inherited context of every
// NgIncludeBinding whose TemplatePath resolves to childURI, used by the
// resolver to look up a child HTML file's ng-include-inherited
// controllers/locals/forms (§4.6).
func (s *TemplateStore) InheritedContextForChild(childURI string) model.InheritedContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var union model.InheritedContext
	for _, b := range s.ngIncludes {
		if b.TemplatePath == childURI || b.ResolvedFilename == childURI {
			union.MergeAppendIfAbsent(b.Inherited)
		}
	}
	return union
}

// ClearURI removes every TemplateBinding and NgIncludeBinding whose site
// (URI or ParentURI) is uri — §4.2's clearDocument requirement to remove
// this URI as a parent in ng-include bindings.
func (s *TemplateStore) ClearURI(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range s.bindingsByURI[uri] {
		filtered := s.bindings[path][:0]
		for _, b := range s.bindings[path] {
			if b.URI != uri {
				filtered = append(filtered, b)
			}
		}
		if len(filtered) == 0 {
			delete(s.bindings, path)
		} else {
			s.bindings[path] = filtered
		}
	}
	delete(s.bindingsByURI, uri)

	for _, key := range s.ngIncludesByURI[uri] {
		delete(s.ngIncludes, key)
	}
	delete(s.ngIncludesByURI, uri)

	filteredViews := s.ngViews[:0]
	for _, v := range s.ngViews {
		if v.ParentURI != uri {
			filteredViews = append(filteredViews, v)
		}
	}
	s.ngViews = filteredViews
}
