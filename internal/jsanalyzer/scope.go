package jsanalyzer

import "github.com/angularjs-lsp/angularjs-lsp/internal/span"

// diScope is a walker-context frame (GLOSSARY "DI scope"): the injected
// dep names, whether $scope/$rootScope are present, and the line range
// the frame covers. ControllerName is set only for `.controller(...)`
// registrations, since $scope/this.x symbol names are qualified by it.
type diScope struct {
	controllerName string
	moduleName     string
	deps           []string
	hasScope       bool
	hasRootScope   bool
	body           span.Span
}

func newScope(controllerName, moduleName string, deps []string, body span.Span) diScope {
	return diScope{
		controllerName: controllerName,
		moduleName:     moduleName,
		deps:           deps,
		hasScope:       hasDollarScope(deps),
		hasRootScope:   hasDollarRootScope(deps),
		body:           body,
	}
}

func (s diScope) injects(name string) bool {
	for _, d := range s.deps {
		if d == name {
			return true
		}
	}
	return false
}

// enclosingScope returns the smallest scope (by body span size) among
// scopes whose body range contains line, or nil if none does.
func enclosingScope(scopes []diScope, line int) *diScope {
	var best *diScope
	for i := range scopes {
		s := &scopes[i]
		if !s.body.ContainsLine(line) {
			continue
		}
		if best == nil || s.body.Size() < best.body.Size() {
			best = s
		}
	}
	return best
}
