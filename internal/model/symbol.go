// Package model holds the data types the Index stores and the analyzers
// produce: Symbol/SymbolReference and the AngularJS-specific records
// (controller scopes, template bindings, ng-include inheritance, HTML
// locals/forms/scope references, exports).
package model

import "github.com/angularjs-lsp/angularjs-lsp/internal/span"

// SymbolKind is the closed set of symbol kinds the analyzers recognize.
type SymbolKind int

const (
	KindModule SymbolKind = iota
	KindController
	KindService
	KindFactory
	KindDirective
	KindComponent
	KindProvider
	KindFilter
	KindConstant
	KindValue
	KindMethod
	KindScopeProperty
	KindScopeMethod
	KindRootScopeProperty
	KindRootScopeMethod
	KindFormBinding
	KindExportedComponent
	KindComponentBinding
)

func (k SymbolKind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindController:
		return "Controller"
	case KindService:
		return "Service"
	case KindFactory:
		return "Factory"
	case KindDirective:
		return "Directive"
	case KindComponent:
		return "Component"
	case KindProvider:
		return "Provider"
	case KindFilter:
		return "Filter"
	case KindConstant:
		return "Constant"
	case KindValue:
		return "Value"
	case KindMethod:
		return "Method"
	case KindScopeProperty:
		return "ScopeProperty"
	case KindScopeMethod:
		return "ScopeMethod"
	case KindRootScopeProperty:
		return "RootScopeProperty"
	case KindRootScopeMethod:
		return "RootScopeMethod"
	case KindFormBinding:
		return "FormBinding"
	case KindExportedComponent:
		return "ExportedComponent"
	case KindComponentBinding:
		return "ComponentBinding"
	default:
		return "Unknown"
	}
}

// Symbol is a named, kinded definition. NameSpan is the identifier
// occurrence used for hit-testing; DefinitionSpan is the jump target
// (usually the registered function/class body). For `$scope.x = …`
// assignments the two spans coincide on the property identifier.
type Symbol struct {
	Name           string
	Kind           SymbolKind
	URI            string
	DefinitionSpan span.Span
	NameSpan       span.Span
	Docs           string
	Parameters     []string
}

// SymbolReference is an occurrence of a name that is not necessarily
// paired with a Symbol — references may precede or exist without a
// definition (e.g. a $scope property assigned asynchronously elsewhere).
type SymbolReference struct {
	Name string
	URI  string
	Span span.Span
}
