package model

// BindingSource identifies how a TemplateBinding was established.
type BindingSource int

const (
	SourceNgController BindingSource = iota
	SourceRouteProvider
	SourceStateProvider
	SourceUibModal
)

func (s BindingSource) String() string {
	switch s {
	case SourceNgController:
		return "NgController"
	case SourceRouteProvider:
		return "RouteProvider"
	case SourceStateProvider:
		return "StateProvider"
	case SourceUibModal:
		return "UibModal"
	default:
		return "Unknown"
	}
}

// TemplateBinding links a normalized template path to a controller name,
// established from JS ($routeProvider/$stateProvider/$uibModal) or from
// an inline `ng-controller` attribute.
type TemplateBinding struct {
	TemplatePath   string
	ControllerName string
	Source         BindingSource
	URI            string
	Line           int
}

// ComponentTemplateUrl is a `.component(...)`'s templateUrl literal: the
// owning JS file, the normalized path, the literal's position, and the
// controller/controllerAs it binds (controllerAs defaults to "$ctrl").
type ComponentTemplateUrl struct {
	URI            string
	TemplatePath   string
	Line           int
	Col            int
	ControllerName string
	ControllerAs   string
}
