package model

// ControllerScope is a JS-side controller: the line range of its body and
// the names injected into it, used by the resolver for $scope/$rootScope
// lookups and by the JS analyzer's reference pass for DI gating.
type ControllerScope struct {
	ControllerName string
	ModuleName     string
	URI            string
	StartLine      int
	EndLine        int
	Injected       []string
}

// HtmlControllerScope is an `ng-controller`/`data-ng-controller` element:
// the controller name it binds, its optional `controller as` alias, and
// the line range of the owning element.
type HtmlControllerScope struct {
	ControllerName string
	Alias          string
	HasAlias       bool
	URI            string
	StartLine      int
	EndLine        int
}
