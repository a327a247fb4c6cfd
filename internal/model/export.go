package model

// ExportedComponentObject is the object literal passed to an ES6
// `export default` that a later `.component(Ident.name, Ident.config)`
// call dereferences, e.g. `export default { name: 'myWidget', config: {...} }`.
type ExportedComponentObject struct {
	Name         string
	TemplateURL  string
	Controller   string
	ControllerAs string
	Bindings     map[string]string
}

// ExportInfo records an ES6 `export default` in a file: either a bare
// identifier re-export, or an inline object recognized as a component
// descriptor.
type ExportInfo struct {
	URI       string
	Line      int
	Component *ExportedComponentObject
}
