package model

// InheritedContext is the full ancestor context captured at an
// ng-include/ng-view binding site: the controllers, local variables and
// form bindings visible at that point in the template, used to resolve
// references inside the included child.
type InheritedContext struct {
	Controllers    []HtmlControllerScope
	LocalVariables []HtmlLocalVariable
	FormBindings   []HtmlFormBinding
}

// ControllerNames returns the controller names present in the context,
// in order.
func (c InheritedContext) ControllerNames() []string {
	names := make([]string, 0, len(c.Controllers))
	for _, ctrl := range c.Controllers {
		names = append(names, ctrl.ControllerName)
	}
	return names
}

// MergeAppendIfAbsent appends entries from other into c whose names are
// not already present, preserving c's existing order and only growing
// the lists — the monotone-inheritance invariant (§8 property 2).
func (c *InheritedContext) MergeAppendIfAbsent(other InheritedContext) (changed bool) {
	seenCtrl := make(map[string]bool, len(c.Controllers))
	for _, ctrl := range c.Controllers {
		seenCtrl[ctrl.ControllerName] = true
	}
	for _, ctrl := range other.Controllers {
		if !seenCtrl[ctrl.ControllerName] {
			c.Controllers = append(c.Controllers, ctrl)
			seenCtrl[ctrl.ControllerName] = true
			changed = true
		}
	}

	seenVar := make(map[string]bool, len(c.LocalVariables))
	for _, v := range c.LocalVariables {
		seenVar[v.Name] = true
	}
	for _, v := range other.LocalVariables {
		if !seenVar[v.Name] {
			c.LocalVariables = append(c.LocalVariables, v)
			seenVar[v.Name] = true
			changed = true
		}
	}

	seenForm := make(map[string]bool, len(c.FormBindings))
	for _, f := range c.FormBindings {
		seenForm[f.FormName] = true
	}
	for _, f := range other.FormBindings {
		if !seenForm[f.FormName] {
			c.FormBindings = append(c.FormBindings, f)
			seenForm[f.FormName] = true
			changed = true
		}
	}
	return changed
}

// NgIncludeBinding is an `ng-include` site: the resolved child template,
// and the inherited context (controllers/locals/forms) in effect at the
// include site.
type NgIncludeBinding struct {
	ParentURI        string
	TemplatePath     string
	ResolvedFilename string
	Line             int
	Inherited        InheritedContext
}

// NgViewBinding is a virtual `ng-view`/`$routeProvider` parent: the same
// inherited-context shape as NgIncludeBinding but with no concrete child
// template path — applyAllNgViewInheritances() turns these into
// synthesized NgIncludeBindings for every $routeProvider-registered
// template (§4.3).
type NgViewBinding struct {
	ParentURI string
	Line      int
	Inherited InheritedContext
}
