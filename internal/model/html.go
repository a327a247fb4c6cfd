package model

import "github.com/angularjs-lsp/angularjs-lsp/internal/span"

// LocalVariableSource identifies which directive introduced a local
// variable binding.
type LocalVariableSource int

const (
	SourceNgInit LocalVariableSource = iota
	SourceNgRepeatIterator
	SourceNgRepeatKeyValue
)

// HtmlLocalVariable is a local variable introduced by ng-init or
// ng-repeat: its scope span bounds where references to it resolve.
type HtmlLocalVariable struct {
	Name      string
	Source    LocalVariableSource
	URI       string
	ScopeSpan span.Span
	NameSpan  span.Span
}

// HtmlLocalVariableReference is an occurrence of a name matching a local
// variable in scope (local or inherited via ng-include).
type HtmlLocalVariableReference struct {
	Name string
	URI  string
	Span span.Span
}

// HtmlFormBinding is a `<form name="x">` binding. Its ScopeSpan is the
// *enclosing controller's* span, not the <form> element's — the form is
// visible to every descendant of the controller (§4.5 Pass 2).
type HtmlFormBinding struct {
	FormName  string
	URI       string
	ScopeSpan span.Span
	NameSpan  span.Span
}

// HtmlScopeReference is a full property path as written in a template
// (e.g. "vm.user.name", "users[0]", "$index").
type HtmlScopeReference struct {
	Path string
	URI  string
	Span span.Span
}

// DirectiveUsage distinguishes an element-name usage from an
// attribute-name usage of a custom directive.
type DirectiveUsage int

const (
	UsageElement DirectiveUsage = iota
	UsageAttribute
)

// HtmlDirectiveReference is a usage of a (possibly kebab-case) directive
// name, normalized to camelCase, as either an element or an attribute.
type HtmlDirectiveReference struct {
	Name  string
	URI   string
	Span  span.Span
	Usage DirectiveUsage
}
