package htmlanalyzer

import "strings"

// builtinElements are standard HTML tag names, never candidate directives.
var builtinElements = map[string]bool{
	"html": true, "head": true, "body": true, "title": true, "meta": true,
	"link": true, "script": true, "style": true, "div": true, "span": true,
	"a": true, "p": true, "ul": true, "ol": true, "li": true, "table": true,
	"thead": true, "tbody": true, "tfoot": true, "tr": true, "td": true, "th": true,
	"form": true, "input": true, "button": true, "select": true, "option": true,
	"textarea": true, "label": true, "img": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "section": true, "article": true,
	"header": true, "footer": true, "nav": true, "aside": true, "main": true,
	"br": true, "hr": true, "b": true, "i": true, "u": true, "strong": true,
	"em": true, "small": true, "code": true, "pre": true, "iframe": true,
	"svg": true, "path": true, "canvas": true, "video": true, "audio": true,
	"source": true, "track": true, "fieldset": true, "legend": true,
	"optgroup": true, "datalist": true, "output": true, "progress": true,
	"meter": true, "details": true, "summary": true, "dialog": true,
	"template": true, "slot": true, "base": true, "col": true, "colgroup": true,
}

// builtinAttributes are standard HTML attributes, never candidate
// directives when used in attribute position.
var builtinAttributes = map[string]bool{
	"id": true, "class": true, "style": true, "title": true, "href": true,
	"src": true, "alt": true, "type": true, "value": true, "name": true,
	"placeholder": true, "disabled": true, "checked": true, "selected": true,
	"readonly": true, "required": true, "multiple": true, "for": true,
	"rel": true, "target": true, "method": true, "action": true, "tabindex": true,
	"role": true, "width": true, "height": true, "colspan": true, "rowspan": true,
	"autofocus": true, "autocomplete": true, "maxlength": true, "min": true,
	"max": true, "step": true, "pattern": true, "accept": true, "lang": true,
}

// builtinNgDirectives are framework-provided directives; usages of these
// are not reported as custom-directive references (§4.5 Pass 3).
var builtinNgDirectives = map[string]bool{
	"ngApp": true, "ngController": true, "ngModel": true, "ngRepeat": true,
	"ngIf": true, "ngShow": true, "ngHide": true, "ngClass": true, "ngStyle": true,
	"ngClick": true, "ngChange": true, "ngSubmit": true, "ngInclude": true,
	"ngView": true, "ngInit": true, "ngBind": true, "ngBindHtml": true,
	"ngSrc": true, "ngHref": true, "ngDisabled": true, "ngReadonly": true,
	"ngChecked": true, "ngSelected": true, "ngRequired": true, "ngOptions": true,
	"ngSwitch": true, "ngSwitchWhen": true, "ngSwitchDefault": true,
	"ngForm": true, "ngCloak": true, "ngNonBindable": true, "ngTransclude": true,
	"ngValue": true, "ngMaxlength": true, "ngMinlength": true, "ngPattern": true,
	"ngBlur": true, "ngFocus": true, "ngKeydown": true, "ngKeyup": true, "ngKeypress": true,
	"ngDblclick": true, "ngMouseenter": true, "ngMouseleave": true, "ngMouseover": true,
	"ngMousedown": true, "ngMouseup": true,
}

// isBuiltinOrNoise reports whether name (already converted from
// kebab-case to camelCase) should be filtered out of directive-reference
// candidates: standard HTML elements/attributes, aria-*/data-*, event
// handlers (on*), and known built-in ng-* directives (§4.5 Pass 3).
func isBuiltinOrNoise(kebab, camel string, isElement bool) bool {
	if strings.HasPrefix(kebab, "aria-") || strings.HasPrefix(kebab, "data-") {
		return true
	}
	if len(camel) > 2 && camel[:2] == "on" && camel[2] >= 'A' && camel[2] <= 'Z' {
		return true
	}
	if builtinNgDirectives[camel] {
		return true
	}
	if isElement {
		return builtinElements[kebab]
	}
	return builtinAttributes[kebab]
}
