package lsp

import (
	"context"
	"fmt"
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/lsp/protocol"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/workspace"
)

func isHTMLURI(uri string) bool {
	return strings.HasSuffix(uri, ".html") || strings.HasSuffix(uri, ".htm")
}

func isScopeProperty(sym model.Symbol) bool {
	return sym.Kind == model.KindScopeProperty || sym.Kind == model.KindRootScopeProperty
}

// publishDiagnosticsFor computes and sends the three per-file checks §7
// names (undefined scope property, unused scope variable, undefined
// local variable) for uri, the incremental engine's OnAnalyzed hook.
func (s *Server) publishDiagnosticsFor(uri string) {
	if s.conn == nil || !s.cfg.Diagnostics.Enabled {
		return
	}
	diags := s.computeDiagnostics(uri)
	_ = s.conn.Notify(context.Background(), "textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// republishAll re-runs publishDiagnosticsFor over every URI given, the
// incremental engine's OnRepublishAll hook fired after an HTML edit,
// since a template change can add or remove JS-side $scope references
// that only HTML resolution would catch.
func (s *Server) republishAll(uris []string) {
	for _, uri := range uris {
		s.publishDiagnosticsFor(uri)
	}
}

func (s *Server) severity() protocol.DiagnosticSeverity {
	switch s.cfg.Diagnostics.Severity {
	case workspace.SeverityError:
		return protocol.SeverityError
	case workspace.SeverityHint:
		return protocol.SeverityHint
	case workspace.SeverityInformation:
		return protocol.SeverityInformation
	default:
		return protocol.SeverityWarning
	}
}

func (s *Server) computeDiagnostics(uri string) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	if isHTMLURI(uri) {
		out = append(out, s.undefinedLocalVariableDiagnostics(uri)...)
		out = append(out, s.undefinedScopePropertyDiagnostics(uri)...)
	}
	if s.cfg.Diagnostics.UnusedScopeVariables {
		out = append(out, s.unusedScopeVariableDiagnostics(uri)...)
	}
	return out
}

// undefinedScopePropertyDiagnostics flags every HTML scope reference
// that does not resolve against any enclosing controller, form, local
// variable, or alias (§4.6's resolution order failing entirely).
func (s *Server) undefinedScopePropertyDiagnostics(uri string) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, ref := range s.ix.HTML.ScopeReferences(uri) {
		if _, ok := s.resolve.Resolve(uri, ref.Span.StartLine, ref.Span.StartCol); ok {
			continue
		}
		out = append(out, protocol.Diagnostic{
			Range:    toRange(ref.Span),
			Severity: s.severity(),
			Source:   "angularjs-lsp",
			Message:  fmt.Sprintf("undefined scope property %q", ref.Path),
		})
	}
	return out
}

// undefinedLocalVariableDiagnostics flags HtmlLocalVariableReference
// occurrences with no matching local variable in scope, inherited or
// local (§4.9's third diagnostic).
func (s *Server) undefinedLocalVariableDiagnostics(uri string) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, ref := range s.ix.HTML.LocalVariableReferences(uri) {
		found := false
		for _, lv := range s.ix.HTML.LocalVariables(uri) {
			if lv.Name == ref.Name && lv.ScopeSpan.ContainsLine(ref.Span.StartLine) {
				found = true
				break
			}
		}
		if !found {
			inherited := s.ix.Templates.InheritedContextForChild(uri)
			for _, lv := range inherited.LocalVariables {
				if lv.Name == ref.Name {
					found = true
					break
				}
			}
		}
		if found {
			continue
		}
		out = append(out, protocol.Diagnostic{
			Range:    toRange(ref.Span),
			Severity: s.severity(),
			Source:   "angularjs-lsp",
			Message:  fmt.Sprintf("undefined local variable %q", ref.Name),
		})
	}
	return out
}

// unusedScopeVariableDiagnostics flags every `$scope`/`$rootScope`
// property defined in uri with zero recorded references anywhere in the
// workspace (§6 config's diagnostics.unusedScopeVariables).
func (s *Server) unusedScopeVariableDiagnostics(uri string) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, sym := range s.ix.Definitions.DefinitionsForURI(uri) {
		if !isScopeProperty(sym) {
			continue
		}
		if len(s.ix.GetReferences(sym.Name)) > 0 {
			continue
		}
		out = append(out, protocol.Diagnostic{
			Range:    toRange(sym.NameSpan),
			Severity: s.severity(),
			Source:   "angularjs-lsp",
			Message:  fmt.Sprintf("unused scope variable %q", sym.Name),
		})
	}
	return out
}
