package htmlanalyzer

import (
	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/jsanalyzer"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// Analyzer owns the parsers shared across an HTML file's passes: the
// attribute-value/interpolation expression parser (a JS parser reused
// for the AngularJS expression grammar) and the embedded-<script> parser.
type Analyzer struct {
	exprParser   *syntax.JSParser
	scriptParser *syntax.JSParser
}

// NewAnalyzer builds an Analyzer, or an error if either JS parser cannot
// be constructed.
func NewAnalyzer() (*Analyzer, error) {
	exprParser, err := syntax.NewJSParser()
	if err != nil {
		return nil, err
	}
	scriptParser, err := syntax.NewJSParser()
	if err != nil {
		exprParser.Close()
		return nil, err
	}
	return &Analyzer{exprParser: exprParser, scriptParser: scriptParser}, nil
}

func (a *Analyzer) Close() {
	a.exprParser.Close()
	a.scriptParser.Close()
}

// AnalyzeFull runs the complete four-pass HTML analysis for uri plus
// embedded <script> JS analysis, in the phase order the workspace
// indexer also preserves for a single-file incremental re-analysis
// (§4.5, §4.9 "HTML edits run the full 4-pass single-file analysis").
func (a *Analyzer) AnalyzeFull(tree syntax.Tree, uri string, content []byte, ix *index.Index) {
	a.Pass1(tree, uri, content, ix)
	a.Pass15(tree, uri, content, ix)
	ix.Templates.ApplyAllNgViewInheritances()
	a.Pass2(tree, uri, content, ix)
	a.Pass3(tree, uri, content, ix)
}

// Pass1 runs HTML Pass 1 alone (ng-controller scopes). The workspace
// scan's Phase 1 (§4.7) runs this across every HTML file before any
// file's Pass 1.5, so the per-phase methods are split out rather than
// only exposing AnalyzeFull.
func (a *Analyzer) Pass1(tree syntax.Tree, uri string, content []byte, ix *index.Index) {
	root := tree.RootNode()
	if root == nil {
		return
	}
	pass1(root, uri, content, ix)
}

// Pass15 runs HTML Pass 1.5 alone (ng-include/ng-view inheritance
// snapshots), the workspace scan's Phase 2 half for HTML.
func (a *Analyzer) Pass15(tree syntax.Tree, uri string, content []byte, ix *index.Index) {
	root := tree.RootNode()
	if root == nil {
		return
	}
	pass15(root, uri, content, ix, a.exprParser)
}

// Pass2 runs HTML Pass 2 alone (form-binding finalization), the
// workspace scan's Phase 3 half for HTML (after
// applyAllNgViewInheritances has run).
func (a *Analyzer) Pass2(tree syntax.Tree, uri string, content []byte, ix *index.Index) {
	root := tree.RootNode()
	if root == nil {
		return
	}
	pass2(root, uri, content, ix)
}

// Pass3 runs HTML Pass 3 alone (reference collection) plus embedded
// <script> JS analysis, the workspace scan's Phase 4 for HTML.
func (a *Analyzer) Pass3(tree syntax.Tree, uri string, content []byte, ix *index.Index) {
	root := tree.RootNode()
	if root == nil {
		return
	}
	ix.ClearHtmlReferences(uri)
	pass3(root, uri, content, ix, a.exprParser)
	a.analyzeEmbeddedScripts(root, uri, content, ix)
	ix.MarkHTMLAnalyzed(uri)
}

// analyzeEmbeddedScripts finds every <script> element with no `src`
// attribute (inline JS) and runs the JS analyzer over its raw_text
// content with a line offset so recorded positions land on the right
// line of the owning HTML file (§4.4 "Embedded <script> in HTML").
func (a *Analyzer) analyzeEmbeddedScripts(root syntax.Node, uri string, content []byte, ix *index.Index) {
	walk(root, func(n syntax.Node) bool {
		if n.Kind() != "script_element" {
			return true
		}
		tag := startTagChild(n)
		if tag != nil {
			if _, hasSrc := findAttr(tag, "src"); hasSrc {
				return false
			}
		}
		raw := rawTextChild(n)
		if raw == nil {
			return false
		}
		row, _ := raw.StartPoint()
		scriptTree := a.scriptParser.Parse(raw.Text())
		defer scriptTree.Close()
		jsanalyzer.Analyze(scriptTree, uri, raw.Text(), int(row), ix)
		return false
	})
}

func rawTextChild(scriptEl syntax.Node) syntax.Node {
	for i := 0; i < scriptEl.NamedChildCount(); i++ {
		c := scriptEl.NamedChild(i)
		if c.Kind() == "raw_text" {
			return c
		}
	}
	return nil
}
