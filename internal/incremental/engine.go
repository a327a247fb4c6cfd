// Package incremental drives the debounced per-document re-analysis
// engine of §4.9: on didOpen/didChange/didSave, insert the new text,
// wait out a 200ms quiescence window, then re-run the appropriate
// analysis passes for the edited file and any HTML descendants the
// reanalysis queue names. Grounded on the teacher's document.go
// DocumentManager (documents map behind one mutex, one tree kept per
// open URI) and watcher.go's debounce-timer idiom, adapted from
// "debounce filesystem bursts" to "debounce keystrokes with a
// version-check cancellation" (§4.9's "abort if the stored version has
// advanced").
package incremental

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/angularjs-lsp/angularjs-lsp/internal/htmlanalyzer"
	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/jsanalyzer"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// Debounce is the quiescence window §4.9 specifies before a scheduled
// analysis runs.
const Debounce = 200 * time.Millisecond

// docState is one open document's live text, version counter, and
// pending debounce timer.
type docState struct {
	uri     string
	text    []byte
	version int
	isHTML  bool
	timer   *time.Timer
}

// Engine owns the open-document map and the analyzers used for
// single-file re-analysis. Hooks let the LSP layer react to a finished
// analysis without the engine depending on any transport.
type Engine struct {
	ix *index.Index

	mu   sync.Mutex
	docs map[string]*docState

	jsParser *syntax.JSParser
	htmlAnaz *htmlanalyzer.Analyzer

	// OnAnalyzed is called (off the debounce goroutine's stack, but
	// synchronously from it) after a document finishes analysis.
	OnAnalyzed func(uri string)
	// OnRepublishAll is called with the URIs of every currently open
	// JS document after an HTML document's analysis completes, since a
	// template edit can add or remove references an open JS file's
	// diagnostics depend on (§4.9 "re-publish diagnostics for all open
	// JS files").
	OnRepublishAll func(uris []string)
	// OnSemanticTokensRefresh is called after every analysis, open JS or
	// HTML, since both can add or remove the tokens a client has already
	// cached for any open document (§4.9 "request semantic-token
	// refresh").
	OnSemanticTokensRefresh func()
}

// New builds an Engine over ix. Returns an error only if the JS/HTML
// parsers cannot be constructed.
func New(ix *index.Index) (*Engine, error) {
	jsParser, err := syntax.NewJSParser()
	if err != nil {
		return nil, err
	}
	htmlAnaz, err := htmlanalyzer.NewAnalyzer()
	if err != nil {
		jsParser.Close()
		return nil, err
	}
	return &Engine{
		ix:       ix,
		docs:     make(map[string]*docState),
		jsParser: jsParser,
		htmlAnaz: htmlAnaz,
	}, nil
}

func isHTMLURI(uri string) bool {
	ext := strings.ToLower(filepath.Ext(uri))
	return ext == ".html" || ext == ".htm"
}

// Apply records a document's new text and version (didOpen/didChange/
// didSave all funnel through here) and (re)schedules its debounced
// analysis, cancelling any timer already pending for this URI.
func (e *Engine) Apply(uri string, text []byte, version int) {
	e.mu.Lock()
	doc, ok := e.docs[uri]
	if !ok {
		doc = &docState{uri: uri, isHTML: isHTMLURI(uri)}
		e.docs[uri] = doc
	}
	doc.text = text
	doc.version = version
	if doc.timer != nil {
		doc.timer.Stop()
	}
	doc.timer = time.AfterFunc(Debounce, func() { e.runAnalysis(uri, version) })
	e.mu.Unlock()
}

// Close drops a document from the open set and cancels its pending
// timer (didClose). The Index retains whatever was last analyzed for
// it; callers that want it gone entirely should call ix.ClearDocument.
func (e *Engine) Close(uri string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if doc, ok := e.docs[uri]; ok {
		if doc.timer != nil {
			doc.timer.Stop()
		}
		delete(e.docs, uri)
	}
}

// Shutdown releases the engine's parsers.
func (e *Engine) Shutdown() {
	e.jsParser.Close()
	e.htmlAnaz.Close()
}

// openJSURIs returns every currently open JS document's URI, used to
// drive OnRepublishAll after an HTML analysis.
func (e *Engine) openJSURIs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for uri, doc := range e.docs {
		if !doc.isHTML {
			out = append(out, uri)
		}
	}
	return out
}

// runAnalysis is the debounced task: it aborts if a newer edit has
// landed for uri since this timer was armed, otherwise clears the
// document's previous entries and re-runs the version-appropriate pass
// set.
func (e *Engine) runAnalysis(uri string, scheduledVersion int) {
	e.mu.Lock()
	doc, ok := e.docs[uri]
	if !ok || doc.version != scheduledVersion {
		e.mu.Unlock()
		return
	}
	text := doc.text
	isHTML := doc.isHTML
	e.mu.Unlock()

	e.ix.ClearDocument(uri)

	if !isHTML {
		tree := e.jsParser.Parse(text)
		jsanalyzer.Analyze(tree, uri, text, 0, e.ix)
		tree.Close()
		if e.OnAnalyzed != nil {
			e.OnAnalyzed(uri)
		}
		if e.OnSemanticTokensRefresh != nil {
			e.OnSemanticTokensRefresh()
		}
		return
	}

	e.analyzeHTML(uri, text)
	for _, child := range e.ix.DrainReanalysisQueue() {
		if child == uri {
			continue
		}
		if content, readErr := e.readChild(child); readErr == nil {
			e.analyzeHTML(child, content)
		}
	}

	if e.OnAnalyzed != nil {
		e.OnAnalyzed(uri)
	}
	if e.OnRepublishAll != nil {
		e.OnRepublishAll(e.openJSURIs())
	}
	if e.OnSemanticTokensRefresh != nil {
		e.OnSemanticTokensRefresh()
	}
}

// readChild reads a queued descendant's content from its open buffer if
// the editor has it open, falling back to disk otherwise.
func (e *Engine) readChild(uri string) ([]byte, error) {
	e.mu.Lock()
	if doc, ok := e.docs[uri]; ok {
		text := doc.text
		e.mu.Unlock()
		return text, nil
	}
	e.mu.Unlock()
	return os.ReadFile(uri)
}

func (e *Engine) analyzeHTML(uri string, content []byte) {
	parser := syntax.NewHTMLParser()
	defer parser.Close()
	tree := parser.Parse(content)
	defer tree.Close()
	e.htmlAnaz.AnalyzeFull(tree, uri, content, e.ix)
}
