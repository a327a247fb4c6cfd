// Package lsp is the AngularJS language server's transport and request
// surface (§6): a jsonrpc2 connection over stdio, a document store, and
// handlers that answer every request the core's Index/resolver can
// serve. Grounded on the teacher's internal/lsp/server.go — the same
// jsonrpc2.HandlerWithError dispatch loop, the same rwc stdio adapter,
// the same initialize/shutdown/exit lifecycle — generalized from the
// teacher's multi-provider registry (many independently pluggable
// domains: twig, php, symfony, snippet...) down to one fixed domain,
// since this server has exactly one thing to index.
package lsp

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/angularjs-lsp/angularjs-lsp/internal/cache"
	"github.com/angularjs-lsp/angularjs-lsp/internal/incremental"
	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/lsp/protocol"
	"github.com/angularjs-lsp/angularjs-lsp/internal/resolver"
	"github.com/angularjs-lsp/angularjs-lsp/internal/workspace"
)

// Server is the AngularJS LSP server: one Index, one Resolver, one
// Scanner/Cache pair for (re)building it, one incremental.Engine for
// per-document edits, and one Watcher for changes made outside the
// editor.
type Server struct {
	root string
	cfg  workspace.Config

	ix       *index.Index
	resolve  *resolver.Resolver
	scanner  *workspace.Scanner
	cacheDir *cache.Cache
	engine   *incremental.Engine
	watcher  *workspace.Watcher
	docs     *documentStore

	conn *jsonrpc2.Conn
}

// NewServer wires a Server rooted at root. The workspace scan itself is
// deferred to the `initialized` notification, matching the teacher's
// "index after the client confirms initialization" sequencing.
func NewServer(root string) (*Server, error) {
	cfg := workspace.LoadConfig(root)
	ix := index.New()
	engine, err := incremental.New(ix)
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(root, ".angularjs-lsp", "watcher.db")
	watcher, err := workspace.NewWatcher(root, cfg, ix, dbPath)
	if err != nil {
		return nil, err
	}

	docs := newDocumentStore()
	watcher.IsOpen = docs.isOpen

	s := &Server{
		root:     root,
		cfg:      cfg,
		ix:       ix,
		resolve:  resolver.New(ix),
		scanner:  workspace.New(root, cfg, ix),
		cacheDir: cache.New(root),
		engine:   engine,
		watcher:  watcher,
		docs:     docs,
	}
	engine.OnAnalyzed = s.publishDiagnosticsFor
	engine.OnRepublishAll = s.republishAll
	engine.OnSemanticTokensRefresh = s.refreshSemanticTokens
	return s, nil
}

// startWatcher begins live filesystem observation after the initial
// workspace scan is underway (§4.9: the watcher complements, not
// replaces, the editor-driven incremental engine).
func (s *Server) startWatcher() {
	if err := s.watcher.Start(); err != nil {
		log.Printf("file watcher failed to start: %v", err)
	}
}

// rwc combines a reader and writer into a single ReadWriteCloser, the
// same adapter the teacher's server.go uses for stdio transport.
type rwc struct {
	io.Reader
	io.Writer
}

func (rwc) Close() error { return nil }

// Start runs the server's request loop over in/out until the client
// disconnects.
func (s *Server) Start(in io.Reader, out io.Writer) error {
	stream := jsonrpc2.NewBufferedStream(rwc{in, out}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.HandlerWithError(s.handle))
	s.conn = conn
	<-conn.DisconnectNotify()
	return nil
}

func (s *Server) Close() {
	s.watcher.Stop()
	s.engine.Shutdown()
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	if req.Method == "exit" {
		log.Println("received exit notification, exiting")
		_ = conn.Close()
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		var params protocol.InitializeParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: err.Error()}
		}
		return s.initialize(&params), nil

	case "initialized":
		go s.buildIndex(ctx, false)
		go s.startWatcher()
		return nil, nil

	case "textDocument/didOpen":
		var params struct {
			TextDocument struct {
				URI     string `json:"uri"`
				Text    string `json:"text"`
				Version int    `json:"version"`
			} `json:"textDocument"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.docs.set(params.TextDocument.URI, []byte(params.TextDocument.Text))
		s.engine.Apply(params.TextDocument.URI, []byte(params.TextDocument.Text), params.TextDocument.Version)
		return nil, nil

	case "textDocument/didChange":
		var params struct {
			TextDocument struct {
				URI     string `json:"uri"`
				Version int    `json:"version"`
			} `json:"textDocument"`
			ContentChanges []struct {
				Text string `json:"text"`
			} `json:"contentChanges"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		if len(params.ContentChanges) > 0 {
			text := []byte(params.ContentChanges[len(params.ContentChanges)-1].Text)
			s.docs.set(params.TextDocument.URI, text)
			s.engine.Apply(params.TextDocument.URI, text, params.TextDocument.Version)
		}
		return nil, nil

	case "textDocument/didClose":
		var params struct {
			TextDocument struct {
				URI string `json:"uri"`
			} `json:"textDocument"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.docs.remove(params.TextDocument.URI)
		s.engine.Close(params.TextDocument.URI)
		return nil, nil

	case "textDocument/hover":
		var params protocol.TextDocumentPositionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.hover(&params), nil

	case "textDocument/definition":
		var params protocol.TextDocumentPositionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.definition(&params), nil

	case "textDocument/references":
		var params protocol.ReferenceParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.references(&params), nil

	case "textDocument/prepareRename":
		var params protocol.TextDocumentPositionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.prepareRename(&params), nil

	case "textDocument/rename":
		var params protocol.RenameParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.rename(&params), nil

	case "textDocument/completion":
		var params protocol.TextDocumentPositionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.completion(&params), nil

	case "textDocument/signatureHelp":
		var params protocol.TextDocumentPositionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.signatureHelp(&params), nil

	case "textDocument/documentSymbol":
		var params struct {
			TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.documentSymbol(params.TextDocument.URI), nil

	case "workspace/symbol":
		var params protocol.WorkspaceSymbolParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.workspaceSymbol(&params), nil

	case "textDocument/codeLens":
		var params struct {
			TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.codeLens(params.TextDocument.URI), nil

	case "textDocument/semanticTokens/full":
		var params struct {
			TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.semanticTokensFull(params.TextDocument.URI), nil

	case "workspace/executeCommand":
		var params struct {
			Command   string            `json:"command"`
			Arguments []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		if params.Command == "refreshIndex" {
			go s.buildIndex(ctx, true)
			return map[string]interface{}{"message": "refresh started"}, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "unknown command: " + params.Command}

	case "shutdown":
		log.Println("received shutdown request, waiting for exit notification")
		return nil, nil

	default:
		if req.ID == (jsonrpc2.ID{}) {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not implemented: " + req.Method}
	}
}

func (s *Server) initialize(params *protocol.InitializeParams) interface{} {
	s.extractRootPath(params)
	return map[string]interface{}{
		"capabilities": map[string]interface{}{
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1,
			},
			"hoverProvider":      true,
			"definitionProvider": true,
			"referencesProvider": true,
			"renameProvider": map[string]interface{}{
				"prepareProvider": true,
			},
			"completionProvider": map[string]interface{}{
				"triggerCharacters": []string{"."},
			},
			"signatureHelpProvider": map[string]interface{}{
				"triggerCharacters": []string{"(", ","},
			},
			"documentSymbolProvider":  true,
			"workspaceSymbolProvider": true,
			"codeLensProvider": map[string]interface{}{
				"resolveProvider": false,
			},
			"semanticTokensProvider": map[string]interface{}{
				"legend": map[string]interface{}{
					"tokenTypes":     semanticTokenTypes,
					"tokenModifiers": []string{},
				},
				"full": true,
			},
			"executeCommandProvider": map[string]interface{}{
				"commands": []string{"refreshIndex"},
			},
		},
	}
}

func (s *Server) extractRootPath(params *protocol.InitializeParams) {
	if params.RootPath != "" {
		s.root = params.RootPath
		return
	}
	if params.RootURI != "" {
		s.root = strings.TrimPrefix(params.RootURI, "file://")
		return
	}
	if len(params.WorkspaceFolders) > 0 {
		s.root = strings.TrimPrefix(params.WorkspaceFolders[0].URI, "file://")
	}
}

// buildIndex loads from cache if ajsconfig.json enables it, re-scanning
// whatever the cache reports stale (or everything, on a cold/forced
// start), then saves the result back (§4.8, §6 `refreshIndex`).
func (s *Server) buildIndex(ctx context.Context, force bool) {
	start := time.Now()
	if s.conn != nil {
		_ = s.conn.Notify(ctx, "angularjs/indexingStarted", map[string]interface{}{"message": "indexing started"})
	}

	if force {
		s.ix.ClearAll()
	}

	jsPaths, htmlPaths, err := s.scanner.Discover()
	if err != nil {
		log.Printf("workspace discovery failed: %v", err)
		return
	}
	all := append(append([]string{}, jsPaths...), htmlPaths...)

	stale := all
	if s.cfg.Cache && !force {
		result, loadErr := s.cacheDir.Load(s.ix, all)
		if loadErr != nil {
			log.Printf("cache load: %v (full rescan)", loadErr)
		}
		stale = result.Stale
	}

	if len(stale) == len(all) {
		if err := s.scanner.ScanAll(); err != nil {
			log.Printf("workspace scan failed: %v", err)
			return
		}
	} else if len(stale) > 0 {
		partial := workspace.New(s.root, s.cfg, s.ix)
		if err := partial.ScanFiles(stale); err != nil {
			log.Printf("partial workspace scan failed: %v", err)
		}
	}

	if s.cfg.Cache {
		if err := s.cacheDir.Save(s.ix, all); err != nil {
			log.Printf("cache save failed: %v", err)
		}
	}

	if s.conn != nil {
		_ = s.conn.Notify(ctx, "angularjs/indexingCompleted", map[string]interface{}{
			"message":       "indexing completed",
			"timeInSeconds": time.Since(start).Seconds(),
		})
	}
}
