// Package protocol holds the wire types the AngularJS LSP server
// exchanges with the editor: a deliberately small subset of the LSP
// spec, scoped to the requests §6 lists. Modeled on the teacher's own
// lsp/protocol package (one small file per request family), collapsed
// into a single file here since this server answers far fewer request
// kinds than the teacher's multi-domain one.
package protocol

// Position is a zero-based line/character pair, matching the LSP spec's
// UTF-16 code unit column convention (the same encoding internal/span
// uses throughout the core).
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open document range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location names a range within a specific document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// TextDocumentIdentifier names an open document.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// TextDocumentPositionParams is the common (document, position) pair
// shared by hover/definition/references/rename/prepareRename/
// signatureHelp/completion requests.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// MarkupKind is the content format a Hover/SignatureHelp result uses.
type MarkupKind string

const (
	PlainText MarkupKind = "plaintext"
	Markdown  MarkupKind = "markdown"
)

// MarkupContent pairs a content string with its format.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// Hover is the result of a textDocument/hover request.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// ReferenceParams is textDocument/references' parameters.
type ReferenceParams struct {
	TextDocumentPositionParams
	Context struct {
		IncludeDeclaration bool `json:"includeDeclaration"`
	} `json:"context"`
}

// RenameParams is textDocument/rename's parameters.
type RenameParams struct {
	TextDocumentPositionParams
	NewName string `json:"newName"`
}

// TextEdit is a single replacement within a document.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// WorkspaceEdit groups the per-document edits a rename produces.
type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes"`
}

// PrepareRenameResult tells the editor which range is being renamed.
type PrepareRenameResult struct {
	Range       Range  `json:"range"`
	Placeholder string `json:"placeholder"`
}

// CompletionItemKind mirrors the LSP spec's numeric completion kinds the
// server actually emits.
type CompletionItemKind int

const (
	CompletionKindVariable CompletionItemKind = 6
	CompletionKindMethod   CompletionItemKind = 2
	CompletionKindField    CompletionItemKind = 5
	CompletionKindClass    CompletionItemKind = 7
)

// CompletionItem is one entry of a completion list.
type CompletionItem struct {
	Label  string             `json:"label"`
	Kind   CompletionItemKind `json:"kind,omitempty"`
	Detail string             `json:"detail,omitempty"`
}

// CompletionList is the result of a textDocument/completion request.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// ParameterInformation names one parameter of a SignatureInformation.
type ParameterInformation struct {
	Label string `json:"label"`
}

// SignatureInformation is one candidate signature.
type SignatureInformation struct {
	Label      string                 `json:"label"`
	Parameters []ParameterInformation `json:"parameters"`
}

// SignatureHelp is the result of a textDocument/signatureHelp request.
type SignatureHelp struct {
	Signatures      []SignatureInformation `json:"signatures"`
	ActiveSignature int                    `json:"activeSignature"`
	ActiveParameter int                    `json:"activeParameter"`
}

// SymbolKind mirrors the LSP spec's numeric symbol kinds.
type SymbolKind int

const (
	SymbolKindClass    SymbolKind = 5
	SymbolKindMethod   SymbolKind = 6
	SymbolKindProperty SymbolKind = 7
	SymbolKindVariable SymbolKind = 13
)

// DocumentSymbol is one entry of a textDocument/documentSymbol response.
type DocumentSymbol struct {
	Name           string     `json:"name"`
	Kind           SymbolKind `json:"kind"`
	Range          Range      `json:"range"`
	SelectionRange Range      `json:"selectionRange"`
}

// WorkspaceSymbolParams is workspace/symbol's parameters.
type WorkspaceSymbolParams struct {
	Query string `json:"query"`
}

// SymbolInformation is one entry of a workspace/symbol response.
type SymbolInformation struct {
	Name     string     `json:"name"`
	Kind     SymbolKind `json:"kind"`
	Location Location   `json:"location"`
}

// CodeLens is one entry of a textDocument/codeLens response.
type CodeLens struct {
	Range   Range    `json:"range"`
	Command *Command `json:"command,omitempty"`
}

// Command is a client-executable command attached to a CodeLens.
type Command struct {
	Title     string        `json:"title"`
	Command   string        `json:"command"`
	Arguments []interface{} `json:"arguments,omitempty"`
}

// DiagnosticSeverity mirrors the LSP spec's numeric diagnostic
// severities.
type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// Diagnostic is one issue reported against a range of a document.
type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
}

// PublishDiagnosticsParams is the textDocument/publishDiagnostics
// notification's payload.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Version     int          `json:"version,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// SemanticTokensParams is textDocument/semanticTokens/full's parameters.
type SemanticTokensParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// SemanticTokens is the result of a textDocument/semanticTokens/full
// request: Data is the LSP spec's delta-encoded token array (five
// uint32s per token: deltaLine, deltaStartChar, length, tokenType,
// tokenModifiers).
type SemanticTokens struct {
	Data []uint32 `json:"data"`
}

// InitializeParams is the initialize request's parameters, trimmed to
// the fields the server actually consults.
type InitializeParams struct {
	RootPath         string `json:"rootPath,omitempty"`
	RootURI          string `json:"rootUri,omitempty"`
	WorkspaceFolders []struct {
		URI string `json:"uri"`
	} `json:"workspaceFolders,omitempty"`
}
