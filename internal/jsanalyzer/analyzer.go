package jsanalyzer

import (
	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// Analyze runs the two-pass JS analysis over tree for uri, populating ix.
// lineOffset is added to every recorded position — non-zero when tree
// was parsed from a `<script>` block embedded in HTML, so definitions
// and references are attributed to the right line in the owning HTML
// file (§4.4, §9 "Embedded <script> in HTML").
func Analyze(tree syntax.Tree, uri string, content []byte, lineOffset int, ix *index.Index) {
	RunPass2(RunPass1(tree, uri, content, lineOffset, ix), ix)
}

// FileState is Pass 1's output kept alive until Pass 2 runs: the parsed
// root plus the DI-scope list Pass 2's reference gating depends on. The
// workspace scan's Phase 1/Phase 2 split (§4.7) runs Pass 1 across every
// JS file before any file's Pass 2, so this state must outlive a single
// file's processing.
type FileState struct {
	uri        string
	content    []byte
	lineOffset int
	root       syntax.Node
	scopes     []diScope
}

// RunPass1 runs prescan and Pass 1 alone, returning nil if tree has no
// root (e.g. an embedded <script> with unparsable content).
func RunPass1(tree syntax.Tree, uri string, content []byte, lineOffset int, ix *index.Index) *FileState {
	root := tree.RootNode()
	if root == nil {
		return nil
	}
	pre := prescan(root, content, lineOffset)
	scopes := pass1(root, uri, content, lineOffset, pre, ix)
	return &FileState{uri: uri, content: content, lineOffset: lineOffset, root: root, scopes: scopes}
}

// RunPass2 runs Pass 2 using the scopes RunPass1 built. A nil state (from
// a file whose Pass 1 found no root) is a no-op.
func RunPass2(state *FileState, ix *index.Index) {
	if state == nil {
		return
	}
	pass2(state.root, state.uri, state.content, state.lineOffset, state.scopes, ix)
}
