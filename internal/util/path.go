// Package util holds small, pure helpers shared across the analyzers and
// the Index: template path normalization and kebab/camel conversion,
// both required to be bit-exact since they feed binding-key stability.
package util

import "strings"

// NormalizeTemplatePath strips a trailing "?query", then any leading
// "../" repeatedly, then any leading "./" repeatedly, then a single
// leading "/". MUST be bit-exact: TemplateStore and NgIncludeBinding
// keys are built from this output (§6), adapted from the teacher's own
// path-relativization idiom (internal/twig/path.go's convertToRelativePath).
func NormalizeTemplatePath(p string) string {
	if idx := strings.IndexByte(p, '?'); idx != -1 {
		p = p[:idx]
	}
	for strings.HasPrefix(p, "../") {
		p = p[3:]
	}
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	p = strings.TrimPrefix(p, "/")
	return p
}
