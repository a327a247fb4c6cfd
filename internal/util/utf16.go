package util

import (
	"strings"
	"unicode/utf16"
)

// Utf16Column converts a 0-based UTF-8 byte column on line (the row'th
// line, split on '\n', no trailing '\r' stripped) to the equivalent
// UTF-16 code-unit column, since LSP positions are UTF-16 (§4.5) while
// tree-sitter reports byte offsets. No library in the dependency set
// performs this conversion, so it is implemented directly against
// unicode/utf16.
func Utf16Column(lineText string, byteCol int) int {
	if byteCol > len(lineText) {
		byteCol = len(lineText)
	}
	units := 0
	for _, r := range lineText[:byteCol] {
		units += len(utf16.Encode([]rune{r}))
	}
	return units
}

// LineText returns the row'th (0-based) line of content, split on '\n'.
func LineText(content []byte, row int) string {
	lines := strings.Split(string(content), "\n")
	if row < 0 || row >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[row], "\r")
}
