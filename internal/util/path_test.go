package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTemplatePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "a/b/c.html", "a/b/c.html"},
		{"strips query", "a/b/c.html?v=123", "a/b/c.html"},
		{"strips leading dotdot", "../../a/b.html", "a/b.html"},
		{"strips leading dotslash", "./a/b.html", "a/b.html"},
		{"strips leading slash", "/a/b.html", "a/b.html"},
		{"strips all in order", "../../././/a/b.html?x=1", "a/b.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTemplatePath(tt.in))
		})
	}
}
