// Package workspace drives the phased workspace scan of §4.7: file
// discovery against ajsconfig.json's include/exclude globs, the 4-phase
// parallel/serial analysis pipeline, and a live fsnotify watcher that
// feeds changed files back through the same pipeline.
package workspace

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DiagnosticSeverity is the configured severity for published diagnostics.
type DiagnosticSeverity string

const (
	SeverityError       DiagnosticSeverity = "error"
	SeverityWarning     DiagnosticSeverity = "warning"
	SeverityHint        DiagnosticSeverity = "hint"
	SeverityInformation DiagnosticSeverity = "information"
)

// InterpolateConfig holds the configured `{{`/`}}` delimiters.
type InterpolateConfig struct {
	StartSymbol string `json:"startSymbol"`
	EndSymbol   string `json:"endSymbol"`
}

// DiagnosticsConfig controls §4.9's per-file diagnostic publication.
type DiagnosticsConfig struct {
	Enabled               bool               `json:"enabled"`
	Severity              DiagnosticSeverity `json:"severity"`
	UnusedScopeVariables  bool               `json:"unusedScopeVariables"`
}

// Config is ajsconfig.json's schema (§6).
type Config struct {
	Interpolate InterpolateConfig `json:"interpolate"`
	Include     []string          `json:"include"`
	Exclude     []string          `json:"exclude"`
	Cache       bool              `json:"cache"`
	Diagnostics DiagnosticsConfig `json:"diagnostics"`
}

var defaultExclude = []string{
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/.*/**",
}

// DefaultConfig mirrors §6's documented defaults.
func DefaultConfig() Config {
	return Config{
		Interpolate: InterpolateConfig{StartSymbol: "{{", EndSymbol: "}}"},
		Include:     nil,
		Exclude:     append([]string(nil), defaultExclude...),
		Cache:       false,
		Diagnostics: DiagnosticsConfig{
			Enabled:              true,
			Severity:              SeverityWarning,
			UnusedScopeVariables: true,
		},
	}
}

// LoadConfig reads ajsconfig.json at root, falling back to defaults for
// any field it omits or if the file is absent. A malformed file logs and
// proceeds with defaults (§7 InvalidConfigPattern: log, proceed).
func LoadConfig(root string) Config {
	cfg := DefaultConfig()

	path := filepath.Join(root, "ajsconfig.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("ajsconfig.json unreadable, using defaults: %v", err)
		}
		return cfg
	}

	var raw struct {
		Interpolate *InterpolateConfig `json:"interpolate"`
		Include     []string           `json:"include"`
		Exclude     []string           `json:"exclude"`
		Cache       *bool              `json:"cache"`
		Diagnostics *struct {
			Enabled              *bool               `json:"enabled"`
			Severity             *DiagnosticSeverity `json:"severity"`
			UnusedScopeVariables *bool               `json:"unusedScopeVariables"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("ajsconfig.json malformed, using defaults: %v", err)
		return cfg
	}

	if raw.Interpolate != nil {
		if raw.Interpolate.StartSymbol != "" {
			cfg.Interpolate.StartSymbol = raw.Interpolate.StartSymbol
		}
		if raw.Interpolate.EndSymbol != "" {
			cfg.Interpolate.EndSymbol = raw.Interpolate.EndSymbol
		}
	}
	if raw.Include != nil {
		cfg.Include = raw.Include
	}
	if raw.Exclude != nil {
		cfg.Exclude = raw.Exclude
	}
	if raw.Cache != nil {
		cfg.Cache = *raw.Cache
	}
	if raw.Diagnostics != nil {
		if raw.Diagnostics.Enabled != nil {
			cfg.Diagnostics.Enabled = *raw.Diagnostics.Enabled
		}
		if raw.Diagnostics.Severity != nil {
			cfg.Diagnostics.Severity = *raw.Diagnostics.Severity
		}
		if raw.Diagnostics.UnusedScopeVariables != nil {
			cfg.Diagnostics.UnusedScopeVariables = *raw.Diagnostics.UnusedScopeVariables
		}
	}
	return cfg
}

// matchGlob reports whether rel (a /-separated path relative to root)
// matches pattern, extending filepath.Match with "**" as "zero or more
// path segments" the same hand-rolled way the teacher's defaultSkipDirs
// does path-segment filtering in filescanner.go.
func matchGlob(pattern, rel string) bool {
	patternParts := strings.Split(pattern, "/")
	relParts := strings.Split(rel, "/")
	return matchParts(patternParts, relParts)
}

func matchParts(pattern, rel []string) bool {
	if len(pattern) == 0 {
		return len(rel) == 0
	}
	head := pattern[0]
	if head == "**" {
		if matchParts(pattern[1:], rel) {
			return true
		}
		if len(rel) == 0 {
			return false
		}
		return matchParts(pattern, rel[1:])
	}
	if len(rel) == 0 {
		return false
	}
	ok, err := filepath.Match(head, rel[0])
	if err != nil || !ok {
		return false
	}
	return matchParts(pattern[1:], rel[1:])
}

// Included reports whether rel passes the config's include/exclude
// filter: excluded if any exclude glob matches; otherwise included if
// include is empty or any include glob matches.
func (c Config) Included(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pat := range c.Exclude {
		if matchGlob(pat, rel) {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, pat := range c.Include {
		if matchGlob(pat, rel) {
			return true
		}
	}
	return false
}

func (c Config) String() string {
	return fmt.Sprintf("Config{include=%v exclude=%v cache=%v}", c.Include, c.Exclude, c.Cache)
}
