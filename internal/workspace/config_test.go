package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	cfg := LoadConfig(dir)

	assert.Equal(t, "{{", cfg.Interpolate.StartSymbol)
	assert.Equal(t, "}}", cfg.Interpolate.EndSymbol)
	assert.True(t, cfg.Diagnostics.Enabled)
	assert.Equal(t, SeverityWarning, cfg.Diagnostics.Severity)
	assert.False(t, cfg.Cache)
}

func TestLoadConfigOverridesOnlyProvidedFields(t *testing.T) {
	dir := t.TempDir()
	raw := `{"cache": true, "diagnostics": {"unusedScopeVariables": false}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ajsconfig.json"), []byte(raw), 0o644))

	cfg := LoadConfig(dir)

	assert.True(t, cfg.Cache)
	assert.False(t, cfg.Diagnostics.UnusedScopeVariables)
	// Untouched fields keep their defaults.
	assert.True(t, cfg.Diagnostics.Enabled)
	assert.Equal(t, "{{", cfg.Interpolate.StartSymbol)
}

func TestLoadConfigMalformedFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ajsconfig.json"), []byte("{not json"), 0o644))

	cfg := LoadConfig(dir)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestIncludedExcludesNodeModulesByDefault(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Included("node_modules/angular/angular.js"))
	assert.False(t, cfg.Included("vendor/dist/app.js"))
	assert.True(t, cfg.Included("app/controllers/main.js"))
}

func TestIncludedHonorsExplicitIncludeGlobs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = []string{"src/**/*.js"}
	assert.True(t, cfg.Included("src/app/main.js"))
	assert.False(t, cfg.Included("lib/other.js"))
}
