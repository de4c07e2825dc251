package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.Thresholds.ComplexityReport)
	assert.Equal(t, 8, cfg.Thresholds.DeadCommentMinLines)
	assert.Equal(t, 600, cfg.Thresholds.OversizedFileLines)
	assert.Equal(t, int64(5*1024*1024), cfg.Limits.MaxFileBytes)
	assert.True(t, cfg.Exclude.Gitignore)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auspex.toml")
	content := `
[thresholds]
complexity_report = 25
dead_comment_min_lines = 4

[exclude]
dirs = ["generated"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Thresholds.ComplexityReport)
	assert.Equal(t, 4, cfg.Thresholds.DeadCommentMinLines)
	// untouched sections keep their defaults
	assert.Equal(t, 600, cfg.Thresholds.OversizedFileLines)
	assert.Equal(t, []string{"generated"}, cfg.Exclude.Dirs)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auspex.yaml")
	content := "output:\n  format: json\n  verbose: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.Verbose)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"vendor/autoload.php", true},
		{"src/vendor/lib.php", true},
		{"node_modules/lodash/index.js", true},
		{"app/assets/app.min.js", true},
		{"public/app.js.map", true},
		{"app/Models/User.php", false},
		{"src/components/App.vue", false},
		{"vendored/file.php", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.ShouldExclude(tt.path), tt.path)
	}
}

func TestShouldExcludeCustomPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "**/*_generated.ts")

	assert.True(t, cfg.ShouldExclude("src/api/client_generated.ts"))
	assert.False(t, cfg.ShouldExclude("src/api/client.ts"))
}
