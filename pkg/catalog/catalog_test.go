package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auspexhq/auspex/pkg/config"
	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

// writeTree lays out files under a temp root. Keys are relative paths.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	return root
}

func runCatalog(t *testing.T, root string, pc models.ProjectContext) *models.Inventory {
	t.Helper()
	pc.Root = root
	delta, err := New(config.DefaultConfig()).Process(context.Background(), &models.Snapshot{}, pc, pipeline.NopProgress)
	require.NoError(t, err)
	require.NotNil(t, delta.Files)
	return delta.Files
}

func TestProcessCatalogsTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.php":      "<?php echo 1;\n",
		"src/app.js":     "console.log('hi');\n",
		"assets/logo.md": "# logo\n",
	})

	inv := runCatalog(t, root, models.ProjectContext{})

	require.Equal(t, 3, inv.TotalFiles)
	assert.Equal(t, "assets/logo.md", inv.Records[0].Path, "records sorted by path")

	rec := inv.Record("index.php")
	require.NotNil(t, rec)
	assert.Equal(t, "php", rec.Ext)
	assert.Equal(t, 1, rec.Lines)
	assert.NotEmpty(t, rec.Digest)
	assert.Equal(t, "<?php echo 1;\n", rec.Content)
	assert.Positive(t, inv.TotalLines)
	assert.Positive(t, inv.TotalSize)
}

func TestExcludedDirsSkipped(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.php":                 "<?php\n",
		"vendor/lib/lib.php":      "<?php\n",
		"node_modules/x/index.js": "x\n",
		"custom/skip/me.php":      "<?php\n",
	})

	inv := runCatalog(t, root, models.ProjectContext{Exclude: []string{"custom/skip"}})

	assert.Equal(t, 1, inv.TotalFiles)
	assert.NotNil(t, inv.Record("app.php"))
}

func TestHiddenFilesAllowlisted(t *testing.T) {
	root := writeTree(t, map[string]string{
		".env":           "APP_KEY=secret\n",
		".eslintrc.json": "{}\n",
		".hidden":        "nope\n",
		".git/config":    "[core]\n",
	})

	inv := runCatalog(t, root, models.ProjectContext{})

	assert.NotNil(t, inv.Record(".env"))
	assert.NotNil(t, inv.Record(".eslintrc.json"))
	assert.Nil(t, inv.Record(".hidden"))
	assert.Nil(t, inv.Record(".git/config"), "dot directories are never entered")
}

func TestEnvFamilyContentRead(t *testing.T) {
	root := writeTree(t, map[string]string{
		".env":         "APP_KEY=secret\n",
		".env.example": "APP_KEY=\n",
		".env.local":   "APP_KEY=dev\n",
	})

	inv := runCatalog(t, root, models.ProjectContext{})

	for _, path := range []string{".env", ".env.example", ".env.local"} {
		rec := inv.Record(path)
		require.NotNil(t, rec, path)
		assert.Equal(t, "env", rec.Ext, path)
		assert.NotEmpty(t, rec.Content, path)
	}
}

func TestMinifiedFilesExcluded(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.min.js": strings.Repeat("var a=1;", 100),
	})

	inv := runCatalog(t, root, models.ProjectContext{})
	assert.Nil(t, inv.Record("app.min.js"), "default config excludes **/*.min.*")
}

func TestOversizedFileMetadataOnly(t *testing.T) {
	root := writeTree(t, map[string]string{
		"big.js": strings.Repeat("x", 64),
	})

	cfg := config.DefaultConfig()
	cfg.Limits.MaxFileBytes = 10
	delta, err := New(cfg).Process(context.Background(), &models.Snapshot{}, models.ProjectContext{Root: root}, pipeline.NopProgress)
	require.NoError(t, err)

	rec := delta.Files.Record("big.js")
	require.NotNil(t, rec)
	assert.Empty(t, rec.Content)
	assert.Empty(t, rec.Digest)
	assert.Equal(t, int64(64), rec.Size)
}

func TestGitignoreRespected(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore": "generated.php\n",
		"app.php":    "<?php\n",
		"generated.php": "<?php\n",
	})

	inv := runCatalog(t, root, models.ProjectContext{})

	assert.Nil(t, inv.Record("generated.php"))
	assert.NotNil(t, inv.Record("app.php"))
}

func TestObfuscatedJSFlagged(t *testing.T) {
	dense := strings.Repeat(`\x41\x42`, 200)
	root := writeTree(t, map[string]string{
		"blob.js":  dense,
		"clean.js": "function hi() {\n  return 1;\n}\n",
	})

	inv := runCatalog(t, root, models.ProjectContext{})

	require.NotNil(t, inv.Record("blob.js"))
	assert.True(t, inv.Record("blob.js").Obfuscated)
	assert.False(t, inv.Record("clean.js").Obfuscated)
}

func TestTreeRendered(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/app.php": "<?php\n",
		"img/a.svg":   "<svg/>",
		"img/b.svg":   "<svg/>",
	})

	inv := runCatalog(t, root, models.ProjectContext{})

	assert.Contains(t, inv.Tree, "src/")
	assert.Contains(t, inv.Tree, "app.php")
	assert.Contains(t, inv.Tree, "[2 asset files: svg]")
	assert.Contains(t, inv.Tree, "(modified ", "fresh files carry the recency annotation")
}

func TestMissingRootFails(t *testing.T) {
	_, err := New(nil).Process(context.Background(), &models.Snapshot{},
		models.ProjectContext{Root: "/no/such/dir"}, pipeline.NopProgress)
	assert.Error(t, err)
}

func TestLooksObfuscated(t *testing.T) {
	t.Run("escape density", func(t *testing.T) {
		assert.True(t, LooksObfuscated(strings.Repeat(`\x41`, 100)))
	})
	t.Run("no whitespace", func(t *testing.T) {
		assert.True(t, LooksObfuscated(strings.Repeat("a", 2000)))
	})
	t.Run("long line", func(t *testing.T) {
		content := "// ok\n" + strings.Repeat("a ", 3000)
		assert.True(t, LooksObfuscated(content))
	})
	t.Run("normal source", func(t *testing.T) {
		assert.False(t, LooksObfuscated("function add(a, b) {\n  return a + b;\n}\n"))
	})
	t.Run("empty", func(t *testing.T) {
		assert.False(t, LooksObfuscated(""))
	})
}
