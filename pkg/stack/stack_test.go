package stack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

func profile(t *testing.T, records []models.FileRecord) *models.StackProfile {
	t.Helper()
	snap := &models.Snapshot{Files: &models.Inventory{Records: records}}
	delta, err := New().Process(context.Background(), snap, models.ProjectContext{}, pipeline.NopProgress)
	require.NoError(t, err)
	require.NotNil(t, delta.Stack)
	return delta.Stack
}

func TestLanguagesSortedByLines(t *testing.T) {
	p := profile(t, []models.FileRecord{
		{Path: "a.php", Ext: "php", Lines: 50},
		{Path: "b.php", Ext: "php", Lines: 50},
		{Path: "c.js", Ext: "js", Lines: 300},
		{Path: "d.vue", Ext: "vue", Lines: 10},
		{Path: "logo.svg", Ext: "svg", Lines: 1},
	})

	require.Len(t, p.Languages, 3)
	assert.Equal(t, "JavaScript", p.Languages[0].Language)
	assert.Equal(t, 300, p.Languages[0].Lines)
	assert.Equal(t, "PHP", p.Languages[1].Language)
	assert.Equal(t, 2, p.Languages[1].Files)
	assert.Equal(t, "Vue", p.Languages[2].Language)
}

func TestPackageManifestParsed(t *testing.T) {
	p := profile(t, []models.FileRecord{
		{Path: "package.json", Ext: "json", Content: `{
			"dependencies": {"vue": "^3.4.0", "axios": "^1.6.0"},
			"devDependencies": {"vite": "^5.0.0"}
		}`},
	})

	require.Len(t, p.Dependencies, 3)
	assert.Equal(t, "axios", p.Dependencies[0].Name, "dependencies sorted by name")

	vite := p.Dependency("vite")
	require.NotNil(t, vite)
	assert.True(t, vite.Dev)
	assert.Equal(t, models.EcosystemNPM, vite.Ecosystem)

	assert.Contains(t, p.Frameworks, "Vue")
	assert.Equal(t, "vue", p.ProjectType)
}

func TestComposerManifestParsed(t *testing.T) {
	p := profile(t, []models.FileRecord{
		{Path: "composer.json", Ext: "json", Content: `{
			"require": {"php": "^8.1", "laravel/framework": "^10.0"},
			"require-dev": {"phpunit/phpunit": "^10.0"}
		}`},
		{Path: "app.php", Ext: "php", Lines: 10, Content: "<?php echo 1;"},
	})

	assert.Equal(t, "8.1", p.PHPFloor, "php requirement becomes the floor, not a dependency")
	assert.Nil(t, p.Dependency("php"))
	require.NotNil(t, p.Dependency("laravel/framework"))
	assert.Contains(t, p.Frameworks, "Laravel")
	assert.Equal(t, "laravel", p.ProjectType)
}

func TestTSConfigWithComments(t *testing.T) {
	p := profile(t, []models.FileRecord{
		{Path: "tsconfig.json", Ext: "json", Content: `{
			// build target
			"compilerOptions": {
				"target": "ES2020", /* keep in sync with vite */
				"strict": true
			}
		}`},
	})

	require.NotNil(t, p.TypeScript)
	assert.Equal(t, "ES2020", p.TypeScript.Target)
	assert.True(t, p.TypeScript.Strict)
}

func TestUnparseableManifestSkipped(t *testing.T) {
	p := profile(t, []models.FileRecord{
		{Path: "package.json", Ext: "json", Content: `{not json`},
		{Path: "a.js", Ext: "js", Lines: 5},
	})

	assert.Empty(t, p.Dependencies)
	assert.Equal(t, "node", p.ProjectType)
}

func TestPHPVersionFloorFromSyntax(t *testing.T) {
	p := profile(t, []models.FileRecord{
		{Path: "a.php", Ext: "php", Lines: 3, Content: "<?php\n$x = $obj?->value;\n"},
	})

	assert.Equal(t, "8.0", p.PHPFloor)
}

func TestComposerFloorNotLoweredBySyntax(t *testing.T) {
	p := profile(t, []models.FileRecord{
		{Path: "composer.json", Ext: "json", Content: `{"require": {"php": ">=8.1"}}`},
		{Path: "a.php", Ext: "php", Lines: 2, Content: "<?php $x = $a ?? 1;\n"},
	})

	assert.Equal(t, "8.1", p.PHPFloor, "the null-coalescing hit must not lower an explicit 8.1 floor")
}

func TestESFloorProgression(t *testing.T) {
	p := profile(t, []models.FileRecord{
		{Path: "a.js", Ext: "js", Lines: 1, Content: "const f = (x) => x + 1;\n"},
		{Path: "b.js", Ext: "js", Lines: 1, Content: "const v = obj?.deep ?? 'fallback';\n"},
	})

	assert.Equal(t, "ES2020", p.ESFloor)
}

func TestObfuscatedFilesIgnoredForFloors(t *testing.T) {
	p := profile(t, []models.FileRecord{
		{Path: "blob.js", Ext: "js", Lines: 1, Obfuscated: true, Content: "a?.b"},
	})

	assert.Empty(t, p.ESFloor)
}

func TestRequiresCatalog(t *testing.T) {
	_, err := New().Process(context.Background(), &models.Snapshot{}, models.ProjectContext{}, pipeline.NopProgress)
	assert.Error(t, err)
}
