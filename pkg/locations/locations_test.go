package locations

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

func run(t *testing.T, snap *models.Snapshot) *models.KeyLocations {
	t.Helper()
	delta, err := New().Process(context.Background(), snap, models.ProjectContext{}, pipeline.NopProgress)
	require.NoError(t, err)
	require.NotNil(t, delta.Locations)
	return delta.Locations
}

func TestEntryPointsByProjectType(t *testing.T) {
	snap := &models.Snapshot{
		Files: &models.Inventory{Records: []models.FileRecord{
			{Path: "artisan", Ext: "artisan"},
			{Path: "public/index.php", Ext: "php"},
			{Path: "server.js", Ext: "js"},
		}},
		Stack: &models.StackProfile{ProjectType: "laravel"},
	}

	loc := run(t, snap)
	assert.Equal(t, []string{"artisan", "public/index.php"}, loc.EntryPoints,
		"server.js is not a laravel entry point")
}

func TestTypeHintOverridesStackClassification(t *testing.T) {
	snap := &models.Snapshot{
		Files: &models.Inventory{Records: []models.FileRecord{
			{Path: "artisan", Ext: "artisan"},
			{Path: "public/index.php", Ext: "php"},
		}},
		Stack: &models.StackProfile{ProjectType: "php"},
	}

	delta, err := New().Process(context.Background(), snap, models.ProjectContext{TypeHint: "laravel"}, pipeline.NopProgress)
	require.NoError(t, err)
	assert.Equal(t, []string{"artisan", "public/index.php"}, delta.Locations.EntryPoints,
		"explicit hint selects the laravel candidates")
}

func TestEntryPointsWithoutStack(t *testing.T) {
	snap := &models.Snapshot{
		Files: &models.Inventory{Records: []models.FileRecord{
			{Path: "index.php", Ext: "php"},
		}},
	}

	loc := run(t, snap)
	assert.Equal(t, []string{"index.php"}, loc.EntryPoints)
}

func TestSignatureHits(t *testing.T) {
	snap := &models.Snapshot{
		Files: &models.Inventory{Records: []models.FileRecord{
			{Path: "db.php", Ext: "php", Content: `<?php $pdo = new PDO(getenv('DSN'));`},
			{Path: "log.js", Ext: "js", Content: `const winston = require('winston');`},
			{Path: "plain.js", Ext: "js", Content: `const x = 1;`},
		}},
	}

	loc := run(t, snap)

	byFile := map[string][]models.LocationCategory{}
	for _, hit := range loc.Hits {
		byFile[hit.File] = append(byFile[hit.File], hit.Category)
	}
	assert.Contains(t, byFile["db.php"], models.LocationDatabase)
	assert.Contains(t, byFile["db.php"], models.LocationEnv)
	assert.Contains(t, byFile["log.js"], models.LocationLog)
	assert.NotContains(t, byFile, "plain.js")
}

func TestSignatureScanIsPrefixBounded(t *testing.T) {
	content := strings.Repeat("x", scanPrefixBytes) + "\nnew PDO('dsn');"
	snap := &models.Snapshot{
		Files: &models.Inventory{Records: []models.FileRecord{
			{Path: "deep.php", Ext: "php", Content: content},
		}},
	}

	loc := run(t, snap)
	assert.Empty(t, loc.Hits, "matches beyond the prefix are ignored")
}

func TestObfuscatedFilesSkipped(t *testing.T) {
	snap := &models.Snapshot{
		Files: &models.Inventory{Records: []models.FileRecord{
			{Path: "blob.js", Ext: "js", Obfuscated: true, Content: "process.env"},
		}},
	}

	loc := run(t, snap)
	assert.Empty(t, loc.Hits)
}

func TestRequiresCatalog(t *testing.T) {
	_, err := New().Process(context.Background(), &models.Snapshot{}, models.ProjectContext{}, pipeline.NopProgress)
	assert.Error(t, err)
}
