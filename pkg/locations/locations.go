// Package locations implements the key-locations stage: a read-only
// pass over prior deltas that points a reader at entry points and
// configuration, database, and logging hotspots.
package locations

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

// scanPrefixBytes bounds how much of each file is searched for
// signatures. Connection and bootstrap code sits near the top of a
// file; scanning whole contents again would only add noise and cost.
const scanPrefixBytes = 4096

// entryCandidates lists entry-point filenames per declared project
// type. The generic set applies when the stack stage produced no type.
var entryCandidates = map[string][]string{
	"laravel": {"artisan", "public/index.php", "bootstrap/app.php"},
	"php":     {"index.php", "public/index.php"},
	"node":    {"server.js", "index.js", "app.js", "src/index.js", "src/index.ts", "src/server.ts"},
	"vue":     {"src/main.js", "src/main.ts", "index.html"},
	"":        {"index.php", "index.js", "server.js", "src/index.js", "src/main.js"},
}

// signature pairs a literal needle with the category it indicates.
type signature struct {
	needle   string
	category models.LocationCategory
}

var signatures = []signature{
	{"process.env", models.LocationEnv},
	{"getenv(", models.LocationEnv},
	{"$_ENV", models.LocationEnv},
	{"env(", models.LocationEnv},
	{"dotenv", models.LocationEnv},
	{"new PDO", models.LocationDatabase},
	{"mysqli_connect", models.LocationDatabase},
	{"mongoose.connect", models.LocationDatabase},
	{"createConnection", models.LocationDatabase},
	{"createPool", models.LocationDatabase},
	{"DB::", models.LocationDatabase},
	{"error_log(", models.LocationLog},
	{"winston", models.LocationLog},
	{"monolog", models.LocationLog},
	{"Monolog", models.LocationLog},
	{"Log::", models.LocationLog},
	{"console.error", models.LocationLog},
	{"config(", models.LocationConfig},
	{"require('config", models.LocationConfig},
	{"loadConfig", models.LocationConfig},
}

// Finder is the key-locations pipeline stage.
type Finder struct{}

// New creates the locations stage.
func New() *Finder { return &Finder{} }

// Name implements pipeline.Stage.
func (f *Finder) Name() string { return "locations" }

// Process matches entry-point candidates for the declared project type
// and scans a bounded prefix of each code file for well-known
// environment, database, logging, and configuration signatures.
func (f *Finder) Process(ctx context.Context, snap *models.Snapshot, pc models.ProjectContext, progress pipeline.Progress) (*models.Delta, error) {
	if snap.Files == nil {
		return nil, errors.New("catalog namespace missing")
	}

	// An explicit hint from the caller wins over stack inference.
	projectType := pc.TypeHint
	if projectType == "" && snap.Stack != nil {
		projectType = snap.Stack.ProjectType
	}

	loc := &models.KeyLocations{
		EntryPoints: findEntryPoints(snap.Files, projectType),
	}

	total := len(snap.Files.Records)
	for i := range snap.Files.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := &snap.Files.Records[i]
		progress("scan", i+1, total)
		if rec.Content == "" || rec.Obfuscated {
			continue
		}
		loc.Hits = append(loc.Hits, scanPrefix(rec)...)
	}

	sort.Slice(loc.Hits, func(i, j int) bool {
		if loc.Hits[i].File != loc.Hits[j].File {
			return loc.Hits[i].File < loc.Hits[j].File
		}
		return loc.Hits[i].Signature < loc.Hits[j].Signature
	})

	return &models.Delta{Locations: loc}, nil
}

// findEntryPoints returns the candidate filenames that exist in the
// inventory, in candidate order.
func findEntryPoints(inv *models.Inventory, projectType string) []string {
	candidates, ok := entryCandidates[projectType]
	if !ok {
		candidates = entryCandidates[""]
	}
	var out []string
	for _, cand := range candidates {
		if inv.Record(cand) != nil {
			out = append(out, cand)
		}
	}
	return out
}

// scanPrefix reports each signature found in the file's leading bytes.
func scanPrefix(rec *models.FileRecord) []models.LocationHit {
	prefix := rec.Content
	if len(prefix) > scanPrefixBytes {
		prefix = prefix[:scanPrefixBytes]
	}

	var hits []models.LocationHit
	seen := map[string]bool{}
	for _, sig := range signatures {
		if seen[sig.needle] || !strings.Contains(prefix, sig.needle) {
			continue
		}
		seen[sig.needle] = true
		hits = append(hits, models.LocationHit{
			File:      rec.Path,
			Category:  sig.category,
			Signature: sig.needle,
		})
	}
	return hits
}
