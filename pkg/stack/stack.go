// Package stack implements the stack-profiler stage: manifest parsing
// and syntactic version-feature scanning.
package stack

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

// Profiler is the second pipeline stage.
type Profiler struct{}

// New creates the stack stage.
func New() *Profiler { return &Profiler{} }

// Name implements pipeline.Stage.
func (p *Profiler) Name() string { return "stack" }

// languageForExt maps catalog extensions to reported languages.
var languageForExt = map[string]string{
	"php": "PHP",
	"js":  "JavaScript", "jsx": "JavaScript", "mjs": "JavaScript", "cjs": "JavaScript",
	"ts": "TypeScript", "tsx": "TypeScript",
	"vue": "Vue",
}

// frameworkHints maps dependency names to reported frameworks.
var frameworkHints = map[string]string{
	"vue": "Vue", "react": "React", "express": "Express",
	"next": "Next.js", "nuxt": "Nuxt", "jquery": "jQuery",
	"laravel/framework": "Laravel", "symfony/symfony": "Symfony",
	"slim/slim": "Slim", "cakephp/cakephp": "CakePHP",
}

// Process parses manifests and scans code for version-indicating
// features. Unparseable manifests are per-item skips.
func (p *Profiler) Process(ctx context.Context, snap *models.Snapshot, _ models.ProjectContext, progress pipeline.Progress) (*models.Delta, error) {
	if snap.Files == nil {
		return nil, fmt.Errorf("catalog namespace missing")
	}

	profile := &models.StackProfile{}
	p.collectLanguages(snap.Files, profile)

	if rec := snap.Files.Record("package.json"); rec != nil && rec.HasContent() {
		parsePackageJSON(rec.Content, profile)
	}
	if rec := snap.Files.Record("composer.json"); rec != nil && rec.HasContent() {
		parseComposerJSON(rec.Content, profile)
	}
	if rec := snap.Files.Record("tsconfig.json"); rec != nil && rec.HasContent() {
		parseTSConfig(rec.Content, profile)
	}

	p.detectFrameworks(profile)
	p.inferVersionFloors(ctx, snap.Files, profile, progress)
	p.classifyProject(profile)

	sort.Slice(profile.Dependencies, func(i, j int) bool {
		return profile.Dependencies[i].Name < profile.Dependencies[j].Name
	})
	sort.Strings(profile.Frameworks)

	return &models.Delta{Stack: profile}, nil
}

// collectLanguages aggregates file and line counts per language.
func (p *Profiler) collectLanguages(inv *models.Inventory, profile *models.StackProfile) {
	stats := make(map[string]*models.LanguageStat)
	for i := range inv.Records {
		rec := &inv.Records[i]
		lang, ok := languageForExt[rec.Ext]
		if !ok {
			continue
		}
		st, ok := stats[lang]
		if !ok {
			st = &models.LanguageStat{Language: lang}
			stats[lang] = st
		}
		st.Files++
		st.Lines += rec.Lines
	}

	for _, st := range stats {
		profile.Languages = append(profile.Languages, *st)
	}
	sort.Slice(profile.Languages, func(i, j int) bool {
		if profile.Languages[i].Lines != profile.Languages[j].Lines {
			return profile.Languages[i].Lines > profile.Languages[j].Lines
		}
		return profile.Languages[i].Language < profile.Languages[j].Language
	})
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func parsePackageJSON(content string, profile *models.StackProfile) {
	var pkg packageJSON
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return
	}
	for name, version := range pkg.Dependencies {
		profile.Dependencies = append(profile.Dependencies, models.Dependency{
			Name: name, Version: version, Ecosystem: models.EcosystemNPM,
		})
	}
	for name, version := range pkg.DevDependencies {
		profile.Dependencies = append(profile.Dependencies, models.Dependency{
			Name: name, Version: version, Ecosystem: models.EcosystemNPM, Dev: true,
		})
	}
}

type composerJSON struct {
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

func parseComposerJSON(content string, profile *models.StackProfile) {
	var pkg composerJSON
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return
	}
	for name, version := range pkg.Require {
		if name == "php" {
			profile.PHPFloor = strings.TrimLeft(version, "^~>= ")
			continue
		}
		profile.Dependencies = append(profile.Dependencies, models.Dependency{
			Name: name, Version: version, Ecosystem: models.EcosystemComposer,
		})
	}
	for name, version := range pkg.RequireDev {
		profile.Dependencies = append(profile.Dependencies, models.Dependency{
			Name: name, Version: version, Ecosystem: models.EcosystemComposer, Dev: true,
		})
	}
}

type tsconfigJSON struct {
	CompilerOptions struct {
		Target string `json:"target"`
		Strict bool   `json:"strict"`
	} `json:"compilerOptions"`
}

// parseTSConfig tolerates the JSONC dialect tsconfig files use.
func parseTSConfig(content string, profile *models.StackProfile) {
	var cfg tsconfigJSON
	if err := json.Unmarshal([]byte(stripJSONComments(content)), &cfg); err != nil {
		return
	}
	profile.TypeScript = &models.TypeScriptConfig{
		Target: cfg.CompilerOptions.Target,
		Strict: cfg.CompilerOptions.Strict,
	}
}

// stripJSONComments removes // and /* */ comments outside strings.
func stripJSONComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	inString := false
	inLine := false
	inBlock := false
	for i := 0; i < len(content); i++ {
		ch := content[i]
		switch {
		case inLine:
			if ch == '\n' {
				inLine = false
				b.WriteByte(ch)
			}
		case inBlock:
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				inBlock = false
				i++
			}
		case inString:
			b.WriteByte(ch)
			if ch == '\\' && i+1 < len(content) {
				i++
				b.WriteByte(content[i])
			} else if ch == '"' {
				inString = false
			}
		case ch == '"':
			inString = true
			b.WriteByte(ch)
		case ch == '/' && i+1 < len(content) && content[i+1] == '/':
			inLine = true
			i++
		case ch == '/' && i+1 < len(content) && content[i+1] == '*':
			inBlock = true
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// detectFrameworks reports frameworks hinted at by declared dependencies.
func (p *Profiler) detectFrameworks(profile *models.StackProfile) {
	seen := make(map[string]bool)
	for _, dep := range profile.Dependencies {
		if fw, ok := frameworkHints[dep.Name]; ok && !seen[fw] {
			seen[fw] = true
			profile.Frameworks = append(profile.Frameworks, fw)
		}
	}
}

// classifyProject picks a coarse project type from the evidence.
func (p *Profiler) classifyProject(profile *models.StackProfile) {
	for _, fw := range profile.Frameworks {
		switch fw {
		case "Laravel":
			profile.ProjectType = "laravel"
			return
		case "Vue", "Nuxt":
			profile.ProjectType = "vue"
			return
		}
	}
	hasPHP := false
	hasJS := false
	for _, lang := range profile.Languages {
		switch lang.Language {
		case "PHP":
			hasPHP = true
		case "JavaScript", "TypeScript":
			hasJS = true
		}
	}
	switch {
	case hasPHP:
		profile.ProjectType = "php"
	case hasJS:
		profile.ProjectType = "node"
	}
}
