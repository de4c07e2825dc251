// Package structure implements the structural-extraction stage:
// lexical recovery of classes, functions, imports, exports, and
// comments from PHP, JavaScript, TypeScript, and Vue sources. The
// scanners work on raw text with brace-depth tracking, no syntax tree.
package structure

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"

	"github.com/auspexhq/auspex/internal/fileproc"
	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

// scanLanguages maps a cataloged extension to the scanner language.
var scanLanguages = map[string]string{
	"php": "php",
	"js":  "javascript", "jsx": "javascript",
	"mjs": "javascript", "cjs": "javascript",
	"ts": "typescript", "tsx": "typescript",
	"vue": "vue",
}

// Extractor is the structural-extraction pipeline stage.
type Extractor struct{}

// New creates the structure stage.
func New() *Extractor { return &Extractor{} }

// Name implements pipeline.Stage.
func (e *Extractor) Name() string { return "structure" }

// Process scans every cataloged source file with content and emits the
// extraction namespace. Obfuscated files produce a skipped marker so
// downstream stages know the file was seen but not scanned.
func (e *Extractor) Process(ctx context.Context, snap *models.Snapshot, _ models.ProjectContext, progress pipeline.Progress) (*models.Delta, error) {
	if snap.Files == nil {
		return nil, errors.New("catalog namespace missing")
	}

	byPath := make(map[string]*models.FileRecord)
	var paths []string
	for i := range snap.Files.Records {
		rec := &snap.Files.Records[i]
		if _, ok := scanLanguages[rec.Ext]; !ok {
			continue
		}
		if rec.Content == "" && !rec.Obfuscated {
			continue
		}
		byPath[rec.Path] = rec
		paths = append(paths, rec.Path)
	}

	total := len(paths)
	var done atomic.Int64
	progress("scan", 0, total)

	files, procErrs := fileproc.ForEachFileWithContext(ctx, paths, func(path string) (models.FileStructure, error) {
		return *scanFile(byPath[path]), nil
	}, func() {
		progress("scan", int(done.Add(1)), total)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_ = procErrs // scanners never fail on input text

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	ext := &models.Extraction{Files: files}
	for i := range files {
		ext.TotalClasses += len(files[i].Classes)
		ext.TotalFunctions += len(files[i].Functions)
		ext.TotalImports += len(files[i].Imports)
		for j := range files[i].Classes {
			ext.TotalMethods += len(files[i].Classes[j].Methods)
		}
	}

	return &models.Delta{Structure: ext}, nil
}

// scanFile dispatches one record to its language scanner.
func scanFile(rec *models.FileRecord) *models.FileStructure {
	lang := scanLanguages[rec.Ext]
	if rec.Obfuscated {
		return &models.FileStructure{
			Path:      rec.Path,
			Language:  lang,
			Classes:   []models.Class{},
			Functions: []models.Function{},
			Imports:   []models.Import{},
			Exports:   []models.Export{},
			Skipped:   true,
		}
	}

	switch lang {
	case "php":
		return ScanPHP(rec.Path, rec.Content)
	case "vue":
		return ScanVue(rec.Path, rec.Content)
	default:
		return ScanJS(rec.Path, rec.Content, lang, 0)
	}
}
