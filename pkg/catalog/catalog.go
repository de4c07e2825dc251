// Package catalog implements the file-catalog stage: a single walk of
// the project tree producing file records, raw contents for text files,
// and a human-readable tree view.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/auspexhq/auspex/internal/fileproc"
	"github.com/auspexhq/auspex/pkg/config"
	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

// textExts is the set of extensions whose content is read for
// downstream stages.
var textExts = map[string]bool{
	"php": true, "js": true, "jsx": true, "ts": true, "tsx": true,
	"mjs": true, "cjs": true, "vue": true, "json": true, "html": true,
	"htm": true, "css": true, "scss": true, "less": true, "xml": true,
	"yml": true, "yaml": true, "md": true, "txt": true, "ini": true,
	"sql": true, "sh": true, "env": true, "twig": true, "lock": false,
}

// jsFamilyExts marks extensions subject to the obfuscation heuristic.
var jsFamilyExts = map[string]bool{
	"js": true, "jsx": true, "ts": true, "tsx": true,
	"mjs": true, "cjs": true, "vue": true,
}

// hiddenAllowlist lists dotfiles that are analyzed despite being hidden.
var hiddenAllowlist = map[string]bool{
	".env": true, ".env.example": true, ".env.local": true,
	".htaccess": true, ".babelrc": true, ".editorconfig": true,
	".gitignore": true, ".nvmrc": true,
}

// hiddenAllowPrefixes covers dotfile families with variable suffixes.
var hiddenAllowPrefixes = []string{".eslintrc", ".prettierrc"}

// Catalog is the first pipeline stage.
type Catalog struct {
	cfg      *config.Config
	matchers []gitignore.Matcher
}

// New creates the catalog stage.
func New(cfg *config.Config) *Catalog {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Catalog{cfg: cfg}
}

// Name implements pipeline.Stage.
func (c *Catalog) Name() string { return "catalog" }

// candidate is one file surviving the walk, before content reading.
type candidate struct {
	rel  string
	abs  string
	info fs.FileInfo
}

// Process walks the tree, reads text contents under the size ceiling,
// applies the obfuscation heuristic, and renders the tree view.
func (c *Catalog) Process(ctx context.Context, _ *models.Snapshot, pc models.ProjectContext, progress pipeline.Progress) (*models.Delta, error) {
	c.loadGitignore(pc.Root)

	candidates, skipped, err := c.walk(pc)
	if err != nil {
		return nil, err
	}

	total := len(candidates)
	var done atomic.Int64
	progress("walk", 0, total)

	paths := make([]string, len(candidates))
	byPath := make(map[string]candidate, len(candidates))
	for i, cand := range candidates {
		paths[i] = cand.rel
		byPath[cand.rel] = cand
	}

	records, procErrs := fileproc.ForEachFileWithContext(ctx, paths, func(rel string) (models.FileRecord, error) {
		return c.buildRecord(byPath[rel])
	}, func() {
		progress("read", int(done.Add(1)), total)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if procErrs != nil {
		skipped += len(procErrs.Errors) // unreadable files are per-item skips
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })

	inv := &models.Inventory{
		Records:    records,
		TotalFiles: len(records),
		Skipped:    skipped,
	}
	for i := range records {
		inv.TotalLines += records[i].Lines
		inv.TotalSize += records[i].Size
	}
	inv.Tree = renderTree(filepath.Base(pc.Root), records, c.cfg.Thresholds.RecentDays)

	return &models.Delta{Files: inv}, nil
}

// walk collects surviving files depth-first. Unreadable entries are
// skipped silently; only a failure to walk the root itself is an error.
func (c *Catalog) walk(pc models.ProjectContext) ([]candidate, int, error) {
	var out []candidate
	skipped := 0

	err := filepath.WalkDir(pc.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == pc.Root {
				return fmt.Errorf("walk %s: %w", path, err)
			}
			return nil
		}

		rel, relErr := filepath.Rel(pc.Root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		name := d.Name()

		if d.IsDir() {
			if strings.HasPrefix(name, ".") || c.excluded(rel, pc.Exclude, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") && !hiddenAllowed(name) {
			return nil
		}
		if c.excluded(rel, pc.Exclude, false) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			skipped++
			return nil
		}

		out = append(out, candidate{rel: filepath.ToSlash(rel), abs: path, info: info})
		return nil
	})

	return out, skipped, err
}

// buildRecord fills one FileRecord, reading content only for recognized
// text extensions under the size ceiling.
func (c *Catalog) buildRecord(cand candidate) (models.FileRecord, error) {
	ext := normalizeExt(cand.rel)
	rec := models.FileRecord{
		Path:    cand.rel,
		Ext:     ext,
		Size:    cand.info.Size(),
		ModTime: cand.info.ModTime(),
	}

	if isMinified(cand.rel) || !textExts[ext] || rec.Size > c.cfg.Limits.MaxFileBytes {
		return rec, nil
	}

	data, err := os.ReadFile(cand.abs)
	if err != nil {
		return rec, err
	}

	rec.Content = string(data)
	rec.Lines = countLines(rec.Content)
	rec.Digest = fmt.Sprintf("%016x", xxhash.Sum64(data))

	if jsFamilyExts[ext] && LooksObfuscated(rec.Content) {
		rec.Obfuscated = true
	}

	return rec, nil
}

// excluded applies the config exclusions, the caller's extra substrings,
// and any gitignore matchers.
func (c *Catalog) excluded(rel string, extra []string, isDir bool) bool {
	if c.cfg.ShouldExclude(rel) {
		return true
	}
	slashed := filepath.ToSlash(rel)
	for _, sub := range extra {
		if sub != "" && strings.Contains(slashed, sub) {
			return true
		}
	}
	if len(c.matchers) > 0 {
		parts := strings.Split(rel, string(filepath.Separator))
		for _, m := range c.matchers {
			if m.Match(parts, isDir) {
				return true
			}
		}
	}
	return false
}

// loadGitignore reads all .gitignore files under the root when enabled.
func (c *Catalog) loadGitignore(root string) {
	if !c.cfg.Exclude.Gitignore {
		return
	}
	fsys := osfs.New(root)
	patterns, err := gitignore.ReadPatterns(fsys, nil)
	if err != nil || len(patterns) == 0 {
		return
	}
	c.matchers = append(c.matchers, gitignore.NewMatcher(patterns))
}

// hiddenAllowed reports whether a dotfile is in the env/config allowlist.
func hiddenAllowed(name string) bool {
	if hiddenAllowlist[name] {
		return true
	}
	for _, prefix := range hiddenAllowPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// isMinified matches the *.min.* name pattern.
func isMinified(path string) bool {
	return strings.Contains(filepath.Base(path), ".min.")
}

// normalizeExt returns the lowercase extension without the dot. Files
// like ".env" report their full name as the extension ("env"), and the
// ".env.example" family folds into "env" so their contents are read
// like any other env file.
func normalizeExt(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return "env"
	}
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return strings.TrimPrefix(base, ".")
	}
	return strings.TrimPrefix(ext, ".")
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
