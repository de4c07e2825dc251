package quality

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/auspexhq/auspex/pkg/config"
	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

// Analyzer is the usage-analysis pipeline stage.
type Analyzer struct {
	cfg *config.Config
}

// New creates the quality stage.
func New(cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Analyzer{cfg: cfg}
}

// Name implements pipeline.Stage.
func (a *Analyzer) Name() string { return "quality" }

// Process reconciles declared symbols against the project-wide
// reference set, detects dead-comment runs, scores complexity, and
// emits the flat issue list.
func (a *Analyzer) Process(ctx context.Context, snap *models.Snapshot, _ models.ProjectContext, progress pipeline.Progress) (*models.Delta, error) {
	if snap.Files == nil {
		return nil, errors.New("catalog namespace missing")
	}
	if snap.Structure == nil {
		return nil, errors.New("structure namespace missing")
	}

	total := len(snap.Files.Records)
	done := 0
	progress("references", 0, total)
	refs := BuildReferences(snap.Files, snap.Structure, a.cfg.Limits.MaxScanBytes, func() {
		done++
		progress("references", done, total)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress("reconcile", 0, 0)
	unused := FindUnused(snap.Files, snap.Structure, snap.Stack, refs)
	blocks := FindCommentBlocks(snap.Structure, a.cfg.Thresholds.DeadCommentMinLines)
	complexity, summary := ScoreComplexity(snap.Files, a.cfg.Thresholds.ComplexityReport)

	qa := &models.QualityAnalysis{
		Issues:             buildIssues(unused, blocks),
		UnusedFunctions:    unused.Functions,
		UnusedMethods:      unused.Methods,
		UnusedClasses:      unused.Classes,
		UnusedImports:      unused.Imports,
		UnusedDependencies: unused.Dependencies,
		CommentBlocks:      blocks,
		Complexity:         complexity,
		Summary:            summary,
		DynamicSignal:      unused.DynamicSignal,
	}

	return &models.Delta{Quality: qa}, nil
}

// buildIssues flattens every finding into the typed issue list, sorted
// by severity with detection order preserved inside each band.
func buildIssues(unused *Unused, blocks []models.CommentBlock) []models.Issue {
	issues := make([]models.Issue, 0)

	for _, sym := range unused.Functions {
		issues = append(issues, newIssue(models.Issue{
			Name:        sym.Name,
			Kind:        models.IssueUnusedFunction,
			Severity:    models.SeverityWarning,
			File:        sym.File,
			Line:        sym.Line,
			Tag:         "dead code",
			Description: fmt.Sprintf("function %s is never referenced", sym.Name),
		}))
	}
	for _, sym := range unused.Methods {
		issues = append(issues, newIssue(models.Issue{
			Name:        sym.Name,
			Kind:        models.IssueUnusedMethod,
			Severity:    models.SeverityWarning,
			File:        sym.File,
			Line:        sym.Line,
			Class:       sym.Class,
			Tag:         "dead code",
			Description: fmt.Sprintf("method %s::%s is never referenced", sym.Class, sym.Name),
		}))
	}
	for _, sym := range unused.Classes {
		issue := models.Issue{
			Name:        sym.Name,
			Kind:        models.IssueUnusedClass,
			Severity:    models.SeverityWarning,
			File:        sym.File,
			Line:        sym.Line,
			Tag:         "dead code",
			Description: fmt.Sprintf("class %s is never referenced", sym.Name),
		}
		if unused.DynamicSignal && sym.Language == "php" {
			issue.Severity = models.SeverityInfo
			issue.Tag = "dynamic"
			issue.Description = fmt.Sprintf(
				"class %s has no static reference, but the project instantiates classes dynamically", sym.Name)
		}
		issues = append(issues, newIssue(issue))
	}
	for _, imp := range unused.Imports {
		issues = append(issues, newIssue(models.Issue{
			Name:        imp.Name,
			Kind:        models.IssueUnusedImport,
			Severity:    models.SeverityInfo,
			File:        imp.File,
			Line:        imp.Line,
			Tag:         "unused import",
			Description: fmt.Sprintf("import %s from %s is never used", imp.Name, imp.Source),
		}))
	}
	for _, dep := range unused.Dependencies {
		issues = append(issues, newIssue(models.Issue{
			Name:        dep,
			Kind:        models.IssueUnusedDependency,
			Severity:    models.SeverityWarning,
			Tag:         "unused dependency",
			Description: fmt.Sprintf("dependency %s is declared but never imported", dep),
		}))
	}
	for _, block := range blocks {
		issues = append(issues, newIssue(models.Issue{
			Name:        fmt.Sprintf("%s:%d", block.File, block.StartLine),
			Kind:        models.IssueCommentedCode,
			Severity:    models.SeverityInfo,
			File:        block.File,
			Line:        block.StartLine,
			Tag:         "commented code",
			Description: fmt.Sprintf("%d consecutive comment lines, likely disabled code", block.Lines),
		}))
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})
	return issues
}

// newIssue stamps the identity hash used to track one finding across
// runs: same kind, file, and name means the same issue regardless of
// line drift.
func newIssue(issue models.Issue) models.Issue {
	sum := blake3.Sum256([]byte(string(issue.Kind) + "\x00" + issue.File + "\x00" + issue.Class + "\x00" + issue.Name))
	issue.ContextHash = fmt.Sprintf("%x", sum[:8])
	return issue
}
