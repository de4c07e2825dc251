// Package score implements the final stage: a bounded 0-10 quality
// score derived from a small weighted deduction and bonus model over
// the prior deltas.
package score

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/auspexhq/auspex/pkg/config"
	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

const (
	baseScore = 10.0

	commentBlockPenalty = 0.5
	commentBlockCap     = 2.0
	oversizedPenalty    = 0.25
	oversizedCap        = 2.0
	rawSQLPenalty       = 1.0
	rawSQLCap           = 3.0

	typedParamBonus   = 0.5
	modernSyntaxBonus = 0.5
	typedParamFloor   = 0.5
)

var (
	// string-built SQL: a query literal concatenated or interpolated
	// with a variable instead of bound parameters
	phpConcatSQLRe = regexp.MustCompile(`(?i)['"](?:SELECT|INSERT|UPDATE|DELETE)\b[^'"]*['"]\s*\.\s*\$\w+`)
	phpInterpSQLRe = regexp.MustCompile(`(?i)"(?:SELECT|INSERT|UPDATE|DELETE)\b[^"]*\$\w+`)
	jsTemplateRe   = regexp.MustCompile("(?i)`(?:SELECT|INSERT|UPDATE|DELETE)\\b[^`]*\\$\\{")

	phpTypedParamRe = regexp.MustCompile(`[(,]\s*\??[A-Za-z_\\][\w\\|]*\s+&?\$\w+`)
	phpAnyParamRe   = regexp.MustCompile(`[(,]\s*(?:\??[A-Za-z_\\][\w\\|]*\s+)?&?\$\w+`)
)

// codeExts marks the languages counted for size and typing heuristics.
var codeExts = map[string]bool{
	"php": true, "js": true, "jsx": true, "ts": true, "tsx": true,
	"mjs": true, "cjs": true, "vue": true,
}

// Scorer is the score pipeline stage.
type Scorer struct {
	cfg *config.Config
}

// New creates the score stage.
func New(cfg *config.Config) *Scorer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scorer{cfg: cfg}
}

// Name implements pipeline.Stage.
func (s *Scorer) Name() string { return "score" }

// Process computes the bounded score from prior deltas. It reads state
// only; no file is opened here.
func (s *Scorer) Process(ctx context.Context, snap *models.Snapshot, _ models.ProjectContext, progress pipeline.Progress) (*models.Delta, error) {
	if snap.Files == nil {
		return nil, errors.New("catalog namespace missing")
	}

	result := &models.ScoreResult{
		Score:      baseScore,
		Deductions: []models.ScoreReason{},
		Bonuses:    []models.ScoreReason{},
	}
	progress("score", 0, 0)

	s.deductCommentBlocks(snap, result)
	s.deductOversized(snap, result)
	s.deductRawSQL(snap, result)
	s.bonusTypedParams(snap, result)
	s.bonusModernSyntax(snap, result)

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 10 {
		result.Score = 10
	}

	return &models.Delta{Score: result}, nil
}

func (s *Scorer) deductCommentBlocks(snap *models.Snapshot, result *models.ScoreResult) {
	if snap.Quality == nil || len(snap.Quality.CommentBlocks) == 0 {
		return
	}
	points := capPoints(float64(len(snap.Quality.CommentBlocks))*commentBlockPenalty, commentBlockCap)
	deduct(result, fmt.Sprintf("%d dead-comment blocks", len(snap.Quality.CommentBlocks)), points)
}

func (s *Scorer) deductOversized(snap *models.Snapshot, result *models.ScoreResult) {
	limit := s.cfg.Thresholds.OversizedFileLines
	count := 0
	for i := range snap.Files.Records {
		rec := &snap.Files.Records[i]
		if codeExts[rec.Ext] && rec.Lines > limit {
			count++
		}
	}
	if count == 0 {
		return
	}
	points := capPoints(float64(count)*oversizedPenalty, oversizedCap)
	deduct(result, fmt.Sprintf("%d files over %d lines", count, limit), points)
}

func (s *Scorer) deductRawSQL(snap *models.Snapshot, result *models.ScoreResult) {
	count := 0
	for i := range snap.Files.Records {
		rec := &snap.Files.Records[i]
		if rec.Content == "" || rec.Obfuscated || !codeExts[rec.Ext] {
			continue
		}
		count += len(phpConcatSQLRe.FindAllString(rec.Content, -1))
		count += len(phpInterpSQLRe.FindAllString(rec.Content, -1))
		count += len(jsTemplateRe.FindAllString(rec.Content, -1))
	}
	if count == 0 {
		return
	}
	points := capPoints(float64(count)*rawSQLPenalty, rawSQLCap)
	deduct(result, fmt.Sprintf("%d raw SQL statements built from variables", count), points)
}

// bonusTypedParams rewards parameter typing: PHP signatures with type
// hints on at least half the parameters, or a TypeScript-dominated
// frontend.
func (s *Scorer) bonusTypedParams(snap *models.Snapshot, result *models.ScoreResult) {
	typed, total := 0, 0
	tsLines, jsLines := 0, 0

	for i := range snap.Files.Records {
		rec := &snap.Files.Records[i]
		switch rec.Ext {
		case "php":
			if rec.Content == "" || rec.Obfuscated {
				continue
			}
			typed += len(phpTypedParamRe.FindAllString(rec.Content, -1))
			total += len(phpAnyParamRe.FindAllString(rec.Content, -1))
		case "ts", "tsx":
			tsLines += rec.Lines
		case "js", "jsx", "mjs", "cjs":
			jsLines += rec.Lines
		}
	}

	if total > 0 && float64(typed)/float64(total) >= typedParamFloor {
		bonus(result, "typed parameters on most signatures", typedParamBonus)
		return
	}
	if tsLines > 0 && tsLines >= jsLines {
		bonus(result, "TypeScript-first codebase", typedParamBonus)
	}
}

// bonusModernSyntax rewards a raised language floor inferred by the
// stack stage.
func (s *Scorer) bonusModernSyntax(snap *models.Snapshot, result *models.ScoreResult) {
	if snap.Stack == nil {
		return
	}
	if modernPHP(snap.Stack.PHPFloor) || modernES(snap.Stack.ESFloor) {
		bonus(result, "modern language syntax in use", modernSyntaxBonus)
	}
}

func modernPHP(floor string) bool {
	switch floor {
	case "7.4", "8.0", "8.1", "8.2", "8.3":
		return true
	}
	return false
}

func modernES(floor string) bool {
	switch floor {
	case "ES2017", "ES2020":
		return true
	}
	return false
}

func capPoints(points, limit float64) float64 {
	if points > limit {
		return limit
	}
	return points
}

func deduct(result *models.ScoreResult, reason string, points float64) {
	result.Deductions = append(result.Deductions, models.ScoreReason{Reason: reason, Points: points})
	result.Score -= points
}

func bonus(result *models.ScoreResult, reason string, points float64) {
	result.Bonuses = append(result.Bonuses, models.ScoreReason{Reason: reason, Points: points})
	result.Score += points
}
