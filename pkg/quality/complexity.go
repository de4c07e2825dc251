package quality

import (
	"regexp"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/auspexhq/auspex/pkg/models"
)

var (
	conditionalRe = regexp.MustCompile(`\b(?:if|else|elseif)\b`)
	loopRe        = regexp.MustCompile(`\b(?:for|foreach|while)\b`)
	switchRe      = regexp.MustCompile(`\b(?:switch|case)\b`)
	catchRe       = regexp.MustCompile(`\bcatch\b`)
	ternaryRe     = regexp.MustCompile(`\s\?[\s:]`)
	logicalRe     = regexp.MustCompile(`&&|\|\|`)
)

// complexityExts marks the languages scored for complexity.
var complexityExts = map[string]bool{
	"php": true, "js": true, "jsx": true, "ts": true, "tsx": true,
	"mjs": true, "cjs": true, "vue": true,
}

// ScoreComplexity computes a per-file branch-construct count for every
// scorable file, keeps those at or above the reporting threshold, and
// aggregates the distribution. The score is an unweighted sum of
// branch-indicating constructs plus a baseline of one.
func ScoreComplexity(inv *models.Inventory, threshold int) ([]models.ComplexityRecord, models.ComplexitySummary) {
	var records []models.ComplexityRecord

	for i := range inv.Records {
		rec := &inv.Records[i]
		if !complexityExts[rec.Ext] || rec.Content == "" || rec.Obfuscated {
			continue
		}

		breakdown := countConstructs(rec.Content)
		score := 1 + breakdown.Conditionals + breakdown.Loops + breakdown.Switches +
			breakdown.Catches + breakdown.Ternaries + breakdown.Logical
		if score < threshold {
			continue
		}

		cr := models.ComplexityRecord{
			File:      rec.Path,
			Score:     score,
			Lines:     rec.Lines,
			Breakdown: breakdown,
		}
		if rec.Lines > 0 {
			cr.PerLine = float64(score) / float64(rec.Lines)
		}
		records = append(records, cr)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].File < records[j].File
	})

	return records, summarize(records)
}

func countConstructs(content string) models.ComplexityBreakdown {
	return models.ComplexityBreakdown{
		Conditionals: len(conditionalRe.FindAllStringIndex(content, -1)),
		Loops:        len(loopRe.FindAllStringIndex(content, -1)),
		Switches:     len(switchRe.FindAllStringIndex(content, -1)),
		Catches:      len(catchRe.FindAllStringIndex(content, -1)),
		Ternaries:    len(ternaryRe.FindAllStringIndex(content, -1)),
		Logical:      len(logicalRe.FindAllStringIndex(content, -1)),
	}
}

func summarize(records []models.ComplexityRecord) models.ComplexitySummary {
	sum := models.ComplexitySummary{Files: len(records)}
	if len(records) == 0 {
		return sum
	}

	scores := make([]float64, len(records))
	for i, r := range records {
		scores[i] = float64(r.Score)
		if r.Score > sum.Max {
			sum.Max = r.Score
		}
	}
	sort.Float64s(scores)

	sum.P50 = stat.Quantile(0.50, stat.Empirical, scores, nil)
	sum.P90 = stat.Quantile(0.90, stat.Empirical, scores, nil)
	sum.P95 = stat.Quantile(0.95, stat.Empirical, scores, nil)
	return sum
}
