package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/auspexhq/auspex/internal/output"
	"github.com/auspexhq/auspex/pkg/models"
)

// reportView renders a pipeline report. JSON and TOON get the raw
// report; text and markdown get a digest built from tables and
// sections.
type reportView struct {
	report  *models.Report
	verbose bool
}

func buildReportView(report *models.Report, verbose bool) *reportView {
	return &reportView{report: report, verbose: verbose}
}

func (v *reportView) RenderData() any {
	return v.report
}

func (v *reportView) RenderText(w io.Writer, colored bool) error {
	for _, r := range v.renderables() {
		if err := r.RenderText(w, colored); err != nil {
			return err
		}
	}
	return nil
}

func (v *reportView) RenderMarkdown(w io.Writer) error {
	for _, r := range v.renderables() {
		if err := r.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}

func (v *reportView) renderables() []output.Renderable {
	var out []output.Renderable
	out = append(out, v.summarySection())
	if t := v.issuesTable(); t != nil {
		out = append(out, t)
	}
	if t := v.complexityTable(); t != nil {
		out = append(out, t)
	}
	if s := v.locationsSection(); s != nil {
		out = append(out, s)
	}
	if v.verbose && v.report.Files != nil && v.report.Files.Tree != "" {
		out = append(out, &output.Section{Title: "Project Tree", Content: v.report.Files.Tree})
	}
	if s := v.stagesSection(); s != nil {
		out = append(out, s)
	}
	return out
}

func (v *reportView) summarySection() *output.Section {
	r := v.report
	var lines []string

	if r.Files != nil {
		lines = append(lines, fmt.Sprintf("Files: %d (%d lines)", r.Files.TotalFiles, r.Files.TotalLines))
	}
	if r.Stack != nil {
		if r.Stack.ProjectType != "" {
			lines = append(lines, "Project type: "+r.Stack.ProjectType)
		}
		if len(r.Stack.Frameworks) > 0 {
			lines = append(lines, "Frameworks: "+strings.Join(r.Stack.Frameworks, ", "))
		}
		if r.Stack.PHPFloor != "" {
			lines = append(lines, "PHP floor: "+r.Stack.PHPFloor)
		}
		if r.Stack.ESFloor != "" {
			lines = append(lines, "ES floor: "+r.Stack.ESFloor)
		}
	}
	if r.Structure != nil {
		lines = append(lines, fmt.Sprintf("Declarations: %d classes, %d functions, %d methods",
			r.Structure.TotalClasses, r.Structure.TotalFunctions, r.Structure.TotalMethods))
	}
	if r.Quality != nil {
		counts := r.Quality.CountBySeverity()
		lines = append(lines, fmt.Sprintf("Issues: %d critical, %d warning, %d info",
			counts[models.SeverityCritical], counts[models.SeverityWarning], counts[models.SeverityInfo]))
	}
	if r.Score != nil {
		lines = append(lines, fmt.Sprintf("Score: %.1f / 10", r.Score.Score))
		for _, d := range r.Score.Deductions {
			lines = append(lines, fmt.Sprintf("  -%.2f %s", d.Points, d.Reason))
		}
		for _, b := range r.Score.Bonuses {
			lines = append(lines, fmt.Sprintf("  +%.2f %s", b.Points, b.Reason))
		}
	}

	return &output.Section{
		Title:   "Analysis Summary",
		Content: strings.Join(lines, "\n"),
	}
}

func (v *reportView) issuesTable() *output.Table {
	if v.report.Quality == nil || len(v.report.Quality.Issues) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(v.report.Quality.Issues))
	for _, is := range v.report.Quality.Issues {
		loc := is.File
		if is.Line > 0 {
			loc = fmt.Sprintf("%s:%d", is.File, is.Line)
		}
		rows = append(rows, []string{
			string(is.Severity),
			string(is.Kind),
			is.Name,
			loc,
			is.Description,
		})
	}

	return output.NewTable("Issues",
		[]string{"Severity", "Kind", "Name", "Location", "Description"},
		rows, nil, v.report.Quality.Issues)
}

func (v *reportView) complexityTable() *output.Table {
	if v.report.Quality == nil || len(v.report.Quality.Complexity) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(v.report.Quality.Complexity))
	for _, rec := range v.report.Quality.Complexity {
		rows = append(rows, []string{
			rec.File,
			fmt.Sprintf("%d", rec.Score),
			fmt.Sprintf("%d", rec.Lines),
			fmt.Sprintf("%.3f", rec.PerLine),
		})
	}

	sum := v.report.Quality.Summary
	footer := []string{
		fmt.Sprintf("%d files", sum.Files),
		fmt.Sprintf("max %d", sum.Max),
		fmt.Sprintf("p90 %.0f", sum.P90),
		fmt.Sprintf("p95 %.0f", sum.P95),
	}

	return output.NewTable("Complexity",
		[]string{"File", "Score", "Lines", "Per Line"},
		rows, footer, v.report.Quality.Complexity)
}

func (v *reportView) locationsSection() *output.Section {
	loc := v.report.Locations
	if loc == nil || (len(loc.EntryPoints) == 0 && len(loc.Hits) == 0) {
		return nil
	}

	var lines []string
	if len(loc.EntryPoints) > 0 {
		lines = append(lines, "Entry points: "+strings.Join(loc.EntryPoints, ", "))
	}
	for _, hit := range loc.Hits {
		lines = append(lines, fmt.Sprintf("%-14s %s (%s)", hit.Category, hit.File, hit.Signature))
	}

	return &output.Section{
		Title:   "Key Locations",
		Content: strings.Join(lines, "\n"),
		Data:    loc,
	}
}

func (v *reportView) stagesSection() *output.Section {
	meta := v.report.Meta
	if len(meta.LayersExecuted) == 0 {
		return nil
	}

	var lines []string
	for _, sm := range meta.LayersExecuted {
		line := fmt.Sprintf("%-10s %-7s %s", sm.Stage, sm.Status, sm.Duration.Round(time.Millisecond))
		if sm.Error != "" {
			line += "  " + sm.Error
		}
		lines = append(lines, line)
	}

	return &output.Section{
		Title:   "Pipeline",
		Content: strings.Join(lines, "\n"),
	}
}
