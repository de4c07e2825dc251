package quality

import (
	"github.com/auspexhq/auspex/pkg/models"
)

// FindCommentBlocks walks each file's extracted comment lines and
// reports contiguous runs of at least minLines. Doc-style lines never
// count toward a run: a block opened with a doc delimiter is
// documentation, not disabled code. A run survives a style change
// between adjacent lines but not a gap.
func FindCommentBlocks(ext *models.Extraction, minLines int) []models.CommentBlock {
	var out []models.CommentBlock
	for _, fs := range ext.Files {
		if fs.Skipped {
			continue
		}
		out = append(out, fileCommentBlocks(fs, minLines)...)
	}
	return out
}

func fileCommentBlocks(fs models.FileStructure, minLines int) []models.CommentBlock {
	var out []models.CommentBlock
	start, prev, run := 0, 0, 0

	flush := func() {
		if run >= minLines {
			out = append(out, models.CommentBlock{
				File:      fs.Path,
				StartLine: start,
				Lines:     run,
			})
		}
		run = 0
	}

	for _, c := range fs.Comments {
		if c.Style == models.StyleDoc {
			flush()
			prev = c.Line
			continue
		}
		if run > 0 && c.Line == prev+1 {
			run++
		} else {
			flush()
			start = c.Line
			run = 1
		}
		prev = c.Line
	}
	flush()
	return out
}
