package structure

import (
	"strings"

	"github.com/auspexhq/auspex/pkg/models"
)

// scanComments walks content line by line and records every line that
// is a comment. Trailing comments after code on the same line are not
// recorded. extraPrefix adds a language-specific line marker ("#" for
// PHP and shell-style files, "" for none).
func scanComments(content, extraPrefix string) []models.Comment {
	var out []models.Comment
	inBlock := false
	blockStyle := models.StyleBlock

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		num := i + 1

		if inBlock {
			out = append(out, models.Comment{Line: num, Style: blockStyle, Text: line})
			if strings.Contains(line, "*/") {
				inBlock = false
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "//"):
			out = append(out, models.Comment{
				Line:  num,
				Style: models.StyleLine,
				Text:  strings.TrimSpace(strings.TrimPrefix(line, "//")),
			})
		case extraPrefix != "" && strings.HasPrefix(line, extraPrefix):
			out = append(out, models.Comment{
				Line:  num,
				Style: models.StyleLine,
				Text:  strings.TrimSpace(strings.TrimPrefix(line, extraPrefix)),
			})
		case strings.HasPrefix(line, "/*"):
			blockStyle = models.StyleBlock
			if strings.HasPrefix(line, "/**") {
				blockStyle = models.StyleDoc
			}
			out = append(out, models.Comment{Line: num, Style: blockStyle, Text: line})
			if !strings.Contains(line[2:], "*/") {
				inBlock = true
			}
		}
	}
	return out
}
