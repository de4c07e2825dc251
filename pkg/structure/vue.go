package structure

import (
	"regexp"
	"strings"

	"github.com/auspexhq/auspex/pkg/models"
)

var vueScriptRe = regexp.MustCompile(`(?is)<script([^>]*)>(.*?)</script>`)

// ScanVue extracts the script block of a single-file component and
// scans it as JavaScript or TypeScript. Reported line numbers refer to
// the original .vue file. Template and style blocks are ignored.
func ScanVue(path, content string) *models.FileStructure {
	m := vueScriptRe.FindStringSubmatchIndex(content)
	if m == nil {
		return &models.FileStructure{
			Path:      path,
			Language:  "vue",
			Classes:   []models.Class{},
			Functions: []models.Function{},
			Imports:   []models.Import{},
			Exports:   []models.Export{},
		}
	}

	attrs := content[m[2]:m[3]]
	script := content[m[4]:m[5]]
	lang := "javascript"
	if strings.Contains(attrs, `lang="ts"`) || strings.Contains(attrs, `lang='ts'`) {
		lang = "typescript"
	}

	// lines inside the script block are offset by everything above it
	offset := strings.Count(content[:m[4]], "\n")
	fs := ScanJS(path, script, lang, offset)
	fs.Language = "vue"
	return fs
}
