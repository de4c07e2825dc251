package structure

import (
	"regexp"
	"strings"

	"github.com/auspexhq/auspex/pkg/models"
)

var (
	phpClassRe = regexp.MustCompile(`(?:^|[\s;{}])(?:final\s+|abstract\s+)?(?:class|interface|trait)\s+(\w+)` +
		`(?:\s+extends\s+([\w\\]+))?(?:\s+implements\s+([\w\\,\s]+))?`)
	phpFunctionRe = regexp.MustCompile(`(?:^|[\s;{}])(?:(public|private|protected)\s+)?(static\s+)?function\s+&?\s*(\w+)\s*\(`)
	phpPropertyRe = regexp.MustCompile(`(?m)^[ \t]*(public|private|protected|var)\s+(static\s+)?(?:\??[\w\\|]+\s+)?\$(\w+)`)
	phpUseRe      = regexp.MustCompile(`(?m)^[ \t]*use\s+([\w\\]+)(?:\s+as\s+(\w+))?\s*;`)
	phpIncludeRe  = regexp.MustCompile(`(?m)^[ \t]*(?:require|include)(?:_once)?\s*\(?\s*['"]([^'"]+)['"]`)
)

// ScanPHP recovers the structure of one PHP file: classes with their
// members, standalone functions, use imports, include statements, and
// comment lines.
func ScanPHP(path, content string) *models.FileStructure {
	fs := &models.FileStructure{
		Path:      path,
		Language:  "php",
		Classes:   []models.Class{},
		Functions: []models.Function{},
		Imports:   []models.Import{},
		Exports:   []models.Export{},
	}

	starts := lineStarts(content)

	// class bodies first; everything declared inside one is a member,
	// not a standalone declaration
	var bodies []span
	for _, m := range phpClassRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		if name == "extends" || name == "implements" {
			continue // anonymous class expression
		}
		cls := models.Class{
			Name: name,
			Line: lineOfOffset(starts, m[2]),
		}
		if m[4] >= 0 {
			cls.Extends = lastSegment(content[m[4]:m[5]])
		}
		if m[6] >= 0 {
			for _, impl := range strings.Split(content[m[6]:m[7]], ",") {
				if name := lastSegment(strings.TrimSpace(impl)); name != "" {
					cls.Implements = append(cls.Implements, name)
				}
			}
		}

		open := strings.IndexByte(content[m[1]:], '{')
		if open < 0 {
			fs.Classes = append(fs.Classes, cls)
			continue
		}
		open += m[1]
		end := findBlockEnd(content, open, true)
		body := span{start: open, end: end}
		bodies = append(bodies, body)

		scanPHPMembers(content, body, starts, &cls)
		fs.Classes = append(fs.Classes, cls)
	}

	for _, m := range phpFunctionRe.FindAllStringSubmatchIndex(content, -1) {
		if insideAny(bodies, m[6]) {
			continue // method, collected with its class
		}
		fs.Functions = append(fs.Functions, models.Function{
			Name:  content[m[6]:m[7]],
			Line:  lineOfOffset(starts, m[6]),
			Magic: strings.HasPrefix(content[m[6]:m[7]], "__"),
		})
	}

	for _, m := range phpUseRe.FindAllStringSubmatchIndex(content, -1) {
		if insideAny(bodies, m[0]) {
			continue // trait use inside a class body
		}
		source := content[m[2]:m[3]]
		specifier := lastSegment(source)
		if m[4] >= 0 {
			specifier = content[m[4]:m[5]]
		}
		fs.Imports = append(fs.Imports, models.Import{
			Source:     source,
			Specifiers: []string{specifier},
			Line:       lineOfOffset(starts, m[0]),
		})
	}

	for _, m := range phpIncludeRe.FindAllStringSubmatchIndex(content, -1) {
		fs.Imports = append(fs.Imports, models.Import{
			Source: content[m[2]:m[3]],
			Line:   lineOfOffset(starts, m[0]),
		})
	}

	fs.Comments = scanComments(content, "#")
	return fs
}

// scanPHPMembers collects methods and properties inside a class body.
func scanPHPMembers(content string, body span, starts []int, cls *models.Class) {
	text := content[body.start:body.end]

	for _, m := range phpFunctionRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[6]:m[7]]
		fn := models.Function{
			Name:        name,
			Line:        lineOfOffset(starts, body.start+m[6]),
			Static:      m[4] >= 0,
			Constructor: name == "__construct",
			Magic:       strings.HasPrefix(name, "__"),
		}
		if m[2] >= 0 {
			fn.Visibility = text[m[2]:m[3]]
		}
		cls.Methods = append(cls.Methods, fn)
	}

	for _, m := range phpPropertyRe.FindAllStringSubmatchIndex(text, -1) {
		prop := models.Property{
			Name:   text[m[6]:m[7]],
			Line:   lineOfOffset(starts, body.start+m[6]),
			Static: m[4] >= 0,
		}
		if vis := text[m[2]:m[3]]; vis != "var" {
			prop.Visibility = vis
		}
		cls.Properties = append(cls.Properties, prop)
	}
}

// lastSegment strips a namespace qualifier, returning the bare name.
func lastSegment(qualified string) string {
	if idx := strings.LastIndexByte(qualified, '\\'); idx >= 0 {
		return qualified[idx+1:]
	}
	return qualified
}
