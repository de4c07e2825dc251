package structure

import (
	"regexp"
	"strings"

	"github.com/auspexhq/auspex/pkg/models"
)

var (
	jsClassRe = regexp.MustCompile(`(?m)(?:^|[\s;])(?:export\s+(?:default\s+)?)?(?:abstract\s+)?class\s+([\w$]+)` +
		`(?:\s+extends\s+([\w$.]+))?(?:\s+implements\s+([\w$.,\s]+))?`)
	jsFunctionRe = regexp.MustCompile(`(?m)(?:^|[\s;(])(?:export\s+(?:default\s+)?)?(?:async\s+)?function\s*\*?\s*([\w$]+)\s*\(`)
	jsArrowRe    = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:const|let|var)\s+([\w$]+)\s*(?::[^=]+)?=\s*(?:async\s+)?(?:\([^)]*\)|[\w$]+)\s*(?::[^=]+?)?\s*=>`)
	jsFuncExprRe = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:const|let|var)\s+([\w$]+)\s*=\s*(?:async\s+)?function\b`)
	jsMethodRe   = regexp.MustCompile(`(?m)^[ \t]*(?:(public|private|protected)\s+)?(static\s+)?(?:async\s+)?(?:get\s+|set\s+)?\*?\s*([\w$#]+)\s*\([^)]*\)\s*(?::[^{;]+)?\{`)
	jsFieldRe    = regexp.MustCompile(`(?m)^[ \t]*(?:(public|private|protected|readonly)\s+)?(static\s+)?([\w$#]+)\s*(?::[^=;\n]+)?[=;]`)

	tsInterfaceRe = regexp.MustCompile(`(?m)(?:^|[\s;])(?:export\s+)?(?:interface|enum)\s+([\w$]+)(?:\s+extends\s+([\w$.,\s<>]+?))?\s*\{`)

	jsImportRe      = regexp.MustCompile(`(?m)^[ \t]*import\s+(?:type\s+)?([^'"]*?)\s*from\s*['"]([^'"]+)['"]`)
	jsBareImportRe  = regexp.MustCompile(`(?m)^[ \t]*import\s*['"]([^'"]+)['"]`)
	jsRequireRe     = regexp.MustCompile(`(?m)(?:const|let|var)\s+(\{[^}]*\}|[\w$]+)\s*=\s*require\s*\(\s*['"]([^'"]+)['"]`)
	jsDynImportRe   = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]`)
	jsExportDeclRe  = regexp.MustCompile(`(?m)^[ \t]*export\s+(default\s+)?(const|let|var|function|class|interface|type|enum|async)\s+\*?\s*([\w$]*)`)
	jsExportBlockRe = regexp.MustCompile(`(?m)^[ \t]*export\s*\{([^}]*)\}`)
	jsModuleExpRe   = regexp.MustCompile(`(?m)^[ \t]*module\.exports(?:\.([\w$]+))?\s*=`)
	jsExportsRe     = regexp.MustCompile(`(?m)^[ \t]*exports\.([\w$]+)\s*=`)

	jsMethodKeywords = map[string]bool{
		"if": true, "for": true, "while": true, "switch": true,
		"catch": true, "return": true, "function": true, "do": true,
		"else": true, "try": true, "new": true, "typeof": true,
	}
)

// ScanJS recovers the structure of a JavaScript or TypeScript file.
// language is recorded verbatim on the result ("javascript" or
// "typescript"); lineOffset shifts all reported lines, which lets Vue
// single-file components reuse this scanner for their script blocks.
func ScanJS(path, content, language string, lineOffset int) *models.FileStructure {
	fs := &models.FileStructure{
		Path:      path,
		Language:  language,
		Classes:   []models.Class{},
		Functions: []models.Function{},
		Imports:   []models.Import{},
		Exports:   []models.Export{},
	}

	starts := lineStarts(content)
	at := func(off int) int { return lineOfOffset(starts, off) + lineOffset }

	var bodies []span
	for _, m := range jsClassRe.FindAllStringSubmatchIndex(content, -1) {
		cls := models.Class{
			Name: content[m[2]:m[3]],
			Line: at(m[2]),
		}
		if m[4] >= 0 {
			cls.Extends = content[m[4]:m[5]]
		}
		if m[6] >= 0 {
			for _, impl := range strings.Split(content[m[6]:m[7]], ",") {
				if name := strings.TrimSpace(impl); name != "" {
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
		body := span{start: open, end: findBlockEnd(content, open, false)}
		bodies = append(bodies, body)

		scanJSMembers(content, body, starts, lineOffset, &cls)
		fs.Classes = append(fs.Classes, cls)
	}

	if language == "typescript" {
		for _, m := range tsInterfaceRe.FindAllStringSubmatchIndex(content, -1) {
			if insideAny(bodies, m[2]) {
				continue
			}
			cls := models.Class{
				Name: content[m[2]:m[3]],
				Line: at(m[2]),
			}
			if m[4] >= 0 {
				cls.Extends = strings.TrimSpace(content[m[4]:m[5]])
			}
			fs.Classes = append(fs.Classes, cls)
		}
	}

	seen := map[string]bool{}
	addFunc := func(name string, off int) {
		if seen[name] || insideAny(bodies, off) {
			return
		}
		seen[name] = true
		fs.Functions = append(fs.Functions, models.Function{Name: name, Line: at(off)})
	}
	for _, m := range jsFunctionRe.FindAllStringSubmatchIndex(content, -1) {
		addFunc(content[m[2]:m[3]], m[2])
	}
	for _, m := range jsArrowRe.FindAllStringSubmatchIndex(content, -1) {
		addFunc(content[m[2]:m[3]], m[2])
	}
	for _, m := range jsFuncExprRe.FindAllStringSubmatchIndex(content, -1) {
		addFunc(content[m[2]:m[3]], m[2])
	}

	fs.Imports = scanJSImports(content, starts, lineOffset)
	fs.Exports = scanJSExports(content, starts, lineOffset)
	fs.Comments = scanComments(content, "")
	for i := range fs.Comments {
		fs.Comments[i].Line += lineOffset
	}
	return fs
}

func scanJSMembers(content string, body span, starts []int, lineOffset int, cls *models.Class) {
	text := content[body.start:body.end]

	// member declarations live at depth 1; anything nested deeper is a
	// local construct inside a method body
	var methodBodies []span
	for _, m := range jsMethodRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[6]:m[7]]
		if jsMethodKeywords[name] || insideAny(methodBodies, m[6]) {
			continue
		}
		open := strings.IndexByte(text[m[6]:], '{')
		if open >= 0 {
			off := m[6] + open
			methodBodies = append(methodBodies, span{start: off, end: findBlockEnd(text, off, false)})
		}
		fn := models.Function{
			Name:        name,
			Line:        lineOfOffset(starts, body.start+m[6]) + lineOffset,
			Static:      m[4] >= 0,
			Constructor: name == "constructor",
		}
		if m[2] >= 0 {
			fn.Visibility = text[m[2]:m[3]]
		}
		cls.Methods = append(cls.Methods, fn)
	}

	for _, m := range jsFieldRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[6]:m[7]]
		if jsMethodKeywords[name] || insideAny(methodBodies, m[6]) {
			continue
		}
		prop := models.Property{
			Name:   name,
			Line:   lineOfOffset(starts, body.start+m[6]) + lineOffset,
			Static: m[4] >= 0,
		}
		if m[2] >= 0 && text[m[2]:m[3]] != "readonly" {
			prop.Visibility = text[m[2]:m[3]]
		}
		cls.Properties = append(cls.Properties, prop)
	}
}

func scanJSImports(content string, starts []int, lineOffset int) []models.Import {
	var out []models.Import
	add := func(source string, specs []string, off int) {
		out = append(out, models.Import{
			Source:     source,
			Specifiers: specs,
			Line:       lineOfOffset(starts, off) + lineOffset,
		})
	}

	for _, m := range jsImportRe.FindAllStringSubmatchIndex(content, -1) {
		add(content[m[4]:m[5]], parseImportClause(content[m[2]:m[3]]), m[0])
	}
	for _, m := range jsBareImportRe.FindAllStringSubmatchIndex(content, -1) {
		add(content[m[2]:m[3]], nil, m[0])
	}
	for _, m := range jsRequireRe.FindAllStringSubmatchIndex(content, -1) {
		add(content[m[4]:m[5]], parseImportClause(content[m[2]:m[3]]), m[0])
	}
	for _, m := range jsDynImportRe.FindAllStringSubmatchIndex(content, -1) {
		add(content[m[2]:m[3]], nil, m[0])
	}
	return out
}

// parseImportClause splits an import clause into its bound names:
// "Foo, { bar, baz as qux }" yields [Foo bar qux], "* as ns" yields
// [ns], destructured require bindings work the same way.
func parseImportClause(clause string) []string {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return nil
	}
	var specs []string
	rest := clause
	if idx := strings.IndexByte(rest, '{'); idx >= 0 {
		for _, head := range strings.Split(rest[:idx], ",") {
			if name := importBinding(head); name != "" {
				specs = append(specs, name)
			}
		}
		inner := rest[idx+1:]
		if end := strings.IndexByte(inner, '}'); end >= 0 {
			inner = inner[:end]
		}
		for _, part := range strings.Split(inner, ",") {
			if name := importBinding(part); name != "" {
				specs = append(specs, name)
			}
		}
		return specs
	}
	for _, part := range strings.Split(rest, ",") {
		if name := importBinding(part); name != "" {
			specs = append(specs, name)
		}
	}
	return specs
}

// importBinding resolves one clause element to the local name it binds:
// "a as b" binds b, "* as ns" binds ns, "a" binds a.
func importBinding(part string) string {
	part = strings.TrimSpace(part)
	if part == "" {
		return ""
	}
	if idx := strings.LastIndex(part, " as "); idx >= 0 {
		return strings.TrimSpace(part[idx+4:])
	}
	if part == "*" {
		return ""
	}
	return part
}

func scanJSExports(content string, starts []int, lineOffset int) []models.Export {
	var out []models.Export
	at := func(off int) int { return lineOfOffset(starts, off) + lineOffset }

	for _, m := range jsExportDeclRe.FindAllStringSubmatchIndex(content, -1) {
		exp := models.Export{
			Kind:    content[m[4]:m[5]],
			Default: m[2] >= 0,
			Line:    at(m[0]),
		}
		if exp.Kind == "async" {
			exp.Kind = "function"
		}
		if m[6] >= 0 {
			exp.Name = content[m[6]:m[7]]
		}
		out = append(out, exp)
	}
	for _, m := range jsExportBlockRe.FindAllStringSubmatchIndex(content, -1) {
		for _, part := range strings.Split(content[m[2]:m[3]], ",") {
			if name := importBinding(part); name != "" {
				out = append(out, models.Export{Name: name, Line: at(m[0])})
			}
		}
	}
	for _, m := range jsModuleExpRe.FindAllStringSubmatchIndex(content, -1) {
		exp := models.Export{Default: true, Line: at(m[0])}
		if m[2] >= 0 {
			exp.Name = content[m[2]:m[3]]
			exp.Default = false
		}
		out = append(out, exp)
	}
	for _, m := range jsExportsRe.FindAllStringSubmatchIndex(content, -1) {
		out = append(out, models.Export{Name: content[m[2]:m[3]], Line: at(m[0])})
	}
	return out
}
