// Package quality implements the usage-analysis stage: project-wide
// declared-vs-referenced reconciliation, dead-comment detection, and
// per-file complexity scoring.
package quality

import (
	"regexp"
	"strings"

	"github.com/auspexhq/auspex/pkg/models"
)

var (
	callPosRe    = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*\(`)
	newPosRe     = regexp.MustCompile(`\bnew\s+\\?([A-Za-z_][\w\\]*)`)
	typePosRe    = regexp.MustCompile(`\b(?:extends|implements|instanceof)\s+\\?([A-Za-z_][\w\\]*)`)
	colonTypeRe  = regexp.MustCompile(`:\s*\??\\?([A-Za-z_][\w\\]*)`)
	staticUseRe  = regexp.MustCompile(`\\?([A-Za-z_]\w*)::`)
	callKeywords = map[string]bool{
		"if": true, "elseif": true, "for": true, "foreach": true,
		"while": true, "switch": true, "catch": true, "function": true,
		"fn": true, "match": true, "return": true, "do": true,
	}
)

// ReferenceSet is the bag of identifier names observed anywhere in a
// call, instantiation, static-access, type, or import-specifier
// position. No provenance is kept; a name either appears or does not.
type ReferenceSet map[string]struct{}

// Has reports whether name was observed in any reference position.
func (r ReferenceSet) Has(name string) bool {
	_, ok := r[name]
	return ok
}

func (r ReferenceSet) add(name string) {
	if name != "" {
		r[name] = struct{}{}
	}
}

// BuildReferences scans every readable, non-obfuscated file's content
// for reference-position identifiers and folds in the import specifiers
// recovered by structural extraction. Content beyond scanCap bytes per
// file is ignored.
func BuildReferences(inv *models.Inventory, ext *models.Extraction, scanCap int, onFile func()) ReferenceSet {
	refs := make(ReferenceSet)

	for i := range inv.Records {
		rec := &inv.Records[i]
		if rec.Content == "" || rec.Obfuscated {
			if onFile != nil {
				onFile()
			}
			continue
		}
		content := rec.Content
		if scanCap > 0 && len(content) > scanCap {
			content = content[:scanCap]
		}
		scanContent(content, refs)
		if onFile != nil {
			onFile()
		}
	}

	for _, fs := range ext.Files {
		for _, imp := range fs.Imports {
			for _, spec := range imp.Specifiers {
				refs.add(spec)
			}
		}
	}
	return refs
}

// scanContent collects reference-position names from one file's text.
func scanContent(content string, refs ReferenceSet) {
	for _, m := range callPosRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		if callKeywords[name] {
			continue
		}
		if isDeclarationSite(content, m[2]) {
			continue
		}
		refs.add(name)
	}

	for _, m := range newPosRe.FindAllStringSubmatch(content, -1) {
		refs.add(lastNamespaceSegment(m[1]))
	}
	for _, m := range typePosRe.FindAllStringSubmatch(content, -1) {
		refs.add(lastNamespaceSegment(m[1]))
	}
	for _, m := range colonTypeRe.FindAllStringSubmatch(content, -1) {
		refs.add(lastNamespaceSegment(m[1]))
	}
	for _, m := range staticUseRe.FindAllStringSubmatch(content, -1) {
		refs.add(m[1])
	}
}

// isDeclarationSite reports whether the identifier at off is preceded by
// a declaration keyword, meaning "name(" is the declaration itself and
// not a call of it.
func isDeclarationSite(content string, off int) bool {
	i := off
	for i > 0 && isSpaceOrAmp(content[i-1]) {
		i--
	}
	for _, kw := range [...]string{"function", "fn"} {
		if strings.HasSuffix(content[:i], kw) {
			before := i - len(kw)
			if before == 0 || !isWordByte(content[before-1]) {
				return true
			}
		}
	}
	return false
}

func isSpaceOrAmp(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '&' || b == '*'
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func lastNamespaceSegment(name string) string {
	if idx := strings.LastIndexByte(name, '\\'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
