package catalog

import "strings"

// Thresholds for the obfuscation heuristic. Matching any single signal
// marks the file so downstream pattern matching can skip it.
const (
	escapeDensityLimit   = 0.05
	whitespaceRatioFloor = 0.05
	maxReasonableLine    = 5000
)

// LooksObfuscated applies a lexical heuristic for minified or
// obfuscated JavaScript-family content: high hex/unicode escape
// density, a very low whitespace ratio, or very long single lines.
func LooksObfuscated(content string) bool {
	if content == "" {
		return false
	}

	escapes := strings.Count(content, `\x`) + strings.Count(content, `\u`)
	if float64(escapes*4)/float64(len(content)) > escapeDensityLimit {
		return true
	}

	whitespace := 0
	for _, r := range content {
		switch r {
		case ' ', '\t', '\n', '\r':
			whitespace++
		}
	}
	if float64(whitespace)/float64(len(content)) < whitespaceRatioFloor {
		return true
	}

	for _, line := range strings.Split(content, "\n") {
		if len(line) > maxReasonableLine {
			return true
		}
	}

	return false
}
