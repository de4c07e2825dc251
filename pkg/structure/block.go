package structure

import "sort"

// findBlockEnd returns the index just past the brace that closes the
// block opened at content[open]. Strings and comments are skipped so
// braces inside them do not affect the depth count. hashComments
// enables PHP-style `#` line comments; in JavaScript `#` introduces a
// private class member, not a comment. If the block never closes, the
// end of the content is returned. This depth counting is the
// substitute for real parsing; pathological formatting is an accepted
// false-negative class.
func findBlockEnd(content string, open int, hashComments bool) int {
	if open < 0 || open >= len(content) || content[open] != '{' {
		return len(content)
	}

	depth := 0
	i := open
	for i < len(content) {
		ch := content[i]
		switch ch {
		case '\'', '"', '`':
			i = skipString(content, i)
			continue
		case '/':
			if i+1 < len(content) {
				switch content[i+1] {
				case '/':
					i = skipToLineEnd(content, i)
					continue
				case '*':
					i = skipBlockComment(content, i)
					continue
				}
			}
		case '#':
			if hashComments {
				i = skipToLineEnd(content, i)
				continue
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return len(content)
}

// skipString advances past a quoted string starting at content[i].
func skipString(content string, i int) int {
	quote := content[i]
	i++
	for i < len(content) {
		switch content[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		}
		// single- and double-quoted strings do not span lines in the
		// dialects handled here; backticks do
		if content[i] == '\n' && quote != '`' {
			return i + 1
		}
		i++
	}
	return len(content)
}

func skipToLineEnd(content string, i int) int {
	for i < len(content) && content[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(content string, i int) int {
	i += 2
	for i+1 < len(content) {
		if content[i] == '*' && content[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return len(content)
}

// lineStarts returns the byte offset of every line start, for mapping
// match offsets back to 1-based line numbers.
func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOfOffset converts a byte offset to a 1-based line number.
func lineOfOffset(starts []int, off int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > off })
}

// span is a half-open byte range, used for class body containment.
type span struct {
	start, end int
}

func (s span) contains(off int) bool {
	return off >= s.start && off < s.end
}

func insideAny(spans []span, off int) bool {
	for _, s := range spans {
		if s.contains(off) {
			return true
		}
	}
	return false
}
