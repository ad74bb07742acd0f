package editor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLabelLength is the exclusive upper bound, in characters, for text before
// a colon to count as a speaker label. Longer captions are prose.
const MaxLabelLength = 50

// LineKind tags a parsed content line
type LineKind int

const (
	LineBody LineKind = iota
	LineLabel
)

// Line is one line of transcript content
type Line struct {
	Index  int      // zero-based line number
	Offset int      // byte offset of the line start in content
	Raw    string   // line text without the trailing newline
	Kind   LineKind // LineLabel when the line starts with "<label>:"
	Label  string   // trimmed label text, set for LineLabel
	Rest   string   // text after the colon, set for LineLabel
}

// labelPattern is the label grammar: line start, one or more characters that
// are neither newline nor colon, then a colon.
var labelPattern = regexp.MustCompile(`^([^\n:]+):`)

// ParseLines splits content into lines and classifies each one
func ParseLines(content string) []Line {
	if content == "" {
		return nil
	}
	raw := strings.Split(content, "\n")
	lines := make([]Line, 0, len(raw))
	offset := 0
	for i, text := range raw {
		line := Line{Index: i, Offset: offset, Raw: text, Kind: LineBody}
		if label, rest, ok := parseLabel(text); ok {
			line.Kind = LineLabel
			line.Label = label
			line.Rest = rest
		}
		lines = append(lines, line)
		offset += len(text) + 1
	}
	return lines
}

func parseLabel(text string) (label, rest string, ok bool) {
	m := labelPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return "", "", false
	}
	label = strings.TrimSpace(text[m[2]:m[3]])
	if label == "" || utf8.RuneCountInString(label) >= MaxLabelLength {
		return "", "", false
	}
	return label, strings.TrimSpace(text[m[1]:]), true
}

// labelLinePattern matches every line-start occurrence of label followed by
// optional blanks and a colon. Labels compare by exact case.
func labelLinePattern(label, suffix string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(label) + `[ \t]*:` + suffix)
}

// byteOffset converts a rune offset into a byte offset, clamped to content
func byteOffset(content string, runes int) int {
	if runes <= 0 {
		return 0
	}
	i := 0
	for b := range content {
		if i == runes {
			return b
		}
		i++
	}
	return len(content)
}

// runeOffset converts a byte offset into a rune offset
func runeOffset(content string, b int) int {
	if b > len(content) {
		b = len(content)
	}
	return utf8.RuneCountInString(content[:b])
}
