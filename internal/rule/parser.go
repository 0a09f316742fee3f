package rule

import (
	"strings"
)

// Parse classifies a single line. Classification works on the trimmed line,
// while the returned Rule keeps the original text in Raw.
func Parse(line string, lineNo int) Rule {
	stripped := strings.TrimSpace(line)
	r := Rule{Raw: line, Line: lineNo}

	switch {
	case stripped == "":
		r.Kind = KindEmpty
	case strings.HasPrefix(stripped, "#"):
		r.Kind = KindComment
	case strings.Contains(stripped, Separator):
		typ, value, _ := strings.Cut(stripped, Separator)
		r.Kind = KindTyped
		r.Type = strings.ToUpper(strings.TrimSpace(typ))
		r.Value = strings.TrimSpace(value)
	default:
		r.Kind = KindMalformed
		r.Type = UnknownType
		r.Value = stripped
	}

	return r
}

// ParseContent parses every line of content. Lines without a separator are
// kept as malformed rules and reported as warnings.
func ParseContent(content string) ([]Rule, []ParseWarning) {
	lines := SplitLines(content)
	rules := make([]Rule, 0, len(lines))
	var warnings []ParseWarning

	for i, line := range lines {
		r := Parse(line, i+1)
		rules = append(rules, r)
		if r.Kind == KindMalformed {
			warnings = append(warnings, ParseWarning{Line: r.Line, Text: r.Value})
		}
	}

	return rules, warnings
}

// SplitLines splits content after each "\n", keeping the terminators.
// A trailing terminator does not produce an extra empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Render concatenates the raw text of rules. When the last line has no
// terminator one is appended, so non-empty output always ends with "\n".
func Render(rules []Rule) []byte {
	var b strings.Builder
	for _, r := range rules {
		b.WriteString(r.Raw)
	}
	if len(rules) > 0 && !strings.HasSuffix(rules[len(rules)-1].Raw, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String())
}
