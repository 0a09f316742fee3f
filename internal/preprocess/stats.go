package preprocess

import (
	"sort"

	"github.com/xxxbrian/rulelist/internal/rule"
)

// Statistics summarizes a rule sequence.
type Statistics struct {
	TotalLines int
	EmptyLines int
	Comments   int
	// Rules counts every other line, malformed ones included.
	Rules int
	// ByType counts rules per type token. Malformed lines count as UNKNOWN.
	ByType map[string]int
}

// Collect computes statistics in a single pass over rules.
func Collect(rules []rule.Rule) Statistics {
	s := Statistics{
		TotalLines: len(rules),
		ByType:     make(map[string]int),
	}

	for _, r := range rules {
		switch r.Kind {
		case rule.KindEmpty:
			s.EmptyLines++
		case rule.KindComment:
			s.Comments++
		default:
			s.Rules++
			s.ByType[r.Type]++
		}
	}

	return s
}

// Types returns the type tokens present, sorted.
func (s Statistics) Types() []string {
	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// LinesRemoved returns how many lines after has fewer than s.
func (s Statistics) LinesRemoved(after Statistics) int {
	return s.TotalLines - after.TotalLines
}
