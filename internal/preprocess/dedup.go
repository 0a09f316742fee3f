package preprocess

import (
	"sort"

	"github.com/xxxbrian/rulelist/internal/rule"
)

// Deduplicate drops repeated rules within each group. A group ends at every
// empty or comment line, which starts a fresh seen set; boundary lines are
// always kept. Malformed lines take part under the "UNKNOWN,text" key. The
// returned map counts removals per "TYPE,value" key; values are compared
// case-sensitively.
func Deduplicate(rules []rule.Rule) ([]rule.Rule, map[string]int) {
	removed := make(map[string]int)
	result := make([]rule.Rule, 0, len(rules))
	seen := make(map[string]struct{})

	for _, r := range rules {
		switch {
		case r.IsBoundary():
			seen = make(map[string]struct{})
			result = append(result, r)
		default:
			key := r.Key()
			if _, dup := seen[key]; dup {
				removed[key]++
				continue
			}
			seen[key] = struct{}{}
			result = append(result, r)
		}
	}

	return result, removed
}

// Duplicate is one entry of a removal summary.
type Duplicate struct {
	Key   string
	Count int
}

// SortedDuplicates returns the removal counts ordered by key.
func SortedDuplicates(removed map[string]int) []Duplicate {
	out := make([]Duplicate, 0, len(removed))
	for k, n := range removed {
		out = append(out, Duplicate{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// TotalRemoved sums the removal counts.
func TotalRemoved(removed map[string]int) int {
	total := 0
	for _, n := range removed {
		total += n
	}
	return total
}
