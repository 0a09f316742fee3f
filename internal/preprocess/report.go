package preprocess

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/xxxbrian/rulelist/internal/rule"
)

// maxListedDuplicates bounds the duplicate keys printed in a report.
const maxListedDuplicates = 10

// Reporter prints human-readable run summaries.
type Reporter struct {
	w       io.Writer
	verbose bool
}

// NewReporter creates a Reporter writing to w. Statistics blocks are only
// printed when verbose is set.
func NewReporter(w io.Writer, verbose bool) *Reporter {
	return &Reporter{w: w, verbose: verbose}
}

// Report prints the sections of res in pipeline order.
func (r *Reporter) Report(res *Result, opts Options) {
	r.Warnings(res)
	if r.verbose {
		r.Statistics(res.Before, "Before Processing")
	}
	if opts.Dedup {
		r.Duplicates(res.Removed)
	}
	if r.verbose {
		r.Statistics(res.After, "After Processing")
		if opts.Dedup {
			fmt.Fprintf(r.w, "Lines removed: %d\n", res.Before.LinesRemoved(res.After))
		}
	}
	if opts.Validate {
		r.Validation(res)
	}
}

// Warnings prints parse warnings for malformed lines.
func (r *Reporter) Warnings(res *Result) {
	if len(res.Warnings) == 0 {
		return
	}
	fmt.Fprintf(r.w, "Warning: Found %d parse issues:\n", len(res.Warnings))
	for _, pw := range res.Warnings {
		fmt.Fprintf(r.w, "  - %s\n", pw)
	}
}

// Statistics prints a statistics block under title.
func (r *Reporter) Statistics(s Statistics, title string) {
	bar := strings.Repeat("=", 50)
	fmt.Fprintf(r.w, "\n%s\n  %s\n%s\n", bar, title, bar)
	fmt.Fprintf(r.w, "  Total lines:      %d\n", s.TotalLines)
	fmt.Fprintf(r.w, "  Empty lines:      %d\n", s.EmptyLines)
	fmt.Fprintf(r.w, "  Comments:         %d\n", s.Comments)
	fmt.Fprintf(r.w, "  Rules:            %d\n", s.Rules)
	fmt.Fprintf(r.w, "\n  Rules by type:\n")
	for _, t := range s.Types() {
		fmt.Fprintf(r.w, "    %-20s %5d\n", t, s.ByType[t])
	}
	fmt.Fprintf(r.w, "%s\n\n", bar)
}

// Duplicates prints the removal summary: the first keys in sorted order,
// then a count of the rest.
func (r *Reporter) Duplicates(removed map[string]int) {
	if len(removed) == 0 {
		fmt.Fprintln(r.w, "No duplicates found.")
		return
	}

	fmt.Fprintf(r.w, "Removed %d duplicate(s):\n", TotalRemoved(removed))
	dups := SortedDuplicates(removed)
	for i, d := range dups {
		if i == maxListedDuplicates {
			fmt.Fprintf(r.w, "  ... and %d more\n", len(dups)-maxListedDuplicates)
			break
		}
		fmt.Fprintf(r.w, "  - %s: %d duplicate(s)\n", d.Key, d.Count)
	}
}

// Validation prints lint notes and either the validation failures or a
// success line.
func (r *Reporter) Validation(res *Result) {
	for _, n := range res.Notes {
		fmt.Fprintf(r.w, "Note: %s\n", n)
	}
	if len(res.Errors) > 0 {
		fmt.Fprintf(r.w, "Error: Found %d invalid rules:\n", len(res.Errors))
		unknownType := false
		for _, err := range res.Errors {
			fmt.Fprintf(r.w, "  - %v\n", err)
			var verr *ValidationError
			if errors.As(err, &verr) && verr.Reason == ReasonUnknownType {
				unknownType = true
			}
		}
		if unknownType {
			fmt.Fprintf(r.w, "Valid rule types: %s\n", strings.Join(rule.Vocabulary(), ", "))
		}
		return
	}
	fmt.Fprintf(r.w, "All %d rules are valid!\n", res.After.Rules)
}
