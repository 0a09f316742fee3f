// Package preprocess deduplicates and validates rule lists while keeping
// their comment-delimited group structure.
package preprocess

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/xxxbrian/rulelist/internal/geoip"
	"github.com/xxxbrian/rulelist/internal/listfile"
	"github.com/xxxbrian/rulelist/internal/pattern"
	"github.com/xxxbrian/rulelist/internal/rule"
)

// ErrValidationFailed is returned by ProcessFile when at least one rule is
// invalid. Nothing is written in that case.
var ErrValidationFailed = errors.New("validation failed")

// Options controls a preprocessing run.
type Options struct {
	Dedup    bool
	Validate bool
	Verbose  bool
	// Backup copies the input to a .bak file before it is overwritten in place.
	Backup bool
	// GeoIP optionally restricts GEOIP codes during validation.
	GeoIP *geoip.CodeSet

	Logger *slog.Logger
}

// Init fills unset options with defaults.
func (o *Options) Init() {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Note is a non-fatal observation about a rule.
type Note struct {
	Line int
	Text string
}

func (n Note) String() string {
	return fmt.Sprintf("Line %d: %s", n.Line, n.Text)
}

// Result is the outcome of a run.
type Result struct {
	// OK is false when validation was requested and failed.
	OK bool
	// RulesWritten is the number of rule lines in Output.
	RulesWritten int

	Rules    []rule.Rule
	Warnings []rule.ParseWarning
	Before   Statistics
	After    Statistics
	// Removed counts dropped duplicates per key; nil when dedup was off.
	Removed map[string]int
	// Errors lists validation failures in line order.
	Errors []error
	Notes  []Note

	// Output holds the rewritten file; nil when OK is false.
	Output []byte
}

// Run processes content in memory: parse, deduplicate, validate, render.
// Deduplication happens first so a dropped duplicate is never reported as
// invalid.
func Run(content []byte, opts Options) *Result {
	opts.Init()
	log := opts.Logger

	rules, warnings := rule.ParseContent(string(content))
	res := &Result{
		Warnings: warnings,
		Before:   Collect(rules),
	}

	if opts.Dedup {
		log.Debug("deduplicating rules within groups", "lines", len(rules))
		rules, res.Removed = Deduplicate(rules)
	}
	res.Rules = rules
	res.After = Collect(rules)

	if opts.Validate {
		log.Debug("validating rules", "rules", res.After.Rules)
		res.Notes = lintPatterns(rules)
		v := Validator{GeoIP: opts.GeoIP}
		res.Errors = multierr.Errors(v.ValidateAll(rules))
		if len(res.Errors) > 0 {
			return res
		}
	}

	res.OK = true
	res.RulesWritten = res.After.Rules
	res.Output = rule.Render(rules)
	return res
}

func lintPatterns(rules []rule.Rule) []Note {
	var notes []Note
	for _, r := range rules {
		if typ, ok := r.KnownType(); !ok || typ != rule.URLRegex || r.Value == "" {
			continue
		}
		if err := pattern.Check(r.Value); err != nil {
			notes = append(notes, Note{Line: r.Line, Text: "URL-REGEX does not compile: " + err.Error()})
			continue
		}
		if pattern.IsBroad(r.Value) {
			notes = append(notes, Note{Line: r.Line, Text: "URL-REGEX matches every URL: " + r.Value})
		}
	}
	return notes
}

// ProcessFile runs the pipeline on inPath and writes the result to outPath,
// or back to inPath when outPath is empty. The report is written to w.
//
// Output is written atomically and only when every rule passed validation
// or validation was not requested. When overwriting in place with
// opts.Backup set, a verified copy of the input is written first. An
// in-place run that changes nothing leaves the file untouched.
func ProcessFile(inPath, outPath string, opts Options, w io.Writer) (*Result, error) {
	opts.Init()
	log := opts.Logger
	if outPath == "" {
		outPath = inPath
	}

	log.Debug("loading rules", "path", inPath)
	content, err := listfile.Read(inPath)
	if err != nil {
		return nil, err
	}

	res := Run(content, opts)
	NewReporter(w, opts.Verbose).Report(res, opts)
	if !res.OK {
		return res, ErrValidationFailed
	}

	inPlace := listfile.SamePath(inPath, outPath)
	if inPlace && bytes.Equal(res.Output, content) {
		log.Debug("content unchanged, skipping write", "path", outPath)
		fmt.Fprintf(w, "Successfully processed %s -> %s\n", inPath, outPath)
		return res, nil
	}

	if inPlace && opts.Backup {
		backup, err := listfile.Backup(inPath, content)
		if err != nil {
			return res, err
		}
		log.Info("backup created", "path", backup)
	}

	log.Debug("writing rules", "path", outPath, "lines", len(res.Rules))
	if err := listfile.WriteAtomic(outPath, res.Output); err != nil {
		return res, err
	}

	fmt.Fprintf(w, "Successfully processed %s -> %s\n", inPath, outPath)
	return res, nil
}
