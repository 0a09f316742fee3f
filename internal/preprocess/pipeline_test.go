package preprocess_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/xxxbrian/rulelist/internal/logging"
	"github.com/xxxbrian/rulelist/internal/preprocess"
)

func quiet(opts preprocess.Options) preprocess.Options {
	opts.Logger = logging.Discard()
	return opts
}

func TestRunPreservesMalformedWithoutValidation(t *testing.T) {
	in := "# g\njustsometext\nDOMAIN,a.com\n"

	res := preprocess.Run([]byte(in), quiet(preprocess.Options{Dedup: true}))
	require.True(t, res.OK)
	require.Equal(t, in, string(res.Output))
	require.Len(t, res.Warnings, 1)
	require.Equal(t, 2, res.Warnings[0].Line)
}

func TestRunDuplicateMalformedReportedOnce(t *testing.T) {
	in := "# g\njustsometext\njustsometext\n"

	res := preprocess.Run([]byte(in), quiet(preprocess.Options{Dedup: true, Validate: true}))
	require.False(t, res.OK)
	require.Equal(t, map[string]int{"UNKNOWN,justsometext": 1}, res.Removed)
	require.Len(t, res.Errors, 1)
	require.EqualError(t, res.Errors[0], "line 2: Unknown rule format: justsometext")
}

func TestRunValidationFailureWritesNothing(t *testing.T) {
	res := preprocess.Run([]byte("DOMAIN,a.com\njustsometext\n"), quiet(preprocess.Options{Validate: true}))
	require.False(t, res.OK)
	require.Nil(t, res.Output)
	require.Zero(t, res.RulesWritten)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "line 2: Unknown rule format: justsometext", res.Errors[0].Error())
}

func TestRunDedupBeforeValidate(t *testing.T) {
	// The duplicate of the bad rule is dropped, so only the first occurrence
	// is reported, with its original line number.
	in := "# g\nDOMAIN,ok.com\nFOO,bar\nFOO,bar\n\nDOMAIN,\n"

	res := preprocess.Run([]byte(in), quiet(preprocess.Options{Dedup: true, Validate: true}))
	require.False(t, res.OK)
	require.Equal(t, map[string]int{"FOO,bar": 1}, res.Removed)
	require.Len(t, res.Errors, 2)
	require.Equal(t, "line 3: Invalid rule type 'FOO': FOO,bar", res.Errors[0].Error())
	require.Equal(t, "line 6: Missing value for rule type 'DOMAIN': DOMAIN,", res.Errors[1].Error())
}

func TestRunStatistics(t *testing.T) {
	in := "# Domains\nDOMAIN,a.com\nDOMAIN,a.com\n\nGEOIP,CN\n"

	res := preprocess.Run([]byte(in), quiet(preprocess.Options{Dedup: true, Validate: true}))
	require.True(t, res.OK)
	require.Equal(t, 3, res.Before.Rules)
	require.Equal(t, 2, res.After.Rules)
	require.Equal(t, 2, res.RulesWritten)
	require.Equal(t, "# Domains\nDOMAIN,a.com\n\nGEOIP,CN\n", string(res.Output))
}

func TestRunURLRegexNotes(t *testing.T) {
	in := "URL-REGEX,^https?://ads\\.example\\.com\nURL-REGEX,.*\nURL-REGEX,(broken\n"

	res := preprocess.Run([]byte(in), quiet(preprocess.Options{Validate: true}))
	require.True(t, res.OK)
	require.Len(t, res.Notes, 2)
	require.Equal(t, 2, res.Notes[0].Line)
	require.Contains(t, res.Notes[0].Text, "matches every URL")
	require.Equal(t, 3, res.Notes[1].Line)
	require.Contains(t, res.Notes[1].Text, "does not compile")
}

func TestRunURLRegexNarrowPatternsHaveNoNotes(t *testing.T) {
	in := "URL-REGEX,ads|tracker\nURL-REGEX,[0-9]\n"

	res := preprocess.Run([]byte(in), quiet(preprocess.Options{Validate: true}))
	require.True(t, res.OK)
	require.Empty(t, res.Notes)
}

func TestProcessFileInPlaceWithBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.list")
	in := "#A\nDOMAIN,x.com\nDOMAIN,x.com\n#B\nDOMAIN,x.com"
	require.NoError(t, os.WriteFile(path, []byte(in), 0o644))

	var out bytes.Buffer
	res, err := preprocess.ProcessFile(path, "", quiet(preprocess.Options{Dedup: true, Validate: true, Backup: true}), &out)
	require.NoError(t, err)
	require.True(t, res.OK)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "#A\nDOMAIN,x.com\n#B\nDOMAIN,x.com\n", string(got))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	require.Equal(t, in, string(backup))

	report := out.String()
	require.Contains(t, report, "Removed 1 duplicate(s):\n  - DOMAIN,x.com: 1 duplicate(s)\n")
	require.Contains(t, report, "All 2 rules are valid!\n")
	require.Contains(t, report, fmt.Sprintf("Successfully processed %s -> %s\n", path, path))
}

func TestProcessFileValidationFailureLeavesFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "rules.list")
	outPath := filepath.Join(dir, "out.list")
	require.NoError(t, os.WriteFile(in, []byte("DOMAIN,a.com\nFOO,bar\n"), 0o644))

	var out bytes.Buffer
	res, err := preprocess.ProcessFile(in, outPath, quiet(preprocess.Options{Validate: true}), &out)
	require.True(t, errors.Is(err, preprocess.ErrValidationFailed))
	require.False(t, res.OK)
	require.Contains(t, out.String(), "Error: Found 1 invalid rules:\n  - line 2: Invalid rule type 'FOO': FOO,bar\n")

	_, statErr := os.Stat(outPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestProcessFileUnchangedSkipsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.list")
	require.NoError(t, os.WriteFile(path, []byte("# g\nDOMAIN,a.com\n"), 0o644))

	var out bytes.Buffer
	_, err := preprocess.ProcessFile(path, path, quiet(preprocess.Options{Dedup: true, Backup: true}), &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "No duplicates found.\n")

	_, statErr := os.Stat(path + ".bak")
	require.True(t, os.IsNotExist(statErr))
}

func TestProcessFileMissingInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.list")

	_, err := preprocess.ProcessFile(path, "", quiet(preprocess.Options{}), &bytes.Buffer{})
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
	require.Contains(t, err.Error(), path)
}

func TestReporterListsTopDuplicates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "DOMAIN,d%02d.com\nDOMAIN,d%02d.com\n", i, i)
	}

	var out bytes.Buffer
	res := preprocess.Run([]byte(b.String()), quiet(preprocess.Options{Dedup: true}))
	preprocess.NewReporter(&out, false).Duplicates(res.Removed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, "Removed 12 duplicate(s):", lines[0])
	require.Equal(t, "  - DOMAIN,d00.com: 1 duplicate(s)", lines[1])
	require.Equal(t, "  - DOMAIN,d09.com: 1 duplicate(s)", lines[10])
	require.Equal(t, "  ... and 2 more", lines[11])
	require.Len(t, lines, 12)
}

func TestReporterStatistics(t *testing.T) {
	res := preprocess.Run([]byte("# c\n# d\n\nDOMAIN,a.com\nDOMAIN,b.com\nGEOIP,CN\n"), quiet(preprocess.Options{}))

	var out bytes.Buffer
	preprocess.NewReporter(&out, true).Statistics(res.Before, "Before Processing")
	s := out.String()
	require.Contains(t, s, "  Before Processing\n")
	require.Contains(t, s, "  Total lines:      6\n")
	require.Contains(t, s, "  Comments:         2\n")
	require.Contains(t, s, "  Empty lines:      1\n")
	require.Contains(t, s, "  Rules:            3\n")
	require.Contains(t, s, "    DOMAIN                   2\n")
	require.Contains(t, s, "    GEOIP                    1\n")
}

func TestReportVerboseDedupShowsLinesRemoved(t *testing.T) {
	opts := quiet(preprocess.Options{Dedup: true})
	res := preprocess.Run([]byte("DOMAIN,a.com\nDOMAIN,a.com\nDOMAIN,a.com\n"), opts)

	var out bytes.Buffer
	preprocess.NewReporter(&out, true).Report(res, opts)
	require.Contains(t, out.String(), "  After Processing\n")
	require.Contains(t, out.String(), "Lines removed: 2\n")
}

func TestReportListsVocabularyForUnknownTypes(t *testing.T) {
	opts := quiet(preprocess.Options{Validate: true})

	var out bytes.Buffer
	preprocess.NewReporter(&out, false).Report(preprocess.Run([]byte("BOGUS,x\n"), opts), opts)
	require.Contains(t, out.String(), "  - line 1: Invalid rule type 'BOGUS': BOGUS,x\n")
	require.Contains(t, out.String(), "Valid rule types: DOMAIN, DOMAIN-SUFFIX, ")

	out.Reset()
	preprocess.NewReporter(&out, false).Report(preprocess.Run([]byte("justsometext\n"), opts), opts)
	require.NotContains(t, out.String(), "Valid rule types:")
}
