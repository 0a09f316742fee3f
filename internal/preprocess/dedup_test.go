package preprocess_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxbrian/rulelist/internal/preprocess"
	"github.com/xxxbrian/rulelist/internal/rule"
)

func dedup(t *testing.T, content string) (string, map[string]int) {
	t.Helper()
	rules, _ := rule.ParseContent(content)
	out, removed := preprocess.Deduplicate(rules)
	return string(rule.Render(out)), removed
}

func TestDeduplicateGroupIsolation(t *testing.T) {
	in := "#A\nDOMAIN,x.com\nDOMAIN,x.com\n#B\nDOMAIN,x.com\n"

	out, removed := dedup(t, in)
	require.Equal(t, "#A\nDOMAIN,x.com\n#B\nDOMAIN,x.com\n", out)
	require.Equal(t, map[string]int{"DOMAIN,x.com": 1}, removed)
}

func TestDeduplicateBlankLineResets(t *testing.T) {
	in := "DOMAIN,x.com\n\nDOMAIN,x.com\nDOMAIN,x.com\nDOMAIN,x.com\n"

	out, removed := dedup(t, in)
	require.Equal(t, "DOMAIN,x.com\n\nDOMAIN,x.com\n", out)
	require.Equal(t, map[string]int{"DOMAIN,x.com": 2}, removed)
}

func TestDeduplicateConsecutiveBoundaries(t *testing.T) {
	in := "# one\n# two\nDOMAIN,a.com\n# three\n\n\nDOMAIN,a.com\n"

	out, removed := dedup(t, in)
	require.Equal(t, in, out)
	require.Empty(t, removed)
}

func TestDeduplicateKeyNormalization(t *testing.T) {
	// Type is upper-cased and whitespace trimmed; value case is significant.
	in := "domain,x.com\nDOMAIN , x.com \nDOMAIN,X.com\n"

	out, removed := dedup(t, in)
	require.Equal(t, "domain,x.com\nDOMAIN,X.com\n", out)
	require.Equal(t, map[string]int{"DOMAIN,x.com": 1}, removed)
}

func TestDeduplicateMalformedAndOrder(t *testing.T) {
	in := "justsometext\nDOMAIN,b.com\njustsometext\nDOMAIN,a.com\nDOMAIN,b.com\n# g\njustsometext\n"

	out, removed := dedup(t, in)
	require.Equal(t, "justsometext\nDOMAIN,b.com\nDOMAIN,a.com\n# g\njustsometext\n", out)
	require.Equal(t, map[string]int{"DOMAIN,b.com": 1, "UNKNOWN,justsometext": 1}, removed)
}

func TestDeduplicateRoundTripWithoutDuplicates(t *testing.T) {
	in := "# Ads\nDOMAIN-SUFFIX,ads.com\nDOMAIN-KEYWORD,tracker\r\n\n# CN\nGEOIP,CN\nDOMAIN-SUFFIX,ads.com\n  \nIP-CIDR,10.0.0.0/8,no-resolve\n"

	out, removed := dedup(t, in)
	require.Equal(t, in, out)
	require.Empty(t, removed)
}

func TestDeduplicateIdempotent(t *testing.T) {
	in := strings.Repeat("# g\nDOMAIN,a.com\nDOMAIN,a.com\nDOMAIN,b.com\nDOMAIN,a.com\n", 3)

	once, removed := dedup(t, in)
	require.Equal(t, map[string]int{"DOMAIN,a.com": 6}, removed)

	twice, removed := dedup(t, once)
	require.Equal(t, once, twice)
	require.Empty(t, removed)
}

func TestSortedDuplicates(t *testing.T) {
	removed := map[string]int{"DOMAIN,b.com": 2, "DOMAIN,a.com": 1, "GEOIP,CN": 3}

	require.Equal(t, []preprocess.Duplicate{
		{Key: "DOMAIN,a.com", Count: 1},
		{Key: "DOMAIN,b.com", Count: 2},
		{Key: "GEOIP,CN", Count: 3},
	}, preprocess.SortedDuplicates(removed))
	require.Equal(t, 6, preprocess.TotalRemoved(removed))
}
