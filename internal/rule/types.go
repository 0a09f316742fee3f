// Package rule parses lines of Clash/Mihomo/Surge .list files into typed rule records.
package rule

import (
	"strconv"
	"strings"
)

// Kind represents the classification of a parsed line.
type Kind int

const (
	KindEmpty Kind = iota
	KindComment
	KindTyped
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindComment:
		return "comment"
	case KindTyped:
		return "typed"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Separator splits a rule line into its type token and value.
const Separator = ","

// UnknownType is the type token used for lines without a separator.
const UnknownType = "UNKNOWN"

// Rule represents one line of a rule list.
//
// Raw holds the line exactly as read, terminator included, so that a file
// rebuilt from an untouched sequence of rules is byte-identical to the input.
type Rule struct {
	Raw   string
	Line  int
	Kind  Kind
	Type  string
	Value string
}

// IsBoundary reports whether the line separates groups.
func (r Rule) IsBoundary() bool {
	return r.Kind == KindEmpty || r.Kind == KindComment
}

// Key returns the dedup key of a typed rule. The value is compared as-is.
func (r Rule) Key() string {
	return r.Type + Separator + r.Value
}

// Text returns the line without surrounding whitespace or terminator.
func (r Rule) Text() string {
	return strings.TrimSpace(r.Raw)
}

// KnownType returns the vocabulary entry for the rule's type token.
func (r Rule) KnownType() (RuleType, bool) {
	if r.Kind != KindTyped {
		return Unknown, false
	}
	return ParseRuleType(r.Type)
}

// ParseWarning is a non-fatal problem found while loading a file.
type ParseWarning struct {
	Line int
	Text string
}

func (w ParseWarning) String() string {
	return "Line " + strconv.Itoa(w.Line) + ": Unknown format - " + w.Text
}
