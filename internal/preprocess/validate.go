package preprocess

import (
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/xxxbrian/rulelist/internal/geoip"
	"github.com/xxxbrian/rulelist/internal/rule"
)

// Reason classifies why a rule failed validation.
type Reason int

const (
	// ReasonMalformed is a non-comment line without a separator.
	ReasonMalformed Reason = iota + 1
	// ReasonUnknownType is a type token outside the vocabulary.
	ReasonUnknownType
	// ReasonMissingValue is a typed rule with nothing after the separator.
	ReasonMissingValue
	// ReasonUnknownGeoIPCode is a GEOIP rule whose code is absent from the
	// configured database.
	ReasonUnknownGeoIPCode
)

func (r Reason) String() string {
	switch r {
	case ReasonMalformed:
		return "malformed"
	case ReasonUnknownType:
		return "unknown-type"
	case ReasonMissingValue:
		return "missing-value"
	case ReasonUnknownGeoIPCode:
		return "unknown-geoip-code"
	default:
		return "unknown"
	}
}

// ValidationError describes one rejected line.
type ValidationError struct {
	// Line is the 1-based line number in the input file.
	Line   int
	Reason Reason
	// Type is the upper-cased type token, empty for malformed lines.
	Type string
	// Value is the trimmed text after the separator.
	Value string
	// Text is the line without surrounding whitespace.
	Text string
}

// Message returns the description without the line prefix.
func (e *ValidationError) Message() string {
	switch e.Reason {
	case ReasonMalformed:
		return "Unknown rule format: " + e.Text
	case ReasonUnknownType:
		return "Invalid rule type '" + e.Type + "': " + e.Text
	case ReasonMissingValue:
		return "Missing value for rule type '" + e.Type + "': " + e.Text
	case ReasonUnknownGeoIPCode:
		return "Unknown GeoIP code '" + geoIPCode(e.Value) + "': " + e.Text
	default:
		return "Invalid rule: " + e.Text
	}
}

// Error implements the error interface. The format is
//
//	"line {Line}: {Message}"
func (e *ValidationError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Message()
}

// Validator checks rules against the rule-type vocabulary. The zero value is
// ready to use.
type Validator struct {
	// GeoIP, when set, also rejects GEOIP rules whose code it does not hold.
	GeoIP *geoip.CodeSet
}

// Validate checks a single rule. Empty and comment lines always pass.
func (v Validator) Validate(r rule.Rule) error {
	switch r.Kind {
	case rule.KindEmpty, rule.KindComment:
		return nil
	case rule.KindMalformed:
		return &ValidationError{Line: r.Line, Reason: ReasonMalformed, Text: r.Text()}
	}

	typ, ok := r.KnownType()
	if !ok {
		return &ValidationError{Line: r.Line, Reason: ReasonUnknownType, Type: r.Type, Text: r.Text()}
	}
	if strings.TrimSpace(r.Value) == "" {
		return &ValidationError{Line: r.Line, Reason: ReasonMissingValue, Type: r.Type, Text: r.Text()}
	}
	if typ == rule.GeoIP && v.GeoIP != nil && !v.GeoIP.Has(geoIPCode(r.Value)) {
		return &ValidationError{Line: r.Line, Reason: ReasonUnknownGeoIPCode, Type: r.Type, Value: r.Value, Text: r.Text()}
	}
	return nil
}

// ValidateAll validates every rule independently. Failures are combined in
// input order; use multierr.Errors to list them.
func (v Validator) ValidateAll(rules []rule.Rule) error {
	var err error
	for _, r := range rules {
		err = multierr.Append(err, v.Validate(r))
	}
	return err
}

// Validate checks r against the vocabulary only.
func Validate(r rule.Rule) error {
	return Validator{}.Validate(r)
}

// ValidateAll checks rules against the vocabulary only.
func ValidateAll(rules []rule.Rule) error {
	return Validator{}.ValidateAll(rules)
}

// geoIPCode returns the code of a GEOIP value such as "CN,no-resolve".
func geoIPCode(value string) string {
	code, _, _ := strings.Cut(value, rule.Separator)
	return strings.TrimSpace(code)
}
