// Package pattern inspects URL-REGEX rule values.
package pattern

import (
	"regexp/syntax"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Check reports whether expr parses as a Perl-style regular expression.
func Check(expr string) error {
	if _, err := syntax.Parse(trimSlashes(expr), syntax.Perl); err != nil {
		return errors.Wrapf(err, "invalid regex %q", expr)
	}
	return nil
}

// IsBroad reports whether an unanchored search for expr succeeds on every
// non-empty URL, such as `.*`, `^.+$` or `ads|.*`. Patterns that fail to
// parse are not considered broad.
func IsBroad(expr string) bool {
	re, err := syntax.Parse(trimSlashes(expr), syntax.Perl)
	if err != nil {
		return false
	}

	parts := []*syntax.Regexp{re}
	if re.Op == syntax.OpConcat {
		parts = re.Sub
	}

	shapes := make([]shape, 0, len(parts)+2)
	if len(parts) > 0 && isBegin(parts[0]) {
		parts = parts[1:]
	} else {
		shapes = append(shapes, anything)
	}
	tail := true
	if n := len(parts); n > 0 && isEnd(parts[n-1]) {
		parts = parts[:n-1]
		tail = false
	}
	for _, p := range parts {
		shapes = append(shapes, shapeOf(p))
	}
	if tail {
		shapes = append(shapes, anything)
	}
	return concat(shapes).universal
}

func trimSlashes(expr string) string {
	expr = strings.TrimPrefix(expr, "/")
	return strings.TrimSuffix(expr, "/")
}

// shape summarizes which inputs a sub-expression matches in full.
// universal implies one.
type shape struct {
	nullable  bool // the empty string
	one       bool // every single character
	universal bool // every non-empty string
}

// anything stands in for the implicit `.*` around an unanchored search.
var anything = shape{nullable: true, one: true, universal: true}

func isBegin(re *syntax.Regexp) bool {
	return re.Op == syntax.OpBeginText || re.Op == syntax.OpBeginLine
}

func isEnd(re *syntax.Regexp) bool {
	return re.Op == syntax.OpEndText || re.Op == syntax.OpEndLine
}

func shapeOf(re *syntax.Regexp) shape {
	switch re.Op {
	case syntax.OpEmptyMatch:
		return shape{nullable: true}
	case syntax.OpLiteral:
		return shape{nullable: len(re.Rune) == 0}
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return shape{one: true}
	case syntax.OpCharClass:
		return shape{one: coversAll(re.Rune)}
	case syntax.OpCapture:
		return shapeOf(re.Sub[0])
	case syntax.OpStar:
		s := shapeOf(re.Sub[0])
		return shape{nullable: true, one: s.one, universal: s.one}
	case syntax.OpPlus:
		s := shapeOf(re.Sub[0])
		return shape{nullable: s.nullable, one: s.one, universal: s.one}
	case syntax.OpQuest:
		s := shapeOf(re.Sub[0])
		s.nullable = true
		return s
	case syntax.OpRepeat:
		s := shapeOf(re.Sub[0])
		return shape{
			nullable:  re.Min == 0 || s.nullable,
			one:       s.one && re.Min <= 1 && re.Max != 0,
			universal: s.one && re.Min <= 1 && re.Max == -1,
		}
	case syntax.OpConcat:
		shapes := make([]shape, 0, len(re.Sub))
		for _, sub := range re.Sub {
			shapes = append(shapes, shapeOf(sub))
		}
		return concat(shapes)
	case syntax.OpAlternate:
		var out shape
		for _, sub := range re.Sub {
			s := shapeOf(sub)
			out.nullable = out.nullable || s.nullable
			out.one = out.one || s.one
			out.universal = out.universal || s.universal
		}
		return out
	default:
		// Anchors inside the pattern and word boundaries constrain the input.
		return shape{}
	}
}

// concat combines the shapes of a sequence. Sequences with more than one
// part that cannot match empty are never reported as universal.
func concat(parts []shape) shape {
	hard := -1
	var anyOne, anyUniversal bool
	for i, p := range parts {
		anyOne = anyOne || p.one
		anyUniversal = anyUniversal || p.universal
		if p.nullable {
			continue
		}
		if hard >= 0 {
			return shape{}
		}
		hard = i
	}

	if hard < 0 {
		return shape{nullable: true, one: anyOne, universal: anyUniversal}
	}
	h := parts[hard]
	return shape{
		one:       h.one,
		universal: h.universal || (h.one && anyUniversal),
	}
}

// coversAll reports whether the class ranges cover every rune, allowing
// '\n' to be missing since URLs never contain it.
func coversAll(ranges []rune) bool {
	var n int64
	for i := 0; i+1 < len(ranges); i += 2 {
		n += int64(ranges[i+1]-ranges[i]) + 1
	}
	return n >= unicode.MaxRune
}
