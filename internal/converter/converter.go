// Package converter turns rule lists into Mihomo rule-provider payload YAML.
package converter

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/xxxbrian/rulelist/internal/listfile"
	"github.com/xxxbrian/rulelist/internal/rule"
)

// PayloadKey is the top-level key of a rule-provider document.
const PayloadKey = "payload"

// Options controls ConvertFile.
type Options struct {
	// Verify decodes the generated document and checks it against the
	// payload schema before anything is written.
	Verify bool

	Logger *slog.Logger
}

// Init fills unset options with defaults.
func (o *Options) Init() {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Convert renders content as a payload document. Blank lines stay blank,
// comments are re-indented with a single space after the marker, and every
// other line becomes a sequence entry. Each line is handled on its own.
func Convert(content string) string {
	var b strings.Builder
	b.WriteString(PayloadKey)
	b.WriteString(":\n")

	for i, line := range rule.SplitLines(content) {
		b.WriteString(ConvertLine(line, i+1))
		b.WriteString("\n")
	}

	return b.String()
}

// ConvertLine renders a single input line without a terminator.
func ConvertLine(line string, lineNo int) string {
	r := rule.Parse(line, lineNo)
	switch r.Kind {
	case rule.KindEmpty:
		return ""
	case rule.KindComment:
		return "  # " + strings.TrimSpace(strings.TrimLeft(r.Text(), "#"))
	default:
		return "  - " + r.Text()
	}
}

// ConvertFile converts inPath and writes the document to outPath atomically.
func ConvertFile(inPath, outPath string, opts Options) error {
	opts.Init()

	content, err := listfile.Read(inPath)
	if err != nil {
		return err
	}

	doc := Convert(string(content))
	if opts.Verify {
		opts.Logger.Debug("verifying payload document", "path", outPath)
		if err := Verify([]byte(doc)); err != nil {
			return errors.Wrapf(err, "convert %s", inPath)
		}
	}

	opts.Logger.Debug("writing payload document", "path", outPath)
	return listfile.WriteAtomic(outPath, []byte(doc))
}
