// Package logging builds the slog logger used by the command line tools.
package logging

import (
	"errors"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"

	pkge "github.com/pkg/errors"
)

// New returns a text logger writing to w. Debug records are emitted only
// when verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TraceAttr returns the innermost github.com/pkg/errors stack trace of err as
// a slog group keyed "trace".
func TraceAttr(err error) slog.Attr {
	type trace interface{ StackTrace() pkge.StackTrace }

	var te trace
	for e := err; e != nil; e = errors.Unwrap(e) {
		if t, ok := e.(trace); ok {
			te = t
		}
	}

	var attrs []slog.Attr
	if te != nil {
		st := te.StackTrace()
		attrs = make([]slog.Attr, 0, len(st))
		for i, f := range st {
			pos := position(f)
			if pos == "" {
				continue
			}
			attrs = append(attrs, slog.String(strconv.Itoa(i), pos))
		}
	}

	return slog.Attr{Key: "trace", Value: slog.GroupValue(attrs...)}
}

func position(f pkge.Frame) string {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil || strings.HasPrefix(fn.Name(), "runtime.") {
		return ""
	}
	file, line := fn.FileLine(pc)
	if i := strings.LastIndex(file, "/internal/"); i >= 0 {
		file = file[i+1:]
	}
	return file + ":" + strconv.Itoa(line)
}
