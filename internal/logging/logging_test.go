package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	pkge "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/xxxbrian/rulelist/internal/logging"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(&buf, false)
	l.Debug("hidden")
	l.Info("shown", "path", "rules.list")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown path=rules.list")
	require.NotContains(t, buf.String(), "time=")

	buf.Reset()
	l = logging.New(&buf, true)
	l.Debug("visible")
	require.Contains(t, buf.String(), "level=DEBUG msg=visible")
}

func TestTraceAttr(t *testing.T) {
	err := pkge.Wrap(pkge.New("disk full"), "write rules.list")

	attr := logging.TraceAttr(err)
	require.Equal(t, "trace", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	require.NotEmpty(t, attr.Value.Group())
	require.Contains(t, attr.Value.Group()[0].Value.String(), "logging_test.go")
}

func TestTraceAttrWithoutStack(t *testing.T) {
	attr := logging.TraceAttr(bytes.ErrTooLarge)
	require.Equal(t, "trace", attr.Key)
	require.Empty(t, attr.Value.Group())
}
