package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/yaml"
)

func newBufferLogger(buf *bytes.Buffer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(buf),
		zap.DebugLevel,
	)
	return zap.New(core)
}

func TestOpen(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		l, err := Open("")
		require.NoError(t, err)
		assert.NotNil(t, l)
		l.Info("dropped")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.log")
		l, err := Open(path)
		require.NoError(t, err)

		NewSession(l, "abc").Builtin([]string{"cd", "/"}, 0)
		_ = l.Sync()

		contents, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(contents), `"msg":"builtin"`)
		assert.Contains(t, string(contents), `"session_id":"abc"`)
	})
}

func TestReport(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewSession(newBufferLogger(buf), "s1")

	l.Info(EventSessionStart)
	l.RunCommand([]string{"ls", "-l"}, "/bin/ls", 100, 0)
	l.RunCommand([]string{"ls"}, "/bin/ls", 101, 0)
	l.RunCommand([]string{"false"}, "/bin/false", 102, 1)
	l.UnknownCommand([]string{"foobarbaz"}, errors.New("executable file not found"))
	l.Builtin([]string{"cd", "/tmp"}, 0)
	l.InvalidInvocation([]string{"cd"}, errors.New("missing argument"))
	l.InvalidInvocation([]string{"cd"}, errors.New("missing argument"))
	l.HistoryError("!99", errors.New("history index out of range: 99"))
	l.Info("something_else")
	l.Info(EventSessionEnd)

	var report Report
	require.NoError(t, ReadJSONLinesLog(buf, report.Update))

	assert.Equal(t, 11, report.LogEntries)
	assert.Equal(t, 1, report.Sessions.Get("s1"))
	assert.Equal(t, 2, report.RunCommand.CommandNames.Get("ls"))
	assert.Equal(t, 2, report.RunCommand.ResolvedCommandPaths.Get("/bin/ls"))
	assert.Equal(t, 1, report.RunCommand.ExitCodes.Get("1"))
	assert.Equal(t, 1, report.UnknownCommand.CommandNames.Get("foobarbaz"))
	assert.Equal(t, 1, report.Builtin.CommandNames.Get("cd"))
	assert.Equal(t, 2, report.InvalidInvocation.Invocations.Get("cd", "missing argument"))
	assert.Equal(t, 1, report.HistoryError.Errors.Get("history index out of range: 99"))
	assert.Equal(t, 1, report.InvalidEntries.Get("something_else"))

	out, err := yaml.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "foobarbaz: 1")
}

func TestReadJSONLinesLog_Invalid(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader("{not json}\n"), func(*LogEntry) {})
	assert.Error(t, err)
}

func TestPathCounter(t *testing.T) {
	ctr := NewPathCounter("command", "error")
	ctr.Increment("a", "x")
	ctr.Increment("b", "y")
	ctr.Increment("b", "y")

	out, err := ctr.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"count":2,"event":{"command":"b","error":"y"}},{"count":1,"event":{"command":"a","error":"x"}}]`,
		string(out))

	assert.Panics(t, func() { ctr.Increment("only one") })
}

func TestReport_NoInvalidInvocations(t *testing.T) {
	report := &Report{}
	report.Update(&LogEntry{Msg: EventRunCommand, Command: []string{"ls"}})

	assert.Nil(t, report.InvalidInvocation.Invocations)
	assert.Equal(t, 0, report.InvalidInvocation.Invocations.Get("cd", "missing argument"))
}
