package logger

import (
	"go.uber.org/zap"
)

// Event names, used as the log message so reports can switch on them.
const (
	EventSessionStart      = "session_start"
	EventSessionEnd        = "session_end"
	EventRunCommand        = "run_command"
	EventUnknownCommand    = "unknown_command"
	EventBuiltin           = "builtin"
	EventInvalidInvocation = "invalid_invocation"
	EventHistoryError      = "history_error"
)

// Open creates a logger appending JSON lines to path. An empty path disables
// logging.
func Open(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.OutputPaths = []string{path}
	loggerConfig.ErrorOutputPaths = []string{path}
	loggerConfig.DisableStacktrace = true

	return loggerConfig.Build()
}

// SessionLogger records shell events with a shared session ID.
type SessionLogger struct {
	*zap.Logger
}

// NewSession attaches a session ID to every event written through l.
func NewSession(l *zap.Logger, sessionID string) *SessionLogger {
	return &SessionLogger{Logger: l.With(zap.String("session_id", sessionID))}
}

// RunCommand records an external command that ran to completion.
func (l *SessionLogger) RunCommand(argv []string, path string, pid, exitCode int) {
	l.Info(EventRunCommand,
		zap.Strings("command", argv),
		zap.String("resolved_path", path),
		zap.Int("pid", pid),
		zap.Int("exit_code", exitCode),
	)
}

// UnknownCommand records a command that couldn't be resolved.
func (l *SessionLogger) UnknownCommand(argv []string, err error) {
	l.Info(EventUnknownCommand, zap.Strings("command", argv), zap.Error(err))
}

// Builtin records a builtin invocation and its status.
func (l *SessionLogger) Builtin(argv []string, status int) {
	l.Info(EventBuiltin, zap.Strings("command", argv), zap.Int("exit_code", status))
}

// InvalidInvocation records a command that was found but couldn't be run
// or was called with bad arguments.
func (l *SessionLogger) InvalidInvocation(argv []string, err error) {
	l.Warn(EventInvalidInvocation, zap.Strings("command", argv), zap.Error(err))
}

// HistoryError records a failed !N reference.
func (l *SessionLogger) HistoryError(line string, err error) {
	l.Warn(EventHistoryError, zap.String("line", line), zap.Error(err))
}
