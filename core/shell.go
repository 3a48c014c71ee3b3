package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/msh/core/config"
	"github.com/josephlewis42/msh/core/history"
	"github.com/josephlewis42/msh/core/logger"
	"github.com/josephlewis42/msh/core/shell"
	"go.uber.org/zap"
)

// ErrLineTooLong is reported for input lines over the configured limit.
var ErrLineTooLong = errors.New("line too long")

// Exit codes for commands that never ran, matching POSIX shells.
const (
	StatusNotExecutable = 126
	StatusNotFound      = 127
)

// ShellOptions configures a Shell.
type ShellOptions struct {
	Config   *config.Configuration
	Input    LineReader
	Stdout   io.Writer
	Stderr   io.Writer
	Executor Executor
	// Logger receives session events, nil disables them.
	Logger    *zap.Logger
	SessionID string
	// ColorErrors prints error reports in red, it should only be set when
	// Stderr is a terminal.
	ColorErrors bool
}

// Shell is the interactive read, dispatch, wait loop.
type Shell struct {
	Stdout  io.Writer
	Stderr  io.Writer
	History *history.Store

	config   *config.Configuration
	input    LineReader
	executor Executor
	log      *logger.SessionLogger
	tokenize shell.Tokenizer
	errColor *color.Color

	// lastStatus is the exit code of the last external command.
	lastStatus int

	// Set to true to quit the shell
	quit     bool
	exitCode int
}

// NewShell creates a Shell from opts.
func NewShell(opts ShellOptions) (*Shell, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if opts.Input == nil || opts.Executor == nil {
		return nil, errors.New("shell needs an input and an executor")
	}

	store, err := history.NewStore(cfg.HistorySize)
	if err != nil {
		return nil, err
	}

	tokenize, err := shell.NewTokenizer(cfg.Tokenizer, cfg.MaxTokens)
	if err != nil {
		return nil, err
	}

	zl := opts.Logger
	if zl == nil {
		zl = zap.NewNop()
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("%d", rand.Uint64())
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = stdout
	}

	errColor := color.New(color.FgRed)
	if opts.ColorErrors {
		errColor.EnableColor()
	} else {
		errColor.DisableColor()
	}

	return &Shell{
		Stdout:   stdout,
		Stderr:   stderr,
		History:  store,
		config:   cfg,
		input:    opts.Input,
		executor: opts.Executor,
		log:      logger.NewSession(zl, sessionID),
		tokenize: tokenize,
		errColor: errColor,
	}, nil
}

// Run reads and executes lines until an exit builtin runs or the input ends.
// It returns the status the shell should exit with: 0 after an exit builtin,
// otherwise the status of the last external command.
func (s *Shell) Run(ctx context.Context) int {
	s.log.Info(logger.EventSessionStart)
	defer s.log.Info(logger.EventSessionEnd)

	for !s.quit {
		s.input.SetPrompt(s.config.Prompt)
		line, err := s.input.Readline()

		switch {
		case errors.Is(err, io.EOF):
			return s.lastStatus // Input closed, quit.

		case errors.Is(err, ErrInterrupt):
			continue // Line discarded.

		case err != nil:
			s.report(fmt.Errorf("reading input: %w", err))
			return 1

		default:
			s.runLine(ctx, line)
		}
	}

	return s.exitCode
}

// Exit stops the shell after the current line with the given status.
func (s *Shell) Exit(code int) {
	s.quit = true
	s.exitCode = code
}

// LastStatus returns the exit code of the last external command.
func (s *Shell) LastStatus() int {
	return s.lastStatus
}

// Close releases the input.
func (s *Shell) Close() error {
	return s.input.Close()
}

// runLine handles one line of input. Everything it allocates is scoped to
// the call.
func (s *Shell) runLine(ctx context.Context, line string) {
	line = strings.TrimRight(line, "\r\n")

	if len(line) > s.config.MaxLineLength {
		s.report(fmt.Errorf("%w: %d bytes, limit is %d", ErrLineTooLong, len(line), s.config.MaxLineLength))
		return
	}

	if strings.TrimSpace(line) == "" {
		return // empty line
	}

	if strings.HasPrefix(line, "!") {
		expanded, err := s.expandHistory(line)
		if err != nil {
			s.log.HistoryError(line, err)
			s.report(fmt.Errorf("%s: %w", strings.TrimSpace(line), err))
			return
		}
		line = expanded
	}

	tokens, err := s.tokenize(line)
	if err != nil {
		s.log.InvalidInvocation([]string{line}, err)
		s.report(err)
		return
	}

	if len(tokens) == 0 {
		return
	}

	pos := s.History.Record(line, history.NoPID)
	if err := s.input.SaveHistory(line); err != nil {
		s.log.Warn("couldn't save line for recall", zap.Error(err))
	}

	s.dispatch(ctx, pos, tokens)
}

// expandHistory resolves a !N reference to the stored line.
func (s *Shell) expandHistory(line string) (string, error) {
	n, err := history.ParseReference(strings.TrimSpace(line[1:]))
	if err != nil {
		return "", err
	}

	entry, err := s.History.Get(n)
	if err != nil {
		return "", err
	}

	return entry.Line, nil
}

func (s *Shell) dispatch(ctx context.Context, pos int, argv []string) {
	if builtin, ok := AllBuiltins[argv[0]]; ok {
		status := builtin.Main(s, argv)
		s.log.Builtin(argv, status)
		return
	}

	s.execute(ctx, pos, argv)
}

// execute runs an external command and records its PID in the history entry
// at pos once the child exists.
func (s *Shell) execute(ctx context.Context, pos int, argv []string) {
	status, err := s.executor.Execute(ctx, argv, func(pid int) {
		if err := s.History.SetPID(pos, pid); err != nil {
			s.log.Warn("couldn't record pid", zap.Int("pid", pid), zap.Error(err))
		}
	})

	switch {
	case errors.Is(err, ErrNotFound):
		s.log.UnknownCommand(argv, err)
		s.errorf("%s: command not found\n", argv[0])
		s.lastStatus = StatusNotFound

	case errors.Is(err, fs.ErrPermission):
		s.log.InvalidInvocation(argv, err)
		s.errorf("%s: permission denied\n", argv[0])
		s.lastStatus = StatusNotExecutable

	case err != nil:
		s.log.InvalidInvocation(argv, err)
		s.report(fmt.Errorf("%s: %w", argv[0], err))
		s.lastStatus = StatusNotExecutable

	default:
		s.log.RunCommand(argv, status.Path, status.PID, status.Code)
		s.lastStatus = status.Code
	}
}

// report writes a non-fatal error for the user.
func (s *Shell) report(err error) {
	s.errorf("msh: %v\n", err)
}

// errorf writes a message to Stderr in the error color.
func (s *Shell) errorf(format string, a ...any) {
	fmt.Fprint(s.Stderr, s.errColor.Sprintf(format, a...))
}
