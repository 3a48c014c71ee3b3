package core

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

// ExitStatus describes a finished child process.
type ExitStatus struct {
	// Path is the resolved executable.
	Path string
	// PID of the child.
	PID int
	// Code is the exit code, or 128+N if the child was killed by signal N.
	Code int
}

// Executor runs external commands to completion.
type Executor interface {
	// Execute runs argv[0] with argv as its argument vector and blocks until it
	// exits. started is called with the child's PID once it is known.
	Execute(ctx context.Context, argv []string, started func(pid int)) (ExitStatus, error)
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable. If file contains a slash, it is tried directly
// and the PATH is not consulted. Missing files are reported as ErrNotFound.
func LookPath(file string) (string, error) {
	path, err := exec.LookPath(file)
	switch {
	case err == nil:
		return path, nil
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return "", ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return "", fs.ErrPermission
	default:
		return "", err
	}
}

// ProcessExecutor starts real child processes in the shell's working
// directory, one at a time.
type ProcessExecutor struct {
	// Stdin is passed to children. Use an *os.File; other readers are copied
	// by a goroutine that can swallow input meant for the shell. nil means
	// the null device.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is the child environment, nil inherits the shell's.
	Env []string
}

var _ Executor = (*ProcessExecutor)(nil)

// Execute implements Executor.
func (e *ProcessExecutor) Execute(ctx context.Context, argv []string, started func(pid int)) (ExitStatus, error) {
	if len(argv) == 0 {
		return ExitStatus{}, errors.New("no command given")
	}

	path, err := LookPath(argv[0])
	if err != nil {
		return ExitStatus{}, err
	}

	cmd := exec.CommandContext(ctx, path)
	cmd.Args = argv
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	cmd.Env = e.Env

	// The terminal delivers keyboard signals to the whole foreground process
	// group. Catch them while the child runs so only the child reacts; caught
	// (not ignored) signals reset to default in the child on exec.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, foregroundSignals...)
	defer signal.Stop(interrupts)

	if err := cmd.Start(); err != nil {
		return ExitStatus{Path: path}, err
	}

	status := ExitStatus{Path: path, PID: cmd.Process.Pid}
	if started != nil {
		started(status.PID)
	}

	err = cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		status.Code = exitCode(exitErr)
	default:
		return status, err
	}

	return status, nil
}
