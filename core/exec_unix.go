//go:build !windows

package core

import (
	"os"
	"os/exec"
	"syscall"
)

var foregroundSignals = []os.Signal{os.Interrupt, syscall.SIGQUIT}

func exitCode(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}
