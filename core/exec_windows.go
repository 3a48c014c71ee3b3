//go:build windows

package core

import (
	"os"
	"os/exec"
)

var foregroundSignals = []os.Signal{os.Interrupt}

func exitCode(exitErr *exec.ExitError) int {
	return exitErr.ExitCode()
}
