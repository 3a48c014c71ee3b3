package core

import (
	"os"
	"testing"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	// Keep reported errors comparable regardless of the test terminal.
	color.NoColor = true
	os.Exit(m.Run())
}
