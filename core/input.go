package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
)

// ErrInterrupt is returned by a LineReader when the user aborts the line.
var ErrInterrupt = readline.ErrInterrupt

// LineReader supplies the shell with input lines.
type LineReader interface {
	SetPrompt(prompt string)
	// Readline returns the next line without its terminator, io.EOF once the
	// input is exhausted, or ErrInterrupt if the line was aborted.
	Readline() (string, error)
	// SaveHistory makes a line available for recall while editing.
	SaveHistory(line string) error
	Close() error
}

// NewTerminalReader creates a line editor over a terminal. Lines are recalled
// with the arrow keys but are only remembered once passed to SaveHistory.
func NewTerminalReader(stdin io.Reader, stdout, stderr io.Writer, historyLimit int) (LineReader, error) {
	return newEditor(editorConfig(stdin, stdout, stderr, historyLimit))
}

func editorConfig(stdin io.Reader, stdout, stderr io.Writer, historyLimit int) *readline.Config {
	return &readline.Config{
		Stdin:                  readline.NewCancelableStdin(stdin),
		Stdout:                 stdout,
		Stderr:                 stderr,
		HistoryLimit:           historyLimit,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
	}
}

func newEditor(cfg *readline.Config) (LineReader, error) {
	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return rl, nil
}

// plainReader reads lines from a non-interactive stream, writing the prompt
// the same way the terminal editor would.
type plainReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

var _ LineReader = (*plainReader)(nil)

// NewPlainReader creates a LineReader for pipes, files and tests.
func NewPlainReader(stdin io.Reader, stdout io.Writer) LineReader {
	if stdout == nil {
		stdout = io.Discard
	}

	return &plainReader{
		in:  bufio.NewReader(stdin),
		out: stdout,
	}
}

func (p *plainReader) SetPrompt(prompt string) {
	p.prompt = prompt
}

func (p *plainReader) Readline() (string, error) {
	fmt.Fprint(p.out, p.prompt)

	line, err := p.in.ReadString('\n')
	switch {
	case err == io.EOF && line == "":
		return "", io.EOF
	case err != nil && err != io.EOF:
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (p *plainReader) SaveHistory(string) error {
	return nil
}

func (p *plainReader) Close() error {
	return nil
}
