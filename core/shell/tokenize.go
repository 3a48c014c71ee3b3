// Package shell splits command lines into argument vectors.
package shell

import (
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

// DefaultMaxTokens is the number of tokens kept when no bound is configured.
const DefaultMaxTokens = 12

// Supported tokenizer modes.
const (
	ModeWhitespace = "whitespace"
	ModeShlex      = "shlex"
)

// Delimiters separate tokens in ModeWhitespace.
const Delimiters = " \t\r\n"

// Tokenizer splits a line into at most a fixed number of tokens.
type Tokenizer func(line string) ([]string, error)

// NewTokenizer returns the Tokenizer for mode, keeping at most maxTokens.
func NewTokenizer(mode string, maxTokens int) (Tokenizer, error) {
	if maxTokens < 1 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", maxTokens)
	}

	switch mode {
	case ModeWhitespace, "":
		return func(line string) ([]string, error) {
			return Tokenize(line, maxTokens), nil
		}, nil
	case ModeShlex:
		return func(line string) ([]string, error) {
			return SplitQuoted(line, maxTokens)
		}, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", mode)
	}
}

// Tokenize splits line on runs of Delimiters. Empty tokens are never
// produced and tokens past maxTokens are dropped.
func Tokenize(line string, maxTokens int) []string {
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(Delimiters, r)
	})

	return truncate(tokens, maxTokens)
}

// SplitQuoted splits line using POSIX shell quoting rules, tokens past
// maxTokens are dropped.
func SplitQuoted(line string, maxTokens int) ([]string, error) {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %w", err)
	}

	return truncate(tokens, maxTokens), nil
}

func truncate(tokens []string, maxTokens int) []string {
	if maxTokens >= 0 && len(tokens) > maxTokens {
		return tokens[:maxTokens]
	}
	return tokens
}
