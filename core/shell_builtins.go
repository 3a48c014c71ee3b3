package core

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pborman/getopt/v2"
)

var (
	ErrMissingArgument  = errors.New("missing argument")
	ErrTooManyArguments = errors.New("too many arguments")
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinNames returns the registered builtin names in sorted order.
func BuiltinNames() []string {
	var names []string
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cd is the cd shell builtin, the target directory is required.
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		s.builtinError(args, ErrMissingArgument)
		return 1
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			s.builtinError(args, err)
			return 1
		}
	default:
		s.builtinError(args, ErrTooManyArguments)
		return 1
	}
	return 0
}

// Exit quits the shell
func Exit(s *Shell, args []string) int {
	s.Exit(0)
	return 0
}

// History lists the remembered lines, -p adds the process ID of each.
func History(s *Shell, args []string) int {
	opts := getopt.New()
	opts.SetProgram(args[0])
	opts.SetParameters("")
	pids := opts.Bool('p', "show the process ID each command ran as")

	if err := opts.Getopt(args, nil); err != nil || opts.NArgs() > 0 {
		if err == nil {
			err = ErrTooManyArguments
		}
		s.builtinError(args, err)

		w := s.Stderr
		fmt.Fprintln(w, "usage: history [-p]")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return 2
	}

	w := s.Stdout
	for i, entry := range s.History.All() {
		fmt.Fprintf(w, "%d: %s\n", i, entry.Line)
		if !*pids {
			continue
		}

		if entry.HasPID() {
			fmt.Fprintf(w, "Command %d has pid %d\n", i, entry.PID)
		} else {
			fmt.Fprintf(w, "Command %d has no pid\n", i)
		}
	}
	return 0
}

func (s *Shell) builtinError(args []string, err error) {
	s.log.InvalidInvocation(args, err)
	s.errorf("%s: %v\n", args[0], err)
}

func init() {
	AllBuiltins["q"] = ShellBuiltinFunc(Exit)
	AllBuiltins["quit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
}
