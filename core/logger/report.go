package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
)

// LogEntry is one decoded line of the session log.
type LogEntry struct {
	Level        string   `json:"level"`
	Msg          string   `json:"msg"`
	SessionID    string   `json:"session_id"`
	Command      []string `json:"command"`
	ResolvedPath string   `json:"resolved_path"`
	PID          int      `json:"pid"`
	ExitCode     int      `json:"exit_code"`
	Error        string   `json:"error"`
	Line         string   `json:"line"`
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand        RunCommandReport        `json:"run_command_report"`
	UnknownCommand    UnknownCommandReport    `json:"unknown_command_report"`
	Builtin           BuiltinReport           `json:"builtin_report"`
	InvalidInvocation InvalidInvocationReport `json:"invalid_invocation_report"`
	HistoryError      HistoryErrorReport      `json:"history_error_report"`
}

// Update adds a log entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Msg {
	case EventSessionStart:
		r.Sessions.Increment(le.SessionID)
	case EventRunCommand:
		r.RunCommand.update(le)
	case EventUnknownCommand:
		r.UnknownCommand.update(le)
	case EventBuiltin:
		r.Builtin.update(le)
	case EventInvalidInvocation:
		r.InvalidInvocation.update(le)
	case EventHistoryError:
		r.HistoryError.update(le)
	case EventSessionEnd:
		// Ignore
	default:
		r.InvalidEntries.Increment(le.Msg)
	}
}

type RunCommandReport struct {
	// Name of the resolved command
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Exit codes the commands finished with.
	ExitCodes StrCounter `json:"exit_codes"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	r.ResolvedCommandPaths.Increment(le.ResolvedPath)
	if len(le.Command) > 0 {
		r.CommandNames.Increment(le.Command[0])
	}
	r.ExitCodes.Increment(strconv.Itoa(le.ExitCode))
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(le *LogEntry) {
	if len(le.Command) > 0 {
		r.CommandNames.Increment(le.Command[0])
	}
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *BuiltinReport) update(le *LogEntry) {
	if len(le.Command) > 0 {
		r.CommandNames.Increment(le.Command[0])
	}
}

type InvalidInvocationReport struct {
	Invocations *PathCounter `json:"invocations"`
}

func (r *InvalidInvocationReport) update(le *LogEntry) {
	if r.Invocations == nil {
		r.Invocations = NewPathCounter("command", "error")
	}

	name := ""
	if len(le.Command) > 0 {
		name = le.Command[0]
	}
	r.Invocations.Increment(name, le.Error)
}

type HistoryErrorReport struct {
	Errors StrCounter `json:"errors"`
}

func (r *HistoryErrorReport) update(le *LogEntry) {
	r.Errors.Increment(le.Error)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of distinct tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the given tuple, 0 on a nil counter.
func (ctr *PathCounter) Get(vals ...string) int {
	if ctr == nil {
		return 0
	}
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
