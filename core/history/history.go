// Package history keeps the bounded list of recently issued command lines.
package history

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
)

// NoPID is recorded for lines that didn't start a process, like builtins.
const NoPID = -1

// DefaultCapacity is the number of lines kept when no size is configured.
const DefaultCapacity = 15

var (
	// ErrOutOfRange is returned when a position doesn't name a stored entry.
	ErrOutOfRange = errors.New("history index out of range")

	// ErrMalformedReference is returned when a !N reference isn't a number.
	ErrMalformedReference = errors.New("malformed history reference")
)

// Entry is one remembered command line.
type Entry struct {
	Line string
	PID  int
}

// HasPID reports whether a process was started for the entry.
func (e Entry) HasPID() bool {
	return e.PID != NoPID
}

// Store is a fixed capacity FIFO of entries. Once full, recording a line
// shifts the oldest entry out, so positions refer to the visible window and
// not to an all-time command number.
//
// A Store is owned by a single shell loop and isn't safe for concurrent use.
type Store struct {
	entries []Entry
}

// NewStore creates a Store holding at most capacity entries.
func NewStore(capacity int) (*Store, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("history capacity must be positive, got %d", capacity)
	}

	return &Store{entries: make([]Entry, 0, capacity)}, nil
}

// Cap returns the fixed capacity of the store.
func (s *Store) Cap() int {
	return cap(s.entries)
}

// Len returns the number of populated entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Record appends a line, evicting the oldest entry if the store is full, and
// returns the position of the new entry.
func (s *Store) Record(line string, pid int) int {
	if len(s.entries) == cap(s.entries) {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}

	s.entries = append(s.entries, Entry{Line: line, PID: pid})
	return len(s.entries) - 1
}

// SetPID sets the process ID of the entry at pos.
func (s *Store) SetPID(pos, pid int) error {
	if err := s.checkRange(pos); err != nil {
		return err
	}

	s.entries[pos].PID = pid
	return nil
}

// Get returns the entry at pos.
func (s *Store) Get(pos int) (Entry, error) {
	if err := s.checkRange(pos); err != nil {
		return Entry{}, err
	}

	return s.entries[pos], nil
}

// All iterates over the populated entries oldest first. The sequence can be
// ranged over any number of times.
func (s *Store) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range s.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.entries = s.entries[:0]
}

func (s *Store) checkRange(pos int) error {
	if pos < 0 || pos >= len(s.entries) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, pos)
	}
	return nil
}

// ParseReference parses the N of a !N reference. Only plain decimal digits
// are accepted; signs, spaces and other characters are malformed.
func ParseReference(ref string) (int, error) {
	if ref == "" {
		return 0, fmt.Errorf("%w: missing index", ErrMalformedReference)
	}

	for _, r := range ref {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformedReference, ref)
		}
	}

	n, err := strconv.Atoi(ref)
	if err != nil {
		// Overflow, any such index is past the end anyway.
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, ref)
	}

	return n, nil
}
