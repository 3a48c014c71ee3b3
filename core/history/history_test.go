package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(s *Store) []Entry {
	var out []Entry
	for _, e := range s.All() {
		out = append(out, e)
	}
	return out
}

func TestNewStore(t *testing.T) {
	cases := map[string]struct {
		capacity int
		wantErr  bool
	}{
		"zero":     {0, true},
		"negative": {-3, true},
		"one":      {1, false},
		"default":  {DefaultCapacity, false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			s, err := NewStore(tc.capacity)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.capacity, s.Cap())
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestStore_RecordUnderCapacity(t *testing.T) {
	s, err := NewStore(3)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Record("ls", 100))
	assert.Equal(t, 1, s.Record("cd /tmp", NoPID))

	assert.Equal(t, []Entry{
		{Line: "ls", PID: 100},
		{Line: "cd /tmp", PID: NoPID},
	}, collect(s))
}

func TestStore_EvictsOldest(t *testing.T) {
	const capacity = 15
	const issued = 40

	s, err := NewStore(capacity)
	require.NoError(t, err)

	for i := 0; i < issued; i++ {
		pos := s.Record(fmt.Sprintf("cmd %d", i), i)
		assert.Equal(t, min(i, capacity-1), pos)
	}

	entries := collect(s)
	require.Len(t, entries, capacity)
	for i, e := range entries {
		want := issued - capacity + i
		assert.Equal(t, fmt.Sprintf("cmd %d", want), e.Line)
		assert.Equal(t, want, e.PID)
	}
}

func TestStore_OverflowInsertsOnce(t *testing.T) {
	s, err := NewStore(2)
	require.NoError(t, err)

	s.Record("a", NoPID)
	s.Record("b", NoPID)
	s.Record("c", NoPID)

	assert.Equal(t, []Entry{{"b", NoPID}, {"c", NoPID}}, collect(s))
}

func TestStore_Get(t *testing.T) {
	s, err := NewStore(4)
	require.NoError(t, err)
	s.Record("echo hi", 42)

	e, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, Entry{Line: "echo hi", PID: 42}, e)

	for _, pos := range []int{-1, 1, 3, 4, 1000} {
		t.Run(fmt.Sprint(pos), func(t *testing.T) {
			_, err := s.Get(pos)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestStore_SetPID(t *testing.T) {
	s, err := NewStore(2)
	require.NoError(t, err)

	pos := s.Record("sleep 1", NoPID)
	e, _ := s.Get(pos)
	assert.False(t, e.HasPID())

	require.NoError(t, s.SetPID(pos, 1234))
	e, _ = s.Get(pos)
	assert.True(t, e.HasPID())
	assert.Equal(t, 1234, e.PID)

	assert.ErrorIs(t, s.SetPID(5, 1), ErrOutOfRange)
}

func TestStore_AllRestartable(t *testing.T) {
	s, err := NewStore(5)
	require.NoError(t, err)
	s.Record("a", NoPID)
	s.Record("b", NoPID)
	s.Record("c", NoPID)

	first := collect(s)
	second := collect(s)
	assert.Equal(t, first, second)

	// Stopping early must not disturb later iterations.
	for i := range s.All() {
		if i == 1 {
			break
		}
	}
	assert.Equal(t, first, collect(s))
}

func TestStore_Clear(t *testing.T) {
	s, err := NewStore(2)
	require.NoError(t, err)
	s.Record("a", NoPID)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 2, s.Cap())
	assert.Empty(t, collect(s))
}

func TestParseReference(t *testing.T) {
	cases := []struct {
		ref     string
		want    int
		wantErr error
	}{
		{"0", 0, nil},
		{"14", 14, nil},
		{"007", 7, nil},
		{"", 0, ErrMalformedReference},
		{"-1", 0, ErrMalformedReference},
		{"+1", 0, ErrMalformedReference},
		{"1a", 0, ErrMalformedReference},
		{"ls", 0, ErrMalformedReference},
		{"1 2", 0, ErrMalformedReference},
		{"99999999999999999999999", 0, ErrOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.ref, func(t *testing.T) {
			got, err := ParseReference(tc.ref)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
