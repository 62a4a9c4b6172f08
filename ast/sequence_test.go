package ast

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		input string
		want  Sequence
	}{
		{"2024-03-05", NewSequence(2024, time.March, 5, 0)},
		{"2024-3-5", NewSequence(2024, time.March, 5, 0)},
		{"2024-12-31/2", NewSequence(2024, time.December, 31, 2)},
		{"1999-1-1/10", NewSequence(1999, time.January, 1, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSequence(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSequenceInvalid(t *testing.T) {
	inputs := []string{
		"2024-03",
		"24-03-05",
		"2024-13-01",
		"2024-02-30",
		"2024-03-05/x",
		"2024-03-05/-1",
		"not-a-date",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSequence(input)
			assert.Error(t, err)
		})
	}
}

func TestSequenceOrdering(t *testing.T) {
	a := NewSequence(2024, time.March, 5, 0)
	b := NewSequence(2024, time.March, 5, 1)
	c := NewSequence(2024, time.March, 6, 0)

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.True(t, a.Before(c))
	assert.False(t, b.Before(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestSequenceString(t *testing.T) {
	assert.Equal(t, "2024-03-05", NewSequence(2024, time.March, 5, 0).String())
	assert.Equal(t, "2024-03-05/2", NewSequence(2024, time.March, 5, 2).String())
}

func TestSequenceUsableAsMapKey(t *testing.T) {
	seen := map[Sequence]int{}

	a, err := ParseSequence("2024-3-5")
	assert.NoError(t, err)
	b, err := ParseSequence("2024-03-05")
	assert.NoError(t, err)

	seen[a]++
	seen[b]++

	// Loose and canonical spellings of the same day collapse to one key.
	assert.Equal(t, 1, len(seen))
	assert.Equal(t, 2, seen[a])
}
