package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequests(t *testing.T) {
	t.Parallel()

	t.Run("missing priority defaults to 99", func(t *testing.T) {
		t.Parallel()
		path := writeRequests(t, `[
			{"Festival": "Sundown", "Type": "running", "Priority": 1},
			{"Festival": "Coast Swim", "Type": "swimming"}
		]`)

		requests, err := LoadRequests(path)
		require.NoError(t, err)
		require.Len(t, requests, 2)
		assert.Equal(t, 1, requests[0].Priority)
		assert.Equal(t, DefaultPriority, requests[1].Priority)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		_, err := LoadRequests(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		t.Parallel()
		_, err := LoadRequests(writeRequests(t, `{"not": "an array"`))
		assert.Error(t, err)
	})
}

func TestSortRequests(t *testing.T) {
	t.Parallel()

	requests := []EventRequest{
		{Festival: "C", Priority: DefaultPriority},
		{Festival: "A", Priority: 2},
		{Festival: "B", Priority: 2},
		{Festival: "D", Priority: 1},
	}
	SortRequests(requests)

	got := make([]string, len(requests))
	for i, r := range requests {
		got[i] = r.Festival
	}
	// Stable: A keeps its place ahead of B at equal priority.
	assert.Equal(t, []string{"D", "A", "B", "C"}, got)
}

func writeRequests(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "races.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
