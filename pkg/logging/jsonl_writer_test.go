package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLWriter_WritesOneLinePerEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	w, err := NewJSONLWriter(path)
	require.NoError(t, err)

	for _, summary := range []string{"first", "second"} {
		require.NoError(t, w.Write(&Event{
			Timestamp: time.Now().UTC(),
			RunID:     "run-1",
			Project:   "shop",
			EventType: EventHTTPRequest,
			Summary:   summary,
		}))
	}
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		lines = append(lines, ev)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, "first", lines[0].Summary)
	assert.Equal(t, "second", lines[1].Summary)
}

func TestJSONLWriter_AppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	for i := 0; i < 2; i++ {
		w, err := NewJSONLWriter(path)
		require.NoError(t, err)
		require.NoError(t, w.Write(&Event{
			Timestamp: time.Now().UTC(),
			RunID:     "run-1",
			EventType: EventRunStart,
			Summary:   "run started",
		}))
		require.NoError(t, w.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, countLines(data))
}

func TestJSONLWriter_MissingParentDir(t *testing.T) {
	_, err := NewJSONLWriter(filepath.Join(t.TempDir(), "nope", "events.jsonl"))
	require.ErrorIs(t, err, ErrCreateLogFile)
}

func countLines(data []byte) int {
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}
