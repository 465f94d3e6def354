package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Error(err)
		}
	})
}

func TestHandleMessageAppendsLogLine(t *testing.T) {
	chdir(t, t.TempDir())

	ev := ListingChangedEvent{
		Action:    ListingUpdated,
		ListingID: 31,
		Title:     "Canal House",
		At:        "2026-08-30T12:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, handleMessage(body))
	require.NoError(t, handleMessage(body)) // appends, does not truncate

	data, err := os.ReadFile(filepath.Join("logs", "listings.log"))
	require.NoError(t, err)
	lines := string(data)
	assert.Contains(t, lines, "Listing updated")
	assert.Contains(t, lines, "listing_id=31")
	assert.Contains(t, lines, `title="Canal House"`)
	assert.Equal(t, 2, countLines(lines))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	chdir(t, t.TempDir())
	assert.Error(t, handleMessage([]byte("{not json")))
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}
