package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/podscript/internal/script"
)

func sampleLines() []script.Line {
	return []script.Line{
		script.NewLine(script.SpeakerA, "Welcome to the show."),
		script.NewLine(script.SpeakerB, "[laughs] Thanks for having me."),
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "library.json")

	saved, err := Save(path, Entry{Title: "Pilot", Cast: script.DefaultCast, Lines: sampleLines()})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Pilot", entries[0].Title)
	assert.Equal(t, script.Project(sampleLines()), script.Project(entries[0].Lines))
	assert.Equal(t, saved.Lines[0].ID, entries[0].Lines[0].ID)
}

func TestSaveUpsertsByID(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "library.json")

	first, err := Save(path, Entry{Title: "Draft", Lines: sampleLines()})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	first.Title = "Final"
	first.Lines = first.Lines[:1]
	second, err := Save(path, first)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.UpdatedAt.After(second.CreatedAt) || second.UpdatedAt.Equal(second.CreatedAt))

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Final", entries[0].Title)
	assert.Len(t, entries[0].Lines, 1)
}

func TestLoadOrdersByRecency(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "library.json")
	_, err := Save(path, Entry{Title: "older"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = Save(path, Entry{Title: "newer"})
	require.NoError(t, err)

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "newer", entries[0].Title)
}

func TestUnknownEntriesSurviveRewrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"entryType":"bookmark","id":"b1","url":"https://example.com"}]`), 0o644))

	_, err := Save(path, Entry{Title: "Pilot"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bookmark"`)

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGetAndDelete(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "library.json")

	_, err := Get(path, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	saved, err := Save(path, Entry{Title: "Pilot"})
	require.NoError(t, err)

	got, err := Get(path, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pilot", got.Title)

	require.NoError(t, Delete(path, saved.ID))
	assert.ErrorIs(t, Delete(path, saved.ID), ErrNotFound)
	_, err = Get(path, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDeleteInMissingDirectoryIsNotFound(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "never", "created", "library.json")
	err := Delete(path, "some-id")
	assert.ErrorIs(t, err, ErrNotFound)
	_, statErr := os.Stat(filepath.Dir(path))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
