// Package library persists saved scripts in a single JSON file.
//
// The file is a JSON array of typed entries. Entries with an unknown
// entryType are carried through rewrites untouched so newer files stay
// readable.
package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/csheth/podscript/internal/script"
)

const entryTypeScript = "script"

// ErrNotFound is returned when no script has the requested ID.
var ErrNotFound = errors.New("script not found")

// Entry is one saved script.
type Entry struct {
	EntryType string        `json:"entryType"`
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	SourceURL string        `json:"sourceUrl,omitempty"`
	Cast      script.Cast   `json:"cast"`
	Lines     []script.Line `json:"lines"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type entryHeader struct {
	EntryType string `json:"entryType"`
	ID        string `json:"id"`
}

// Save inserts entry, or replaces the stored entry with the same ID, and
// returns it with ID and timestamps filled in.
func Save(path string, entry Entry) (Entry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Entry{}, err
	}
	unlock, err := lock(path)
	if err != nil {
		return Entry{}, err
	}
	defer unlock()

	raws, err := loadEntries(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Entry{}, err
	}

	now := time.Now().UTC()
	entry.EntryType = entryTypeScript
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	entry.Lines = script.Clone(entry.Lines)

	replaced := false
	for i, raw := range raws {
		header, err := detectHeader(raw)
		if err != nil {
			return Entry{}, err
		}
		if header.EntryType != entryTypeScript || header.ID != entry.ID {
			continue
		}
		var existing Entry
		if err := json.Unmarshal(raw, &existing); err != nil {
			return Entry{}, err
		}
		if !existing.CreatedAt.IsZero() {
			entry.CreatedAt = existing.CreatedAt
		}
		encoded, err := json.Marshal(entry)
		if err != nil {
			return Entry{}, err
		}
		raws[i] = encoded
		replaced = true
		break
	}
	if !replaced {
		encoded, err := json.Marshal(entry)
		if err != nil {
			return Entry{}, err
		}
		raws = append(raws, encoded)
	}
	if err := writeEntries(path, raws); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Load returns every saved script, most recently updated first.
func Load(path string) ([]Entry, error) {
	raws, err := loadEntries(path)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		header, err := detectHeader(raw)
		if err != nil {
			return nil, err
		}
		if header.EntryType != entryTypeScript {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("decode script %s: %w", header.ID, err)
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

// Get returns the script with id.
func Get(path, id string) (Entry, error) {
	entries, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return Entry{}, err
	}
	for _, entry := range entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Delete removes the script with id.
func Delete(path, id string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	unlock, err := lock(path)
	if err != nil {
		return err
	}
	defer unlock()

	raws, err := loadEntries(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return err
	}
	kept := raws[:0]
	removed := false
	for _, raw := range raws {
		header, err := detectHeader(raw)
		if err != nil {
			return err
		}
		if header.EntryType == entryTypeScript && header.ID == id {
			removed = true
			continue
		}
		kept = append(kept, raw)
	}
	if !removed {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return writeEntries(path, kept)
}

func lock(path string) (func(), error) {
	fl := flock.New(path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("lock library: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

func writeEntries(path string, entries []json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadEntries(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode library %s: %w", path, err)
	}
	return entries, nil
}

func detectHeader(raw json.RawMessage) (entryHeader, error) {
	var header entryHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return entryHeader{}, err
	}
	return header, nil
}
