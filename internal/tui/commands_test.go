package tui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/csheth/podscript/internal/library"
	"github.com/csheth/podscript/internal/markers"
	"github.com/csheth/podscript/internal/script"
	"github.com/csheth/podscript/internal/source"
)

func newArticleServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Tides Explained</title></head><body><p>The moon pulls the oceans.</p></body></html>`))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestFetcher(t *testing.T, server *httptest.Server) *source.Fetcher {
	t.Helper()
	fetcher, err := source.NewFetcher(source.Options{CacheDir: t.TempDir(), HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("fetcher: %v", err)
	}
	return fetcher
}

func TestDraftScriptJobDecodesDraft(t *testing.T) {
	server := newArticleServer(t)
	client := fakeLLM{draft: "Rahul: Tides are weird.\n\nPriya: [laughs] They really are."}
	job := draftScriptJob(server.URL+"/tides", newTestFetcher(t, server), client, script.NewCodec(script.DefaultCast), markers.Default())

	msg, err := job(context.Background())
	if err != nil {
		t.Fatalf("draft job: %v", err)
	}
	result := msg.(draftResultMsg)
	if result.title != "Tides Explained" {
		t.Fatalf("unexpected title %q", result.title)
	}
	if len(result.lines) != 2 || result.lines[1].Speaker != script.SpeakerB {
		t.Fatalf("unexpected lines %#v", result.lines)
	}
}

func TestDraftScriptJobRejectsUnparseableDraft(t *testing.T) {
	server := newArticleServer(t)
	client := fakeLLM{draft: "I cannot help with that."}
	job := draftScriptJob(server.URL, newTestFetcher(t, server), client, script.NewCodec(script.DefaultCast), markers.Default())

	_, err := job(context.Background())
	if !errors.Is(err, script.ErrNoLines) {
		t.Fatalf("expected ErrNoLines, got %v", err)
	}
}

func TestDraftScriptJobWithoutBackend(t *testing.T) {
	job := draftScriptJob("https://example.com", nil, nil, script.NewCodec(script.DefaultCast), markers.Default())
	if _, err := job(context.Background()); !errors.Is(err, errNoDraftBackend) {
		t.Fatalf("expected errNoDraftBackend, got %v", err)
	}
}

func TestLibraryJobsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "library.json")

	msg, err := loadLibraryJob(path)(context.Background())
	if err != nil {
		t.Fatalf("missing library should load empty: %v", err)
	}
	if loaded := msg.(libraryLoadedMsg); len(loaded.entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(loaded.entries))
	}

	lines := script.Decode("Rahul: One\n\nPriya: Two", nil)
	msg, err = saveScriptJob(path, library.Entry{Title: "Pilot", Cast: script.DefaultCast, Lines: lines})(context.Background())
	if err != nil {
		t.Fatalf("save job: %v", err)
	}
	saved := msg.(saveResultMsg).entry
	if saved.ID == "" {
		t.Fatal("save should assign an ID")
	}

	msg, err = loadLibraryJob(path)(context.Background())
	if err != nil {
		t.Fatalf("load job: %v", err)
	}
	if loaded := msg.(libraryLoadedMsg); len(loaded.entries) != 1 || loaded.entries[0].Title != "Pilot" {
		t.Fatalf("unexpected entries %#v", loaded.entries)
	}

	msg, err = deleteEntryJob(path, saved.ID)(context.Background())
	if err != nil {
		t.Fatalf("delete job: %v", err)
	}
	if loaded := msg.(libraryLoadedMsg); len(loaded.entries) != 0 {
		t.Fatalf("delete should leave an empty library, got %d", len(loaded.entries))
	}
}

func TestTrimmedTitle(t *testing.T) {
	long := "An exceptionally long article title that keeps going well past sixty runes"
	if got := trimmedTitle(long); len([]rune(got)) != 58 {
		t.Fatalf("unexpected trimmed title %q", got)
	}
	if got := trimmedTitle("  Short  "); got != "Short" {
		t.Fatalf("unexpected title %q", got)
	}
}
