package llm

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/csheth/podscript/internal/script"
)

func TestPickHTTPClientHonorsCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	if got := pickHTTPClient(custom); got != custom {
		t.Fatalf("expected custom client to be returned")
	}
}

func TestPickHTTPClientUsesLongerTimeout(t *testing.T) {
	client := pickHTTPClient(nil)
	if client.Timeout != defaultLLMHTTPTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultLLMHTTPTimeout, client.Timeout)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	client, err := New(Config{})
	if err != nil {
		t.Fatalf("default provider: %v", err)
	}
	if client.Name() != "Ollama (ministral-3:latest)" {
		t.Fatalf("unexpected default client %q", client.Name())
	}
	if _, err := New(Config{Provider: "openai"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := New(Config{Provider: "bard"}); err == nil {
		t.Fatal("unknown provider should fail")
	}
}

func TestCleanDraft(t *testing.T) {
	raw := "```text\n- **Rahul:** One\n\n* Priya: Two\n**Priya**: Three\n```"
	got, err := cleanDraft(raw)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	lines := script.Decode(got, nil)
	want := []string{"One", "Two", "Three"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines from %q, got %#v", len(want), got, lines)
	}
	for i, text := range want {
		if lines[i].Text != text {
			t.Fatalf("line %d: got %q want %q", i, lines[i].Text, text)
		}
	}
	if _, err := cleanDraft("```\n```"); err != errEmptyDraft {
		t.Fatalf("expected errEmptyDraft, got %v", err)
	}
}

func TestDraftPromptClampsTurnsAndFallsBackCast(t *testing.T) {
	prompt, err := buildDraftPrompt(DraftRequest{Content: "Tides follow the moon.", Turns: 500, Cast: script.Cast{A: "same", B: "same"}})
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if !strings.Contains(prompt, "about 60 turns") || !strings.Contains(prompt, "Rahul and Priya") {
		t.Fatalf("unexpected prompt: %s", prompt)
	}
}
