package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIClientDraftScript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "gpt-test" || len(payload.Messages) != 2 {
			t.Fatalf("unexpected payload: %#v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Rahul: Hello\n\nPriya: Hey"}}]}`))
	}))
	defer server.Close()

	client, err := New(Config{Provider: "openai", APIKey: "sk-test", Model: "gpt-test", Endpoint: server.URL + "/v1/", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	draft, err := client.DraftScript(context.Background(), DraftRequest{Content: "Tides follow the moon."})
	if err != nil {
		t.Fatalf("draft failed: %v", err)
	}
	if draft != "Rahul: Hello\n\nPriya: Hey" {
		t.Fatalf("unexpected draft %q", draft)
	}
}

func TestOpenAIClientRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "k", model: "m", base: server.URL, client: server.Client()}
	if _, err := client.DraftScript(context.Background(), DraftRequest{Content: "Tides follow the moon."}); !errors.Is(err, errNoChoices) {
		t.Fatalf("expected errNoChoices, got %v", err)
	}
}
