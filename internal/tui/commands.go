package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/podscript/internal/library"
	"github.com/csheth/podscript/internal/llm"
	"github.com/csheth/podscript/internal/markers"
	"github.com/csheth/podscript/internal/script"
	"github.com/csheth/podscript/internal/source"
)

var errNoDraftBackend = errors.New("no LLM configured; set OLLAMA_HOST or OPENAI_API_KEY, or press Ctrl+N for a blank script")

func draftScriptJob(url string, fetcher *source.Fetcher, client llm.Client, codec *script.Codec, palette markers.Palette) jobRunner {
	tokens := make([]string, 0, palette.Len())
	for _, item := range palette.Items() {
		tokens = append(tokens, item.Token)
	}
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, draftTimeout)
		defer cancel()
		if fetcher == nil || client == nil {
			return draftResultMsg{url: url, err: errNoDraftBackend}, errNoDraftBackend
		}
		doc, err := fetcher.Fetch(ctx, url)
		if err != nil {
			err = fmt.Errorf("fetch article: %w", err)
			return draftResultMsg{url: url, err: err}, err
		}
		log.Printf("[draft] fetched %q (%d chars) from %s", doc.Title, len(doc.Text), url)
		text, err := client.DraftScript(ctx, llm.DraftRequest{
			Title:     doc.Title,
			SourceURL: url,
			Content:   doc.Text,
			Cast:      codec.Cast(),
			Markers:   tokens,
		})
		if err != nil {
			err = fmt.Errorf("draft with %s: %w", client.Name(), err)
			return draftResultMsg{url: url, title: doc.Title, err: err}, err
		}
		lines := codec.Decode(text, nil)
		if len(lines) == 0 {
			err = fmt.Errorf("draft from %s: %w", client.Name(), script.ErrNoLines)
			return draftResultMsg{url: url, title: doc.Title, err: err}, err
		}
		return draftResultMsg{url: url, title: doc.Title, lines: lines}, nil
	}
}

func saveScriptJob(path string, entry library.Entry) jobRunner {
	entry.Lines = script.Clone(entry.Lines)
	return func(parent context.Context) (tea.Msg, error) {
		if err := parent.Err(); err != nil {
			return saveResultMsg{err: err}, err
		}
		saved, err := library.Save(path, entry)
		if err != nil {
			err = fmt.Errorf("save script: %w", err)
			return saveResultMsg{err: err}, err
		}
		log.Printf("[library] saved %s (%d lines) to %s", saved.ID, len(saved.Lines), path)
		return saveResultMsg{entry: saved}, nil
	}
}

func loadLibraryJob(path string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		entries, err := library.Load(path)
		if errors.Is(err, os.ErrNotExist) {
			return libraryLoadedMsg{}, nil
		}
		if err != nil {
			err = fmt.Errorf("load library: %w", err)
			return libraryLoadedMsg{err: err}, err
		}
		return libraryLoadedMsg{entries: entries}, nil
	}
}

func deleteEntryJob(path, id string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		if err := library.Delete(path, id); err != nil {
			err = fmt.Errorf("delete script: %w", err)
			return libraryLoadedMsg{err: err}, err
		}
		log.Printf("[library] deleted %s", id)
		return loadLibraryJob(path)(parent)
	}
}

func trimmedTitle(value string) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= 60 {
		return value
	}
	return fmt.Sprintf("%s…", strings.TrimSpace(string(runes[:57])))
}
