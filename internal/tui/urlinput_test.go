package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestURLInputPastesFromClipboard(t *testing.T) {
	restore := readClipboard
	t.Cleanup(func() { readClipboard = restore })
	readClipboard = func() (string, error) { return "  https://example.com/post  ", nil }

	input := newURLInput(0)
	input.Focus()
	cmd := input.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if cmd == nil {
		t.Fatal("ctrl+v should read the clipboard")
	}
	input.Update(cmd())
	if got := input.Value(); got != "https://example.com/post" {
		t.Fatalf("unexpected value %q", got)
	}
	url, err := input.Validate()
	if err != nil || url != "https://example.com/post" {
		t.Fatalf("validate: %q %v", url, err)
	}
}

func TestURLInputFallsBackToManualEntry(t *testing.T) {
	restore := readClipboard
	t.Cleanup(func() { readClipboard = restore })
	readClipboard = func() (string, error) { return "", errors.New("no clipboard utilities available") }

	input := newURLInput(0)
	input.Focus()
	input.Update(input.Update(tea.KeyMsg{Type: tea.KeyCtrlV})())
	if !input.manual {
		t.Fatal("clipboard failure should switch to manual entry")
	}
	if input.hint != manualURLHint {
		t.Fatalf("unexpected hint %q", input.hint)
	}
	if cmd := input.Update(tea.KeyMsg{Type: tea.KeyCtrlV}); cmd != nil {
		t.Fatal("manual mode should not retry the clipboard")
	}

	input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ftp://example.com")})
	if _, err := input.Validate(); err == nil {
		t.Fatal("non-http schemes should be rejected")
	}
}
