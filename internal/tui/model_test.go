package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/podscript/internal/config"
	"github.com/csheth/podscript/internal/library"
	"github.com/csheth/podscript/internal/llm"
	"github.com/csheth/podscript/internal/script"
)

type fakeLLM struct {
	draft string
	err   error
}

func (f fakeLLM) DraftScript(ctx context.Context, req llm.DraftRequest) (string, error) {
	return f.draft, f.err
}

func (fakeLLM) Name() string { return "fake" }

func newTestModel(t *testing.T) *model {
	t.Helper()
	teaModel, ok := New(Config{}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel
}

func newModelWithScript(t *testing.T) *model {
	t.Helper()
	settings := config.Default()
	settings.LibraryPath = filepath.Join(t.TempDir(), "library.json")
	m, ok := New(Config{
		Settings: settings,
		Script: []script.Line{
			script.NewLine(script.SpeakerA, "Welcome to the show."),
			script.NewLine(script.SpeakerB, "Thanks for having me."),
		},
		Title: "Fixture",
	}).(*model)
	if !ok {
		t.Fatal("expected *model")
	}
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	return m
}

func TestNewStartsOnURLInput(t *testing.T) {
	m := newTestModel(t)
	if m.stage != stageInput {
		t.Fatalf("expected input stage, got %v", m.stage)
	}
	if !m.urlInput.Focused() {
		t.Fatal("url input should start focused")
	}
	if !strings.Contains(m.View(), "Draft From An Article") {
		t.Fatal("input view should show the URL panel")
	}
}

func TestNewWithScriptStartsOnPreview(t *testing.T) {
	m := newModelWithScript(t)
	if m.stage != stageDisplay {
		t.Fatalf("expected display stage, got %v", m.stage)
	}
	view := m.View()
	for _, want := range []string{"Script Preview", "Welcome to the show.", "Rahul", "Priya", "Unsaved"} {
		if !strings.Contains(view, want) {
			t.Fatalf("preview missing %q", want)
		}
	}
}

func TestSubmitURLValidatesInput(t *testing.T) {
	m := newTestModel(t)
	m.urlInput.input.SetValue("not a url")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatal("invalid URL should not start a job")
	}
	if m.errorMessage == "" || m.stage != stageInput {
		t.Fatalf("expected validation error, stage=%v err=%q", m.stage, m.errorMessage)
	}
}

func TestSubmitURLRequiresLLM(t *testing.T) {
	m := newTestModel(t)
	m.urlInput.input.SetValue("https://example.com/post")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.errorMessage, "Ctrl+N") {
		t.Fatalf("missing LLM should offer a blank script, got %q", m.errorMessage)
	}
}

func TestSubmitURLStartsDraft(t *testing.T) {
	m := newTestModel(t)
	m.config.LLM = fakeLLM{}
	m.urlInput.input.SetValue("https://example.com/post")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit should return a command to start the draft job")
	}
	if m.stage != stageLoading {
		t.Fatalf("stage not updated, got %v want %v", m.stage, stageLoading)
	}
}

func TestDraftResultLoadsPreview(t *testing.T) {
	m := newTestModel(t)
	lines := script.Decode("Rahul: Hi\n\nPriya: Hello", nil)
	m.Update(jobResultEnvelope{
		Snapshot: jobSnapshot{ID: "draft-1", Kind: jobKindDraft, Status: jobStatusSucceeded},
		Payload:  draftResultMsg{url: "https://example.com/post", title: "Tides", lines: lines},
	})
	if m.stage != stageDisplay || len(m.lines) != 2 || m.title != "Tides" || !m.dirty {
		t.Fatalf("draft not applied: stage=%v lines=%d title=%q", m.stage, len(m.lines), m.title)
	}
}

func TestDraftFailureReturnsToInput(t *testing.T) {
	m := newTestModel(t)
	m.stage = stageLoading
	m.Update(draftResultMsg{err: errors.New("boom")})
	if m.stage != stageInput || m.errorMessage != "boom" {
		t.Fatalf("unexpected state: stage=%v err=%q", m.stage, m.errorMessage)
	}
}

func TestBlankScriptOpensStructuredEditor(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.stage != stageEditor || m.editor == nil {
		t.Fatalf("expected editor stage, got %v", m.stage)
	}
	if !m.editor.editing || m.editor.session.Len() != 1 {
		t.Fatal("blank script should start editing its first line")
	}
}

func TestEditorSaveUpdatesPreview(t *testing.T) {
	m := newModelWithScript(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if m.stage != stageEditor || m.editor == nil {
		t.Fatalf("e should open the editor, got %v", m.stage)
	}
	if m.viewport.Width != m.layout.previewWidth {
		t.Fatalf("preview should shrink beside the panel, got %d", m.viewport.Width)
	}
	if !strings.Contains(m.View(), "Edit Script") {
		t.Fatal("editor panel should render beside the preview")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m.Update(cmd())

	if m.stage != stageDisplay || m.editor != nil {
		t.Fatalf("save should close the panel, stage=%v", m.stage)
	}
	if len(m.lines) != 3 {
		t.Fatalf("expected 3 lines after save, got %d", len(m.lines))
	}
	if m.viewport.Width != m.layout.contentWidth {
		t.Fatal("preview should take the full width again")
	}
}

func TestEditorDiscardKeepsScript(t *testing.T) {
	m := newModelWithScript(t)
	before := script.Clone(m.lines)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(cmd())
	if m.stage != stageDisplay || len(m.lines) != len(before) {
		t.Fatalf("discard should keep the previous script, got %d lines", len(m.lines))
	}
}

func TestScrollAfterEditorClosedIsDropped(t *testing.T) {
	m := newModelWithScript(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, scroll := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	_, discard := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(discard())
	if _, cmd := m.Update(scroll()); cmd != nil {
		t.Fatal("stale scroll should be ignored")
	}
}

func TestSaveAndReopenFromLibrary(t *testing.T) {
	m := newModelWithScript(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if cmd == nil || m.stage != stageSaving {
		t.Fatalf("s should start saving, stage=%v", m.stage)
	}
	entry := library.Entry{
		ID:        "abc",
		Title:     m.title,
		Cast:      script.Cast{A: "Ana", B: "Ben"},
		Lines:     script.Clone(m.lines),
		UpdatedAt: time.Now(),
	}
	m.Update(saveResultMsg{entry: entry})
	if m.stage != stageDisplay || m.dirty || m.entryID != "abc" {
		t.Fatalf("save result not applied: stage=%v dirty=%v id=%q", m.stage, m.dirty, m.entryID)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if m.stage != stageLibrary || !m.browser.loading {
		t.Fatalf("l should open the library, stage=%v", m.stage)
	}
	m.Update(libraryLoadedMsg{entries: []library.Entry{entry}})
	if !strings.Contains(m.View(), "Fixture") {
		t.Fatal("library should list the saved script")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.stage != stageDisplay || m.codec.Cast().A != "Ana" {
		t.Fatalf("entry not opened with its cast, stage=%v cast=%v", m.stage, m.codec.Cast())
	}
}

func TestLibraryEscReturnsToPreviousStage(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.stage != stageLibrary {
		t.Fatalf("ctrl+l should open the library, got %v", m.stage)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.stage != stageInput || !m.urlInput.Focused() {
		t.Fatal("esc should return to the focused URL input")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newModelWithScript(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if !m.helpVisible || !strings.Contains(m.View(), "Navigation Cheatsheet") {
		t.Fatal("? should show the cheatsheet")
	}
}
