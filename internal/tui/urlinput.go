package tui

import (
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/podscript/internal/source"
)

// readClipboard is swapped in tests.
var readClipboard = clipboard.ReadAll

// urlInput is the article URL field. ctrl+v pastes from the system
// clipboard; when the host has no clipboard the widget drops to manual entry.
type urlInput struct {
	input  textinput.Model
	border animatedBorder
	manual bool
	hint   string
}

func newURLInput(interval time.Duration) urlInput {
	input := textinput.New()
	input.Placeholder = urlPlaceholder
	input.Prompt = "URL › "
	input.CharLimit = 2048
	input.Width = 70
	return urlInput{
		input:  input,
		border: newAnimatedBorder(interval),
	}
}

func (u *urlInput) Focus() tea.Cmd {
	return tea.Batch(u.input.Focus(), u.border.Start())
}

func (u *urlInput) Blur() {
	u.input.Blur()
	u.border.Stop()
}

func (u *urlInput) Focused() bool {
	return u.input.Focused()
}

func (u *urlInput) SetWidth(width int) {
	width -= lipgloss.Width(u.input.Prompt) + 6
	if width < 20 {
		width = 20
	}
	u.input.Width = width
}

func (u *urlInput) Value() string {
	return strings.TrimSpace(u.input.Value())
}

func (u *urlInput) Reset() {
	u.input.SetValue("")
	u.hint = ""
}

// Validate returns the normalised URL or source.ErrInvalidURL.
func (u *urlInput) Validate() (string, error) {
	return source.ValidateURL(u.input.Value())
}

func (u *urlInput) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case borderTickMsg:
		var cmd tea.Cmd
		u.border, cmd = u.border.Update(msg)
		return cmd
	case clipboardMsg:
		if msg.err != nil {
			log.Printf("[clipboard] read failed, switching to manual entry: %v", msg.err)
			u.manual = true
			u.hint = manualURLHint
			return nil
		}
		text := strings.TrimSpace(msg.text)
		if text == "" {
			u.hint = "Clipboard is empty."
			return nil
		}
		u.input.SetValue(text)
		u.input.CursorEnd()
		u.hint = ""
		return nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlV {
			if u.manual {
				return nil
			}
			return readClipboardCmd
		}
	}
	var cmd tea.Cmd
	u.input, cmd = u.input.Update(msg)
	return cmd
}

func (u *urlInput) View() string {
	body := u.border.View(u.input.View())
	if u.hint == "" {
		return body
	}
	return body + "\n" + helperStyle.Render(u.hint)
}

func readClipboardCmd() tea.Msg {
	text, err := readClipboard()
	return clipboardMsg{text: text, err: err}
}
