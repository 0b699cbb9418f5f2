package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/podscript/internal/markers"
	"github.com/csheth/podscript/internal/script"
	"github.com/csheth/podscript/internal/session"
)

// editPanel is the slide-over editor. It owns one session for as long as it
// is open; saving or discarding closes the session and the panel with it.
type editPanel struct {
	session   *session.Session
	cast      script.Cast
	raw       textarea.Model
	lineInput textinput.Model
	list      viewport.Model
	picker    markerPicker
	border    animatedBorder

	editing       bool
	anchors       map[string]int
	pendingScroll string
	lastScrolled  string
	width         int
	height        int
	status        string
}

func newEditPanel(lines []script.Line, codec *script.Codec, palette markers.Palette, interval time.Duration) *editPanel {
	p := &editPanel{
		cast:    codec.Cast(),
		picker:  newMarkerPicker(palette),
		border:  newAnimatedBorder(interval),
		anchors: map[string]int{},
	}
	p.session = session.Open(lines, session.WithCodec(codec), session.WithScrollFunc(p.requestScroll))

	raw := textarea.New()
	raw.ShowLineNumbers = false
	raw.CharLimit = 0
	raw.MaxHeight = 0
	raw.Placeholder = fmt.Sprintf(rawEditorPlaceholder, p.cast.A, p.cast.B)
	raw.SetValue(p.session.RawText())
	p.raw = raw

	lineInput := textinput.New()
	lineInput.Prompt = ""
	lineInput.CharLimit = 0
	p.lineInput = lineInput

	p.list = viewport.New(minPanelWidth, minPanelBodyHeight)
	p.SetSize(minPanelWidth, 20)
	return p
}

func (p *editPanel) Init() tea.Cmd {
	return tea.Batch(p.raw.Focus(), p.border.Start())
}

func (p *editPanel) requestScroll(id string) {
	p.pendingScroll = id
}

func (p *editPanel) SetSize(width, height int) {
	p.width, p.height = width, height
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	body := height - panelChrome
	if body < minPanelBodyHeight {
		body = minPanelBodyHeight
	}
	p.raw.SetWidth(inner)
	p.raw.SetHeight(body)
	p.list.Width = inner
	p.list.Height = body
	p.lineInput.Width = inner - 6
	p.refreshList()
}

func (p *editPanel) Mode() session.Mode {
	return p.session.Mode()
}

func (p *editPanel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case borderTickMsg:
		var cmd tea.Cmd
		p.border, cmd = p.border.Update(msg)
		return cmd
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	var cmd tea.Cmd
	switch {
	case p.picker.open:
		p.picker.filter, cmd = p.picker.filter.Update(msg)
	case p.session.Mode() == session.ModeRaw:
		p.raw, cmd = p.raw.Update(msg)
	case p.editing:
		p.lineInput, cmd = p.lineInput.Update(msg)
	}
	return cmd
}

func (p *editPanel) handleKey(key tea.KeyMsg) tea.Cmd {
	p.status = ""
	if p.picker.open {
		token, chosen, cmd := p.picker.Update(key)
		if chosen {
			p.insertMarker(token)
		}
		return cmd
	}
	switch key.Type {
	case tea.KeyCtrlS:
		return p.save()
	case tea.KeyTab:
		return p.switchMode()
	case tea.KeyEsc:
		if p.editing {
			p.stopEditing()
			p.refreshList()
			return nil
		}
		return p.discard()
	}
	if p.session.Mode() == session.ModeRaw {
		var cmd tea.Cmd
		p.raw, cmd = p.raw.Update(key)
		p.session.SetRawText(p.raw.Value())
		return cmd
	}
	return p.handleStructuredKey(key)
}

func (p *editPanel) handleStructuredKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyCtrlN:
		p.stopEditing()
		if _, ok := p.session.AddLine(); ok {
			p.status = "Line added."
		}
		p.refreshList()
		return p.drainScroll()
	case tea.KeyCtrlD:
		p.stopEditing()
		if !p.session.DeleteLine(p.session.Selected()) {
			p.status = "A script keeps at least one line."
		}
		p.refreshList()
		return nil
	case tea.KeyCtrlT:
		if line, ok := p.session.SelectedLine(); ok {
			next := line.Speaker.Opposite()
			p.session.UpdateLine(p.session.Selected(), session.Patch{Speaker: &next})
		}
		p.refreshList()
		return nil
	case tea.KeyCtrlE:
		if _, ok := p.session.SelectedLine(); !ok {
			return nil
		}
		return p.picker.Open()
	case tea.KeyUp:
		p.moveSelection(-1)
		return nil
	case tea.KeyDown:
		p.moveSelection(1)
		return nil
	case tea.KeyEnter:
		if p.editing {
			p.stopEditing()
			p.refreshList()
			return nil
		}
		return p.startEditing()
	}

	if !p.editing {
		switch key.String() {
		case "k":
			p.moveSelection(-1)
		case "j":
			p.moveSelection(1)
		}
		return nil
	}

	var cmd tea.Cmd
	p.lineInput, cmd = p.lineInput.Update(key)
	text := p.lineInput.Value()
	p.session.UpdateLine(p.session.Selected(), session.Patch{Text: &text})
	p.session.SetCursor(p.lineInput.Position())
	p.refreshList()
	return cmd
}

func (p *editPanel) moveSelection(delta int) {
	p.stopEditing()
	p.session.SelectLine(p.session.Selected() + delta)
	p.refreshList()
	if line, ok := p.session.SelectedLine(); ok {
		p.ensureVisible(line.ID)
	}
}

func (p *editPanel) startEditing() tea.Cmd {
	line, ok := p.session.SelectedLine()
	if !ok {
		return nil
	}
	p.lineInput.SetValue(line.Text)
	p.lineInput.CursorEnd()
	p.editing = true
	p.session.SetCursor(p.lineInput.Position())
	cmd := p.lineInput.Focus()
	p.refreshList()
	return cmd
}

func (p *editPanel) stopEditing() {
	p.editing = false
	p.lineInput.Blur()
}

func (p *editPanel) insertMarker(token string) {
	if !p.session.InsertMarker(token) {
		p.status = "Select a line before inserting a marker."
		return
	}
	if p.editing {
		line, _ := p.session.SelectedLine()
		p.lineInput.SetValue(line.Text)
		if pos, ok := p.session.Cursor(); ok {
			p.lineInput.SetCursor(pos)
		}
	}
	p.status = "Inserted " + token + "."
	p.refreshList()
}

func (p *editPanel) switchMode() tea.Cmd {
	p.stopEditing()
	p.picker.Close()
	if p.session.Mode() == session.ModeRaw {
		p.session.SetRawText(p.raw.Value())
	}
	if p.session.SwitchMode() == session.ModeRaw {
		p.raw.SetValue(p.session.RawText())
		return p.raw.Focus()
	}
	p.raw.Blur()
	p.refreshList()
	if line, ok := p.session.SelectedLine(); ok {
		p.ensureVisible(line.ID)
	}
	return nil
}

func (p *editPanel) save() tea.Cmd {
	lines := p.session.Save()
	p.shutdown()
	log.Printf("[editor] saved %d lines", len(lines))
	return func() tea.Msg {
		return editorSavedMsg{lines: lines}
	}
}

func (p *editPanel) discard() tea.Cmd {
	p.session.Close()
	p.shutdown()
	return func() tea.Msg {
		return editorClosedMsg{}
	}
}

func (p *editPanel) shutdown() {
	p.stopEditing()
	p.picker.Close()
	p.raw.Blur()
	p.border.Stop()
	p.pendingScroll = ""
}

func (p *editPanel) drainScroll() tea.Cmd {
	if p.pendingScroll == "" {
		return nil
	}
	id := p.pendingScroll
	p.pendingScroll = ""
	return tea.Tick(scrollSettleDelay, func(time.Time) tea.Msg {
		return scrollToLineMsg{id: id}
	})
}

// ScrollTo brings the line into view. Requests for a closed session or a
// line that no longer exists are dropped.
func (p *editPanel) ScrollTo(id string) bool {
	if p.session.Closed() || p.session.IndexOf(id) < 0 {
		return false
	}
	p.refreshList()
	p.ensureVisible(id)
	p.lastScrolled = id
	return true
}

func (p *editPanel) ensureVisible(id string) {
	row, ok := p.anchors[id]
	if !ok {
		return
	}
	switch {
	case row < p.list.YOffset:
		p.list.SetYOffset(row)
	case row+1 >= p.list.YOffset+p.list.Height:
		offset := row - p.list.Height + 2
		if offset < 0 {
			offset = 0
		}
		p.list.SetYOffset(offset)
	}
}

func (p *editPanel) refreshList() {
	if p.session.Mode() != session.ModeStructured {
		return
	}
	editing := ""
	if p.editing {
		editing = p.lineInput.View()
	}
	cb := &contentBuilder{}
	p.anchors = writeScriptLines(cb, p.session.Lines(), scriptRender{
		cast:     p.cast,
		width:    p.list.Width,
		selected: p.session.Selected(),
		editing:  editing,
	})
	p.list.SetContent(cb.String())
}

func (p *editPanel) helpText() string {
	switch {
	case p.picker.open:
		return "↑/↓ choose • Enter insert • Esc cancel"
	case p.session.Mode() == session.ModeRaw:
		return "Tab structured • Ctrl+S save • Esc discard"
	case p.editing:
		return "Enter done • Ctrl+E marker • Ctrl+S save • Esc stop editing"
	default:
		return "↑/↓ select • Enter edit • Ctrl+N add • Ctrl+D delete • Ctrl+T speaker • Ctrl+E marker • Tab raw • Ctrl+S save • Esc discard"
	}
}

func (p *editPanel) View() string {
	mode := strings.ToUpper(p.session.Mode().String())
	header := sectionHeaderStyle.Render("Edit Script") + "  " + modeBadgeStyle.Render(mode)
	var body string
	switch {
	case p.picker.open:
		body = p.picker.View(p.list.Height)
	case p.session.Mode() == session.ModeRaw:
		body = p.raw.View()
	default:
		body = p.list.View()
	}
	parts := []string{header, body, helperStyle.Render(wordwrap.String(p.helpText(), p.list.Width))}
	if p.status != "" {
		parts = append(parts, statusLineStyle.Render(p.status))
	}
	return p.border.View(strings.Join(parts, "\n"))
}
