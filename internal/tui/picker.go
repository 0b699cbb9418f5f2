package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/podscript/internal/markers"
)

type markerPicker struct {
	palette markers.Palette
	filter  textinput.Model
	matches []markers.Marker
	cursor  int
	open    bool
}

func newMarkerPicker(palette markers.Palette) markerPicker {
	filter := textinput.New()
	filter.Placeholder = pickerFilterHolder
	filter.Prompt = "/ "
	filter.CharLimit = 40
	filter.Width = 24
	return markerPicker{palette: palette, filter: filter}
}

func (p *markerPicker) Open() tea.Cmd {
	p.open = true
	p.cursor = 0
	p.filter.SetValue("")
	p.matches = p.palette.Items()
	return p.filter.Focus()
}

func (p *markerPicker) Close() {
	p.open = false
	p.filter.Blur()
}

// Update returns the chosen token once enter is pressed on a match.
func (p *markerPicker) Update(key tea.KeyMsg) (string, bool, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		p.Close()
		return "", false, nil
	case tea.KeyUp:
		if p.cursor > 0 {
			p.cursor--
		}
		return "", false, nil
	case tea.KeyDown:
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}
		return "", false, nil
	case tea.KeyEnter:
		if len(p.matches) == 0 {
			return "", false, nil
		}
		token := p.matches[p.cursor].Token
		p.Close()
		return token, true, nil
	}
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(key)
	p.matches = p.palette.Filter(p.filter.Value())
	if p.cursor >= len(p.matches) {
		p.cursor = len(p.matches) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	return "", false, cmd
}

func (p *markerPicker) View(height int) string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Insert Marker"))
	b.WriteRune('\n')
	b.WriteString(p.filter.View())
	b.WriteRune('\n')
	if len(p.matches) == 0 {
		b.WriteString(helperStyle.Render("No markers match this filter."))
		return b.String()
	}
	rows := height - 2
	if rows < 1 {
		rows = 1
	}
	first := 0
	if p.cursor >= rows {
		first = p.cursor - rows + 1
	}
	for idx := first; idx < len(p.matches) && idx < first+rows; idx++ {
		item := p.matches[idx]
		row := fmt.Sprintf("  %-10s %s", item.Label, markerTokenStyle.Render(item.Token))
		if idx == p.cursor {
			row = currentLineStyle.Render(fmt.Sprintf("▸ %-10s %s", item.Label, item.Token))
		}
		b.WriteString(row)
		if idx < len(p.matches)-1 && idx < first+rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}
