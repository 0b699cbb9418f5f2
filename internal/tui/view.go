package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

func (m *model) View() string {
	switch m.stage {
	case stageInput:
		return m.viewInput()
	case stageLibrary:
		return m.viewLibrary()
	case stageLoading, stageDisplay, stageEditor, stageSaving:
		return m.viewDisplay()
	default:
		return ""
	}
}

func (m *model) viewInput() string {
	panel := joinNonEmpty([]string{
		sectionHeaderStyle.Render("Draft From An Article"),
		m.urlInput.View(),
		helperStyle.Render("Enter: draft • Ctrl+V: paste • Ctrl+N: blank script • Ctrl+L: library • Esc: back"),
	})
	return joinNonEmpty([]string{m.heroView(), panel, m.messagesView(), m.footerView()})
}

func (m *model) viewDisplay() string {
	m.refreshViewportIfDirty()
	body := m.viewport.View()
	if m.stage == stageEditor && m.editor != nil {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, strings.Repeat(" ", panelGap), m.editor.View())
	}
	parts := []string{m.heroView(), body, m.messagesView()}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView(), m.helpView())
	}
	parts = append(parts, m.footerView())
	return joinNonEmpty(parts)
}

func (m *model) viewLibrary() string {
	body := m.browser.View(m.layout.contentWidth, m.layout.viewportHeight)
	help := helperStyle.Render("↑/↓: choose • Enter: open • d: delete • Esc: back")
	return joinNonEmpty([]string{m.heroView(), body, help, m.messagesView(), m.footerView()})
}

func (m *model) messagesView() string {
	var parts []string
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.stage == stageLoading || m.stage == stageSaving || (m.stage == stageLibrary && m.browser.loading) {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	return strings.Join(parts, "\n")
}

func (m *model) footerView() string {
	return m.sessionMeterView()
}

func (m *model) heroView() string {
	logo := renderLogo()
	if len(m.lines) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			logo,
			taglineStyle.Render(heroTagline),
		)
	}

	title := m.title
	if strings.TrimSpace(title) == "" {
		title = "Untitled script"
	}
	cast := m.codec.Cast()
	meta := []string{helperStyle.Render(fmt.Sprintf("Hosts: %s & %s", cast.A, cast.B))}
	if m.sourceURL != "" {
		meta = append(meta, helperStyle.Render("Source: "+previewText(m.sourceURL, 48)))
	}
	if m.entryID != "" {
		meta = append(meta, helperStyle.Render("Library ID: "+m.entryID))
	}
	content := strings.Join(append([]string{heroTitleStyle.Render(wordwrap.String(title, 48))}, meta...), "\n")
	summary := heroBoxStyle.Render(content)
	panel := lipgloss.JoinHorizontal(lipgloss.Top, logo, heroSummaryStyle.Render(summary))
	return lipgloss.JoinVertical(lipgloss.Left, panel, taglineStyle.Render(heroTagline))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func (m *model) stageLabel() string {
	switch m.stage {
	case stageInput:
		return "URL"
	case stageLoading:
		return "DRAFTING"
	case stageEditor:
		if m.editor != nil {
			return "EDIT " + strings.ToUpper(m.editor.Mode().String())
		}
		return "EDIT"
	case stageLibrary:
		return "LIBRARY"
	case stageSaving:
		return "SAVING"
	default:
		return "PREVIEW"
	}
}

func (m *model) sessionMeterView() string {
	cast := m.codec.Cast()
	stats := []string{
		m.stageLabel(),
		fmt.Sprintf("Lines %d", len(m.lines)),
		fmt.Sprintf("Cast %s & %s", cast.A, cast.B),
	}
	switch {
	case len(m.lines) == 0:
	case m.dirty:
		stats = append(stats, "Unsaved")
	default:
		stats = append(stats, "Saved")
	}
	if m.config.LLM != nil {
		stats = append(stats, m.config.LLM.Name())
	} else {
		stats = append(stats, "LLM off")
	}
	stats = append(stats, m.jobStatusBadges()...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	ids := make([]string, 0, len(m.runningJobs))
	for id := range m.runningJobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	badges := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		badges = append(badges, fmt.Sprintf("%s…", m.runningJobs[id].Kind))
	}
	if m.lastJob.Status == jobStatusFailed {
		badges = append(badges, fmt.Sprintf("%s failed", m.lastJob.Kind))
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"↑/↓", "Scroll"},
		{"g/G", "Top or bottom"},
		{"e", "Edit script"},
		{"s", "Save to library"},
		{"l", "Open library"},
		{"r", "Draft from URL"},
		{"?", "Toggle cheatsheet"},
		{"q", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Navigation Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) helpView() string {
	lines := []string{
		sectionHeaderStyle.Render("Edit Panel"),
		helperStyle.Render("• press e to open the panel; Tab flips between the raw transcript and the line list."),
		helperStyle.Render("• in the list, Enter edits a line, Ctrl+N adds one, Ctrl+D deletes, Ctrl+T swaps the speaker."),
		helperStyle.Render("• Ctrl+E opens the marker picker; markers go where the cursor sits, or at the end of the line."),
		helperStyle.Render("• Ctrl+S applies your edits to the preview, Esc throws them away."),
		helperStyle.Render("• press s to save the script to the library and l to browse saved scripts."),
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width += 1
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			if y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}

	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			grid[y][x] = cell{r: r, style: logoFaceStyle}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
