package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/podscript/internal/script"
)

// pageLayout splits the window between the script preview and the edit
// panel. contentWidth is used when the panel is closed.
type pageLayout struct {
	windowWidth    int
	windowHeight   int
	contentWidth   int
	previewWidth   int
	panelWidth     int
	viewportHeight int
	panelHeight    int
}

func newPageLayout() pageLayout {
	return pageLayout{
		contentWidth:   80,
		previewWidth:   44,
		panelWidth:     minPanelWidth,
		viewportHeight: 20,
		panelHeight:    20,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	inner := width - viewportHorizontalPadding
	if inner < minViewportWidth {
		inner = minViewportWidth
	}
	l.contentWidth = inner

	panel := inner * 9 / 20
	if panel < minPanelWidth {
		panel = minPanelWidth
	}
	preview := inner - panel - panelGap
	if preview < minViewportWidth {
		preview = minViewportWidth
	}
	l.panelWidth = panel
	l.previewWidth = preview

	usable := height - layoutChrome
	if usable < minViewportHeight {
		usable = minViewportHeight
	}
	l.viewportHeight = usable
	l.panelHeight = usable
}

func (l pageLayout) previewWidthFor(panelOpen bool) int {
	if panelOpen {
		return l.previewWidth
	}
	return l.contentWidth
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// scriptRender controls how writeScriptLines draws a script.
type scriptRender struct {
	cast     script.Cast
	width    int
	selected int
	// editing replaces the selected line's body, eg. with a focused input.
	editing string
}

// writeScriptLines renders one block per line and returns the row each line
// starts on, keyed by line ID.
func writeScriptLines(cb *contentBuilder, lines []script.Line, opts scriptRender) map[string]int {
	anchors := make(map[string]int, len(lines))
	wrap := opts.width - 4
	if wrap < 20 {
		wrap = 20
	}
	for idx, line := range lines {
		if idx > 0 {
			cb.WriteRune('\n')
		}
		anchors[line.ID] = cb.Line()
		label := speakerStyle(line.Speaker).Render(opts.cast.Name(line.Speaker))
		marker := "  "
		if idx == opts.selected {
			marker = selectionMarkerStyle.Render("▸ ")
		}
		cb.WriteString(marker + label)
		cb.WriteRune('\n')
		switch {
		case idx == opts.selected && opts.editing != "":
			cb.WriteString(indentMultiline(opts.editing, "    "))
		case strings.TrimSpace(line.Text) == "":
			cb.WriteString(helperStyle.Render("    (empty line)"))
		default:
			body := highlightMarkers(wordwrap.String(line.Text, wrap))
			if idx == opts.selected {
				body = currentLineStyle.Render(body)
			}
			cb.WriteString(indentMultiline(body, "    "))
		}
		cb.WriteRune('\n')
	}
	return anchors
}

func (m *model) buildScriptContent() string {
	cb := &contentBuilder{}
	if len(m.lines) == 0 {
		cb.WriteString(sectionHeaderStyle.Render("No script loaded"))
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render("Paste an article URL and press Enter to draft one, or press Ctrl+N for a blank script."))
		cb.WriteRune('\n')
		return cb.String()
	}
	cb.WriteString(sectionHeaderStyle.Render("Script Preview"))
	cb.WriteRune('\n')
	cb.WriteRune('\n')
	writeScriptLines(cb, m.lines, scriptRender{
		cast:     m.codec.Cast(),
		width:    m.viewport.Width,
		selected: -1,
	})
	return cb.String()
}

func highlightMarkers(text string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(text, '[')
		if start < 0 {
			break
		}
		end := strings.IndexByte(text[start:], ']')
		if end < 0 {
			break
		}
		end += start + 1
		b.WriteString(text[:start])
		b.WriteString(markerTokenStyle.Render(text[start:end]))
		text = text[end:]
	}
	b.WriteString(text)
	return b.String()
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
