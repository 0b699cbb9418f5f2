package tui

import (
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var lastBorderID int64

// animatedBorder draws a rounded frame whose lit segment walks clockwise
// around the perimeter, one cell per tick.
type animatedBorder struct {
	id       int
	tag      int
	frame    int
	interval time.Duration
	active   bool
}

func newAnimatedBorder(interval time.Duration) animatedBorder {
	if interval <= 0 {
		interval = 90 * time.Millisecond
	}
	return animatedBorder{
		id:       int(atomic.AddInt64(&lastBorderID, 1)),
		interval: interval,
	}
}

// Start animates the border. Ticks from an earlier Start are ignored.
func (b *animatedBorder) Start() tea.Cmd {
	b.active = true
	b.tag++
	return b.Tick()
}

func (b *animatedBorder) Stop() {
	b.active = false
}

func (b animatedBorder) Active() bool {
	return b.active
}

func (b animatedBorder) Tick() tea.Cmd {
	if !b.active {
		return nil
	}
	id, tag := b.id, b.tag
	return tea.Tick(b.interval, func(time.Time) tea.Msg {
		return borderTickMsg{id: id, tag: tag}
	})
}

func (b animatedBorder) Update(msg tea.Msg) (animatedBorder, tea.Cmd) {
	tick, ok := msg.(borderTickMsg)
	if !ok || tick.id != b.id || tick.tag != b.tag || !b.active {
		return b, nil
	}
	b.frame++
	return b, b.Tick()
}

func (b animatedBorder) View(content string) string {
	lines := strings.Split(content, "\n")
	width := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > width {
			width = w
		}
	}
	inner := width + 2
	perimeter := 2*(inner+2) + 2*len(lines)
	glyph := func(idx int, r string) string {
		if b.lit(idx, perimeter) {
			return borderLitStyle.Render(r)
		}
		return borderBaseStyle.Render(r)
	}

	rows := make([]string, 0, len(lines)+2)

	var top strings.Builder
	top.WriteString(glyph(0, "╭"))
	for x := 1; x <= inner; x++ {
		top.WriteString(glyph(x, "─"))
	}
	top.WriteString(glyph(inner+1, "╮"))
	rows = append(rows, top.String())

	rightStart := inner + 2
	leftStart := rightStart + len(lines) + inner + 2
	for y, line := range lines {
		pad := strings.Repeat(" ", width-lipgloss.Width(line))
		left := glyph(leftStart+len(lines)-1-y, "│")
		right := glyph(rightStart+y, "│")
		rows = append(rows, left+" "+line+pad+" "+right)
	}

	bottomStart := rightStart + len(lines)
	var bottom strings.Builder
	bottom.WriteString(glyph(bottomStart+inner+1, "╰"))
	for x := 1; x <= inner; x++ {
		bottom.WriteString(glyph(bottomStart+inner+1-x, "─"))
	}
	bottom.WriteString(glyph(bottomStart, "╯"))
	rows = append(rows, bottom.String())

	return strings.Join(rows, "\n")
}

func (b animatedBorder) lit(idx, perimeter int) bool {
	if !b.active || perimeter == 0 {
		return false
	}
	segment := perimeter / 5
	if segment < 1 {
		segment = 1
	}
	start := b.frame % perimeter
	offset := (idx - start + perimeter) % perimeter
	return offset < segment
}
