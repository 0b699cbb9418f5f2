package tui

import (
	"fmt"
	"strings"

	"github.com/csheth/podscript/internal/library"
)

type libraryBrowser struct {
	entries []library.Entry
	cursor  int
	loading bool
	err     string
}

func (b *libraryBrowser) SetEntries(entries []library.Entry) {
	b.entries = entries
	b.loading = false
	b.err = ""
	if b.cursor >= len(entries) {
		b.cursor = len(entries) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

func (b *libraryBrowser) Move(delta int) {
	next := b.cursor + delta
	if next < 0 || next >= len(b.entries) {
		return
	}
	b.cursor = next
}

func (b *libraryBrowser) Selected() (library.Entry, bool) {
	if b.cursor < 0 || b.cursor >= len(b.entries) {
		return library.Entry{}, false
	}
	return b.entries[b.cursor], true
}

func (b *libraryBrowser) View(width, height int) string {
	var cb contentBuilder
	cb.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("Library (%d)", len(b.entries))))
	cb.WriteRune('\n')
	switch {
	case b.loading:
		cb.WriteString(helperStyle.Render("Loading saved scripts…"))
		return cb.String()
	case b.err != "":
		cb.WriteString(errorStyle.Render(b.err))
		return cb.String()
	case len(b.entries) == 0:
		cb.WriteString(helperStyle.Render("No saved scripts yet. Press s on a script to save it."))
		return cb.String()
	}
	rows := height - 1
	if rows < 1 {
		rows = 1
	}
	first := 0
	if b.cursor >= rows {
		first = b.cursor - rows + 1
	}
	titleWidth := width - 30
	if titleWidth < 16 {
		titleWidth = 16
	}
	for idx := first; idx < len(b.entries) && idx < first+rows; idx++ {
		entry := b.entries[idx]
		title := entry.Title
		if strings.TrimSpace(title) == "" {
			title = "Untitled script"
		}
		row := fmt.Sprintf("%-*s %3d lines  %s", titleWidth, previewText(title, titleWidth-1), len(entry.Lines), entry.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if idx == b.cursor {
			cb.WriteString(currentLineStyle.Render("▸ " + row))
		} else {
			cb.WriteString("  " + row)
		}
		if idx < len(b.entries)-1 && idx < first+rows-1 {
			cb.WriteRune('\n')
		}
	}
	return cb.String()
}
