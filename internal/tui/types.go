package tui

import (
	"time"

	"github.com/csheth/podscript/internal/library"
	"github.com/csheth/podscript/internal/script"
)

type stage int

const (
	stageInput stage = iota
	stageLoading
	stageDisplay
	stageEditor
	stageLibrary
	stageSaving
)

const heroTagline = "Draft, edit, and voice two-host scripts with Podscript."

const (
	minViewportWidth          = 40
	minPanelWidth             = 36
	viewportHorizontalPadding = 4
	panelGap                  = 2
	layoutChrome              = 16
	minViewportHeight         = 6
	panelChrome               = 7
	minPanelBodyHeight        = 3
)

const (
	// scrollSettleDelay lets the panel re-render the new line before the
	// list is scrolled to it.
	scrollSettleDelay = 40 * time.Millisecond
	draftTimeout      = 4 * time.Minute
)

const (
	urlPlaceholder       = "https://example.com/article-to-discuss"
	manualURLHint        = "Clipboard unavailable. Type or paste the URL with your terminal, then press Enter."
	pickerFilterHolder   = "Filter markers…"
	rawEditorPlaceholder = "%s: Welcome back to the show!\n\n%s: Glad to be here."
)

type draftResultMsg struct {
	url   string
	title string
	lines []script.Line
	err   error
}

type saveResultMsg struct {
	entry library.Entry
	err   error
}

type libraryLoadedMsg struct {
	entries []library.Entry
	err     error
}

type clipboardMsg struct {
	text string
	err  error
}

type borderTickMsg struct {
	id  int
	tag int
}

// scrollToLineMsg asks the edit panel to bring a line into view. It is
// ignored once the panel's session is closed or the line is gone.
type scrollToLineMsg struct {
	id string
}

type editorSavedMsg struct {
	lines []script.Line
}

type editorClosedMsg struct{}
