package tui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/podscript/internal/config"
	"github.com/csheth/podscript/internal/library"
	"github.com/csheth/podscript/internal/llm"
	"github.com/csheth/podscript/internal/markers"
	"github.com/csheth/podscript/internal/script"
	"github.com/csheth/podscript/internal/source"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Settings config.Config
	LLM      llm.Client
	Fetcher  *source.Fetcher

	// Script seeds the preview, eg. from an imported transcript or a saved
	// library entry. EntryID is set when the script came from the library.
	Script    []script.Line
	Title     string
	SourceURL string
	EntryID   string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(cfg Config) tea.Model {
	cast := cfg.Settings.Cast
	if cast.Validate() != nil {
		cast = script.DefaultCast
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:        cfg,
		stage:         stageInput,
		jobs:          newJobBus(),
		layout:        newPageLayout(),
		urlInput:      newURLInput(cfg.Settings.BorderInterval),
		spinner:       spin,
		viewport:      vp,
		codec:         script.NewCodec(cast),
		palette:       cfg.Settings.Palette(),
		runningJobs:   map[string]jobSnapshot{},
		viewportDirty: true,
		infoMessage:   "Paste an article URL to draft a script, or press Ctrl+N for a blank one.",
	}
	m.urlInput.Focus()
	if len(cfg.Script) > 0 {
		m.lines = script.Clone(cfg.Script)
		m.title = cfg.Title
		m.sourceURL = cfg.SourceURL
		m.entryID = cfg.EntryID
		m.dirty = cfg.EntryID == ""
		m.urlInput.Blur()
		m.stage = stageDisplay
		m.infoMessage = fmt.Sprintf("Loaded %d lines. Press e to edit, s to save.", len(m.lines))
	}
	return m
}

type model struct {
	config Config
	stage  stage
	jobs   *jobBus
	layout pageLayout

	urlInput urlInput
	spinner  spinner.Model
	viewport viewport.Model
	editor   *editPanel
	browser  libraryBrowser

	codec   *script.Codec
	palette markers.Palette

	lines     []script.Line
	title     string
	sourceURL string
	entryID   string
	dirty     bool

	returnStage   stage
	runningJobs   map[string]jobSnapshot
	lastJob       jobSnapshot
	viewportDirty bool
	helpVisible   bool
	infoMessage   string
	errorMessage  string
}

func (m *model) Init() tea.Cmd {
	if m.stage == stageInput {
		return tea.Batch(textinput.Blink, m.urlInput.border.Tick())
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		if m.stage == stageLoading || m.stage == stageSaving || m.browser.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case borderTickMsg:
		cmds := []tea.Cmd{m.urlInput.Update(msg)}
		if m.editor != nil {
			cmds = append(cmds, m.editor.Update(msg))
		}
		return m, tea.Batch(cmds...)
	case clipboardMsg:
		return m, m.urlInput.Update(msg)
	case jobSignalMsg:
		m.runningJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.runningJobs, msg.Snapshot.ID)
		m.lastJob = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case draftResultMsg:
		return m.handleDraftResult(msg)
	case saveResultMsg:
		return m.handleSaveResult(msg)
	case libraryLoadedMsg:
		m.browser.loading = false
		if msg.err != nil {
			m.browser.err = msg.err.Error()
			return m, nil
		}
		m.browser.SetEntries(msg.entries)
		return m, nil
	case editorSavedMsg:
		m.editor = nil
		m.stage = stageDisplay
		if len(msg.lines) == 0 {
			m.errorMessage = "The edited script has no lines; keeping the previous version."
			m.resizeViewport()
			return m, nil
		}
		m.lines = msg.lines
		m.dirty = true
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Script updated (%d lines). Press s to save it to the library.", len(m.lines))
		m.resizeViewport()
		return m, nil
	case editorClosedMsg:
		m.editor = nil
		m.stage = stageDisplay
		m.infoMessage = "Edits discarded."
		m.resizeViewport()
		return m, nil
	case scrollToLineMsg:
		if m.editor == nil || !m.editor.ScrollTo(msg.id) {
			log.Printf("[editor] dropped scroll request for %s", msg.id)
		}
		return m, nil
	case tea.MouseMsg:
		if m.stage == stageDisplay || m.stage == stageEditor {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.jobs.Shutdown()
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	switch m.stage {
	case stageInput:
		return m, m.urlInput.Update(msg)
	case stageEditor:
		if m.editor != nil {
			return m, m.editor.Update(msg)
		}
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageInput:
		return m.handleInputKey(key)
	case stageDisplay:
		return m.handleDisplayKey(key)
	case stageEditor:
		if m.editor == nil {
			m.stage = stageDisplay
			return m, nil
		}
		cmd := m.editor.Update(key)
		m.layoutEditor()
		return m, cmd
	case stageLibrary:
		return m.handleLibraryKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleInputKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		return m, m.submitURL()
	case tea.KeyCtrlN:
		return m, m.startBlankScript()
	case tea.KeyCtrlL:
		return m, m.openLibrary()
	case tea.KeyEsc:
		if len(m.lines) > 0 {
			m.urlInput.Blur()
			m.stage = stageDisplay
			m.errorMessage = ""
			return m, nil
		}
		m.jobs.Shutdown()
		return m, tea.Quit
	}
	return m, m.urlInput.Update(key)
}

func (m *model) handleDisplayKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "e", "enter":
		return m, m.openEditor()
	case "s":
		return m, m.saveScript()
	case "l":
		return m, m.openLibrary()
	case "r":
		m.stage = stageInput
		m.urlInput.Reset()
		m.errorMessage = ""
		m.infoMessage = "Paste an article URL to draft a new script."
		return m, m.urlInput.Focus()
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "g":
		m.viewport.GotoTop()
		return m, nil
	case "G":
		m.viewport.GotoBottom()
		return m, nil
	case "q", "esc":
		m.jobs.Shutdown()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) handleLibraryKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.browser.Move(-1)
	case "down", "j":
		m.browser.Move(1)
	case "enter":
		if entry, ok := m.browser.Selected(); ok {
			m.loadEntry(entry)
		}
	case "d", "delete":
		entry, ok := m.browser.Selected()
		if !ok || m.browser.loading {
			return m, nil
		}
		m.browser.loading = true
		if entry.ID == m.entryID {
			m.entryID = ""
			m.dirty = true
		}
		return m, tea.Batch(m.jobs.Start(jobKindDelete, deleteEntryJob(m.config.Settings.LibraryPath, entry.ID)), m.spinner.Tick)
	case "esc", "q":
		m.stage = m.returnStage
		if m.stage == stageInput {
			return m, m.urlInput.Focus()
		}
	}
	return m, nil
}

func (m *model) submitURL() tea.Cmd {
	url, err := m.urlInput.Validate()
	if err != nil {
		m.errorMessage = "Enter an http(s) URL to draft from."
		return nil
	}
	if m.config.LLM == nil {
		m.errorMessage = errNoDraftBackend.Error()
		return nil
	}
	m.errorMessage = ""
	m.urlInput.Blur()
	m.stage = stageLoading
	m.infoMessage = fmt.Sprintf("Drafting a script from %s with %s…", url, m.config.LLM.Name())
	job := draftScriptJob(url, m.config.Fetcher, m.config.LLM, m.codec, m.palette)
	return tea.Batch(m.jobs.Start(jobKindDraft, job), m.spinner.Tick)
}

func (m *model) handleDraftResult(msg draftResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.stage = stageInput
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Try another URL, or press Ctrl+N for a blank script."
		return m, m.urlInput.Focus()
	}
	m.lines = msg.lines
	m.title = msg.title
	if strings.TrimSpace(m.title) == "" {
		m.title = msg.url
	}
	m.sourceURL = msg.url
	m.entryID = ""
	m.dirty = true
	m.stage = stageDisplay
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Drafted %d lines from %s. Press e to edit, s to save.", len(m.lines), trimmedTitle(m.title))
	m.urlInput.Reset()
	m.viewport.GotoTop()
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleSaveResult(msg saveResultMsg) (tea.Model, tea.Cmd) {
	m.stage = stageDisplay
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Saving failed. Retry with s."
		return m, nil
	}
	m.entryID = msg.entry.ID
	m.dirty = false
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Saved %q to %s.", trimmedTitle(msg.entry.Title), m.config.Settings.LibraryPath)
	return m, nil
}

func (m *model) startBlankScript() tea.Cmd {
	m.lines = []script.Line{script.NewLine(script.SpeakerA, "")}
	m.title = "Untitled script"
	m.sourceURL = ""
	m.entryID = ""
	m.dirty = true
	m.urlInput.Blur()
	open := m.openEditor()
	m.editor.switchMode()
	return tea.Batch(open, m.editor.startEditing())
}

func (m *model) openEditor() tea.Cmd {
	if len(m.lines) == 0 {
		return nil
	}
	m.editor = newEditPanel(m.lines, m.codec, m.palette, m.config.Settings.BorderInterval)
	m.stage = stageEditor
	m.errorMessage = ""
	m.infoMessage = "Editing. Tab switches raw and structured views, Ctrl+S applies, Esc discards."
	m.resizeViewport()
	return m.editor.Init()
}

func (m *model) saveScript() tea.Cmd {
	if len(m.lines) == 0 {
		return nil
	}
	m.stage = stageSaving
	m.errorMessage = ""
	m.infoMessage = "Saving to the library…"
	entry := library.Entry{
		ID:        m.entryID,
		Title:     m.title,
		SourceURL: m.sourceURL,
		Cast:      m.codec.Cast(),
		Lines:     m.lines,
	}
	return tea.Batch(m.jobs.Start(jobKindSave, saveScriptJob(m.config.Settings.LibraryPath, entry)), m.spinner.Tick)
}

func (m *model) openLibrary() tea.Cmd {
	m.returnStage = m.stage
	if m.stage == stageInput {
		m.urlInput.Blur()
	}
	m.stage = stageLibrary
	m.browser.loading = true
	m.browser.err = ""
	return tea.Batch(m.jobs.Start(jobKindLibrary, loadLibraryJob(m.config.Settings.LibraryPath)), m.spinner.Tick)
}

func (m *model) loadEntry(entry library.Entry) {
	cast := entry.Cast
	if cast.Validate() != nil {
		cast = m.codec.Cast()
	}
	m.codec = script.NewCodec(cast)
	m.lines = script.Clone(entry.Lines)
	m.title = entry.Title
	m.sourceURL = entry.SourceURL
	m.entryID = entry.ID
	m.dirty = false
	m.stage = stageDisplay
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Opened %q (%d lines).", trimmedTitle(entry.Title), len(entry.Lines))
	m.viewport.GotoTop()
	m.markViewportDirty()
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.urlInput.SetWidth(m.layout.contentWidth)
	m.resizeViewport()
}

func (m *model) resizeViewport() {
	m.viewport.Width = m.layout.previewWidthFor(m.editor != nil)
	m.viewport.Height = m.layout.viewportHeight
	m.layoutEditor()
	m.markViewportDirty()
}

func (m *model) layoutEditor() {
	if m.editor == nil {
		return
	}
	if m.editor.width != m.layout.panelWidth || m.editor.height != m.layout.panelHeight {
		m.editor.SetSize(m.layout.panelWidth, m.layout.panelHeight)
	}
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewport.SetContent(m.buildScriptContent())
	m.viewportDirty = false
}

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusLineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Italic(true)

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#fff4d0")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	speakerAColor = lipgloss.Color("#ffd166")
	speakerBColor = lipgloss.Color("#8ecae6")

	heroTitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	heroBoxStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Background(heroEmberColor).Padding(1, 2)
	heroSummaryStyle     = lipgloss.NewStyle().PaddingLeft(2)
	taglineStyle         = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle             = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	helpBoxStyle         = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	currentLineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	selectionMarkerStyle = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	speakerAStyle        = lipgloss.NewStyle().Bold(true).Foreground(speakerAColor)
	speakerBStyle        = lipgloss.NewStyle().Bold(true).Foreground(speakerBColor)
	markerTokenStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#c792ea")).Italic(true)
	modeBadgeStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(heroSecondaryTextColor).Padding(0, 1)
	borderBaseStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#56526e"))
	borderLitStyle       = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	logoFaceStyle        = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	logoContainerStyle   = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines         = []string{
		"██████╗    ██████╗   ██████╗   ███████╗   ██████╗  ██████╗   ██╗  ██████╗   ████████╗  ",
		"██╔══██╗  ██╔═══██╗  ██╔══██╗  ██╔════╝  ██╔════╝  ██╔══██╗  ██║  ██╔══██╗  ╚══██╔══╝  ",
		"██████╔╝  ██║   ██║  ██║  ██║  ███████╗  ██║       ██████╔╝  ██║  ██████╔╝     ██║     ",
		"██╔═══╝   ██║   ██║  ██║  ██║  ╚════██║  ██║       ██╔══██╗  ██║  ██╔═══╝      ██║     ",
		"██║       ╚██████╔╝  ██████╔╝  ███████║  ╚██████╗  ██║  ██║  ██║  ██║          ██║     ",
		"╚═╝        ╚═════╝   ╚═════╝   ╚══════╝   ╚═════╝  ╚═╝  ╚═╝  ╚═╝  ╚═╝          ╚═╝     ",
	}
)

func speakerStyle(s script.Speaker) lipgloss.Style {
	if s == script.SpeakerB {
		return speakerBStyle
	}
	return speakerAStyle
}
