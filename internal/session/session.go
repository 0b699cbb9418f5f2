// Package session holds the editing state behind the script edit panel.
//
// A Session is single-threaded: the TUI drives it from its Update loop and
// every operation completes synchronously. Invalid requests (bad index,
// deleting the only line, inserting without a selection) leave the state
// unchanged instead of failing.
package session

import (
	"unicode/utf8"

	"github.com/csheth/podscript/internal/script"
)

// Mode is the active representation being edited.
type Mode int

const (
	ModeRaw Mode = iota
	ModeStructured
)

func (m Mode) String() string {
	if m == ModeStructured {
		return "structured"
	}
	return "raw"
}

const noCursor = -1

// ScrollFunc is told which line should be brought into view. It is fire and
// forget; the receiver must tolerate IDs that no longer exist.
type ScrollFunc func(lineID string)

// Option customises Open.
type Option func(*Session)

// WithCodec swaps the default-cast codec.
func WithCodec(codec *script.Codec) Option {
	return func(s *Session) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithScrollFunc registers the scroll request receiver used by AddLine.
func WithScrollFunc(fn ScrollFunc) Option {
	return func(s *Session) {
		s.onScroll = fn
	}
}

// Patch carries the fields UpdateLine merges into a line. Nil fields are kept.
type Patch struct {
	Speaker *script.Speaker
	Text    *string
}

// Session is the transient state of one open edit panel.
type Session struct {
	mode     Mode
	raw      string
	lines    []script.Line
	selected int
	cursor   int
	closed   bool

	codec    *script.Codec
	onScroll ScrollFunc
}

// Open starts a session in raw mode seeded from lines.
func Open(lines []script.Line, opts ...Option) *Session {
	s := &Session{
		mode:   ModeRaw,
		lines:  script.Clone(lines),
		cursor: noCursor,
		codec:  script.NewCodec(script.DefaultCast),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.raw = s.codec.Encode(s.lines)
	return s
}

func (s *Session) Mode() Mode        { return s.mode }
func (s *Session) RawText() string   { return s.raw }
func (s *Session) Len() int          { return len(s.lines) }
func (s *Session) Selected() int     { return s.selected }
func (s *Session) Closed() bool      { return s.closed }
func (s *Session) Cast() script.Cast { return s.codec.Cast() }

// Lines returns a copy of the structured list.
func (s *Session) Lines() []script.Line {
	return script.Clone(s.lines)
}

// Line returns the line at index i.
func (s *Session) Line(i int) (script.Line, bool) {
	if i < 0 || i >= len(s.lines) {
		return script.Line{}, false
	}
	return s.lines[i], true
}

// SelectedLine returns the selected line when the selection is valid.
func (s *Session) SelectedLine() (script.Line, bool) {
	return s.Line(s.selected)
}

// IndexOf finds a line by ID.
func (s *Session) IndexOf(id string) int {
	for i, line := range s.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

// Cursor reports the insertion offset (in runes) inside the selected line.
func (s *Session) Cursor() (int, bool) {
	if s.cursor == noCursor {
		return 0, false
	}
	return s.cursor, true
}

func (s *Session) editable() bool {
	return !s.closed && s.mode == ModeStructured
}

// SwitchMode flips between raw and structured editing. Entering structured
// mode re-parses the raw text; a parse with no usable lines keeps the list.
func (s *Session) SwitchMode() Mode {
	if s.closed {
		return s.mode
	}
	switch s.mode {
	case ModeRaw:
		s.lines = s.codec.Decode(s.raw, s.lines)
		s.mode = ModeStructured
		s.clampSelection()
	case ModeStructured:
		s.raw = s.codec.Encode(s.lines)
		s.mode = ModeRaw
	}
	s.cursor = noCursor
	return s.mode
}

// SetRawText records an edit of the raw transcript.
func (s *Session) SetRawText(text string) {
	if s.closed || s.mode != ModeRaw {
		return
	}
	s.raw = text
}

// SelectLine moves the selection. The cursor is dropped when the selected
// line changes because it pointed into the previous line's text.
func (s *Session) SelectLine(i int) {
	if !s.editable() || i < 0 || i >= len(s.lines) {
		return
	}
	if i != s.selected {
		s.cursor = noCursor
	}
	s.selected = i
}

// UpdateLine merges patch into the line at i.
func (s *Session) UpdateLine(i int, patch Patch) {
	if !s.editable() || i < 0 || i >= len(s.lines) {
		return
	}
	line := &s.lines[i]
	if patch.Speaker != nil && patch.Speaker.Valid() {
		line.Speaker = *patch.Speaker
	}
	if patch.Text != nil {
		line.Text = *patch.Text
		if i == s.selected && s.cursor > utf8.RuneCountInString(line.Text) {
			s.cursor = noCursor
		}
	}
}

// DeleteLine removes the line at i unless it is the only one left.
func (s *Session) DeleteLine(i int) bool {
	if !s.editable() || i < 0 || i >= len(s.lines) || len(s.lines) <= 1 {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	if s.selected >= i && s.selected > 0 {
		s.selected--
	}
	s.clampSelection()
	s.cursor = noCursor
	return true
}

// AddLine appends an empty line spoken by the other host, selects it, and
// asks the view to scroll to it.
func (s *Session) AddLine() (script.Line, bool) {
	if !s.editable() {
		return script.Line{}, false
	}
	speaker := script.SpeakerA
	if n := len(s.lines); n > 0 {
		speaker = s.lines[n-1].Speaker.Opposite()
	}
	line := script.NewLine(speaker, "")
	s.lines = append(s.lines, line)
	s.selected = len(s.lines) - 1
	s.cursor = noCursor
	if s.onScroll != nil {
		s.onScroll(line.ID)
	}
	return line, true
}

// SetCursor records where markers go in the selected line. Out of range
// positions clear it.
func (s *Session) SetCursor(pos int) {
	line, ok := s.SelectedLine()
	if !s.editable() || !ok || pos < 0 || pos > utf8.RuneCountInString(line.Text) {
		s.cursor = noCursor
		return
	}
	s.cursor = pos
}

// ClearCursor makes the next marker append to the end of the line.
func (s *Session) ClearCursor() {
	s.cursor = noCursor
}

// InsertMarker places token at the cursor, or appends it when there is none.
// The cursor ends up just after the token.
func (s *Session) InsertMarker(token string) bool {
	if !s.editable() || token == "" {
		return false
	}
	line, ok := s.SelectedLine()
	if !ok {
		return false
	}
	text := []rune(line.Text)
	tok := []rune(token)
	var next []rune
	var pos int
	if s.cursor != noCursor && s.cursor <= len(text) {
		next = make([]rune, 0, len(text)+len(tok))
		next = append(next, text[:s.cursor]...)
		next = append(next, tok...)
		next = append(next, text[s.cursor:]...)
		pos = s.cursor + len(tok)
	} else {
		next = append([]rune(nil), text...)
		if len(next) > 0 {
			next = append(next, ' ')
		}
		next = append(next, tok...)
		pos = len(next)
	}
	s.lines[s.selected].Text = string(next)
	s.cursor = pos
	return true
}

// Save returns the script in structured form and closes the session.
func (s *Session) Save() []script.Line {
	var out []script.Line
	if s.mode == ModeRaw {
		out = script.Clone(s.codec.Decode(s.raw, s.lines))
	} else {
		out = script.Clone(s.lines)
	}
	s.closed = true
	s.cursor = noCursor
	return out
}

// Close discards the session without producing output.
func (s *Session) Close() {
	s.closed = true
	s.cursor = noCursor
}

func (s *Session) clampSelection() {
	switch {
	case len(s.lines) == 0:
		s.selected = 0
	case s.selected >= len(s.lines):
		s.selected = len(s.lines) - 1
	case s.selected < 0:
		s.selected = 0
	}
}
