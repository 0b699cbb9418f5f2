package script

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Speaker identifies one of the two hosts of a script.
type Speaker int

const (
	SpeakerA Speaker = iota
	SpeakerB
)

// Opposite returns the other host.
func (s Speaker) Opposite() Speaker {
	if s == SpeakerA {
		return SpeakerB
	}
	return SpeakerA
}

// Valid reports whether s is one of the two known hosts.
func (s Speaker) Valid() bool {
	return s == SpeakerA || s == SpeakerB
}

func (s Speaker) String() string {
	switch s {
	case SpeakerA:
		return "A"
	case SpeakerB:
		return "B"
	default:
		return fmt.Sprintf("Speaker(%d)", int(s))
	}
}

// MarshalText stores speakers by slot so saved scripts survive a cast rename.
func (s Speaker) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid speaker %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Speaker) UnmarshalText(data []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(data))) {
	case "A":
		*s = SpeakerA
	case "B":
		*s = SpeakerB
	default:
		return fmt.Errorf("unknown speaker %q", string(data))
	}
	return nil
}

// Cast holds the display names of the two hosts.
type Cast struct {
	A string `yaml:"a" json:"a"`
	B string `yaml:"b" json:"b"`
}

// DefaultCast is the built-in pair of hosts.
var DefaultCast = Cast{A: "Rahul", B: "Priya"}

var (
	errCastIncomplete = errors.New("cast needs two speaker names")
	errCastDuplicate  = errors.New("cast speaker names must differ")
)

// Canonical returns the cast with both names in title case ("rAHUL" -> "Rahul").
func (c Cast) Canonical() Cast {
	return Cast{A: canonicalName(c.A), B: canonicalName(c.B)}
}

// Validate checks the names can round-trip through a transcript.
func (c Cast) Validate() error {
	a, b := strings.TrimSpace(c.A), strings.TrimSpace(c.B)
	if a == "" || b == "" {
		return errCastIncomplete
	}
	if strings.EqualFold(a, b) {
		return errCastDuplicate
	}
	for _, name := range []string{a, b} {
		if strings.ContainsFunc(name, func(r rune) bool { return r == ':' || unicode.IsSpace(r) }) {
			return fmt.Errorf("speaker name %q must be a single word without colons", name)
		}
	}
	return nil
}

// Name returns the canonical display name for s.
func (c Cast) Name(s Speaker) string {
	if s == SpeakerB {
		return canonicalName(c.B)
	}
	return canonicalName(c.A)
}

// Lookup resolves a name case-insensitively.
func (c Cast) Lookup(name string) (Speaker, bool) {
	name = strings.TrimSpace(name)
	switch {
	case strings.EqualFold(name, strings.TrimSpace(c.A)):
		return SpeakerA, true
	case strings.EqualFold(name, strings.TrimSpace(c.B)):
		return SpeakerB, true
	default:
		return SpeakerA, false
	}
}

func canonicalName(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}
