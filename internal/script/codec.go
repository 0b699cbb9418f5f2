package script

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrNoLines reports a transcript without a single recognisable line.
var ErrNoLines = errors.New("transcript has no recognisable speaker lines")

// Codec converts between transcript text and lines for one cast.
//
// Transcript text is a sequence of "Name: utterance" entries separated by a
// blank line. Decoding is best effort: entries that do not start with one of
// the cast's names are dropped.
type Codec struct {
	cast    Cast
	pattern *regexp.Regexp
}

// NewCodec builds a codec for cast. Callers validate the cast first.
func NewCodec(cast Cast) *Codec {
	cast = cast.Canonical()
	expr := fmt.Sprintf(`(?i)^(%s|%s):\s*(\S.*)$`, regexp.QuoteMeta(cast.A), regexp.QuoteMeta(cast.B))
	return &Codec{cast: cast, pattern: regexp.MustCompile(expr)}
}

var defaultCodec = NewCodec(DefaultCast)

// Encode formats lines with the default cast.
func Encode(lines []Line) string {
	return defaultCodec.Encode(lines)
}

// Decode parses text with the default cast.
func Decode(text string, fallback []Line) []Line {
	return defaultCodec.Decode(text, fallback)
}

// Cast returns the canonical cast the codec recognises.
func (c *Codec) Cast() Cast {
	return c.cast
}

// Encode joins lines as "Name: text" separated by a blank line.
func (c *Codec) Encode(lines []Line) string {
	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, c.cast.Name(line.Speaker)+": "+line.Text)
	}
	return strings.Join(entries, "\n\n")
}

// Decode parses text into lines with fresh IDs. When nothing in text is
// recognisable the fallback is returned untouched.
func (c *Codec) Decode(text string, fallback []Line) []Line {
	var lines []Line
	for _, entry := range strings.Split(text, "\n") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		match := c.pattern.FindStringSubmatch(entry)
		if match == nil {
			continue
		}
		speaker, ok := c.cast.Lookup(match[1])
		if !ok {
			continue
		}
		body := strings.TrimSpace(match[2])
		if body == "" {
			continue
		}
		lines = append(lines, NewLine(speaker, body))
	}
	if len(lines) == 0 {
		return fallback
	}
	return lines
}

// ParseFile reads a transcript from disk.
func (c *Codec) ParseFile(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := c.Decode(string(data), nil)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoLines)
	}
	return lines, nil
}
