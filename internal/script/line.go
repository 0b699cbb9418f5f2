package script

import (
	"fmt"
	"sync/atomic"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Line is one utterance in a script.
type Line struct {
	ID      string  `json:"id"`
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Pair is the content of a line without its identity.
type Pair struct {
	Speaker Speaker
	Text    string
}

var fallbackIDs atomic.Int64

// NewID returns an identifier unique for the life of the process.
func NewID() string {
	id, err := nanoid.New()
	if err != nil {
		return fmt.Sprintf("line-%d", fallbackIDs.Add(1))
	}
	return id
}

// NewLine builds a line with a fresh ID.
func NewLine(speaker Speaker, text string) Line {
	return Line{ID: NewID(), Speaker: speaker, Text: text}
}

// Project drops IDs so scripts can be compared by content.
func Project(lines []Line) []Pair {
	pairs := make([]Pair, 0, len(lines))
	for _, line := range lines {
		pairs = append(pairs, Pair{Speaker: line.Speaker, Text: line.Text})
	}
	return pairs
}

// Clone returns an independent copy of lines.
func Clone(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	return append([]Line(nil), lines...)
}
