// Package markers holds the emotion and delivery markers offered by the edit
// panel's picker.
package markers

import "strings"

// Marker is a token inserted verbatim into a line.
type Marker struct {
	Label string
	Token string
}

// Palette is an ordered, de-duplicated set of markers.
type Palette struct {
	items []Marker
}

var defaultTokens = []string{
	"laughs",
	"chuckles",
	"sighs",
	"pause",
	"whispers",
	"excited",
	"curious",
	"sarcastic",
	"serious",
	"gasps",
}

// Default returns the built-in palette.
func Default() Palette {
	return New(defaultTokens)
}

// New builds a palette from raw entries such as "laughs" or "[laughs]".
// Blank and repeated entries are skipped.
func New(entries []string) Palette {
	seen := map[string]bool{}
	items := make([]Marker, 0, len(entries))
	for _, entry := range entries {
		token := Normalize(entry)
		if token == "" || seen[strings.ToLower(token)] {
			continue
		}
		seen[strings.ToLower(token)] = true
		items = append(items, Marker{Label: label(token), Token: token})
	}
	return Palette{items: items}
}

// Normalize wraps a marker in square brackets.
func Normalize(entry string) string {
	entry = strings.TrimSpace(entry)
	entry = strings.TrimPrefix(entry, "[")
	entry = strings.TrimSuffix(entry, "]")
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return ""
	}
	return "[" + entry + "]"
}

func label(token string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "["), "]")
	if inner == "" {
		return token
	}
	return strings.ToUpper(inner[:1]) + inner[1:]
}

// Items returns the markers in display order.
func (p Palette) Items() []Marker {
	return append([]Marker(nil), p.items...)
}

// Len reports the number of markers.
func (p Palette) Len() int {
	return len(p.items)
}

// Filter keeps markers whose label or token contains query, ignoring case.
func (p Palette) Filter(query string) []Marker {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return p.Items()
	}
	var out []Marker
	for _, item := range p.items {
		if strings.Contains(strings.ToLower(item.Label), query) || strings.Contains(strings.ToLower(item.Token), query) {
			out = append(out, item)
		}
	}
	return out
}
