package markers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPalette(t *testing.T) {
	p := Default()
	assert.Equal(t, len(defaultTokens), p.Len())
	assert.Equal(t, Marker{Label: "Laughs", Token: "[laughs]"}, p.Items()[0])
}

func TestNewNormalisesAndDeduplicates(t *testing.T) {
	p := New([]string{"pause", "[pause]", " [ Laughs ] ", "", "[]", "laughs"})
	assert.Equal(t, []Marker{
		{Label: "Pause", Token: "[pause]"},
		{Label: "Laughs", Token: "[Laughs]"},
	}, p.Items())
}

func TestFilter(t *testing.T) {
	p := Default()
	got := p.Filter("IOUS")
	var tokens []string
	for _, m := range got {
		tokens = append(tokens, m.Token)
	}
	assert.Equal(t, []string{"[curious]", "[serious]"}, tokens)
	assert.Len(t, p.Filter(""), p.Len())
	assert.Empty(t, p.Filter("zzz"))
}
