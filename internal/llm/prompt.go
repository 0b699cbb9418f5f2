package llm

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencePattern     = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")
	boldSpeakerRe    = regexp.MustCompile(`(?m)^[ \t]*(?:[-*][ \t]+)?\*{1,2}([^*:\n]+?):?\*{1,2}:?\s*`)
	bulletSpeakerRe  = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+([A-Za-z]+:)`)
	errEmptyDraft    = errors.New("model returned an empty draft")
	errEmptyMaterial = errors.New("source text empty; cannot draft a script")
)

func buildDraftPrompt(req DraftRequest) (string, error) {
	material := condenseMaterial(req.Content, maxDraftSourceChars)
	if material == "" {
		return "", errEmptyMaterial
	}
	cast := req.cast()
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "the article"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a lively podcast conversation between two hosts, %s and %s, about %s.\n", cast.A, cast.B, title)
	fmt.Fprintf(&b, "Use about %d turns. %s opens the show. Alternate speakers most of the time.\n", req.turns(), cast.A)
	b.WriteString("Stay faithful to the source material; do not invent facts.\n")
	if len(req.Markers) > 0 {
		b.WriteString("You may add delivery markers inline, chosen only from: ")
		b.WriteString(strings.Join(req.Markers, " "))
		b.WriteString(".\n")
	}
	b.WriteString("Output ONLY the script. Every turn is one line formatted exactly as\n")
	fmt.Fprintf(&b, "%s: what they say\n\nwith a blank line between turns. No headings, no stage directions, no markdown.\n\n", cast.A)
	if req.SourceURL != "" {
		b.WriteString("Source: " + req.SourceURL + "\n")
	}
	b.WriteString("Material:\n")
	b.WriteString(material)
	return b.String(), nil
}

// cleanDraft strips the markdown decorations models like to add so the
// transcript decoder sees plain "Name: text" lines.
func cleanDraft(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = fencePattern.ReplaceAllString(raw, "")
	raw = boldSpeakerRe.ReplaceAllString(raw, "$1: ")
	raw = bulletSpeakerRe.ReplaceAllString(raw, "$1")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyDraft
	}
	return raw, nil
}
