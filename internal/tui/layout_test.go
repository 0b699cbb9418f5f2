package tui

import (
	"strings"
	"testing"

	"github.com/csheth/podscript/internal/script"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name           string
		width          int
		height         int
		contentWidth   int
		previewWidth   int
		panelWidth     int
		viewportHeight int
	}{
		{name: "narrow", width: 80, height: 24, contentWidth: 76, previewWidth: 40, panelWidth: 36, viewportHeight: 8},
		{name: "wide", width: 200, height: 40, contentWidth: 196, previewWidth: 106, panelWidth: 88, viewportHeight: 24},
		{name: "tiny", width: 20, height: 10, contentWidth: 40, previewWidth: 40, panelWidth: 36, viewportHeight: 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.contentWidth != tc.contentWidth {
				t.Fatalf("content width mismatch: got %d want %d", layout.contentWidth, tc.contentWidth)
			}
			if layout.previewWidth != tc.previewWidth {
				t.Fatalf("preview width mismatch: got %d want %d", layout.previewWidth, tc.previewWidth)
			}
			if layout.panelWidth != tc.panelWidth {
				t.Fatalf("panel width mismatch: got %d want %d", layout.panelWidth, tc.panelWidth)
			}
			if layout.viewportHeight != tc.viewportHeight {
				t.Fatalf("viewport height mismatch: got %d want %d", layout.viewportHeight, tc.viewportHeight)
			}
			if got := layout.previewWidthFor(false); got != tc.contentWidth {
				t.Fatalf("closed panel should use the full width, got %d", got)
			}
		})
	}
}

func TestWriteScriptLinesAnchorsEachLine(t *testing.T) {
	lines := []script.Line{
		{ID: "one", Speaker: script.SpeakerA, Text: "Hello there"},
		{ID: "two", Speaker: script.SpeakerB, Text: ""},
		{ID: "three", Speaker: script.SpeakerA, Text: "Bye [laughs]"},
	}
	cb := &contentBuilder{}
	anchors := writeScriptLines(cb, lines, scriptRender{cast: script.DefaultCast, width: 60, selected: 1})
	if anchors["one"] != 0 || anchors["two"] != 3 || anchors["three"] != 6 {
		t.Fatalf("unexpected anchors %#v", anchors)
	}
	out := cb.String()
	for _, want := range []string{"Rahul", "Priya", "(empty line)", "[laughs]", "▸ "} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered script missing %q:\n%s", want, out)
		}
	}
}

func TestPreviewText(t *testing.T) {
	if got := previewText("  short  ", 10); got != "short" {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := previewText("a longer sentence", 8); got != "a longer…" {
		t.Fatalf("unexpected truncated preview %q", got)
	}
}
