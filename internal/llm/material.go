package llm

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

var (
	paragraphSplit = regexp.MustCompile(`\n{2,}`)
	spaceRun       = regexp.MustCompile(`\s+`)
)

// condenseMaterial drops page furniture and repeated paragraphs from the
// fetched text, then clips what is left to budget runes on paragraph
// boundaries where possible.
func condenseMaterial(content string, budget int) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	seen := map[string]bool{}
	var kept []string
	for _, paragraph := range paragraphSplit.Split(content, -1) {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" || isBoilerplate(trimmed) {
			continue
		}
		key := paragraphKey(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, trimmed)
	}
	return clipParagraphs(kept, budget)
}

func paragraphKey(text string) string {
	canonical := strings.ToLower(spaceRun.ReplaceAllString(text, " "))
	sum := sha1.Sum([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func isBoilerplate(paragraph string) bool {
	lower := strings.ToLower(paragraph)
	switch {
	case strings.HasPrefix(lower, "subscribe"),
		strings.HasPrefix(lower, "sign up for"),
		strings.HasPrefix(lower, "share this"),
		strings.HasPrefix(lower, "advertisement"),
		strings.HasPrefix(lower, "related articles"),
		strings.HasPrefix(lower, "references"),
		strings.Contains(lower, "all rights reserved"),
		strings.Contains(lower, "cookie policy"),
		strings.Contains(lower, "we use cookies"):
		return true
	}
	if len(lower) <= 12 && !strings.Contains(lower, " ") {
		return true
	}
	letters := 0
	for _, r := range lower {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters*5 < len(lower)
}

func clipParagraphs(paragraphs []string, budget int) string {
	if budget <= 0 {
		return strings.Join(paragraphs, "\n\n")
	}
	var b strings.Builder
	remaining := budget
	for _, paragraph := range paragraphs {
		if b.Len() > 0 {
			if remaining <= 2 {
				break
			}
			b.WriteString("\n\n")
			remaining -= 2
		}
		runes := []rune(paragraph)
		if len(runes) > remaining {
			b.WriteString(string(runes[:remaining]))
			break
		}
		b.WriteString(paragraph)
		remaining -= len(runes)
	}
	return strings.TrimSpace(b.String())
}
