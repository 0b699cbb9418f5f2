// Package source turns a pasted URL into plain text the drafting model can
// read. HTML pages and PDFs are supported.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	userAgent          = "podscript/1.0 (+https://github.com/csheth/podscript)"
	defaultHTTPTimeout = 60 * time.Second
)

var (
	// ErrInvalidURL is returned for input that is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("enter a full http(s) URL")
	// ErrUnsupportedContent is returned for media that carries no readable text.
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrEmptyDocument is returned when no text could be extracted.
	ErrEmptyDocument = errors.New("no readable text found")
)

// Document is the readable content behind a URL.
type Document struct {
	URL         string
	Title       string
	Text        string
	ContentType string
}

// Options configures a Fetcher.
type Options struct {
	CacheDir   string
	HTTPClient *http.Client
}

// Fetcher downloads and extracts documents through an on-disk cache.
type Fetcher struct {
	cache *diskCache
}

var (
	extraneousWhitespace = regexp.MustCompile(`\s+`)
	blankRunPattern      = regexp.MustCompile(`\n{3,}`)
)

// Subtrees that never carry article text.
var skippedElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
}

// Elements that end a paragraph in the extracted text.
var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Main:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Tr:         true,
	atom.Figcaption: true,
}

// NewFetcher builds a Fetcher.
func NewFetcher(opts Options) (*Fetcher, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	cache, err := newDiskCache(opts.CacheDir, client)
	if err != nil {
		return nil, fmt.Errorf("source cache: %w", err)
	}
	return &Fetcher{cache: cache}, nil
}

// ValidateURL normalises user input into an absolute http(s) URL.
func ValidateURL(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrInvalidURL
	}
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return "", ErrInvalidURL
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", ErrInvalidURL
	}
	return u.String(), nil
}

// Fetch downloads rawURL and extracts its text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	normalized, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	bodyPath, meta, err := f.cache.Fetch(ctx, normalized)
	if err != nil {
		return nil, err
	}

	mediaType := ""
	if meta.ContentType != "" {
		if parsed, _, err := mime.ParseMediaType(meta.ContentType); err == nil {
			mediaType = parsed
		}
	}

	head, err := readHead(bodyPath, 5)
	if err != nil {
		return nil, err
	}

	var doc *Document
	switch {
	case mediaType == "application/pdf" || bytes.HasPrefix(head, []byte("%PDF-")):
		doc, err = extractPDF(bodyPath)
		if doc != nil && doc.Title == "" {
			doc.Title = titleFromURL(normalized)
		}
	case mediaType == "" || strings.HasPrefix(mediaType, "text/") || strings.Contains(mediaType, "html") || strings.Contains(mediaType, "xml"):
		data, readErr := os.ReadFile(bodyPath)
		if readErr != nil {
			return nil, readErr
		}
		if mediaType == "text/plain" {
			doc = &Document{Title: titleFromURL(normalized), Text: normalizeParagraphs(string(data))}
		} else {
			doc, err = extractHTML(string(data))
			if err == nil && doc.Title == "" {
				doc.Title = titleFromURL(normalized)
			}
		}
	default:
		return nil, fmt.Errorf("%s: %w", mediaType, ErrUnsupportedContent)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, ErrEmptyDocument
	}
	doc.URL = normalized
	doc.ContentType = mediaType
	return doc, nil
}

func readHead(path string, n int) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	buf := make([]byte, n)
	read, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

func extractHTML(page string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	title := ""
	if node := findElement(root, atom.Title); node != nil {
		title = inlineText(node)
	}
	if title == "" {
		if node := findElement(root, atom.H1); node != nil {
			title = inlineText(node)
		}
	}
	var body strings.Builder
	collectText(root, &body)
	return &Document{Title: title, Text: normalizeParagraphs(body.String())}, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func inlineText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return extraneousWhitespace.ReplaceAllString(strings.TrimSpace(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
	if n.Type == html.ElementNode && blockElements[n.DataAtom] {
		b.WriteString("\n\n")
	}
}

func extractPDF(path string) (*Document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return nil, err
	}
	text := extraneousWhitespace.ReplaceAllString(builder.String(), " ")
	return &Document{Text: strings.TrimSpace(text)}, nil
}

// normalizeParagraphs collapses whitespace inside lines and keeps at most one
// blank line between paragraphs.
func normalizeParagraphs(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = extraneousWhitespace.ReplaceAllString(strings.TrimSpace(line), " ")
	}
	joined := strings.Join(lines, "\n")
	joined = blankRunPattern.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}

func titleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	base := path.Base(u.Path)
	if base == "" || base == "/" || base == "." {
		return u.Host
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}
