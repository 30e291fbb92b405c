// Package extract converts HTML chapter sources into the plain page
// text that highlight detection runs on.
//
// Scanned textbook chapters arrive either as pre-extracted .txt pages
// or as HTML exports; the latter are reduced to readable main content,
// converted through Markdown, and stripped to plain text so that regex
// offsets refer to clean prose rather than markup.
package extract

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// markdown syntax stripped from converted pages; emphasis markers are
// kept because the foreign-word rules key off them
var (
	headingRegex   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	linkRegex      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	codeFenceRegex = regexp.MustCompile("(?m)^```[^\n]*$")
	blankRunRegex  = regexp.MustCompile(`\n{3,}`)
)

// ToText extracts the readable text of an HTML document. When selector
// is non-empty the matching elements are extracted verbatim; otherwise
// readability isolates the main content first.
func ToText(content io.Reader, selector string) (string, error) {
	var html string
	var err error

	if selector != "" {
		html, err = selectHTML(content, selector)
	} else {
		html, err = mainContentHTML(content)
	}
	if err != nil {
		return "", err
	}

	return htmlToText(html)
}

// mainContentHTML isolates the main article content with readability.
func mainContentHTML(content io.Reader) (string, error) {
	article, err := readability.FromReader(content, nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}
	return article.Content, nil
}

// selectHTML extracts the HTML of all elements matching a CSS selector.
func selectHTML(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	var parts []string
	selection.Each(func(i int, s *goquery.Selection) {
		html, err := s.Html()
		if err == nil {
			parts = append(parts, html)
		}
	})
	if len(parts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}

	return strings.Join(parts, "\n"), nil
}

// htmlToText converts an HTML fragment to plain text by way of
// Markdown, then strips the Markdown syntax that would otherwise leak
// into highlight spans.
func htmlToText(html string) (string, error) {
	converter := md.NewConverter("", true, nil)

	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML: %w", err)
	}

	return stripMarkdown(markdown), nil
}

// stripMarkdown removes heading markers, link syntax, and code fences
// from Markdown, leaving plain prose. Emphasis markers (*word*) are
// deliberately preserved.
func stripMarkdown(markdown string) string {
	text := headingRegex.ReplaceAllString(markdown, "")
	text = linkRegex.ReplaceAllString(text, "$1")
	text = codeFenceRegex.ReplaceAllString(text, "")
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
