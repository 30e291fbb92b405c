// Package highlight defines the highlight record, its storage identity,
// and the span arithmetic shared by detection and manual highlighting.
package highlight

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chriscorrea/hilite/internal/category"
)

// ErrTextNotFound is returned when a manual highlight's text cannot be
// located within the page text it was reported against.
var ErrTextNotFound = errors.New("highlighted text not found in page text")

// Provenance values for the Source field.
const (
	SourceRegex  = "regex"    // produced by a catalog pattern
	SourcePYQ    = "pyq-json" // produced by chapter keyword matching
	SourceManual = "manual"   // added by a user
)

// Highlight is one stored highlight span. The JSON field names are a
// wire contract shared with clients; do not rename them.
type Highlight struct {
	Text       string            `json:"text"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	Category   category.Category `json:"category"`
	PageNumber int               `json:"page_number"`
	Source     string            `json:"source"`
	MatchID    string            `json:"match_id,omitempty"`
	RuleName   string            `json:"rule_name,omitempty"`
}

// Key is the uniqueness identity of a highlight within a chapter
// collection. Two records with equal keys are the same highlight.
type Key struct {
	Text       string
	Category   category.Category
	PageNumber int
	Start      int
	End        int
}

// Key returns the record's uniqueness key.
func (h Highlight) Key() Key {
	return Key{
		Text:       h.Text,
		Category:   h.Category,
		PageNumber: h.PageNumber,
		Start:      h.Start,
		End:        h.End,
	}
}

// String renders a short human-readable form for logs and CLI output.
func (h Highlight) String() string {
	return fmt.Sprintf("[%s] p%d %d-%d %q", h.Category, h.PageNumber, h.Start, h.End, h.Text)
}

// Offsets are byte offsets into the page text. Trimming cuts leading
// whitespace and trailing whitespace plus sentence punctuation.
const (
	leadingCutset  = " \t\r\n"
	trailingCutset = " \t\r\n.,;:!?"
)

// TrimMatch trims a raw regex match and recomputes its offsets so that
// pageText[newStart:newEnd] == trimmed text. The raw [start,end) span
// must lie within pageText.
func TrimMatch(pageText string, start, end int) (text string, newStart, newEnd int) {
	raw := pageText[start:end]

	trimmed := strings.TrimLeft(raw, leadingCutset)
	newStart = start + (len(raw) - len(trimmed))

	trimmed = strings.TrimRight(trimmed, trailingCutset)
	newEnd = newStart + len(trimmed)

	return trimmed, newStart, newEnd
}

// Locate finds the first occurrence of sub within text under Unicode
// case folding and returns its byte offsets into text. Offsets always
// describe the original text: folding can change rune byte widths, so
// the matched region may not be len(sub) bytes long. Returns
// ErrTextNotFound when the substring does not occur.
func Locate(text, sub string) (start, end int, err error) {
	if strings.TrimSpace(sub) == "" {
		return 0, 0, ErrTextNotFound
	}
	for i := range text {
		if n, ok := foldPrefix(text[i:], sub); ok {
			return i, i + n, nil
		}
	}
	return 0, 0, ErrTextNotFound
}

// foldPrefix reports whether s begins with sub under Unicode case
// folding, returning the byte length of the matching prefix of s.
func foldPrefix(s, sub string) (int, bool) {
	n := 0
	for _, want := range sub {
		got, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || !foldEqual(got, want) {
			return 0, false
		}
		n += size
	}
	return n, true
}

// foldEqual applies the same per-rune equivalence as strings.EqualFold.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// Manual builds a user-added highlight by locating sub within the page
// text. The stored text is the page's own slice, preserving the page's
// casing rather than the user's.
func Manual(pageText, sub string, cat category.Category, pageNumber int) (Highlight, error) {
	start, end, err := Locate(pageText, sub)
	if err != nil {
		return Highlight{}, err
	}
	return Highlight{
		Text:       pageText[start:end],
		Start:      start,
		End:        end,
		Category:   cat,
		PageNumber: pageNumber,
		Source:     SourceManual,
	}, nil
}
