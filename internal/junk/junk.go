// Package junk decides whether a candidate highlight span is noise.
//
// The filter drops spans that are too short, carry no letters, match a
// fixed stop-word/stop-phrase list, or look like markup leaking out of
// a noisy source document. It runs once during detection and again as a
// safety net at insert time, so it must be deterministic and cheap.
package junk

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"

	"github.com/chriscorrea/hilite/internal/category"
)

// minLength is the shortest span worth keeping. Three characters keeps
// short acronyms (DNA, ATP) alive; anything shorter is noise.
const minLength = 3

var (
	// bareYearRegex matches a standalone 4-digit year
	bareYearRegex = regexp.MustCompile(`^\d{4}$`)

	// letterRegex detects the presence of at least one letter
	letterRegex = regexp.MustCompile(`\p{L}`)

	// wordRegex extracts word tokens for the stop-word check
	wordRegex = regexp.MustCompile(`[a-z]+`)
)

// stopWords holds words and short connector phrases that carry no
// highlight value on their own. Single words are also compared in
// stemmed form, so inflected variants ("being", "meant") fold onto
// their base entries.
var stopWords = map[string]struct{}{
	// articles, conjunctions, prepositions
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"of": {}, "to": {}, "in": {}, "on": {}, "at": {}, "for": {},
	"with": {}, "from": {}, "by": {}, "as": {}, "so": {}, "if": {},

	// pronouns and demonstratives
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {},

	// copulas and auxiliaries
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"has": {}, "have": {}, "had": {},

	// common connector phrases seen in scanned textbook text
	"of the": {}, "in the": {}, "to the": {}, "on the": {},
	"has been": {}, "had been": {}, "it is": {}, "there is": {},
	"there are": {}, "as well as": {}, "such as": {},
}

// markupTokens flags fragments of HTML or page markup that survive
// text extraction from noisy sources.
var markupTokens = []string{
	"<html", "<head", "<body", "<div", "<span", "<script", "<style",
	"</", "class=", "href=", "style=", "src=", "doctype",
	"http://", "https://", "www.",
}

// IsJunk reports whether text should be discarded as noise for the
// given category. Rules apply in order, first match wins:
//
//  1. empty or whitespace-only text is junk
//  2. a bare 4-digit year is never junk for the date category
//  3. text shorter than the minimum length is junk
//  4. text with no letters is junk, except for the date category
//     (numeric dates like "12/05/1998" must survive)
//  5. stop-words and stop-phrases are junk
//  6. markup fragments are junk
func IsJunk(text string, cat category.Category) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return true
	}

	// years are a primary signal for dates and survive despite being
	// short, single-token, and all digits
	if cat == category.Date && bareYearRegex.MatchString(t) {
		return false
	}

	if len([]rune(t)) < minLength {
		return true
	}

	if cat != category.Date && !letterRegex.MatchString(t) {
		return true
	}

	lower := strings.ToLower(t)
	if isStopPhrase(lower) {
		return true
	}

	for _, tok := range markupTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}

	return false
}

// isStopPhrase checks the lowercased text against the stop list,
// first literally, then with each word stemmed so that inflected
// variants match their base entries.
func isStopPhrase(lower string) bool {
	if _, ok := stopWords[lower]; ok {
		return true
	}

	words := wordRegex.FindAllString(lower, -1)
	if len(words) == 0 || len(words) > 4 {
		// long spans are judged on content, not function words
		return false
	}

	stemmed := make([]string, 0, len(words))
	for _, w := range words {
		stem, err := snowball.Stem(w, "english", true)
		if err != nil {
			stem = w
		}
		stemmed = append(stemmed, stem)
	}

	_, ok := stopWords[strings.Join(stemmed, " ")]
	return ok
}
