// Package keywords surfaces the statistically significant terms of a
// chapter using TF-IDF over its pages.
//
// Each page is one document in the corpus; a term scores highly when
// it is dense on some page but rare across the chapter, which is a
// good proxy for the vocabulary worth studying.
package keywords

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenRegex splits page text into word tokens.
var tokenRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// minTokenLength drops short function words before scoring.
const minTokenLength = 3

// Term is one scored chapter term.
type Term struct {
	Term  string
	Score float64
}

// TopTerms returns up to n terms ordered by descending TF-IDF score.
// A term's score is its best tf*idf across the chapter's pages.
func TopTerms(pages []string, n int) []Term {
	if len(pages) == 0 || n <= 0 {
		return []Term{}
	}

	termFreqs := make([]map[string]float64, len(pages))
	docFreqs := make(map[string]int)

	for i, page := range pages {
		tokens := tokenize(page)
		termFreqs[i] = termFrequency(tokens)
		for term := range termFreqs[i] {
			docFreqs[term]++
		}
	}

	totalDocs := float64(len(pages))
	best := make(map[string]float64)
	for _, tf := range termFreqs {
		for term, freq := range tf {
			idf := math.Log(totalDocs / float64(docFreqs[term]))
			if score := freq * idf; score > best[term] {
				best[term] = score
			}
		}
	}

	scored := make([]Term, 0, len(best))
	for term, score := range best {
		if score > 0 {
			scored = append(scored, Term{Term: term, Score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Term < scored[j].Term
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// tokenize lowercases and splits text, dropping short tokens.
func tokenize(text string) []string {
	var out []string
	for _, tok := range tokenRegex.Split(strings.ToLower(text), -1) {
		if len(tok) >= minTokenLength {
			out = append(out, tok)
		}
	}
	return out
}

// termFrequency computes relative term frequency for one page.
func termFrequency(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int)
	for _, tok := range tokens {
		counts[tok]++
	}

	total := float64(len(tokens))
	freqs := make(map[string]float64, len(counts))
	for term, count := range counts {
		freqs[term] = float64(count) / total
	}
	return freqs
}
