// Package rank orders a chapter's stored highlights by relevance to a
// query using BM25md field-weighted lexical ranking.
package rank

import (
	"sort"

	"github.com/chriscorrea/bm25md"

	"github.com/chriscorrea/hilite/internal/highlight"
)

// Ranked pairs a highlight with its relevance score.
type Ranked struct {
	Highlight highlight.Highlight
	Score     float64
}

// Highlights scores every record against the query and returns them
// ordered best-first. Records the query does not touch score zero and
// sink to the bottom while keeping their stored order.
func Highlights(query string, records []highlight.Highlight) []Ranked {
	if len(records) == 0 {
		return []Ranked{}
	}

	corpus := bm25md.NewCorpus()
	parser := bm25md.NewMarkdownFieldParser()
	for i, h := range records {
		corpus.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   parser.ParseDocument(h.Text),
			Original: h.Text,
		})
	}

	ranked := make([]Ranked, len(records))
	for i, h := range records {
		ranked[i] = Ranked{Highlight: h, Score: corpus.Score(query, i)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
