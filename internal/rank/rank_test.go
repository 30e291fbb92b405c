package rank_test

import (
	"testing"

	"github.com/chriscorrea/hilite/internal/category"
	"github.com/chriscorrea/hilite/internal/highlight"
	"github.com/chriscorrea/hilite/internal/rank"
)

func TestHighlightsRanking(t *testing.T) {
	records := []highlight.Highlight{
		{Text: "Newton stated the law of motion", Category: category.Theories, PageNumber: 1},
		{Text: "photosynthesis makes food in green plants", Category: category.Definition, PageNumber: 2},
		{Text: "the revolt spread across the country", Category: category.Definition, PageNumber: 3},
	}

	ranked := rank.Highlights("photosynthesis plants", records)
	if len(ranked) != len(records) {
		t.Fatalf("Highlights() returned %d results, want %d", len(ranked), len(records))
	}

	if ranked[0].Highlight.Text != records[1].Text {
		t.Errorf("best match = %q, want the photosynthesis record", ranked[0].Highlight.Text)
	}
	if ranked[0].Score <= 0 {
		t.Errorf("best match score = %v, want > 0", ranked[0].Score)
	}

	// non-matching records sink but keep their stored order
	if ranked[1].Highlight.Text != records[0].Text || ranked[2].Highlight.Text != records[2].Text {
		t.Errorf("zero-score records reordered: %v then %v",
			ranked[1].Highlight.Text, ranked[2].Highlight.Text)
	}

	// ranking never drops or mutates records
	seen := make(map[string]bool)
	for _, r := range ranked {
		seen[r.Highlight.Text] = true
	}
	for _, h := range records {
		if !seen[h.Text] {
			t.Errorf("record %q lost during ranking", h.Text)
		}
	}
}

func TestHighlightsEmpty(t *testing.T) {
	if got := rank.Highlights("anything", nil); len(got) != 0 {
		t.Errorf("Highlights(nil) = %v, want empty", got)
	}
}
