package keywords_test

import (
	"testing"

	"github.com/chriscorrea/hilite/internal/keywords"
)

func TestTopTerms(t *testing.T) {
	pages := []string{
		"photosynthesis photosynthesis photosynthesis chlorophyll leaf",
		"mitosis mitosis spindle leaf",
		"leaf leaf leaf",
	}

	terms := keywords.TopTerms(pages, 3)
	if len(terms) == 0 {
		t.Fatal("TopTerms() returned no terms")
	}
	if len(terms) > 3 {
		t.Fatalf("TopTerms(n=3) returned %d terms", len(terms))
	}

	// densest page-local term wins
	if terms[0].Term != "photosynthesis" {
		t.Errorf("top term = %q, want %q", terms[0].Term, "photosynthesis")
	}

	// a term present on every page carries no signal
	for _, term := range terms {
		if term.Term == "leaf" {
			t.Errorf("chapter-wide term %q should score zero and be dropped", term.Term)
		}
		if term.Score <= 0 {
			t.Errorf("term %q has non-positive score %v", term.Term, term.Score)
		}
	}

	// scores are ordered descending
	for i := 1; i < len(terms); i++ {
		if terms[i].Score > terms[i-1].Score {
			t.Errorf("terms out of order: %v before %v", terms[i-1], terms[i])
		}
	}
}

func TestTopTermsLimit(t *testing.T) {
	pages := []string{"alpha beta gamma", "delta epsilon zeta"}

	if got := keywords.TopTerms(pages, 2); len(got) != 2 {
		t.Errorf("TopTerms(n=2) returned %d terms", len(got))
	}
}

func TestTopTermsEmpty(t *testing.T) {
	if got := keywords.TopTerms(nil, 5); len(got) != 0 {
		t.Errorf("TopTerms(nil) = %v, want empty", got)
	}
	if got := keywords.TopTerms([]string{"some text here"}, 0); len(got) != 0 {
		t.Errorf("TopTerms(n=0) = %v, want empty", got)
	}
}

func TestTopTermsIgnoresShortTokens(t *testing.T) {
	pages := []string{"a an of photosynthesis", "is to at mitosis"}

	for _, term := range keywords.TopTerms(pages, 10) {
		if len(term.Term) < 3 {
			t.Errorf("short token %q leaked into results", term.Term)
		}
	}
}
