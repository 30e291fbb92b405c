package junk_test

import (
	"testing"

	"github.com/chriscorrea/hilite/internal/category"
	"github.com/chriscorrea/hilite/internal/junk"
)

func TestIsJunk(t *testing.T) {
	tests := []struct {
		name string
		text string
		cat  category.Category
		want bool
	}{
		{"empty text", "", category.Definition, true},
		{"whitespace only", "  \n\t ", category.Definition, true},

		// the year exception is category-scoped
		{"bare year as date", "1857", category.Date, false},
		{"bare year as name", "1857", category.Name, true},
		{"bare year as units", "1857", category.Units, true},

		{"too short", "ab", category.Definition, true},
		{"three letter acronym survives", "DNA", category.Acronyms, false},

		{"digits only non-date", "12345", category.Units, true},
		{"punctuation only", "...!?", category.Definition, true},
		{"numeric date survives", "12/05/1998", category.Date, false},

		{"stop word", "the", category.Definition, true},
		{"stop phrase", "of the", category.Definition, true},
		{"connector phrase", "has been", category.Definition, true},
		{"stemmed stop word", "being", category.Definition, true},

		{"markup div", `<div class="page">`, category.Definition, true},
		{"markup attribute", `href="index.html"`, category.Definition, true},
		{"doctype fragment", "!DOCTYPE html", category.Definition, true},
		{"url fragment", "see https://example.com", category.Definition, true},

		{"real definition survives", "Photosynthesis is the process by which plants make food", category.Definition, false},
		{"real name survives", "Isaac Newton", category.Name, false},
		{"measurement survives", "9.8 m", category.Units, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := junk.IsJunk(tt.text, tt.cat); got != tt.want {
				t.Errorf("IsJunk(%q, %q) = %v, want %v", tt.text, tt.cat, got, tt.want)
			}
		})
	}
}

// IsJunk must be deterministic; repeated calls agree
func TestIsJunkDeterministic(t *testing.T) {
	inputs := []string{"1857", "of the", "Photosynthesis is a process", "<div>"}
	for _, input := range inputs {
		first := junk.IsJunk(input, category.Date)
		for i := 0; i < 5; i++ {
			if junk.IsJunk(input, category.Date) != first {
				t.Fatalf("IsJunk(%q) is not deterministic", input)
			}
		}
	}
}
