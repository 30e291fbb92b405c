package category_test

import (
	"testing"

	"github.com/chriscorrea/hilite/internal/category"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  category.Category
		ok    bool
	}{
		{"canonical passes through", "definition", category.Definition, true},
		{"mixed case", "Definition", category.Definition, true},
		{"surrounding whitespace", "  date \n", category.Date, true},
		{"plural singularized", "dates", category.Date, true},
		{"plural of definition", "definitions", category.Definition, true},
		{"plural of example", "examples", category.Example, true},
		{"plural canonical stays plural", "units", category.Units, true},
		{"singular alias of plural canonical", "unit", category.Units, true},
		{"steps stays plural", "steps", category.Steps, true},
		{"step alias", "step", category.Steps, true},
		{"theories canonical", "theories", category.Theories, true},
		{"theory alias", "theory", category.Theories, true},
		{"rule alias", "rule", category.Theories, true},
		{"rules via singularization", "rules", category.Theories, true},
		{"acronym alias", "acronym", category.Acronyms, true},
		{"abbreviations", "abbreviations", category.Acronyms, true},
		{"space separator folded", "list items", category.ListItems, true},
		{"hyphen separator folded", "cause-effect", category.CauseEffect, true},
		{"capitalized terms", "capitalized_terms", category.CapitalizedTerms, true},
		{"measurement alias", "measurements", category.Units, true},
		{"year alias", "years", category.Date, true},
		{"pyq", "pyq", category.PYQ, true},
		{"pyqs singularized", "pyqs", category.PYQ, true},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"unknown", "banana", "", false},
		{"near miss", "definitionz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := category.Normalize(tt.input)
			if ok != tt.ok {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// every successful normalization must land inside the canonical set
func TestNormalizeClosure(t *testing.T) {
	inputs := []string{
		"definition", "Dates", "UNITS", "example", "names", "steps",
		"theories", "acronyms", "pyqs", "garbage", "", "unit s",
		"list_items", "foreign_words", "capitalized terms", "lists",
	}
	for _, input := range inputs {
		if got, ok := category.Normalize(input); ok && !category.Valid(got) {
			t.Errorf("Normalize(%q) = %q, which is not canonical", input, got)
		}
	}
}

func TestAll(t *testing.T) {
	all := category.All()
	if len(all) != 13 {
		t.Fatalf("All() returned %d categories, want 13", len(all))
	}
	for _, c := range all {
		if !category.Valid(c) {
			t.Errorf("All() contains non-canonical category %q", c)
		}
	}

	// mutating the returned slice must not affect later calls
	all[0] = category.Category("mutated")
	if category.All()[0] != category.Definition {
		t.Error("All() shares its backing array with callers")
	}
}
