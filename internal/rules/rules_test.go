package rules_test

import (
	"testing"

	"github.com/chriscorrea/hilite/internal/category"
	"github.com/chriscorrea/hilite/internal/rules"
)

func TestNewCatalog(t *testing.T) {
	catalog := rules.NewCatalog()
	if catalog == nil {
		t.Fatal("NewCatalog() returned nil")
	}

	cats := catalog.Categories()
	if len(cats) == 0 {
		t.Fatal("catalog has no categories")
	}

	// every catalog category is canonical, and pyq is keyword-driven,
	// not regex-driven
	for _, c := range cats {
		if !category.Valid(c) {
			t.Errorf("catalog category %q is not canonical", c)
		}
		if c == category.PYQ {
			t.Error("pyq must not carry regex patterns")
		}
	}

	if got := catalog.Patterns(category.PYQ); got != nil {
		t.Errorf("Patterns(pyq) = %v, want nil", got)
	}
}

// findPattern locates a pattern by name for direct matching tests
func findPattern(t *testing.T, catalog *rules.Catalog, cat category.Category, name string) rules.Pattern {
	t.Helper()
	for _, p := range catalog.Patterns(cat) {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("pattern %q not found in category %q", name, cat)
	return rules.Pattern{}
}

func TestPatternMatching(t *testing.T) {
	catalog := rules.NewCatalog()

	tests := []struct {
		name    string
		cat     category.Category
		pattern string
		text    string
		want    string // matched substring; "" means no match expected
	}{
		{"bare year", category.Date, "date-bare-year",
			"Newton's Law of Motion was stated in 1687.", "1687"},
		{"modern year", category.Date, "date-bare-year",
			"Independence came in 1947 after a long struggle.", "1947"},
		{"no year before 1500", category.Date, "date-bare-year",
			"The year 1234 predates the era.", ""},
		{"day month year", category.Date, "date-day-month-year",
			"The event happened on 15 August 1947 in Delhi.", "15 August 1947"},
		{"month day year", category.Date, "date-month-day-year",
			"Signed on July 4, 1776 by the delegates.", "July 4, 1776"},
		{"slash date", category.Date, "date-numeric",
			"Born on 12/05/1998 in Pune.", "12/05/1998"},
		{"dash date", category.Date, "date-numeric",
			"Dated 03-11-2020 at the top.", "03-11-2020"},

		{"metric unit", category.Units, "units-measurement",
			"The stone fell 9.8 m before stopping.", "9.8 m"},
		{"kilogram", category.Units, "units-measurement",
			"A mass of 70 kg was used.", "70 kg"},
		{"percent", category.Units, "units-symbol",
			"Efficiency rose to 42% overall.", "42%"},
		{"celsius", category.Units, "units-symbol",
			"Water boils at 100°C at sea level.", "100°C"},

		{"law of", category.Theories, "theories-of",
			"Newton's Law of Motion was stated in 1687.", "Law of Motion"},
		{"theory of", category.Theories, "theories-of",
			"Darwin proposed the Theory of Natural Selection here.", "Theory of Natural Selection"},

		{"acronym", category.Acronyms, "acronyms-caps",
			"The DNA molecule is a double helix.", "DNA"},

		{"numbered list item", category.ListItems, "list-numbered",
			"Steps:\n1. Collect the leaves\n2. Dry them", "1. Collect the leaves"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := findPattern(t, catalog, tt.cat, tt.pattern)
			locs := p.FindAllIndex(tt.text)
			if tt.want == "" {
				if len(locs) != 0 {
					t.Fatalf("pattern %q matched %q, want no match",
						tt.pattern, tt.text[locs[0][0]:locs[0][1]])
				}
				return
			}
			if len(locs) == 0 {
				t.Fatalf("pattern %q did not match %q", tt.pattern, tt.text)
			}
			got := tt.text[locs[0][0]:locs[0][1]]
			if got != tt.want {
				t.Errorf("pattern %q matched %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestDefinitionPatternBounded(t *testing.T) {
	catalog := rules.NewCatalog()
	p := findPattern(t, catalog, category.Definition, "definition-cue")

	text := "Photosynthesis is the process by which green plants synthesize food. Extra sentence."
	locs := p.FindAllIndex(text)
	if len(locs) == 0 {
		t.Fatal("definition-cue did not match")
	}
	got := text[locs[0][0]:locs[0][1]]
	if len(got) > 160 {
		t.Errorf("definition match too long (%d chars): %q", len(got), got)
	}
	if got[len(got)-1] != '.' {
		t.Errorf("definition match should stop at sentence terminator, got %q", got)
	}
}

// a sentence crossing a line break must still match
func TestMultilineMatching(t *testing.T) {
	catalog := rules.NewCatalog()
	p := findPattern(t, catalog, category.Definition, "definition-cue")

	text := "Osmosis is the movement of water\nacross a membrane toward solutes."
	if locs := p.FindAllIndex(text); len(locs) == 0 {
		t.Error("definition-cue should match across a line break")
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	catalog := rules.NewCatalog()
	cats := catalog.Categories()
	cats[0] = category.Category("mutated")
	if catalog.Categories()[0] == "mutated" {
		t.Error("Categories() shares its backing array with callers")
	}
}
