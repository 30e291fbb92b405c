// Package category defines the closed set of canonical highlight
// categories and the normalization of user-supplied category strings.
//
// Categories flow through the detector, the store, and the CLI as a
// typed value constructed only via Normalize, so a misspelled category
// can never be silently stored.
package category

import (
	"strings"

	"github.com/gertd/go-pluralize"
)

// Category is a canonical highlight category key.
type Category string

// The canonical category set. These values are the storage and wire
// representation; they never change meaning between releases.
const (
	Definition       Category = "definition"
	Date             Category = "date"
	Units            Category = "units"
	Example          Category = "example"
	Name             Category = "name"
	CapitalizedTerms Category = "capitalized_terms"
	Steps            Category = "steps"
	CauseEffect      Category = "cause_effect"
	Theories         Category = "theories"
	Acronyms         Category = "acronyms"
	ListItems        Category = "list_items"
	ForeignWords     Category = "foreign_words"
	PYQ              Category = "pyq"
)

// all lists the canonical categories in a stable order.
var all = []Category{
	Definition,
	Date,
	Units,
	Example,
	Name,
	CapitalizedTerms,
	Steps,
	CauseEffect,
	Theories,
	Acronyms,
	ListItems,
	ForeignWords,
	PYQ,
}

// canonical is the membership set for fast validity checks.
var canonical = func() map[Category]struct{} {
	m := make(map[Category]struct{}, len(all))
	for _, c := range all {
		m[c] = struct{}{}
	}
	return m
}()

// aliases maps common variant spellings to canonical categories.
// Singular forms of plural canonical names appear here so that
// normalization resolves them without guessing.
var aliases = map[string]Category{
	"unit":                   Units,
	"measurement":            Units,
	"data":                   Units,
	"year":                   Date,
	"term":                   CapitalizedTerms,
	"capitalized":            CapitalizedTerms,
	"capitalized_term":       CapitalizedTerms,
	"step":                   Steps,
	"cause":                  CauseEffect,
	"cause_and_effect":       CauseEffect,
	"effect":                 CauseEffect,
	"theory":                 Theories,
	"rule":                   Theories,
	"law":                    Theories,
	"principle":              Theories,
	"acronym":                Acronyms,
	"abbreviation":           Acronyms,
	"list":                   ListItems,
	"list_item":              ListItems,
	"foreign":                ForeignWords,
	"foreign_word":           ForeignWords,
	"previous_year_question": PYQ,
}

// inflector folds plural forms to singular nouns; it holds no state
// beyond its rule tables, so a package-level instance is safe.
var inflector = pluralize.NewClient()

// All returns the canonical categories in declaration order.
// The returned slice is a copy; callers may modify it freely.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Valid reports whether c is a member of the canonical category set.
func Valid(c Category) bool {
	_, ok := canonical[c]
	return ok
}

// String returns the storage representation of the category.
func (c Category) String() string {
	return string(c)
}

// Normalize maps a user-supplied category string to its canonical
// category. It trims and lowercases the input, folds separators to
// underscores, consults the alias table, and singularizes plural forms
// that are not themselves canonical (e.g. "dates" -> "date", but
// "units" stays "units").
//
// Returns ok=false when the input resolves to nothing in the canonical
// set; callers must treat that as "skip this category", not an error.
func Normalize(raw string) (Category, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "", false
	}

	// exact canonical match wins; plural canonical names like "units"
	// and "steps" must not be singularized away
	if Valid(Category(s)) {
		return Category(s), true
	}

	if c, ok := aliases[s]; ok {
		return c, true
	}

	// singularize and try again, alias table first
	sing := inflector.Singular(s)
	if c, ok := aliases[sing]; ok {
		return c, true
	}
	if Valid(Category(sing)) {
		return Category(sing), true
	}

	return "", false
}
