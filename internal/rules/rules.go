// Package rules holds the fixed catalog of pattern matchers behind
// rule-based highlight detection.
//
// The catalog is an immutable value built once at startup and passed by
// reference into the detector; there is no mutable package-level rule
// table. Patterns within a category run in declaration order and all of
// them are applied, so a page can yield matches from several patterns
// of the same category.
package rules

import (
	"log/slog"
	"regexp"

	"github.com/chriscorrea/hilite/internal/category"
)

// Pattern is one compiled matcher with a stable name used as highlight
// provenance (rule_name).
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// FindAllIndex returns the byte offsets of all non-overlapping matches
// of the pattern in text, in order.
func (p Pattern) FindAllIndex(text string) [][]int {
	return p.re.FindAllStringIndex(text, -1)
}

// rawPattern is a pattern definition prior to compilation.
type rawPattern struct {
	name string
	expr string
}

// rawRules defines the catalog in category order. Expressions use (?i)
// for case-insensitive matching and (?s) where a matched sentence may
// cross a line break in the source text.
//
// The pyq category is absent here: it matches chapter keywords by
// substring search, not by regex, and is handled by the detector.
var rawRules = []struct {
	cat      category.Category
	patterns []rawPattern
}{
	{category.Definition, []rawPattern{
		{"definition-cue", `(?is)\b(?:is defined as|can be defined as|refers to|means|is|are|was)\b.{10,150}?[.!?]`},
		{"definition-labeled", `(?is)\bdefinition\s*:\s*.{10,150}?[.!?]`},
	}},
	{category.Date, []rawPattern{
		{"date-day-month-year", `(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept?|oct|nov|dec)\.?,?\s+\d{4}\b`},
		{"date-month-day-year", `(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept?|oct|nov|dec)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`},
		{"date-numeric", `\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`},
		{"date-bare-year", `\b(?:1[5-9]\d{2}|20\d{2})\b`},
	}},
	{category.Units, []rawPattern{
		{"units-measurement", `(?i)\b\d+(?:\.\d+)?\s?(?:kg|mg|km|cm|mm|µm|nm|ms|min|khz|mhz|hz|kj|kw|mol|ml|atm|pa|g|m|s|h|j|w|v|a|l|n)\b`},
		{"units-symbol", `(?i)\b\d+(?:\.\d+)?\s?(?:°c|°f|ω|%)`},
	}},
	{category.Example, []rawPattern{
		{"example-cue", `(?is)(?:for example|e\.g\.|such as)\s.{5,120}?[.,]`},
		{"example-labeled", `(?is)\bexample\s*:\s*.{5,150}?[.!?]`},
	}},
	{category.Name, []rawPattern{
		{"name-binomial", `\b[A-Z][a-z]{3,}\s[a-z]{3,}\b`},
	}},
	{category.CapitalizedTerms, []rawPattern{
		{"capitalized-multiword", `\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`},
		{"capitalized-long", `\b[A-Z][a-z]{6,}\b`},
	}},
	{category.Steps, []rawPattern{
		{"steps-cue", `(?is)\b(?:step\s?\d+|first|second|third|then|next|finally|procedure)[,:]?\s.{10,150}?[.!?]`},
	}},
	{category.CauseEffect, []rawPattern{
		{"cause-effect-cue", `(?is)\b(?:because|due to|as a result|therefore|hence|consequently|leads to|results in)\b.{5,150}?[.!?]`},
	}},
	{category.Theories, []rawPattern{
		{"theories-of", `\b(?:Law|Theory|Principle|Rule)s?\s+of\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`},
		{"theories-named", `\b[A-Z][a-z]+(?:'s)?\s+(?:Law|Theory|Principle|Effect|Rule)s?\b`},
	}},
	{category.Acronyms, []rawPattern{
		{"acronyms-caps", `\b[A-Z]{2,6}\b`},
	}},
	{category.ListItems, []rawPattern{
		{"list-numbered", `(?m)^\s*\d+[.)]\s+[^\n]{3,120}`},
		{"list-bulleted", `(?m)^\s*[-*•]\s+[^\n]{3,120}`},
	}},
	{category.ForeignWords, []rawPattern{
		{"foreign-latin-suffix", `\b[A-Za-z]{3,}(?:us|um|ae)\b`},
		{"foreign-emphasis", `(?i)[*_][a-z]+(?: [a-z]+)?[*_]`},
	}},
}

// Catalog is the immutable set of compiled patterns, ordered by
// category and by pattern declaration within each category.
type Catalog struct {
	order    []category.Category
	patterns map[category.Category][]Pattern
}

// NewCatalog compiles the rule table into a Catalog. A pattern that
// fails to compile is skipped with a diagnostic; one bad expression
// must never abort detection for the remaining rules.
func NewCatalog() *Catalog {
	c := &Catalog{
		patterns: make(map[category.Category][]Pattern, len(rawRules)),
	}
	for _, entry := range rawRules {
		compiled := make([]Pattern, 0, len(entry.patterns))
		for _, rp := range entry.patterns {
			re, err := regexp.Compile(rp.expr)
			if err != nil {
				slog.Warn("skipping uncompilable rule pattern",
					"category", entry.cat, "pattern", rp.name, "error", err)
				continue
			}
			compiled = append(compiled, Pattern{Name: rp.name, re: re})
		}
		c.order = append(c.order, entry.cat)
		c.patterns[entry.cat] = compiled
	}
	return c
}

// Categories returns the regex-backed categories in catalog order.
// The returned slice is a copy.
func (c *Catalog) Categories() []category.Category {
	out := make([]category.Category, len(c.order))
	copy(out, c.order)
	return out
}

// Patterns returns the ordered patterns for a category. Categories
// without regex rules (pyq) return nil.
func (c *Catalog) Patterns(cat category.Category) []Pattern {
	return c.patterns[cat]
}
