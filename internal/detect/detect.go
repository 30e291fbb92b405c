// Package detect contains the rule-based highlight detector.
//
// The detector walks pages x active categories x patterns, trims and
// junk-filters every raw match, deduplicates candidates within the run,
// and attaches provenance. It never persists anything: detection is a
// pure, retryable read over its sources, and saving the results is the
// store's job.
package detect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/chriscorrea/hilite/internal/category"
	"github.com/chriscorrea/hilite/internal/highlight"
	"github.com/chriscorrea/hilite/internal/junk"
	"github.com/chriscorrea/hilite/internal/pages"
	"github.com/chriscorrea/hilite/internal/rules"
)

// DefaultMaxPages bounds how many pages a single detection run scans.
// This caps upstream extraction cost; it is a policy knob, not an
// invariant of the results.
const DefaultMaxPages = 50

// PageSource supplies the ordered page text of a chapter.
type PageSource interface {
	Pages(book, chapter string) ([]pages.Page, error)
}

// KeywordSource supplies the previous-year-question keywords of a
// chapter, used by the pyq category.
type KeywordSource interface {
	Keywords(book, chapter string) ([]string, error)
}

// Detector runs the rule catalog against chapter pages.
type Detector struct {
	catalog  *rules.Catalog
	source   PageSource
	keywords KeywordSource
	maxPages int
	ner      bool
}

// Option configures a Detector.
type Option func(*Detector)

// WithMaxPages overrides the page cap for a detection run.
func WithMaxPages(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.maxPages = n
		}
	}
}

// WithEntityRecognition enables named-entity recognition as an extra
// matcher for the name category. NER is noticeably slower than the
// regex rules, so it is opt-in.
func WithEntityRecognition() Option {
	return func(d *Detector) { d.ner = true }
}

// New creates a Detector over the given catalog and sources.
func New(catalog *rules.Catalog, source PageSource, keywords KeywordSource, opts ...Option) *Detector {
	d := &Detector{
		catalog:  catalog,
		source:   source,
		keywords: keywords,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Options selects what a detection run covers.
type Options struct {
	// Categories restricts detection to the named categories. nil means
	// all canonical categories; entries that normalize to nothing are
	// dropped with a warning, and if none survive the run detects
	// nothing rather than falling back to everything.
	Categories []string

	// Page restricts detection to a single page number.
	Page *int
}

// dedupKey collapses candidates within one run: a category and page
// may contain each distinct text only once, no matter how many
// patterns produced it.
type dedupKey struct {
	text string
	cat  category.Category
	page int
}

// Detect scans the chapter and returns the detected highlights.
// Detection on a chapter with no page text returns an empty result,
// not an error. ctx is accepted for API consistency with the page
// sources; a caller wanting to bound cost should pass an explicit page
// or a capped category list.
func (d *Detector) Detect(ctx context.Context, book, chapter string, opts Options) ([]highlight.Highlight, error) {
	active := d.activeCategories(opts.Categories)
	if len(active) == 0 {
		slog.Warn("no resolvable categories requested, detecting nothing")
		return []highlight.Highlight{}, nil
	}

	pageList, err := d.source.Pages(book, chapter)
	if err != nil {
		if errors.Is(err, pages.ErrNotFound) {
			slog.Debug("chapter has no pages", "book", book, "chapter", chapter)
			return []highlight.Highlight{}, nil
		}
		return nil, fmt.Errorf("failed to load chapter pages: %w", err)
	}

	if opts.Page != nil {
		pageList = selectPage(pageList, *opts.Page)
	}
	if len(pageList) > d.maxPages {
		slog.Warn("page cap reached, truncating scan",
			"pages", len(pageList), "cap", d.maxPages)
		pageList = pageList[:d.maxPages]
	}

	// keywords are fetched once per run, only when pyq is active
	var keywords []string
	for _, cat := range active {
		if cat == category.PYQ {
			keywords, err = d.keywords.Keywords(book, chapter)
			if err != nil {
				slog.Warn("keyword lookup failed, skipping pyq",
					"book", book, "chapter", chapter, "error", err)
			}
			break
		}
	}

	seen := make(map[dedupKey]bool)
	result := []highlight.Highlight{}

	for _, pg := range pageList {
		for _, cat := range active {
			if cat == category.PYQ {
				result = append(result, d.matchKeywords(pg, keywords, seen)...)
				continue
			}

			result = append(result, d.matchPatterns(pg, cat, seen)...)

			if cat == category.Name && d.ner {
				result = append(result, d.matchEntities(pg, seen)...)
			}
		}
	}

	slog.Debug("detection complete", "book", book, "chapter", chapter,
		"pages", len(pageList), "highlights", len(result))
	return result, nil
}

// activeCategories resolves the requested category names, or returns
// the full canonical set when none are given.
func (d *Detector) activeCategories(requested []string) []category.Category {
	if requested == nil {
		return category.All()
	}

	var active []category.Category
	seen := make(map[category.Category]bool)
	for _, raw := range requested {
		cat, ok := category.Normalize(raw)
		if !ok {
			slog.Warn("dropping unrecognized category", "category", raw)
			continue
		}
		if !seen[cat] {
			seen[cat] = true
			active = append(active, cat)
		}
	}
	return active
}

// matchPatterns applies every catalog pattern of one category to one
// page, in declaration order.
func (d *Detector) matchPatterns(pg pages.Page, cat category.Category, seen map[dedupKey]bool) []highlight.Highlight {
	var out []highlight.Highlight

	for pi, pat := range d.catalog.Patterns(cat) {
		for mi, loc := range pat.FindAllIndex(pg.Text) {
			text, start, end := highlight.TrimMatch(pg.Text, loc[0], loc[1])
			if text == "" || junk.IsJunk(text, cat) {
				continue
			}

			key := dedupKey{text: text, cat: cat, page: pg.Number}
			if seen[key] {
				continue
			}
			seen[key] = true

			out = append(out, highlight.Highlight{
				Text:       text,
				Start:      start,
				End:        end,
				Category:   cat,
				PageNumber: pg.Number,
				Source:     highlight.SourceRegex,
				MatchID:    fmt.Sprintf("%s_%d_%d", cat, pi, mi),
				RuleName:   pat.Name,
			})
		}
	}
	return out
}

// matchKeywords emits a pyq highlight for each chapter keyword found
// in the page by case-insensitive substring search.
func (d *Detector) matchKeywords(pg pages.Page, keywords []string, seen map[dedupKey]bool) []highlight.Highlight {
	var out []highlight.Highlight

	for ki, kw := range keywords {
		start, end, err := highlight.Locate(pg.Text, kw)
		if err != nil {
			continue
		}

		text := pg.Text[start:end]
		if junk.IsJunk(text, category.PYQ) {
			continue
		}

		key := dedupKey{text: text, cat: category.PYQ, page: pg.Number}
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, highlight.Highlight{
			Text:       text,
			Start:      start,
			End:        end,
			Category:   category.PYQ,
			PageNumber: pg.Number,
			Source:     highlight.SourcePYQ,
			MatchID:    fmt.Sprintf("pyq_%d_0", ki),
			RuleName:   "pyq-keyword",
		})
	}
	return out
}

// nerLabels are the prose entity labels treated as names.
var nerLabels = map[string]bool{
	"PERSON": true,
	"GPE":    true,
}

// matchEntities supplements the regex name rules with named-entity
// recognition. Entity offsets are recovered by forward substring
// search, which keeps repeated mentions aligned with their order in
// the page text.
func (d *Detector) matchEntities(pg pages.Page, seen map[dedupKey]bool) []highlight.Highlight {
	doc, err := prose.NewDocument(pg.Text)
	if err != nil {
		slog.Warn("entity recognition failed", "page", pg.Number, "error", err)
		return nil
	}

	var out []highlight.Highlight
	searchFrom := 0

	for ei, ent := range doc.Entities() {
		if !nerLabels[ent.Label] {
			continue
		}

		idx := strings.Index(pg.Text[searchFrom:], ent.Text)
		if idx >= 0 {
			idx += searchFrom
		} else {
			idx = strings.Index(pg.Text, ent.Text)
		}
		if idx < 0 {
			continue
		}
		searchFrom = idx + len(ent.Text)

		text, start, end := highlight.TrimMatch(pg.Text, idx, idx+len(ent.Text))
		if text == "" || junk.IsJunk(text, category.Name) {
			continue
		}

		key := dedupKey{text: text, cat: category.Name, page: pg.Number}
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, highlight.Highlight{
			Text:       text,
			Start:      start,
			End:        end,
			Category:   category.Name,
			PageNumber: pg.Number,
			Source:     highlight.SourceRegex,
			MatchID:    fmt.Sprintf("name_ner_%d", ei),
			RuleName:   "ner",
		})
	}
	return out
}

// selectPage filters the page list to a single page number.
func selectPage(pageList []pages.Page, number int) []pages.Page {
	for _, pg := range pageList {
		if pg.Number == number {
			return []pages.Page{pg}
		}
	}
	return nil
}
