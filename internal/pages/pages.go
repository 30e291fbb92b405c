// Package pages provides the chapter page source and the PYQ keyword
// source backing highlight detection.
//
// A library directory lays out chapter text as either one file per
// page (books/<book>/<chapter>/<nn>.txt) or a single chapter file
// (books/<book>/<chapter>.txt), and previous-year-question keywords as
// a JSON string array (pyqs/<book>/<chapter>.json). HTML pages are
// routed through the extract package before detection sees them.
package pages

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/chriscorrea/hilite/internal/extract"
)

// ErrNotFound is returned when a chapter has no text in the library.
var ErrNotFound = errors.New("chapter not found")

// Page is one page of extracted chapter text.
type Page struct {
	Number int
	Text   string
}

// pageExtensions are the file types recognized as chapter pages.
var pageExtensions = map[string]bool{
	".txt":  true,
	".html": true,
	".htm":  true,
}

// numberRegex pulls the page number out of a page filename.
var numberRegex = regexp.MustCompile(`\d+`)

// DirSource reads chapter pages and keyword lists from a library
// directory on disk.
type DirSource struct {
	root string
}

// NewDirSource creates a DirSource rooted at the library directory.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

// Pages returns the ordered pages of a chapter. A chapter stored as a
// directory yields one page per file; a chapter stored as a single
// .txt file yields one page numbered 1. Returns ErrNotFound when the
// chapter has no text at all.
func (s *DirSource) Pages(book, chapter string) ([]Page, error) {
	chapterDir := filepath.Join(s.root, "books", book, chapter)
	if info, err := os.Stat(chapterDir); err == nil && info.IsDir() {
		return s.pagesFromDir(chapterDir)
	}

	single := filepath.Join(s.root, "books", book, chapter+".txt")
	data, err := os.ReadFile(single)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, book, chapter)
		}
		return nil, fmt.Errorf("failed to read chapter text: %w", err)
	}

	return []Page{{Number: 1, Text: string(data)}}, nil
}

// pagesFromDir reads one page per recognized file, ordered by page
// number. A page that fails to load is skipped with a warning so one
// bad file never loses the rest of the chapter.
func (s *DirSource) pagesFromDir(dir string) ([]Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter dir: %w", err)
	}

	var result []Page
	seq := 0
	for _, entry := range entries {
		if entry.IsDir() || !pageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		seq++

		path := filepath.Join(dir, entry.Name())
		text, err := s.readPage(path)
		if err != nil {
			slog.Warn("skipping unreadable page", "path", path, "error", err)
			continue
		}

		result = append(result, Page{
			Number: pageNumber(entry.Name(), seq),
			Text:   text,
		})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no readable pages in %s", ErrNotFound, dir)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// readPage loads one page file, extracting text from HTML pages.
func (s *DirSource) readPage(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return extract.ToText(f, "")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// pageNumber derives a page number from the filename (first digit run),
// falling back to the file's position in the directory listing.
func pageNumber(name string, fallback int) int {
	if m := numberRegex.FindString(name); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return fallback
}

// Keywords returns the chapter's previous-year-question keywords. A
// missing or corrupt keyword file yields an empty list; keyword lookup
// is best-effort and never fails detection.
func (s *DirSource) Keywords(book, chapter string) ([]string, error) {
	path := filepath.Join(s.root, "pyqs", book, chapter+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read keyword file", "path", path, "error", err)
		}
		return nil, nil
	}

	var keywords []string
	if err := json.Unmarshal(data, &keywords); err == nil {
		return keywords, nil
	}

	// older keyword files wrap each entry in an object
	var entries []struct {
		Keyword string `json:"keyword"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("corrupt keyword file, treating as empty", "path", path, "error", err)
		return nil, nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Keyword != "" {
			out = append(out, e.Keyword)
		}
	}
	return out, nil
}
