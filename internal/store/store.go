// Package store persists per-chapter highlight collections.
//
// The Store interface is backend-agnostic: a (book, chapter) pair keys
// one addressable collection of highlight records. FileStore implements
// it with one JSON file per chapter, written atomically, with a
// per-chapter mutex guarding the load-check-append-save sequence so
// concurrent inserts cannot lose updates.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chriscorrea/hilite/internal/category"
	"github.com/chriscorrea/hilite/internal/highlight"
	"github.com/chriscorrea/hilite/internal/junk"
)

var (
	// ErrInvalidCategory is returned when a record or filter names a
	// category outside the canonical set.
	ErrInvalidCategory = errors.New("category not in canonical set")

	// ErrJunkText is returned when an inserted record fails the junk
	// filter safety net.
	ErrJunkText = errors.New("highlight text rejected as junk")

	// ErrInvalidSpan is returned when a record's offsets are not a
	// valid half-open span.
	ErrInvalidSpan = errors.New("highlight offsets are not a valid span")
)

// Filter selects a subset of a chapter collection. Zero values match
// everything.
type Filter struct {
	Page     *int   // exact page_number match
	Category string // raw category string, normalized before matching
}

// Store is the persistence contract for highlight collections.
type Store interface {
	// Insert adds a record if its uniqueness key is absent. Returns
	// added=false with a nil error for exact duplicates, and a non-nil
	// error when the record is rejected (invalid category, junk text,
	// bad span) or persistence fails.
	Insert(book, chapter string, h highlight.Highlight) (added bool, err error)

	// Remove deletes the record with the exact key. Returns
	// removed=false with a nil error when no record matches.
	Remove(book, chapter string, key highlight.Key) (removed bool, err error)

	// List returns the chapter's records matching the filter. A missing
	// chapter yields an empty slice, not an error. List never mutates
	// stored state.
	List(book, chapter string, f Filter) ([]highlight.Highlight, error)

	// ReplaceAll overwrites the chapter's entire collection.
	ReplaceAll(book, chapter string, records []highlight.Highlight) error
}

// FileStore stores each chapter collection as
// <root>/highlights/<book>/<chapter>.json.
type FileStore struct {
	root string

	mu    sync.Mutex             // guards locks
	locks map[string]*sync.Mutex // one mutex per (book, chapter)
}

// assert interface compliance at compile time
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir, creating the
// highlights directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "highlights"), 0o755); err != nil {
		return nil, fmt.Errorf("create highlights dir: %w", err)
	}
	return &FileStore{
		root:  dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// validName rejects path-unsafe book/chapter identifiers.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`)
}

func (s *FileStore) chapterPath(book, chapter string) (string, error) {
	if !validName(book) || !validName(chapter) {
		return "", fmt.Errorf("invalid book/chapter name %q/%q", book, chapter)
	}
	return filepath.Join(s.root, "highlights", book, chapter+".json"), nil
}

// lockFor returns the mutex serializing writes to one chapter.
func (s *FileStore) lockFor(book, chapter string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := book + "/" + chapter
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// load reads a chapter collection. A missing file is an empty
// collection; a corrupt file is logged and treated as empty rather
// than failing the whole operation.
func (s *FileStore) load(path string) []highlight.Highlight {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read highlight file", "path", path, "error", err)
		}
		return nil
	}

	var records []highlight.Highlight
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("corrupt highlight file, treating as empty", "path", path, "error", err)
		return nil
	}
	return records
}

// save writes the collection atomically: marshal to a temp file in the
// target directory, then rename over the destination so a reader never
// observes a partial write. Write failures are surfaced to the caller.
func (s *FileStore) save(path string, records []highlight.Highlight) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chapter dir: %w", err)
	}

	if records == nil {
		records = []highlight.Highlight{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal highlights: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".highlights-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write highlights: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace highlight file: %w", err)
	}
	return nil
}

// Insert validates, deduplicates, and persists one record.
func (s *FileStore) Insert(book, chapter string, h highlight.Highlight) (bool, error) {
	cat, ok := category.Normalize(string(h.Category))
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidCategory, h.Category)
	}
	h.Category = cat

	if h.Start < 0 || h.End <= h.Start {
		return false, fmt.Errorf("%w: [%d,%d)", ErrInvalidSpan, h.Start, h.End)
	}

	// second safety net; detection applies the same filter earlier
	if junk.IsJunk(h.Text, h.Category) {
		return false, fmt.Errorf("%w: %q", ErrJunkText, h.Text)
	}

	path, err := s.chapterPath(book, chapter)
	if err != nil {
		return false, err
	}

	lock := s.lockFor(book, chapter)
	lock.Lock()
	defer lock.Unlock()

	records := s.load(path)
	key := h.Key()
	for _, existing := range records {
		if existing.Key() == key {
			slog.Debug("highlight already exists, skipping", "highlight", h)
			return false, nil
		}
	}

	records = append(records, h)
	if err := s.save(path, records); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the record matching the key exactly.
func (s *FileStore) Remove(book, chapter string, key highlight.Key) (bool, error) {
	cat, ok := category.Normalize(string(key.Category))
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidCategory, key.Category)
	}
	key.Category = cat

	path, err := s.chapterPath(book, chapter)
	if err != nil {
		return false, err
	}

	lock := s.lockFor(book, chapter)
	lock.Lock()
	defer lock.Unlock()

	records := s.load(path)
	kept := records[:0]
	for _, existing := range records {
		if existing.Key() != key {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(records) {
		slog.Debug("highlight not found, nothing removed", "key", key)
		return false, nil
	}

	if err := s.save(path, kept); err != nil {
		return false, err
	}
	return true, nil
}

// List loads the chapter collection and applies the filter.
func (s *FileStore) List(book, chapter string, f Filter) ([]highlight.Highlight, error) {
	var wantCat category.Category
	if f.Category != "" {
		cat, ok := category.Normalize(f.Category)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, f.Category)
		}
		wantCat = cat
	}

	path, err := s.chapterPath(book, chapter)
	if err != nil {
		return nil, err
	}

	records := s.load(path)
	out := make([]highlight.Highlight, 0, len(records))
	for _, h := range records {
		if f.Page != nil && h.PageNumber != *f.Page {
			continue
		}
		if wantCat != "" && h.Category != wantCat {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// ReplaceAll overwrites the chapter collection after validating every
// record's category. Records are stored as given; bulk saves round-trip
// previously accepted highlights, so the junk filter is not re-applied.
func (s *FileStore) ReplaceAll(book, chapter string, records []highlight.Highlight) error {
	normalized := make([]highlight.Highlight, 0, len(records))
	for _, h := range records {
		cat, ok := category.Normalize(string(h.Category))
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, h.Category)
		}
		h.Category = cat
		normalized = append(normalized, h)
	}

	path, err := s.chapterPath(book, chapter)
	if err != nil {
		return err
	}

	lock := s.lockFor(book, chapter)
	lock.Lock()
	defer lock.Unlock()

	return s.save(path, normalized)
}
