// Package counter provides the text counting strategies behind the
// stats command: tiktoken tokens (cl100k_base), whitespace-split
// words, and runes.
package counter

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts text in some unit.
type Counter interface {
	// Count returns the number of units in text.
	Count(text string) int

	// Name returns a human-readable name for the counting method.
	Name() string
}

// Method selects a counting strategy.
type Method int

const (
	// Tokens counts tiktoken cl100k_base tokens (default)
	Tokens Method = iota
	// Words counts whitespace-separated words
	Words
	// Characters counts runes, including whitespace
	Characters
)

// String returns the string representation of the counting method.
func (m Method) String() string {
	switch m {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// New returns a Counter for the method. Token counting can fail at
// construction if the encoding cannot be initialized.
func New(method Method) (Counter, error) {
	switch method {
	case Words:
		return wordCounter{}, nil
	case Characters:
		return charCounter{}, nil
	default:
		return newTokenCounter()
	}
}

// tokenCounter counts tiktoken cl100k_base tokens.
type tokenCounter struct {
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex // protects encoding access
}

func newTokenCounter() (Counter, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cl100k_base encoding: %w", err)
	}
	return &tokenCounter{encoding: encoding}, nil
}

func (tc *tokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.encoding.Encode(text, nil, nil))
}

func (tc *tokenCounter) Name() string { return "tokens (cl100k_base)" }

// wordCounter counts whitespace-separated words.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }
func (wordCounter) Name() string          { return "words" }

// charCounter counts runes.
type charCounter struct{}

func (charCounter) Count(text string) int { return utf8.RuneCountInString(text) }
func (charCounter) Name() string          { return "characters" }
