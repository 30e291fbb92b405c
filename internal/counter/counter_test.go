package counter_test

import (
	"testing"

	"github.com/chriscorrea/hilite/internal/counter"
)

func TestWordCounter(t *testing.T) {
	c, err := counter.New(counter.Words)
	if err != nil {
		t.Fatalf("New(Words) error = %v", err)
	}

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   \n\t  ", 0},
		{"photosynthesis", 1},
		{"the cell is the basic unit of life", 8},
		{"spaced    out\twords\nhere", 4},
	}
	for _, tt := range tests {
		if got := c.Count(tt.text); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}

	if c.Name() != "words" {
		t.Errorf("Name() = %q, want %q", c.Name(), "words")
	}
}

func TestCharCounter(t *testing.T) {
	c, err := counter.New(counter.Characters)
	if err != nil {
		t.Fatalf("New(Characters) error = %v", err)
	}

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"100°C", 5}, // runes, not bytes
		{"a b", 3},
	}
	for _, tt := range tests {
		if got := c.Count(tt.text); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestMethodString(t *testing.T) {
	tests := []struct {
		method counter.Method
		want   string
	}{
		{counter.Tokens, "tokens"},
		{counter.Words, "words"},
		{counter.Characters, "characters"},
		{counter.Method(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("Method(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
	}
}
