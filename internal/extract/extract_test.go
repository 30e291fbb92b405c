package extract_test

import (
	"strings"
	"testing"

	"github.com/chriscorrea/hilite/internal/extract"
)

const pageHTML = `<html><body>
<div id="content">
<h2>Cell Theory</h2>
<p>The cell is the basic unit of life, a fact first recorded by
<a href="/hooke">Robert Hooke</a> in 1665.</p>
<p>Some terms appear <em>in vitro</em> in the source text.</p>
</div>
<div id="sidebar"><p>unrelated navigation links</p></div>
</body></html>`

func TestToTextWithSelector(t *testing.T) {
	text, err := extract.ToText(strings.NewReader(pageHTML), "#content")
	if err != nil {
		t.Fatalf("ToText() error = %v", err)
	}

	if !strings.Contains(text, "basic unit of life") {
		t.Errorf("extracted text lost content: %q", text)
	}
	if strings.Contains(text, "sidebar") || strings.Contains(text, "unrelated navigation") {
		t.Errorf("selector failed to exclude other elements: %q", text)
	}

	// markdown syntax must not leak into page text
	if strings.Contains(text, "##") {
		t.Errorf("heading markers leaked: %q", text)
	}
	if strings.Contains(text, "](") || strings.Contains(text, "/hooke") {
		t.Errorf("link syntax leaked: %q", text)
	}
	if !strings.Contains(text, "Robert Hooke") {
		t.Errorf("link text dropped: %q", text)
	}

	// emphasis markers survive for the foreign word rules
	if !strings.Contains(text, "*in vitro*") {
		t.Errorf("emphasis markers stripped: %q", text)
	}
}

func TestToTextSelectorNotFound(t *testing.T) {
	if _, err := extract.ToText(strings.NewReader(pageHTML), "#missing"); err == nil {
		t.Error("ToText() with an unmatched selector should fail")
	}
}

func TestToTextReadability(t *testing.T) {
	html := `<html><head><title>Chapter 3</title></head><body>
<nav><a href="/">home</a></nav>
<article>
<h1>Photosynthesis</h1>
<p>Photosynthesis is the process by which green plants synthesize food
from carbon dioxide and water in the presence of sunlight. The pigment
chlorophyll absorbs light energy and drives the reaction.</p>
<p>The rate of photosynthesis depends on light intensity, carbon
dioxide concentration, and temperature, and it saturates beyond a
limiting value of each factor.</p>
</article>
</body></html>`

	text, err := extract.ToText(strings.NewReader(html), "")
	if err != nil {
		t.Fatalf("ToText() error = %v", err)
	}
	if !strings.Contains(text, "green plants synthesize food") {
		t.Errorf("main content lost: %q", text)
	}
	if strings.Contains(text, "<p>") || strings.Contains(text, "<article>") {
		t.Errorf("markup leaked into extracted text: %q", text)
	}
}
