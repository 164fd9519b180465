package cards

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/scrollsense/scrollsense/pkg/viewport"
)

// newExtractor parses src, estimates layout into a fresh card tracker and
// returns an extractor ready to run against the document.
func newExtractor(t *testing.T, src string, budget int) (*Extractor, *goquery.Document) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	tracker := viewport.NewCardTracker()
	viewport.EstimateLayout(doc, tracker)
	return New(tracker, budget, zerolog.Nop()), doc
}

func TestExtractDirectText(t *testing.T) {
	e, doc := newExtractor(t, `<html><body>
		<article>a self contained feed item with enough text</article>
	</body></html>`, 180)

	got := e.Extract(doc)
	if got != "a self contained feed item with enough text" {
		t.Errorf("Extract = %q", got)
	}
}

func TestExtractScriptOnlyCardIsEmpty(t *testing.T) {
	e, doc := newExtractor(t, `<html><body>
		<article><script>trackPageView();</script><style>.a{display:flex}</style></article>
	</body></html>`, 180)

	if got := e.Extract(doc); got != "" {
		t.Errorf("Extract = %q, want empty for a card with only script/style children", got)
	}
}

func TestExtractRejectsChrome(t *testing.T) {
	e, doc := newExtractor(t, `<html><body>
		<article class="navbar-card">site navigation links and menus here</article>
		<article>real content card with plenty of words</article>
	</body></html>`, 180)

	got := e.Extract(doc)
	if got != "real content card with plenty of words" {
		t.Errorf("Extract = %q, chrome card must be rejected", got)
	}
}

func TestExtractRejectsHiddenCard(t *testing.T) {
	e, doc := newExtractor(t, `<html><body>
		<article style="display: none" data-vp-ratio="1">hidden but observed card text</article>
		<article>the visible card text shown instead</article>
	</body></html>`, 180)

	got := e.Extract(doc)
	if got != "the visible card text shown instead" {
		t.Errorf("Extract = %q", got)
	}
}

func TestExtractShadowRootText(t *testing.T) {
	e, doc := newExtractor(t, `<html><body>
		<article>
			<template shadowrootmode="open"><p>caption rendered from a shadow root component</p></template>
		</article>
	</body></html>`, 180)

	got := e.Extract(doc)
	if got != "caption rendered from a shadow root component" {
		t.Errorf("Extract = %q", got)
	}
}

func TestExtractNestedSelectorFallback(t *testing.T) {
	e, doc := newExtractor(t, `<html><body>
		<article>
			<div><h2>A nested headline</h2><p>and a nested paragraph of body copy</p></div>
		</article>
	</body></html>`, 180)

	got := e.Extract(doc)
	if !strings.Contains(got, "A nested headline") || !strings.Contains(got, "nested paragraph") {
		t.Errorf("Extract = %q, want nested heading and paragraph text", got)
	}
}

func TestExtractOrderingByPositionThenArea(t *testing.T) {
	e, doc := newExtractor(t, `<html><body>
		<article data-vp-top="300" data-vp-width="100" data-vp-height="100">small card at same offset</article>
		<article data-vp-top="300" data-vp-width="500" data-vp-height="400">large card at same offset</article>
		<article data-vp-top="10">topmost card appears first</article>
	</body></html>`, 180)

	got := e.Extract(doc)
	want := "topmost card appears first large card at same offset small card at same offset"
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractStopsBeforeBudgetNoMidCardCut(t *testing.T) {
	long := strings.Repeat("word ", 16) // 80 chars
	src := `<html><body>
		<article>` + long + `</article>
		<article>` + long + `</article>
		<article>` + long + `</article>
	</body></html>`
	e, doc := newExtractor(t, src, 180)

	got := e.Extract(doc)
	if len(got) > 180 {
		t.Fatalf("len = %d, want <= 180", len(got))
	}
	// Two 79-char cards joined (159) fit; the third would exceed 180 and
	// must be dropped whole, not truncated.
	wantLen := 159
	if len(got) != wantLen {
		t.Errorf("len = %d, want %d (third card dropped whole)", len(got), wantLen)
	}
}

func TestExtractSingleOversizedCardIsTruncated(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 54)) // 269 chars
	e, doc := newExtractor(t, `<html><body>
		<article>`+long+`</article>
	</body></html>`, 180)

	got := e.Extract(doc)
	if got == "" {
		t.Fatal("a single card larger than the budget must still yield a sample")
	}
	if n := len([]rune(got)); n != 180 {
		t.Errorf("len = %d, want the oversized card cut at 180", n)
	}
	if !strings.HasPrefix(long, got) {
		t.Errorf("Extract = %q, want a prefix of the card text", got)
	}
}

func TestExtractCapsAtFiveCards(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 8; i++ {
		sb.WriteString(`<article>card number text `)
		sb.WriteString(strings.Repeat("x", 3+i))
		sb.WriteString(`</article>`)
	}
	sb.WriteString("</body></html>")
	e, doc := newExtractor(t, sb.String(), 10000)

	got := e.Extract(doc)
	if n := strings.Count(got, "card number text"); n != 5 {
		t.Errorf("got %d cards, want 5", n)
	}
}

func TestExtractEmptyTrackerEmptyResult(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><article>never observed</article></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	e := New(viewport.NewCardTracker(), 180, zerolog.Nop())
	if got := e.Extract(doc); got != "" {
		t.Errorf("Extract = %q, want empty with no visible cards", got)
	}
}
