// Package cards implements the domain-agnostic fallback tier: find
// card-shaped visible blocks and extract a ranked, bounded text sample.
package cards

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/scrollsense/scrollsense/internal/textutil"
	"github.com/scrollsense/scrollsense/pkg/viewport"
)

const (
	// maxCards bounds how many cards contribute to one sample.
	maxCards = 5
	// minCardText rejects cards with less text than a meaningful feed item.
	minCardText = 10
	// directTextFloor decides when direct child text alone is enough and
	// the deeper (shadow, nested-selector) strategies can be skipped.
	directTextFloor = 20
)

// chromePattern identifies page chrome regions that look card-shaped but
// never carry content.
var chromePattern = regexp.MustCompile(`(?i)\b(nav|navbar|header|footer|sidebar|side-bar|menu|breadcrumb|pagination)\b`)

// nestedSelectors is the fixed priority list tried inside a card when its
// direct and shadow text is too short.
var nestedSelectors = []string{
	"h1", "h2", "h3", "h4",
	"p",
	"[data-testid*=content]",
	"[data-testid*=title]",
	"[data-testid*=description]",
}

// Extractor finds visible cards via its tracker and assembles a bounded
// sample from the most prominent ones.
type Extractor struct {
	tracker *viewport.Tracker
	budget  int
	log     zerolog.Logger
}

// New creates a card extractor over the given card tracker. budget caps the
// returned string length.
func New(tracker *viewport.Tracker, budget int, logger zerolog.Logger) *Extractor {
	if budget <= 0 {
		budget = 180
	}
	return &Extractor{
		tracker: tracker,
		budget:  budget,
		log:     logger.With().Str("component", "cards").Logger(),
	}
}

// Tracker returns the card tracker this extractor reads.
func (e *Extractor) Tracker() *viewport.Tracker {
	return e.tracker
}

// Extract concatenates cleaned text from the top visible cards, in reading
// order, stopping before the budget would be exceeded. The result may be
// empty; it is never longer than the budget.
func (e *Extractor) Extract(doc *goquery.Document) string {
	members := e.tracker.Snapshot()
	if len(members) == 0 {
		return ""
	}

	var parts []string
	used := 0
	total := 0
	for _, m := range members {
		if used >= maxCards {
			break
		}
		text := e.cardText(m.Node)
		if text == "" {
			continue
		}
		cost := len([]rune(text))
		if total > 0 {
			cost++ // joining space
		}
		if total+cost > e.budget {
			// Never truncate mid-card, except a lone card that outgrows
			// the whole budget: keep it and let the final cap cut it.
			if len(parts) == 0 {
				parts = append(parts, text)
			}
			break
		}
		parts = append(parts, text)
		total += cost
		used++
	}

	result := textutil.Normalize(strings.Join(parts, " "))
	return textutil.Truncate(result, e.budget)
}

// cardText extracts and cleans one card's text, or returns "" for an
// invalid card. DOM failures inside a single card are contained here.
func (e *Extractor) cardText(node *html.Node) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Warn().Interface("panic", rec).Msg("card extraction failure, card dropped")
			text = ""
		}
	}()

	if node == nil || !e.validCard(node) {
		return ""
	}

	var b strings.Builder
	b.WriteString(textutil.DirectText(node))

	if runeLen(b.String()) < directTextFloor {
		e.appendShadowText(node, &b)
	}
	if runeLen(b.String()) < directTextFloor {
		e.appendNestedText(node, &b)
	}

	cleaned := textutil.Normalize(b.String())
	if runeLen(cleaned) < minCardText || textutil.IsNoise(cleaned) {
		return ""
	}
	return cleaned
}

// validCard rejects hidden elements and page chrome.
func (e *Extractor) validCard(node *html.Node) bool {
	tag := strings.ToLower(node.Data)
	switch tag {
	case "nav", "header", "footer", "aside":
		return false
	}

	var id, class, style string
	hidden := false
	for _, attr := range node.Attr {
		switch strings.ToLower(attr.Key) {
		case "id":
			id = attr.Val
		case "class":
			class = attr.Val
		case "style":
			style = attr.Val
		case "hidden":
			hidden = true
		case "aria-hidden":
			if attr.Val == "true" {
				hidden = true
			}
		}
	}
	if hidden {
		return false
	}
	compactStyle := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if strings.Contains(compactStyle, "display:none") || strings.Contains(compactStyle, "visibility:hidden") {
		return false
	}
	if chromePattern.MatchString(tag) || chromePattern.MatchString(id) || chromePattern.MatchString(class) {
		return false
	}
	return true
}

func (e *Extractor) appendShadowText(node *html.Node, b *strings.Builder) {
	walkShadowTexts(node, func(text string) bool {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(text)
		return runeLen(b.String()) < e.budget
	})
}

func (e *Extractor) appendNestedText(node *html.Node, b *strings.Builder) {
	card := goquery.NewDocumentFromNode(node)
	for _, selector := range nestedSelectors {
		stop := false
		card.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := textutil.Normalize(s.Text())
			if text == "" || textutil.IsNoise(text) {
				return true
			}
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(text)
			if runeLen(b.String()) >= e.budget {
				stop = true
				return false
			}
			return true
		})
		if stop {
			break
		}
	}
}

func runeLen(s string) int {
	return len([]rune(s))
}
