// Package visible implements the lowest extraction tier: a purely generic
// sample assembled from whatever text elements are currently on screen.
package visible

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/scrollsense/scrollsense/internal/textutil"
	"github.com/scrollsense/scrollsense/pkg/viewport"
)

// candidate classes, in strict priority order.
const (
	classHeading = iota
	classCaption
	classComment
	classText
	classOther
)

// Fallback builds a bounded string from the generic-text tracker's members.
type Fallback struct {
	tracker *viewport.Tracker
	budget  int
	log     zerolog.Logger
}

// New creates the fallback tier over the generic text tracker.
func New(tracker *viewport.Tracker, budget int, logger zerolog.Logger) *Fallback {
	if budget <= 0 {
		budget = 180
	}
	return &Fallback{
		tracker: tracker,
		budget:  budget,
		log:     logger.With().Str("component", "visible").Logger(),
	}
}

// Tracker returns the text tracker this tier reads.
func (f *Fallback) Tracker() *viewport.Tracker {
	return f.tracker
}

// Extract appends candidates in priority order: headings, then caption and
// description-like elements, then at most one comment, then general text
// elements. Appending stops before the budget would be exceeded; the final
// string is hard-truncated as a safety net.
func (f *Fallback) Extract(doc *goquery.Document) string {
	members := f.tracker.Snapshot()
	if len(members) == 0 {
		return ""
	}

	buckets := make([][]string, classOther)
	commentUsed := false
	for _, m := range members {
		class := classify(m.Node)
		if class == classOther {
			continue
		}
		if class == classComment {
			if commentUsed {
				continue
			}
		}
		text := candidateText(m.Node)
		if text == "" || textutil.IsNoise(text) {
			continue
		}
		if class == classComment {
			commentUsed = true
		}
		buckets[class] = append(buckets[class], text)
	}

	var parts []string
	total := 0
	for _, bucket := range buckets {
		for _, text := range bucket {
			cost := len([]rune(text))
			if total > 0 {
				cost++
			}
			if total+cost > f.budget {
				return textutil.Truncate(strings.Join(parts, " "), f.budget)
			}
			parts = append(parts, text)
			total += cost
		}
	}
	return textutil.Truncate(strings.Join(parts, " "), f.budget)
}

// candidateText prefers the element's own text nodes, falling back to the
// full subtree text when the element only wraps children.
func candidateText(n *html.Node) string {
	if text := textutil.DirectText(n); text != "" {
		return text
	}
	return textutil.FullText(n)
}

// classify buckets a node by tag and attribute heuristics.
func classify(n *html.Node) int {
	if n == nil || n.Type != html.ElementNode {
		return classOther
	}
	switch strings.ToLower(n.Data) {
	case "h1", "h2", "h3":
		return classHeading
	case "script", "style", "noscript":
		return classOther
	}

	var class, id, testid string
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "class":
			class = strings.ToLower(attr.Val)
		case "id":
			id = strings.ToLower(attr.Val)
		case "data-testid":
			testid = strings.ToLower(attr.Val)
		}
	}
	markers := class + " " + id + " " + testid

	for _, m := range []string{"caption", "description", "summary", "subtitle"} {
		if strings.Contains(markers, m) {
			return classCaption
		}
	}
	for _, m := range []string{"comment", "reply"} {
		if strings.Contains(markers, m) {
			return classComment
		}
	}
	if strings.ToLower(n.Data) == "p" {
		return classText
	}
	for _, m := range []string{"text", "content", "body"} {
		if strings.Contains(markers, m) {
			return classText
		}
	}
	return classOther
}
