// Package textutil provides the text cleaning shared by every extraction tier.
package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// MinLength is the floor below which a cleaned fragment is discarded.
const MinLength = 3

// uiNoise lists navigation/UI phrases that carry no content signal.
// Matched against the whole cleaned, lowercased fragment.
var uiNoise = map[string]struct{}{
	"home":      {},
	"menu":      {},
	"search":    {},
	"login":     {},
	"log in":    {},
	"sign in":   {},
	"sign up":   {},
	"subscribe": {},
	"share":     {},
	"like":      {},
	"comment":   {},
	"follow":    {},
	"following": {},
	"more":      {},
	"show more": {},
	"see more":  {},
	"read more": {},
	"click":     {},
	"scroll":    {},
	"reply":     {},
	"next":      {},
	"previous":  {},
	"back":      {},
	"loading":   {},
}

var (
	digitsOnly  = regexp.MustCompile(`^[\d\s.,:%/+-]+$`)
	symbolsOnly = regexp.MustCompile(`^[^\p{L}\p{N}]+$`)
)

// Normalize collapses all runs of whitespace into single spaces and trims.
func Normalize(input string) string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(input))
	for i, f := range fields {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(f)
	}
	return b.String()
}

// Truncate caps s at max runes. A multi-byte final character is never split.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// IsNoise reports whether a cleaned fragment is too short to matter or looks
// like navigation chrome rather than content.
func IsNoise(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	if len([]rune(t)) < MinLength {
		return true
	}
	if _, ok := uiNoise[t]; ok {
		return true
	}
	if digitsOnly.MatchString(t) || symbolsOnly.MatchString(t) {
		return true
	}
	return false
}

// DirectText concatenates the immediate text-node children of n, without
// descending into child elements.
func DirectText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteString(" ")
		}
	}
	return Normalize(b.String())
}

// FullText concatenates every text node under n, skipping script, style and
// noscript subtrees.
func FullText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.ElementNode {
			switch strings.ToLower(cur.Data) {
			case "script", "style", "noscript":
				return
			}
		}
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
			b.WriteString(" ")
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return Normalize(b.String())
}
