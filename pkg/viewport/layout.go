package viewport

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Synthetic flow-layout defaults for hosts without a rendering engine.
const (
	DefaultViewportHeight = 900.0
	defaultBlockWidth     = 600.0
	defaultBlockHeight    = 80.0
	defaultBlockGap       = 20.0
)

// EstimateLayout feeds synthetic observations for every tracker selector
// match in doc. Elements are laid out in document order with a simple flow
// model; individual elements can pin their geometry with data-vp-top,
// data-vp-left, data-vp-width, data-vp-height and data-vp-ratio attributes.
// Elements below the viewport, hidden elements, and aria-hidden elements
// receive a zero ratio.
//
// Each call resets membership first: a fresh parse produces fresh node
// identities, so stale members could never be observed out again.
func EstimateLayout(doc *goquery.Document, trackers ...*Tracker) {
	if doc == nil {
		return
	}
	for _, tr := range trackers {
		if tr == nil {
			continue
		}
		tr.Reset()
		query := strings.Join(tr.Selectors(), ", ")
		y := 0.0
		doc.Find(query).Each(func(i int, s *goquery.Selection) {
			if len(s.Nodes) == 0 {
				return
			}
			box := Rect{Top: y, Left: 0, Width: defaultBlockWidth, Height: defaultBlockHeight}
			pinned := false
			if v, ok := attrFloat(s, "data-vp-top"); ok {
				box.Top = v
				pinned = true
			}
			if v, ok := attrFloat(s, "data-vp-left"); ok {
				box.Left = v
			}
			if v, ok := attrFloat(s, "data-vp-width"); ok {
				box.Width = v
			}
			if v, ok := attrFloat(s, "data-vp-height"); ok {
				box.Height = v
			}

			ratio := 1.0
			if box.Top >= DefaultViewportHeight {
				ratio = 0
			}
			if isHidden(s) {
				ratio = 0
			}
			if v, ok := attrFloat(s, "data-vp-ratio"); ok {
				ratio = v
			}

			tr.Observe(Observation{Node: s.Nodes[0], Ratio: ratio, Box: box})
			if !pinned {
				y += box.Height + defaultBlockGap
			}
		})
	}
}

func attrFloat(s *goquery.Selection, name string) (float64, bool) {
	raw, ok := s.Attr(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isHidden(s *goquery.Selection) bool {
	if _, ok := s.Attr("hidden"); ok {
		return true
	}
	if v, ok := s.Attr("aria-hidden"); ok && v == "true" {
		return true
	}
	if style, ok := s.Attr("style"); ok {
		style = strings.ToLower(strings.ReplaceAll(style, " ", ""))
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
	}
	return false
}
