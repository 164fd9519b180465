package cards

import (
	"strings"

	"golang.org/x/net/html"
)

// Declarative shadow DOM is the server-side form of an attached shadow
// root: the root's markup survives parsing as a <template shadowrootmode>
// child of its host. The walker below treats those templates as nested
// roots so card text hidden behind components is still reachable.

// shadowRoots returns the declarative shadow roots hosted by n itself,
// not its descendants.
func shadowRoots(n *html.Node) []*html.Node {
	var roots []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || !strings.EqualFold(c.Data, "template") {
			continue
		}
		for _, attr := range c.Attr {
			if strings.EqualFold(attr.Key, "shadowrootmode") || strings.EqualFold(attr.Key, "shadowroot") {
				roots = append(roots, c)
				break
			}
		}
	}
	return roots
}

// walkShadowTexts visits the text content of every shadow root under root,
// including roots nested inside other roots. Text under script, style and
// noscript parents is rejected. visit returning false stops the walk, which
// is how the caller enforces its character budget.
func walkShadowTexts(root *html.Node, visit func(text string) bool) {
	var walk func(n *html.Node, inShadow bool) bool
	walk = func(n *html.Node, inShadow bool) bool {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "script", "style", "noscript":
				return true
			}
		}
		if inShadow && n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" && !visit(text) {
				return false
			}
		}
		for _, shadow := range shadowRoots(n) {
			for c := shadow.FirstChild; c != nil; c = c.NextSibling {
				if !walk(c, true) {
					return false
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && strings.EqualFold(c.Data, "template") {
				// Shadow templates were already descended above; plain
				// templates are inert and contribute nothing.
				continue
			}
			if !walk(c, inShadow) {
				return false
			}
		}
		return true
	}
	walk(root, false)
}
