package adapters

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// builtinAdapters returns the rule sets for platforms with known DOM
// structure. Selector lists are ordered most-specific first; platforms
// rotate their markup, so each field carries at least one broad fallback.
func builtinAdapters() []Adapter {
	return []Adapter{
		{
			Domains: []string{"youtube.com"},
			Type:    "video",
			TypeFunc: func(u *url.URL, doc *goquery.Document) string {
				if strings.Contains(u.Path, "/shorts/") {
					return "short"
				}
				return "video"
			},
			Rules: []FieldRule{
				{Name: "title", Selectors: []string{
					"h1.ytd-watch-metadata yt-formatted-string",
					"#title h1 yt-formatted-string",
					"h1.title",
				}},
				{Name: "description", Selectors: []string{
					"#description-inline-expander yt-attributed-string",
					"#description yt-formatted-string",
					"#description",
				}},
				{Name: "channel", Selectors: []string{
					"ytd-channel-name #text a",
					"#channel-name a",
					"#owner #channel-name",
				}},
				{Name: "comments", Max: 3, Selectors: []string{
					"ytd-comment-thread-renderer #content-text",
					"#comments #content-text",
				}},
			},
		},
		{
			Domains: []string{"instagram.com"},
			Type:    "post",
			TypeFunc: func(u *url.URL, doc *goquery.Document) string {
				if strings.Contains(u.Path, "/reel") {
					return "reel"
				}
				return "post"
			},
			Rules: []FieldRule{
				{Name: "caption", Selectors: []string{
					"article h1",
					"div[role=presentation] h1",
					"span._ap3a._aaco._aacu",
					"div._a9zs span",
				}},
				{Name: "username", Selectors: []string{
					"article header a",
					"header span._ap3a",
					"div._aaqt a",
				}},
				{Name: "comments", Max: 3, Selectors: []string{
					"ul._a9z6 div._a9zr span",
					"div._a9zr h3 + div span",
				}},
			},
		},
		{
			Domains: []string{"twitter.com", "x.com"},
			Type:    "tweet",
			Rules: []FieldRule{
				{Name: "tweet", Selectors: []string{
					"article [data-testid=tweetText]",
					"[data-testid=tweetText]",
				}},
				{Name: "author", Selectors: []string{
					"article [data-testid=User-Name] span",
					"[data-testid=User-Name] a span",
				}},
				{Name: "replies", Max: 3, Selectors: []string{
					"[aria-label*=Timeline] article [data-testid=tweetText]",
					"div[data-testid=cellInnerDiv] article [data-testid=tweetText]",
				}},
			},
		},
		{
			Domains: []string{"tiktok.com"},
			Type:    "video",
			Rules: []FieldRule{
				{Name: "caption", Selectors: []string{
					"[data-e2e=browse-video-desc]",
					"[data-e2e=video-desc]",
					"h1[data-e2e=video-desc]",
				}},
				{Name: "username", Selectors: []string{
					"[data-e2e=browse-username]",
					"[data-e2e=video-author-uniqueid]",
				}},
				{Name: "comments", Max: 3, Selectors: []string{
					"[data-e2e=comment-level-1] p",
					"[data-e2e=comment-text]",
				}},
			},
		},
		{
			Domains: []string{"reddit.com"},
			Type:    "post",
			Rules: []FieldRule{
				{Name: "title", Selectors: []string{
					"shreddit-post h1[slot=title]",
					"h1[slot=title]",
					"shreddit-post h1",
				}},
				{Name: "body", Selectors: []string{
					"shreddit-post div[slot=text-body]",
					"div[data-post-click-location=text-body]",
				}},
				{Name: "subreddit", Selectors: []string{
					"shreddit-post a[data-testid=subreddit-name]",
					"a[data-testid=subreddit-name]",
				}},
				{Name: "comments", Max: 5, Selectors: []string{
					"shreddit-comment div[slot=comment] p",
					"div[data-testid=comment] p",
				}},
			},
		},
		{
			Domains: []string{"facebook.com"},
			Type:    "post",
			Rules: []FieldRule{
				{Name: "post", Selectors: []string{
					"div[data-ad-preview=message]",
					"div[data-ad-comet-preview=message]",
				}},
				{Name: "author", Selectors: []string{
					"h3 strong a",
					"h4 strong a",
					"strong > span",
				}},
				{Name: "comments", Max: 3, Selectors: []string{
					"div[aria-label*=Comment] span[dir=auto]",
					"ul div[role=article] span[dir=auto]",
				}},
			},
		},
	}
}
