package textutil

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already clean",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld\n\n  again",
			want:  "hello world again",
		},
		{
			name:  "leading and trailing space",
			input: "   padded   ",
			want:  "padded",
		},
		{
			name:  "only whitespace",
			input: " \n\t ",
			want:  "",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"under limit", "short", 10, "short"},
		{"exact limit", "exact", 5, "exact"},
		{"over limit", "truncate me", 8, "truncate"},
		{"zero max", "anything", 0, ""},
		{"multibyte not split", "héllo", 2, "hé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestIsNoise(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"ab", true},
		{"Home", true},
		{"SHARE", true},
		{"sign in", true},
		{"123", true},
		{"12:30", true},
		{"...", true},
		{"→ → →", true},
		{"an actual sentence about something", false},
		{"breaking news today", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsNoise(tt.input); got != tt.want {
				t.Errorf("IsNoise(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func parseFragment(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	// Descend html > body > first element.
	var find func(*html.Node, string) *html.Node
	find = func(n *html.Node, tag string) *html.Node {
		if n.Type == html.ElementNode && n.Data == tag {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if r := find(c, tag); r != nil {
				return r
			}
		}
		return nil
	}
	div := find(doc, "div")
	if div == nil {
		t.Fatal("fixture has no div element")
	}
	return div
}

func TestDirectText(t *testing.T) {
	div := parseFragment(t, `<div> direct <span>nested</span> text </div>`)
	if got := DirectText(div); got != "direct text" {
		t.Errorf("DirectText = %q, want %q", got, "direct text")
	}
}

func TestFullTextSkipsScriptAndStyle(t *testing.T) {
	div := parseFragment(t, `<div>keep <script>var x = 1;</script><style>.a{}</style><span>this</span></div>`)
	if got := FullText(div); got != "keep this" {
		t.Errorf("FullText = %q, want %q", got, "keep this")
	}
}
