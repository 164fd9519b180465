package adapters

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(zerolog.Nop())
}

func mustDoc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func TestMatchStripsWWW(t *testing.T) {
	r := testRegistry(t)
	a := r.Match("www.youtube.com")
	if a == nil {
		t.Fatal("www.youtube.com should match the youtube adapter")
	}
}

func TestMatchSubstring(t *testing.T) {
	r := testRegistry(t)
	if r.Match("m.youtube.com") == nil {
		t.Error("subdomain should substring-match the registered domain")
	}
	if r.Match("example.org") != nil {
		t.Error("unknown hostname must return nil")
	}
}

func TestMatchLongestDomainWins(t *testing.T) {
	r := testRegistry(t)
	broad := Adapter{Domains: []string{"example.com"}, Type: "broad",
		Rules: []FieldRule{{Name: "title", Selectors: []string{"h1"}}}}
	narrow := Adapter{Domains: []string{"news.example.com"}, Type: "narrow",
		Rules: []FieldRule{{Name: "title", Selectors: []string{"h1"}}}}
	r.Register(broad)
	r.Register(narrow)

	got := r.Match("news.example.com")
	if got == nil || got.Type != "narrow" {
		t.Fatalf("longest matching domain must win, got %+v", got)
	}
	if a := r.Match("example.com"); a == nil || a.Type != "broad" {
		t.Fatalf("shorter hostname should still hit the broad adapter, got %+v", a)
	}
}

func TestMatchTieByRegistrationOrder(t *testing.T) {
	r := &Registry{log: zerolog.Nop()}
	first := Adapter{Domains: []string{"tie.com"}, Type: "first"}
	second := Adapter{Domains: []string{"tie.com"}, Type: "second"}
	r.Register(first)
	r.Register(second)

	if got := r.Match("tie.com"); got == nil || got.Type != "first" {
		t.Fatalf("equal-length tie must resolve to earliest registration, got %+v", got)
	}
}

func TestExtractFirstQualifyingHit(t *testing.T) {
	r := &Registry{log: zerolog.Nop()}
	r.Register(Adapter{
		Domains: []string{"example.com"},
		Type:    "post",
		Rules: []FieldRule{
			{Name: "title", Selectors: []string{".missing", "h1"}},
		},
	})

	doc := mustDoc(t, `<html><body><h1>ok</h1><h1>A real title here</h1></body></html>`)
	content := r.Extract(doc, "https://example.com/p/1")
	if content == nil {
		t.Fatal("Extract returned nil")
	}
	// "ok" is only 2 chars; the first element whose trimmed text exceeds 3
	// chars wins.
	if got := content.Field("title"); got != "A real title here" {
		t.Errorf("title = %q, want the first hit longer than 3 chars", got)
	}
}

func TestExtractMultiValueCapAndDedupe(t *testing.T) {
	r := &Registry{log: zerolog.Nop()}
	r.Register(Adapter{
		Domains: []string{"example.com"},
		Type:    "post",
		Rules: []FieldRule{
			{Name: "comments", Max: 3, Selectors: []string{".comment"}},
		},
	})

	doc := mustDoc(t, `<html><body>
		<div class="comment">first comment text</div>
		<div class="comment">first comment text</div>
		<div class="comment">second comment text</div>
		<div class="comment">third comment text</div>
		<div class="comment">fourth comment text</div>
	</body></html>`)

	content := r.Extract(doc, "https://example.com/")
	if content == nil {
		t.Fatal("Extract returned nil")
	}
	want := []string{"first comment text", "second comment text", "third comment text"}
	var got []string
	for _, f := range content.Fields {
		if f.Name == "comments" {
			got = f.Values
		}
	}
	if len(got) != len(want) {
		t.Fatalf("comments = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("comments[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractInvalidSelectorFallsToNextSelector(t *testing.T) {
	r := &Registry{log: zerolog.Nop()}
	r.Register(Adapter{
		Domains: []string{"example.com"},
		Type:    "post",
		Rules: []FieldRule{
			{Name: "broken", Selectors: []string{"p:nth-child(", "h1"}},
			{Name: "title", Selectors: []string{"h1"}},
		},
	})

	doc := mustDoc(t, `<html><body><h1>Still extracted fine</h1></body></html>`)
	content := r.Extract(doc, "https://example.com/")
	if content == nil {
		t.Fatal("a bad selector must not abort the adapter")
	}
	// The unparseable selector matches nothing; the field's remaining
	// selectors still run.
	if got := content.Field("broken"); got != "Still extracted fine" {
		t.Errorf("broken field = %q, later selectors must still be tried", got)
	}
	if got := content.Field("title"); got != "Still extracted fine" {
		t.Errorf("title = %q, want %q", got, "Still extracted fine")
	}
}

func TestExtractAllFieldsEmptyReturnsNil(t *testing.T) {
	r := testRegistry(t)
	doc := mustDoc(t, `<html><body><div>nothing the adapter wants</div></body></html>`)
	if content := r.Extract(doc, "https://x.com/user/status/1"); content != nil {
		t.Fatalf("expected nil for a matching adapter with no field hits, got %+v", content)
	}
}

func TestYouTubeShortsType(t *testing.T) {
	r := testRegistry(t)
	doc := mustDoc(t, `<html><body><h1 class="title">Some short video title</h1></body></html>`)
	content := r.Extract(doc, "https://www.youtube.com/shorts/abc123")
	if content == nil {
		t.Fatal("Extract returned nil")
	}
	if content.Type != "short" {
		t.Errorf("Type = %q, want %q", content.Type, "short")
	}
}

func TestTweetExtraction(t *testing.T) {
	r := testRegistry(t)
	doc := mustDoc(t, `<html><body>
		<article>
			<div data-testid="User-Name"><span>Some Person</span></div>
			<div data-testid="tweetText">just posted a thought about things</div>
		</article>
	</body></html>`)

	content := r.Extract(doc, "https://x.com/someperson/status/1")
	if content == nil {
		t.Fatal("Extract returned nil")
	}
	if content.Type != "tweet" {
		t.Errorf("Type = %q, want %q", content.Type, "tweet")
	}
	if got := content.Field("tweet"); got != "just posted a thought about things" {
		t.Errorf("tweet = %q", got)
	}
}

func TestLoadRules(t *testing.T) {
	r := testRegistry(t)
	rules := `
- domains: ["myforum.net"]
  type: thread
  rules:
    - name: title
      selectors: ["h1.thread-title"]
    - name: posts
      max: 2
      selectors: [".post-body"]
`
	if err := r.LoadRules(strings.NewReader(rules)); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}

	doc := mustDoc(t, `<html><body>
		<h1 class="thread-title">Forum thread about go modules</h1>
		<div class="post-body">the first post body text</div>
		<div class="post-body">the second post body text</div>
		<div class="post-body">the third post body text</div>
	</body></html>`)

	content := r.Extract(doc, "https://myforum.net/t/1")
	if content == nil {
		t.Fatal("loaded adapter did not match")
	}
	if content.Type != "thread" {
		t.Errorf("Type = %q, want %q", content.Type, "thread")
	}
	var posts []string
	for _, f := range content.Fields {
		if f.Name == "posts" {
			posts = f.Values
		}
	}
	if len(posts) != 2 {
		t.Errorf("posts capped at max=2, got %d", len(posts))
	}
}

func TestLoadRulesBadYAML(t *testing.T) {
	r := testRegistry(t)
	if err := r.LoadRules(strings.NewReader("{not yaml")); err == nil {
		t.Fatal("expected error for malformed rules file")
	}
}
