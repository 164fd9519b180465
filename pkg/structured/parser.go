// Package structured recovers canonical page metadata (JSON-LD, Open Graph,
// meta tags) independently of the visible layout.
package structured

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"

	"github.com/scrollsense/scrollsense/internal/textutil"
	"github.com/scrollsense/scrollsense/models"
)

// Parser extracts structured data from a document. The zero value is not
// usable; construct with New.
type Parser struct {
	log zerolog.Logger

	// enrich toggles the readability pass used when JSON-LD and meta tags
	// both come up empty. On by default; tests disable it to isolate tiers.
	enrich bool
}

// New creates a structured-data parser.
func New(logger zerolog.Logger) *Parser {
	return &Parser{
		log:    logger.With().Str("component", "structured").Logger(),
		enrich: true,
	}
}

// WithoutEnrichment disables the readability fallback pass.
func (p *Parser) WithoutEnrichment() *Parser {
	p.enrich = false
	return p
}

// Parse walks every JSON-LD script, then falls back through Open Graph,
// Twitter Card, generic meta tags and the page title for whatever fields
// remain empty. It never fails: malformed scripts are skipped one by one.
func (p *Parser) Parse(doc *goquery.Document, pageURL string) models.StructuredData {
	sd := models.StructuredData{}
	if doc == nil {
		return sd
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			p.log.Debug().Err(err).Int("script", i).Msg("skipping invalid json-ld script")
			return
		}
		walkJSONLD(payload, &sd)
	})

	p.fillFromMeta(doc, &sd)

	if p.enrich && sd.Headline == "" && sd.Description == "" {
		p.enrichFromReadability(doc, pageURL, &sd)
	}

	sd.ContentType = resolveContentType(doc, pageURL, sd.ContentType)
	return sd
}

// recognized schema.org types. VideoObject additionally forces the video
// content type.
var recognizedTypes = map[string]bool{
	"Article":     true,
	"NewsArticle": true,
	"VideoObject": true,
	"WebPage":     true,
}

// walkJSONLD recursively visits arrays and nested objects, filling sd
// additively: the first non-empty value per field wins.
func walkJSONLD(v any, sd *models.StructuredData) {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			walkJSONLD(item, sd)
		}
	case map[string]any:
		if typeMatches(node["@type"]) {
			fillFromObject(node, sd)
			if typeIs(node["@type"], "VideoObject") && sd.ContentType == "" {
				sd.ContentType = "video"
			}
		}
		for _, value := range node {
			walkJSONLD(value, sd)
		}
	}
}

func typeMatches(t any) bool {
	switch tt := t.(type) {
	case string:
		return recognizedTypes[tt]
	case []any:
		for _, item := range tt {
			if s, ok := item.(string); ok && recognizedTypes[s] {
				return true
			}
		}
	}
	return false
}

func typeIs(t any, want string) bool {
	switch tt := t.(type) {
	case string:
		return tt == want
	case []any:
		for _, item := range tt {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func fillFromObject(obj map[string]any, sd *models.StructuredData) {
	if sd.Headline == "" {
		if v := stringValue(obj["headline"]); v != "" {
			sd.Headline = v
		} else if v := stringValue(obj["name"]); v != "" {
			sd.Headline = v
		}
	}
	if sd.Description == "" {
		sd.Description = stringValue(obj["description"])
	}
	if len(sd.Keywords) == 0 {
		sd.Keywords = keywordList(obj["keywords"])
	}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return textutil.Normalize(s)
}

// keywordList accepts both schema forms: a comma-separated string and an
// array of strings.
func keywordList(v any) []string {
	switch kw := v.(type) {
	case string:
		var out []string
		for _, part := range strings.Split(kw, ",") {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
		return out
	case []any:
		var out []string
		for _, item := range kw {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

// fillFromMeta applies the meta-tag fallback chain: Open Graph, then
// Twitter Card, then generic meta tags, then the page title (headline only).
func (p *Parser) fillFromMeta(doc *goquery.Document, sd *models.StructuredData) {
	if sd.Headline == "" {
		sd.Headline = metaContent(doc, "property", "og:title")
	}
	if sd.Description == "" {
		sd.Description = metaContent(doc, "property", "og:description")
	}
	if sd.Headline == "" {
		sd.Headline = metaContent(doc, "name", "twitter:title")
	}
	if sd.Description == "" {
		sd.Description = metaContent(doc, "name", "twitter:description")
	}
	if sd.Description == "" {
		sd.Description = metaContent(doc, "name", "description")
	}
	if len(sd.Keywords) == 0 {
		sd.Keywords = keywordList(metaContent(doc, "name", "keywords"))
	}
	if sd.Headline == "" {
		sd.Headline = textutil.Normalize(doc.Find("title").First().Text())
	}
}

func metaContent(doc *goquery.Document, attr, value string) string {
	var content string
	doc.Find("meta["+attr+"='"+value+"']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if v, ok := s.Attr("content"); ok {
			content = textutil.Normalize(v)
			return content == ""
		}
		return true
	})
	return content
}

// enrichFromReadability runs go-readability over the serialized document
// and uses its title/excerpt when everything else came up empty.
func (p *Parser) enrichFromReadability(doc *goquery.Document, pageURL string, sd *models.StructuredData) {
	raw, err := doc.Html()
	if err != nil {
		p.log.Debug().Err(err).Msg("could not serialize document for readability")
		return
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(raw), parsed)
	if err != nil {
		p.log.Debug().Err(err).Msg("readability enrichment failed")
		return
	}
	if sd.Headline == "" {
		sd.Headline = textutil.Normalize(article.Title)
	}
	if sd.Description == "" {
		sd.Description = textutil.Normalize(article.Excerpt)
	}
}
