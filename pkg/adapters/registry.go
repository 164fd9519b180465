// Package adapters provides fast, accurate extraction for platforms whose
// DOM structure is known in advance.
package adapters

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/scrollsense/scrollsense/internal/textutil"
	"github.com/scrollsense/scrollsense/models"
)

// minFieldLength is the trimmed-text floor below which a selector hit is
// treated as empty.
const minFieldLength = 3

// FieldRule extracts one named field by trying its selectors in order.
// Max > 0 turns the field into a capped multi-value collection
// (comments, replies); otherwise the first qualifying hit wins.
type FieldRule struct {
	Name      string   `yaml:"name"`
	Selectors []string `yaml:"selectors"`
	Max       int      `yaml:"max,omitempty"`
}

// Adapter is one platform's extraction rule set. TypeFunc, when set,
// derives the content type from the page (e.g. shorts vs regular video);
// otherwise Type is used as-is.
type Adapter struct {
	Domains []string    `yaml:"domains"`
	Type    string      `yaml:"type"`
	Rules   []FieldRule `yaml:"rules"`

	TypeFunc func(u *url.URL, doc *goquery.Document) string `yaml:"-"`
}

// Registry holds an explicit ordered list of adapters. Hostname matching is
// longest-domain-match first, with remaining ties resolved by registration
// order, so overlapping domains behave deterministically.
type Registry struct {
	adapters []Adapter
	log      zerolog.Logger
}

// NewRegistry creates a registry pre-populated with the built-in platform
// adapters.
func NewRegistry(logger zerolog.Logger) *Registry {
	r := &Registry{log: logger.With().Str("component", "adapters").Logger()}
	for _, a := range builtinAdapters() {
		r.Register(a)
	}
	return r
}

// Register appends an adapter. Later registrations only win over earlier
// ones when their matching domain is strictly longer.
func (r *Registry) Register(a Adapter) {
	r.adapters = append(r.adapters, a)
}

// LoadRules parses a YAML list of adapters and appends them after the
// built-ins. User rules with longer domains (e.g. "news.example.com")
// therefore take precedence over broader built-ins.
func (r *Registry) LoadRules(rd io.Reader) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("failed to read adapter rules: %w", err)
	}
	var loaded []Adapter
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse adapter rules: %w", err)
	}
	for _, a := range loaded {
		if len(a.Domains) == 0 || len(a.Rules) == 0 {
			continue
		}
		r.Register(a)
	}
	return nil
}

// Match selects the adapter for a hostname, or nil. The hostname is
// lowercased and stripped of a leading "www." before substring matching.
func (r *Registry) Match(hostname string) *Adapter {
	host := strings.ToLower(strings.TrimSpace(hostname))
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return nil
	}

	var best *Adapter
	bestLen := 0
	for i := range r.adapters {
		for _, domain := range r.adapters[i].Domains {
			if domain == "" || !strings.Contains(host, domain) {
				continue
			}
			if len(domain) > bestLen {
				best = &r.adapters[i]
				bestLen = len(domain)
			}
		}
	}
	return best
}

// Extract runs the matching adapter against doc and returns its platform
// record, or nil when no adapter matches or every field came back empty.
func (r *Registry) Extract(doc *goquery.Document, pageURL string) *models.AdapterContent {
	if doc == nil {
		return nil
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		r.log.Debug().Err(err).Str("url", pageURL).Msg("unparseable page url")
		return nil
	}

	adapter := r.Match(parsed.Hostname())
	if adapter == nil {
		return nil
	}

	content := &models.AdapterContent{Type: adapter.Type}
	if adapter.TypeFunc != nil {
		if t := adapter.TypeFunc(parsed, doc); t != "" {
			content.Type = t
		}
	}

	for _, rule := range adapter.Rules {
		values := r.extractField(doc, rule)
		content.Fields = append(content.Fields, models.AdapterField{Name: rule.Name, Values: values})
	}

	if content.IsEmpty() {
		return nil
	}
	return content
}

// extractField applies one rule. A selector that fails to compile simply
// matches nothing and the rule's remaining selectors still run; a panic
// during the walk is contained here and degrades the field to empty,
// never aborting the adapter.
func (r *Registry) extractField(doc *goquery.Document, rule FieldRule) (values []string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn().Interface("panic", rec).Str("field", rule.Name).Msg("selector failure, field dropped")
			values = nil
		}
	}()

	if rule.Max > 0 {
		return r.collectField(doc, rule)
	}

	for _, selector := range rule.Selectors {
		var found string
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := textutil.Normalize(s.Text())
			if len(text) > minFieldLength {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return []string{found}
		}
	}
	return nil
}

// collectField gathers up to rule.Max deduplicated non-trivial matches
// across all selectors, in selector-then-DOM order.
func (r *Registry) collectField(doc *goquery.Document, rule FieldRule) []string {
	var values []string
	seen := make(map[string]struct{})
	for _, selector := range rule.Selectors {
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := textutil.Normalize(s.Text())
			if len(text) <= minFieldLength || textutil.IsNoise(text) {
				return true
			}
			key := strings.ToLower(text)
			if _, dup := seen[key]; dup {
				return true
			}
			seen[key] = struct{}{}
			values = append(values, text)
			return len(values) < rule.Max
		})
		if len(values) >= rule.Max {
			break
		}
	}
	return values
}
