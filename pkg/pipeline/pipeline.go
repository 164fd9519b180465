// Package pipeline orchestrates the tiered extraction chain and the local
// classifier behind a single non-reentrant entry point.
package pipeline

import (
	"errors"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/scrollsense/scrollsense/internal/textutil"
	"github.com/scrollsense/scrollsense/models"
	"github.com/scrollsense/scrollsense/pkg/adapters"
	"github.com/scrollsense/scrollsense/pkg/cards"
	"github.com/scrollsense/scrollsense/pkg/classifier"
	"github.com/scrollsense/scrollsense/pkg/privacy"
	"github.com/scrollsense/scrollsense/pkg/structured"
	"github.com/scrollsense/scrollsense/pkg/viewport"
	"github.com/scrollsense/scrollsense/pkg/visible"
)

// Skip sentinels. Neither is a failure: a skipped cycle simply waits for
// the caller's next scheduled trigger.
var (
	ErrCycleInProgress = errors.New("analysis cycle already in progress")
	ErrPageHidden      = errors.New("page is not visible")
)

// LayoutFunc feeds visibility observations for doc into the trackers
// before extraction. The default is viewport.EstimateLayout; embedders
// with real geometry substitute their own.
type LayoutFunc func(doc *goquery.Document, trackers ...*viewport.Tracker)

// Options assembles an Analyzer. Registry, Cards, Visible, Structured,
// Classifier and Gate are required; the rest have defaults.
type Options struct {
	Registry   *adapters.Registry
	Cards      *cards.Extractor
	Visible    *visible.Fallback
	Structured *structured.Parser
	Classifier *classifier.Classifier
	Gate       *privacy.Gate

	// PageVisible gates cycles on tab visibility. Nil means always visible.
	PageVisible func() bool

	// Layout overrides the synthetic layout estimator.
	Layout LayoutFunc

	// Budget caps extracted text length. Defaults to models.MaxTextChars.
	Budget int

	Logger zerolog.Logger
}

// Analyzer runs one full extraction+classification cycle per call. It owns
// no state beyond the trackers inside its extractors and the reentrancy
// flag; every produced entity is fresh per cycle.
type Analyzer struct {
	registry   *adapters.Registry
	cards      *cards.Extractor
	visible    *visible.Fallback
	structured *structured.Parser
	classifier *classifier.Classifier
	gate       *privacy.Gate

	pageVisible func() bool
	layout      LayoutFunc
	budget      int
	log         zerolog.Logger

	running atomic.Bool
}

// New creates an Analyzer from opts.
func New(opts Options) *Analyzer {
	budget := opts.Budget
	if budget <= 0 {
		budget = models.MaxTextChars
	}
	layout := opts.Layout
	if layout == nil {
		layout = func(doc *goquery.Document, trackers ...*viewport.Tracker) {
			viewport.EstimateLayout(doc, trackers...)
		}
	}
	return &Analyzer{
		registry:    opts.Registry,
		cards:       opts.Cards,
		visible:     opts.Visible,
		structured:  opts.Structured,
		classifier:  opts.Classifier,
		gate:        opts.Gate,
		pageVisible: opts.PageVisible,
		layout:      layout,
		budget:      budget,
		log:         opts.Logger.With().Str("component", "pipeline").Logger(),
	}
}

// Analyze runs one cycle against doc. Overlapping calls are skipped, not
// queued: the second caller gets ErrCycleInProgress and no work happens.
// Malformed page content never produces an error; the worst case is an
// empty, neutral result.
func (a *Analyzer) Analyze(doc *goquery.Document, pageURL string) (models.ClassificationResult, error) {
	if !a.running.CompareAndSwap(false, true) {
		return models.ClassificationResult{}, ErrCycleInProgress
	}
	defer a.running.Store(false)

	if a.pageVisible != nil && !a.pageVisible() {
		return models.ClassificationResult{}, ErrPageHidden
	}

	content := a.ExtractContent(doc, pageURL)
	result := a.classifier.Classify(content)
	result = a.gate.Apply(result, content)

	a.log.Debug().
		Str("method", string(content.Method)).
		Str("content_type", result.ContentType).
		Float64("doom_score", result.DoomScore).
		Msg("cycle complete")
	return result, nil
}

// ExtractContent runs the extraction tiers in strict priority order and
// returns a fresh, bounded sample. It never panics: a DOM-walk failure
// downgrades the whole cycle to an empty sample.
func (a *Analyzer) ExtractContent(doc *goquery.Document, pageURL string) (content models.ExtractedContent) {
	host := hostnameOf(pageURL)
	content = models.ExtractedContent{
		Method:    models.MethodNone,
		Timestamp: time.Now().UTC(),
		URL:       pageURL,
		Hostname:  host,
	}

	defer func() {
		if rec := recover(); rec != nil {
			a.log.Warn().Interface("panic", rec).Str("url", pageURL).Msg("extraction failed, empty cycle")
			content.Text = ""
			content.Method = models.MethodNone
		}
	}()

	if doc == nil {
		return content
	}

	a.layout(doc, a.cards.Tracker(), a.visible.Tracker())
	content.Structured = a.structured.Parse(doc, pageURL)

	text, method := a.extractText(doc, pageURL)
	content.Text = textutil.Truncate(textutil.Normalize(text), a.budget)
	if content.Text == "" {
		method = models.MethodNone
	}
	content.Method = method
	return content
}

// extractText walks the tiers and stops at the first non-empty result.
func (a *Analyzer) extractText(doc *goquery.Document, pageURL string) (string, models.ExtractionMethod) {
	if ac := a.registry.Extract(doc, pageURL); ac != nil {
		if text := strings.TrimSpace(ac.Text()); text != "" {
			return text, models.MethodAdapter
		}
	}
	if text := a.cards.Extract(doc); text != "" {
		return text, models.MethodGenericCard
	}
	if text := a.visible.Extract(doc); text != "" {
		return text, models.MethodVisibleText
	}
	return "", models.MethodNone
}

func hostnameOf(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
