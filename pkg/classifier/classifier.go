// Package classifier scores extracted content entirely on-device: no
// network calls, no external model, and identical input always yields an
// identical result.
package classifier

import (
	"math"
	"strings"
	"time"

	"github.com/pemistahl/lingua-go"
	"github.com/rs/zerolog"

	"github.com/scrollsense/scrollsense/models"
)

// ModelVersion identifies the lexicon revision stamped on every result.
const ModelVersion = "lexicon-v1"

// minLanguageLength is the floor below which language detection is skipped;
// shorter samples produce guesses, not detections.
const minLanguageLength = 20

// Classifier produces sentiment, content-type, language and doom-score
// labels from an extracted sample. Safe for concurrent use.
type Classifier struct {
	detector lingua.LanguageDetector
	log      zerolog.Logger
}

// New creates a classifier. The language detector is built once here;
// model data loads lazily on first detection.
func New(logger zerolog.Logger) *Classifier {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Spanish,
			lingua.French,
			lingua.German,
			lingua.Portuguese,
		).
		Build()
	return &Classifier{
		detector: detector,
		log:      logger.With().Str("component", "classifier").Logger(),
	}
}

// Classify scores one extracted sample. It always succeeds: empty input
// yields a neutral result with the baseline doom score.
func (c *Classifier) Classify(content models.ExtractedContent) models.ClassificationResult {
	text := strings.ToLower(strings.TrimSpace(content.Text))

	sentiment := scoreSentiment(text)
	contentType := classifyContentType(text, content.Structured.ContentType)
	doom := doomScore(text, contentType, sentiment)

	return models.ClassificationResult{
		Sentiment:    sentiment,
		ContentType:  contentType,
		DoomScore:    doom,
		Language:     c.detectLanguage(content.Text),
		ModelVersion: ModelVersion,
		Timestamp:    time.Now().UTC(),
		URL:          content.URL,
		Hostname:     content.Hostname,
		Method:       content.Method,
	}
}

// scoreSentiment counts distinct lexicon words over whitespace tokens, so
// a repeated word scores once. Whichever of positive/negative has the
// strictly higher count wins; everything else, including empty input, is
// neutral.
func scoreSentiment(text string) models.Sentiment {
	if text == "" {
		return models.SentimentNeutral
	}

	tokens := strings.Fields(text)
	hits := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		hits[strings.Trim(tok, ".,!?;:'\"()")] = struct{}{}
	}

	count := func(words []string) int {
		n := 0
		for _, w := range words {
			if _, ok := hits[w]; ok {
				n++
			}
		}
		return n
	}

	positive := count(positiveWords)
	negative := count(negativeWords)
	switch {
	case positive > negative:
		return models.SentimentPositive
	case negative > positive:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// classifyContentType substring-matches the five keyword groups in fixed
// order, falling back to the structured-data content type, then "unknown".
func classifyContentType(text, structuredType string) string {
	if text != "" {
		for _, group := range contentGroups {
			for _, term := range group.terms {
				if strings.Contains(text, term) {
					return group.name
				}
			}
		}
	}
	if structuredType != "" && structuredType != "unknown" {
		return structuredType
	}
	return "unknown"
}

// doomScore applies the fixed adjustment sequence. Order matters for
// reproducibility; every adjustment whose trigger holds is applied, then a
// single clamp and rounding at the end.
func doomScore(text, contentType string, sentiment models.Sentiment) float64 {
	score := 0.5

	if containsAny(text, highAddictiveTerms) {
		score += 0.3
	}
	if containsAny(text, mediumEngagementTerms) {
		score += 0.1
	}
	if containsAny(text, lowInterestTerms) {
		score -= 0.2
	}

	switch {
	case shortFormTypes[contentType]:
		score += 0.2
	case contentType == "news":
		score += 0.1
	case contentType == "educational":
		score -= 0.1
	}

	switch sentiment {
	case models.SentimentPositive:
		score += 0.1
	case models.SentimentNegative:
		score -= 0.1
	}

	score = math.Max(0, math.Min(1, score))
	return math.Round(score*100) / 100
}

func containsAny(text string, terms []string) bool {
	if text == "" {
		return false
	}
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// detectLanguage returns the ISO-639-1 code of the detected language, or ""
// when the sample is too short or detection is inconclusive.
func (c *Classifier) detectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if c.detector == nil || len([]rune(text)) < minLanguageLength {
		return ""
	}
	language, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
