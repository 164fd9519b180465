package models

import "time"

// Sentiment is the coarse polarity label produced by the local classifier.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ClassificationResult is the final record handed to collaborators.
// Text and Structured are nil unless the privacy gate attached them; with
// the default opt-out they are absent from the marshaled record entirely.
type ClassificationResult struct {
	Sentiment    Sentiment `json:"sentiment"`
	ContentType  string    `json:"content_type"`
	DoomScore    float64   `json:"doom_score"`
	Language     string    `json:"language,omitempty"`
	ModelVersion string    `json:"model_version"`
	Timestamp    time.Time `json:"timestamp"`
	URL          string    `json:"url"`
	Hostname     string    `json:"hostname"`

	// Method records which extraction tier produced the classified sample.
	// It carries no content and passes the privacy gate untouched.
	Method ExtractionMethod `json:"extraction_method,omitempty"`

	Text       *string         `json:"text,omitempty"`
	Structured *StructuredData `json:"structured_data,omitempty"`
}
