package models

import (
	"strings"
	"time"
)

// ExtractionMethod identifies which tier of the fallback chain produced
// the text sample.
type ExtractionMethod string

const (
	MethodAdapter     ExtractionMethod = "adapter"
	MethodGenericCard ExtractionMethod = "generic-card"
	MethodVisibleText ExtractionMethod = "visible-text"
	MethodNone        ExtractionMethod = "none"
)

// MaxTextChars is the hard budget on extracted text. Every tier stops
// appending before it would cross this limit, and the pipeline applies it
// once more as a safety net.
const MaxTextChars = 180

// StructuredData holds canonical page metadata recovered independently of
// the visible layout (JSON-LD, Open Graph, meta tags).
type StructuredData struct {
	Headline    string   `json:"headline,omitempty" yaml:"headline,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	ContentType string   `json:"content_type,omitempty" yaml:"content_type,omitempty"`
}

// Merge fills empty fields from other. Existing values always win, so
// callers apply sources in priority order (JSON-LD before meta tags).
func (s *StructuredData) Merge(other StructuredData) {
	if s.Headline == "" {
		s.Headline = other.Headline
	}
	if s.Description == "" {
		s.Description = other.Description
	}
	if len(s.Keywords) == 0 {
		s.Keywords = other.Keywords
	}
	if s.ContentType == "" {
		s.ContentType = other.ContentType
	}
}

// IsEmpty reports whether no field has been populated.
func (s *StructuredData) IsEmpty() bool {
	return s.Headline == "" && s.Description == "" && len(s.Keywords) == 0 && s.ContentType == ""
}

// ExtractedContent is the bounded text sample produced by one extraction
// cycle. Text is whitespace-normalized and capped at MaxTextChars; an empty
// string is a valid value meaning "no extractable content".
type ExtractedContent struct {
	Text       string           `json:"text"`
	Structured StructuredData   `json:"structured_data"`
	Method     ExtractionMethod `json:"extraction_method"`
	Timestamp  time.Time        `json:"timestamp"`
	URL        string           `json:"url"`
	Hostname   string           `json:"hostname"`
}

// AdapterField is one named field extracted by a site adapter. Single-value
// fields carry exactly one entry in Values.
type AdapterField struct {
	Name   string
	Values []string
}

// AdapterContent is the per-platform record returned by a site adapter.
// It is constructed fresh per call and never persisted.
type AdapterContent struct {
	Type   string
	Fields []AdapterField
}

// Field returns the first value of the named field, or "".
func (a *AdapterContent) Field(name string) string {
	for _, f := range a.Fields {
		if f.Name == name && len(f.Values) > 0 {
			return f.Values[0]
		}
	}
	return ""
}

// Text flattens all field values into a single string, in field order.
func (a *AdapterContent) Text() string {
	var parts []string
	for _, f := range a.Fields {
		for _, v := range f.Values {
			if strings.TrimSpace(v) != "" {
				parts = append(parts, v)
			}
		}
	}
	return strings.Join(parts, " ")
}

// IsEmpty reports whether every field came back empty.
func (a *AdapterContent) IsEmpty() bool {
	for _, f := range a.Fields {
		for _, v := range f.Values {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
	}
	return true
}
