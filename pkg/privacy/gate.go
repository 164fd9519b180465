// Package privacy enforces that raw extracted text only leaves the device
// when the user has explicitly opted in.
package privacy

import "github.com/scrollsense/scrollsense/models"

// Gate filters classification records at the boundary of the core. The
// opt-in flag is owned externally (settings storage); the gate reads it
// fresh on every call.
type Gate struct {
	optIn func() bool
}

// NewGate creates a gate around an externally-owned opt-in flag. A nil
// optIn means never share, which is the safe default.
func NewGate(optIn func() bool) *Gate {
	return &Gate{optIn: optIn}
}

// Apply attaches the raw text and structured data to result only when the
// opt-in flag reads true at call time. Classification has already happened
// on the raw text either way; this only controls what leaves the core.
func (g *Gate) Apply(result models.ClassificationResult, content models.ExtractedContent) models.ClassificationResult {
	if g == nil || g.optIn == nil || !g.optIn() {
		result.Text = nil
		result.Structured = nil
		return result
	}
	text := content.Text
	structured := content.Structured
	result.Text = &text
	result.Structured = &structured
	return result
}
