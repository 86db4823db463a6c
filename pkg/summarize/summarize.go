// Package summarize condenses transcripts through a language model.
// Providers exist for the remote and local stacks the service supports;
// which one runs is a deployment decision.
package summarize

import (
	"context"
	"errors"
)

var (
	ErrEmptyTranscript = errors.New("summarize: nothing to summarize")
	ErrProvider        = errors.New("summarize: provider call failed")
)

// DefaultSystemPrompt keeps summaries consistent when no prompt is
// configured.
const DefaultSystemPrompt = "You summarize voice note transcripts into short, " +
	"factual sections. Maintain the original topic order, skip filler, and " +
	"keep the style consistent across runs."

// Summarizer condenses one transcript to a summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// capInput trims extreme transcripts so a provider does not reject the
// request outright. The cap counts runes, not bytes, so a multibyte
// transcript is never cut mid-codepoint. maxChars <= 0 disables the cap.
func capInput(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
