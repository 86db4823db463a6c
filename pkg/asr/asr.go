// Package asr defines the boundary to the speech recognition backends.
// Remote services answer in several shapes (JSON object with a text
// field, array of segments, bare text); everything is normalized to one
// Result before the rest of the pipeline sees it.
package asr

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrTranscription = errors.New("asr: transcription failed")

// Segment is one timed piece of a transcription, when the backend
// reports them.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	ID    int     `json:"id"`
}

// Result is the normalized transcription of one audio file.
type Result struct {
	Text        string    `json:"text"`
	Language    string    `json:"language"`
	Segments    []Segment `json:"segments,omitempty"`
	GeneratedAt time.Time `json:"-"`
}

// PlainText flattens the result to one trimmed string. When the backend
// returned only segments, they are joined in order.
func (r Result) PlainText() string {
	text := strings.TrimSpace(r.Text)
	if text != "" || len(r.Segments) == 0 {
		return text
	}

	parts := make([]string, 0, len(r.Segments))
	for _, seg := range r.Segments {
		if s := strings.TrimSpace(seg.Text); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, " ")
}

// Client transcribes a single local audio file. language is a short code
// passed through to the backend verbatim.
type Client interface {
	Transcribe(ctx context.Context, path, language string) (Result, error)
}
