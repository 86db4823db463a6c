package asr

import (
	"encoding/json"
	"strings"
	"time"
)

// DecodeRaw turns a raw backend payload into a Result. It tries, in
// order: a JSON object carrying a text field and optional segments, a
// JSON array of segments, and finally a plain text rendering of the
// bytes. Unexpected shapes never fail; they degrade to trimmed text.
func DecodeRaw(payload []byte) Result {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return Result{GeneratedAt: time.Now()}
	}

	switch trimmed[0] {
	case '{':
		var res Result
		if err := json.Unmarshal([]byte(trimmed), &res); err == nil {
			res.Text = strings.TrimSpace(res.Text)
			res.GeneratedAt = time.Now()
			return res
		}
	case '[':
		var segs []Segment
		if err := json.Unmarshal([]byte(trimmed), &segs); err == nil {
			return Result{Segments: segs, GeneratedAt: time.Now()}
		}
	}

	// Bare text (or anything we could not parse) is still a transcript.
	return Result{Text: strings.Trim(trimmed, `"`), GeneratedAt: time.Now()}
}
