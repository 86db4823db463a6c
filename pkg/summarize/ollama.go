package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
)

type ollamaSummarizer struct {
	farm         *ollamafarm.Farm
	model        string
	systemPrompt string
	maxChars     int
}

// NewOllama builds a summarizer over one or more local ollama servers.
// Registration failures are reported but non-fatal: a server that is
// down at startup can come back later.
func NewOllama(serverURLs []string, model, systemPrompt string, maxChars int) (Summarizer, error) {
	if len(serverURLs) == 0 {
		return nil, fmt.Errorf("%w: no ollama servers configured", ErrProvider)
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	farm := ollamafarm.New()
	for _, srv := range serverURLs {
		if err := farm.RegisterURL(srv, nil); err != nil {
			return nil, fmt.Errorf("%w: register %s: %v", ErrProvider, srv, err)
		}
	}

	return &ollamaSummarizer{
		farm:         farm,
		model:        model,
		systemPrompt: systemPrompt,
		maxChars:     maxChars,
	}, nil
}

// Summarize implements Summarizer.
func (o *ollamaSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}

	ollama := o.farm.First(&ollamafarm.Where{Offline: false})
	if ollama == nil {
		return "", fmt.Errorf("%w: no ollama server online", ErrProvider)
	}

	stream := false
	req := api.ChatRequest{
		Model:  o.model,
		Stream: &stream,
		Messages: []api.Message{
			{Role: "system", Content: o.systemPrompt},
			{Role: "user", Content: capInput(transcript, o.maxChars)},
		},
	}

	var out strings.Builder
	err := ollama.Client().Chat(ctx, &req, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	return strings.TrimSpace(out.String()), nil
}
