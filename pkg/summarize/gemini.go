package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type geminiSummarizer struct {
	client       *genai.Client
	model        string
	systemPrompt string
	maxChars     int
}

// NewGemini builds a summarizer over the Gemini API.
func NewGemini(ctx context.Context, apiKey, model, systemPrompt string, maxChars int) (Summarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is not configured", ErrProvider)
	}
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %v", ErrProvider, err)
	}

	return &geminiSummarizer{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
		maxChars:     maxChars,
	}, nil
}

// Summarize implements Summarizer.
func (g *geminiSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(g.systemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(capInput(transcript, g.maxChars)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
	}

	summary := strings.TrimSpace(out.String())
	if summary == "" {
		return "", fmt.Errorf("%w: empty gemini response", ErrProvider)
	}

	return summary, nil
}
