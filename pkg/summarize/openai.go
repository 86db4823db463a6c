package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAISummarizer struct {
	client       openai.Client
	model        openai.ChatModel
	systemPrompt string
	maxChars     int
}

// NewOpenAI builds a summarizer over the OpenAI chat completions API.
func NewOpenAI(apiKey, model, systemPrompt string, maxChars int) Summarizer {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &openAISummarizer{
		client:       openai.NewClient(option.WithAPIKey(apiKey)),
		model:        openai.ChatModel(model),
		systemPrompt: systemPrompt,
		maxChars:     maxChars,
	}
}

// Summarize implements Summarizer.
func (o *openAISummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}

	chatCompletion, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(o.systemPrompt),
				openai.UserMessage(capInput(transcript, o.maxChars)),
			},
			Model: o.model,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if len(chatCompletion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrProvider)
	}

	return strings.TrimSpace(chatCompletion.Choices[0].Message.Content), nil
}
