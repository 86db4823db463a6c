// Package openai transcribes audio through the OpenAI audio API.
package openai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/kolscribe/kolscribe/pkg/asr"
)

type Client struct {
	client openai.Client
	model  openai.AudioModel
}

func New(apiKey, model string) *Client {
	m := openai.AudioModelWhisper1
	if model != "" {
		m = openai.AudioModel(model)
	}
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}
}

// Transcribe implements asr.Client.
func (c *Client) Transcribe(ctx context.Context, path, language string) (asr.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return asr.Result{}, fmt.Errorf("%w: open %s: %v", asr.ErrTranscription, path, err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: c.model,
	}
	if language != "" {
		params.Language = openai.String(language)
	}

	transcription, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return asr.Result{}, fmt.Errorf("%w: %v", asr.ErrTranscription, err)
	}

	return asr.Result{
		Text:        transcription.Text,
		Language:    language,
		GeneratedAt: time.Now(),
	}, nil
}
