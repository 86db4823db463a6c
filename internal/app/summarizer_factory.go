package app

import (
	"context"
	"fmt"

	"github.com/kolscribe/kolscribe/internal/config"
	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/summarize"
)

// NewSummarizer selects the summarization backend from configuration.
func NewSummarizer(ctx context.Context, cfg config.SummarizerConfig, logger *Logger.Logger) (summarize.Summarizer, error) {
	switch cfg.Provider {
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai summarizer requires summarizer.api_key")
		}
		logger.Infof("summarizer backend: openai (%s)", cfg.Model)
		return summarize.NewOpenAI(cfg.APIKey, cfg.Model, cfg.SystemPrompt, cfg.MaxInputChars), nil

	case "ollama":
		logger.Infof("summarizer backend: ollama (%s) on %d server(s)", cfg.Model, len(cfg.OllamaServers))
		return summarize.NewOllama(cfg.OllamaServers, cfg.Model, cfg.SystemPrompt, cfg.MaxInputChars)

	case "gemini":
		logger.Infof("summarizer backend: gemini (%s)", cfg.Model)
		return summarize.NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.SystemPrompt, cfg.MaxInputChars)

	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}
}
