package app

import (
	"fmt"

	"github.com/kolscribe/kolscribe/internal/config"
	"github.com/kolscribe/kolscribe/pkg/Logger"
	"github.com/kolscribe/kolscribe/pkg/asr"
	asropenai "github.com/kolscribe/kolscribe/pkg/asr/openai"
	"github.com/kolscribe/kolscribe/pkg/asr/whispercpp"
	"github.com/kolscribe/kolscribe/pkg/asr/whisperhttp"
)

// NewASRClient selects the recognition backend from configuration.
func NewASRClient(cfg config.ASRConfig, logger *Logger.Logger) (asr.Client, error) {
	switch cfg.Provider {
	case "whisperhttp", "":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("whisperhttp backend requires asr.base_url")
		}
		logger.Infof("ASR backend: whisperhttp at %s", cfg.BaseURL)
		return whisperhttp.New(cfg.BaseURL, cfg.Timeout(), logger), nil

	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai backend requires asr.api_key")
		}
		logger.Infof("ASR backend: openai (%s)", cfg.Model)
		return asropenai.New(cfg.APIKey, cfg.Model), nil

	case "whispercpp":
		if cfg.BinPath == "" || cfg.WeightsPath == "" {
			return nil, fmt.Errorf("whispercpp backend requires asr.bin_path and asr.weights_path")
		}
		logger.Infof("ASR backend: whispercpp (%s)", cfg.WeightsPath)
		return whispercpp.New(cfg.BinPath, cfg.WeightsPath), nil

	default:
		return nil, fmt.Errorf("unknown asr provider %q", cfg.Provider)
	}
}
