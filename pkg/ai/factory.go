package ai

import (
	"fmt"

	"brandpulse-backend/pkg/gemini"
	"brandpulse-backend/pkg/logger"
)

// Config holds language-model provider configuration
type Config struct {
	Provider ProviderType // "gemini", "openai" or "auto"

	// Gemini config
	GeminiAPIKey string
	GeminiModel  string

	// OpenAI-compatible config
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
}

// NewGenerator creates a Generator based on the config. This is the factory
// function; switch provider by changing config.Provider. "auto" builds a
// fallback chain from whichever providers have credentials.
func NewGenerator(cfg Config, log *logger.Logger) (Generator, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return gemini.NewService(cfg.GeminiAPIKey, cfg.GeminiModel), nil

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIService(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil

	default:
		var primary, secondary Generator
		if cfg.GeminiAPIKey != "" {
			primary = gemini.NewService(cfg.GeminiAPIKey, cfg.GeminiModel)
		}
		if cfg.OpenAIAPIKey != "" {
			secondary = NewOpenAIService(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		}
		if primary == nil && secondary == nil {
			return nil, fmt.Errorf("no language-model credentials configured")
		}
		if primary == nil {
			return secondary, nil
		}
		if secondary == nil {
			return primary, nil
		}
		return NewFallbackService(primary, secondary, log), nil
	}
}
