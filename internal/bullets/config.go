// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bullets

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pdiddy/texslides/pkg/types"
)

// Default models per provider.
const (
	DefaultNvidiaModel = "deepseek-ai/deepseek-v3.2"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-1.5-flash"
)

// ErrMissingAPIKey is returned when a provider is selected without a key.
var ErrMissingAPIKey = errors.New("missing API key")

// ErrUnknownProvider is returned for an unrecognized provider name.
var ErrUnknownProvider = errors.New("unknown AI provider")

// FromConfig builds the Capability selected by cfg.Provider. It returns nil
// and no error for the "none" provider or an empty one. OpenAI-compatible
// providers are multimodal; Gemini is text only.
func FromConfig(cfg types.AIConfig, logger *slog.Logger) (*Capability, error) {
	if cfg.Provider == "" || cfg.Provider == types.ProviderNone {
		return nil, nil
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingAPIKey, cfg.Provider)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	opts := []Option{WithTimeout(cfg.CallTimeout)}

	switch cfg.Provider {
	case types.ProviderNvidia, types.ProviderOpenAI:
		base, model := NvidiaBaseURL, DefaultNvidiaModel
		if cfg.Provider == types.ProviderOpenAI {
			base, model = OpenAIBaseURL, DefaultOpenAIModel
		}
		client := &OpenAIClient{
			BaseURL:    or(cfg.BaseURL, base),
			APIKey:     cfg.APIKey,
			Model:      or(cfg.Model, model),
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Client:     httpClient,
			Logger:     logger,
		}
		gen := NewLLMGenerator(client, cfg.SystemPrompt)
		opts = append(opts, WithSummarizer(gen))
		return NewMultimodalCapability(string(cfg.Provider), gen, opts...), nil

	case types.ProviderGemini:
		client := &GeminiClient{
			BaseURL:    or(cfg.BaseURL, GeminiBaseURL),
			APIKey:     cfg.APIKey,
			Model:      or(cfg.Model, DefaultGeminiModel),
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Client:     httpClient,
			Logger:     logger,
		}
		gen := NewLLMGenerator(client, cfg.SystemPrompt)
		opts = append(opts, WithSummarizer(gen))
		return NewCapability(string(cfg.Provider), gen, opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
