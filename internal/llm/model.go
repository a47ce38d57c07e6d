package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"chat-history/internal/config"
)

// NewModel construye el llms.Model configurado (Gemini por defecto).
func NewModel(ctx context.Context, cfg *config.Config) (llms.Model, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "", "googleai", "gemini":
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.LLMAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
	case "openai":
		opts := []openai.Option{
			openai.WithToken(cfg.LLMAPIKey),
			openai.WithModel(cfg.LLMModel),
		}
		if cfg.LLMBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(strings.TrimRight(cfg.LLMBaseURL, "/")))
		}
		return openai.New(opts...)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// NewProviderFromConfig arma el Provider con el modelo y las opciones de llamada.
func NewProviderFromConfig(ctx context.Context, cfg *config.Config) (*ChatProvider, error) {
	model, err := NewModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewChatProvider(model,
		WithSystemPrompt(cfg.LLMSystemPrompt),
		WithTemperature(cfg.LLMTemperature),
		WithMaxTokens(cfg.LLMMaxTokens),
	), nil
}
