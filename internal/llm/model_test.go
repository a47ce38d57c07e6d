package llm

import (
	"context"
	"testing"

	"chat-history/internal/config"
)

func TestNewModel_UnknownProvider(t *testing.T) {
	_, err := NewModel(context.Background(), &config.Config{LLMProvider: "carrier-pigeon", LLMAPIKey: "k"})
	if err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestNewProviderFromConfig_OpenAI(t *testing.T) {
	cfg := &config.Config{
		LLMProvider:    "openai",
		LLMAPIKey:      "k",
		LLMModel:       "gpt-4o-mini",
		LLMBaseURL:     "http://localhost:12434/engines/v1/",
		LLMTemperature: 0.5,
		LLMMaxTokens:   100,
	}
	p, err := NewProviderFromConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.callOptions) != 2 {
		t.Fatalf("expected temperature and max tokens options, got %d", len(p.callOptions))
	}
}
