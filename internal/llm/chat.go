package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/schema"

	"chat-history/internal/domain"
)

// ChatProvider implementa Provider sobre cualquier llms.Model de langchaingo.
type ChatProvider struct {
	model        llms.Model
	systemPrompt string
	callOptions  []llms.CallOption
}

type Option func(*ChatProvider)

func WithSystemPrompt(prompt string) Option {
	return func(p *ChatProvider) {
		p.systemPrompt = strings.TrimSpace(prompt)
	}
}

func WithTemperature(t float64) Option {
	return func(p *ChatProvider) {
		p.callOptions = append(p.callOptions, llms.WithTemperature(t))
	}
}

func WithMaxTokens(n int) Option {
	return func(p *ChatProvider) {
		if n > 0 {
			p.callOptions = append(p.callOptions, llms.WithMaxTokens(n))
		}
	}
}

func NewChatProvider(model llms.Model, opts ...Option) *ChatProvider {
	p := &ChatProvider{model: model}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StartConversation siembra un historial en memoria con los turnos previos.
func (p *ChatProvider) StartConversation(ctx context.Context, prior []domain.Turn) (Conversation, error) {
	seed := make([]schema.ChatMessage, 0, len(prior))
	for _, t := range prior {
		seed = append(seed, toChatMessage(t))
	}
	return &chatConversation{
		provider: p,
		history:  memory.NewChatMessageHistory(memory.WithPreviousMessages(seed)),
	}, nil
}

type chatConversation struct {
	mu       sync.Mutex
	provider *ChatProvider
	history  *memory.ChatMessageHistory
}

func (c *chatConversation) Send(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prior, err := c.history.Messages(ctx)
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}

	content := make([]llms.MessageContent, 0, len(prior)+2)
	if c.provider.systemPrompt != "" {
		content = append(content, llms.TextParts(schema.ChatMessageTypeSystem, c.provider.systemPrompt))
	}
	for _, m := range prior {
		content = appendMerged(content, m.GetType(), m.GetContent())
	}
	content = appendMerged(content, schema.ChatMessageTypeHuman, text)

	resp, err := c.provider.model.GenerateContent(ctx, content, c.provider.callOptions...)
	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyResponse
	}
	reply := resp.Choices[0].Content

	// El historial solo avanza cuando el turno completo tuvo exito.
	if err := c.history.AddUserMessage(ctx, text); err != nil {
		return "", fmt.Errorf("record user turn: %w", err)
	}
	if err := c.history.AddAIMessage(ctx, reply); err != nil {
		return "", fmt.Errorf("record ai turn: %w", err)
	}
	return reply, nil
}

func toChatMessage(t domain.Turn) schema.ChatMessage {
	switch strings.ToLower(strings.TrimSpace(t.Role)) {
	case domain.RoleAssistant, "ai", "model":
		return schema.AIChatMessage{Content: t.Content}
	case "system":
		return schema.SystemChatMessage{Content: t.Content}
	default:
		return schema.HumanChatMessage{Content: t.Content}
	}
}

// appendMerged agrega un turno, uniendolo al anterior si es del mismo rol. Un
// fallo del proveedor deja un mensaje de usuario sin respuesta en el store, y
// algunos modelos rechazan dos turnos seguidos del mismo autor.
func appendMerged(content []llms.MessageContent, role schema.ChatMessageType, text string) []llms.MessageContent {
	if n := len(content); n > 0 && content[n-1].Role == role {
		content[n-1] = llms.TextParts(role, textOf(content[n-1])+"\n\n"+text)
		return content
	}
	return append(content, llms.TextParts(role, text))
}

func textOf(m llms.MessageContent) string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if tc, ok := p.(llms.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}
