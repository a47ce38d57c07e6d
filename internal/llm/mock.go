package llm

import (
	"context"
	"sync"

	"chat-history/internal/domain"
)

// MockCall registra lo que vio el proveedor en cada Send.
type MockCall struct {
	History []domain.Turn
	Text    string
}

// MockProvider permite tests sin llamar a un LLM real.
type MockProvider struct {
	Response string
	Err      error
	StartErr error

	mu      sync.Mutex
	started [][]domain.Turn
	calls   []MockCall
}

func (m *MockProvider) StartConversation(_ context.Context, prior []domain.Turn) (Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	seed := append([]domain.Turn(nil), prior...)
	m.started = append(m.started, seed)
	return &mockConversation{provider: m, turns: seed}, nil
}

// Started devuelve los historiales con los que se abrio cada conversacion.
func (m *MockProvider) Started() [][]domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Turn(nil), m.started...)
}

func (m *MockProvider) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

type mockConversation struct {
	provider *MockProvider
	turns    []domain.Turn
}

func (c *mockConversation) Send(_ context.Context, text string) (string, error) {
	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()
	c.provider.calls = append(c.provider.calls, MockCall{
		History: append([]domain.Turn(nil), c.turns...),
		Text:    text,
	})
	if c.provider.Err != nil {
		return "", c.provider.Err
	}
	c.turns = append(c.turns,
		domain.Turn{Role: domain.RoleUser, Content: text},
		domain.Turn{Role: domain.RoleAssistant, Content: c.provider.Response},
	)
	return c.provider.Response, nil
}
