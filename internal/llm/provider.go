package llm

import (
	"context"
	"errors"

	"chat-history/internal/domain"
)

// ErrEmptyResponse indica que el proveedor respondio sin texto.
var ErrEmptyResponse = errors.New("llm empty response")

// Provider abre conversaciones con estado contra un modelo generativo.
type Provider interface {
	StartConversation(ctx context.Context, prior []domain.Turn) (Conversation, error)
}

// Conversation es el handle de una conversacion en curso: recuerda los turnos
// previos y responde cada mensaje nuevo con ese contexto.
type Conversation interface {
	Send(ctx context.Context, text string) (string, error)
}
