package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"chat-history/internal/domain"
	"chat-history/internal/llm"
	"chat-history/internal/repository"
)

// ChatService orquesta historial, registry de sesiones y proveedor LLM.
type ChatService struct {
	logger      *zap.Logger
	messages    repository.MessageRepository
	provider    llm.Provider
	registry    *SessionRegistry
	limiter     MessageRateLimiter
	replayLimit int
}

// NewChatService crea el servicio. limiter puede ser nil; replayLimit <= 0
// reproduce el historial completo al reconstruir una conversacion.
func NewChatService(
	logger *zap.Logger,
	messages repository.MessageRepository,
	provider llm.Provider,
	registry *SessionRegistry,
	limiter MessageRateLimiter,
	replayLimit int,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = NewSessionRegistry(logger, 0, 0)
	}
	return &ChatService{
		logger:      logger,
		messages:    messages,
		provider:    provider,
		registry:    registry,
		limiter:     limiter,
		replayLimit: replayLimit,
	}
}

func (s *ChatService) configured() bool {
	return s != nil && s.messages != nil && s.provider != nil
}

// GetHistory devuelve los turnos de la sesion en orden de insercion.
func (s *ChatService) GetHistory(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	if !s.configured() {
		return nil, &ServiceError{Op: "get history", Err: ErrServiceNotConfigured}
	}
	turns, err := s.messages.History(ctx, sessionID)
	if err != nil {
		return nil, &ServiceError{Op: "get history", Err: err}
	}
	return turns, nil
}

// PostMessage toma el ultimo mensaje como el del usuario, lo persiste, lo
// envia a la conversacion de la sesion y persiste la respuesta.
//
// Las dos escrituras no son transaccionales: si el proveedor falla, la fila
// del usuario queda sin respuesta.
func (s *ChatService) PostMessage(ctx context.Context, sessionID string, messages []domain.Turn) (string, error) {
	const op = "post message"
	if !s.configured() {
		return "", &ServiceError{Op: op, Err: ErrServiceNotConfigured}
	}
	if len(messages) == 0 {
		return "", &ServiceError{Op: op, Err: ErrEmptyMessages}
	}
	userMsg := messages[len(messages)-1]
	if strings.TrimSpace(userMsg.Content) == "" {
		return "", &ServiceError{Op: op, Err: ErrEmptyContent}
	}
	if strings.TrimSpace(userMsg.Role) == "" {
		userMsg.Role = domain.RoleUser
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, sessionID) {
		return "", &ServiceError{Op: op, Err: ErrRateLimited}
	}

	conv, err := s.registry.GetOrCreate(ctx, sessionID, func(ctx context.Context) (llm.Conversation, error) {
		return s.startConversation(ctx, sessionID)
	})
	if err != nil {
		return "", &ServiceError{Op: op, Err: err}
	}

	if err := s.messages.Append(ctx, sessionID, userMsg.Role, userMsg.Content); err != nil {
		return "", &ServiceError{Op: op, Err: err}
	}

	reply, err := conv.Send(ctx, userMsg.Content)
	if err != nil {
		// El store tiene un turno que la conversacion no: se reconstruye en el proximo uso.
		s.registry.Remove(sessionID)
		s.logger.Warn("provider send failed", zap.String("session_id", sessionID), zap.Error(err))
		return "", &ServiceError{Op: op, Err: err}
	}

	if err := s.messages.Append(ctx, sessionID, domain.RoleAssistant, reply); err != nil {
		s.registry.Remove(sessionID)
		return "", &ServiceError{Op: op, Err: err}
	}

	return reply, nil
}

// startConversation reconstruye la conversacion a partir del historial persistido.
func (s *ChatService) startConversation(ctx context.Context, sessionID string) (llm.Conversation, error) {
	prior, err := s.messages.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.replayLimit > 0 && len(prior) > s.replayLimit {
		prior = prior[len(prior)-s.replayLimit:]
	}
	s.logger.Debug("conversation started",
		zap.String("session_id", sessionID),
		zap.Int("replayed_turns", len(prior)),
	)
	return s.provider.StartConversation(ctx, prior)
}

// DeleteHistory borra los mensajes de la sesion y descarta su conversacion.
func (s *ChatService) DeleteHistory(ctx context.Context, sessionID string) error {
	if !s.configured() {
		return &ServiceError{Op: "delete history", Err: ErrServiceNotConfigured}
	}
	n, err := s.messages.DeleteBySession(ctx, sessionID)
	s.registry.Remove(sessionID)
	if err != nil {
		return &ServiceError{Op: "delete history", Err: err}
	}
	s.logger.Info("history deleted", zap.String("session_id", sessionID), zap.Int64("rows", n))
	return nil
}

// Ping verifica que el store responde.
func (s *ChatService) Ping(ctx context.Context) error {
	if !s.configured() {
		return ErrServiceNotConfigured
	}
	return s.messages.Ping(ctx)
}
