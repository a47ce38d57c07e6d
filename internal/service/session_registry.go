package service

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"chat-history/internal/llm"
)

// ConversationFactory abre la conversacion de una sesion ante un miss del registry.
type ConversationFactory func(ctx context.Context) (llm.Conversation, error)

// SessionRegistry es un cache acotado sessionID -> conversacion del proveedor.
// Es reconstruible desde el store, asi que perder una entrada solo cuesta un replay.
type SessionRegistry struct {
	// mu hace atomicos el par Get+Add de la renovacion frente a Remove.
	mu    sync.Mutex
	cache *expirable.LRU[string, llm.Conversation]
	group singleflight.Group
}

// NewSessionRegistry crea un registry LRU con capacidad size y expiracion por inactividad.
func NewSessionRegistry(logger *zap.Logger, size int, idleTTL time.Duration) *SessionRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 1000
	}
	onEvict := func(sessionID string, _ llm.Conversation) {
		logger.Debug("session evicted", zap.String("session_id", sessionID))
	}
	return &SessionRegistry{
		cache: expirable.NewLRU[string, llm.Conversation](size, onEvict, idleTTL),
	}
}

// GetOrCreate devuelve el handle existente o crea uno con create. Llamadas
// concurrentes para el mismo sessionID comparten una unica creacion.
//
// create recibe un contexto sin cancelacion: el resultado se comparte con
// otros llamadores, asi que no depende de que el primero siga esperando.
func (r *SessionRegistry) GetOrCreate(ctx context.Context, sessionID string, create ConversationFactory) (llm.Conversation, error) {
	if conv, ok := r.touch(sessionID); ok {
		return conv, nil
	}

	v, err, _ := r.group.Do(sessionID, func() (interface{}, error) {
		if conv, ok := r.touch(sessionID); ok {
			return conv, nil
		}
		conv, err := create(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache.Add(sessionID, conv)
		r.mu.Unlock()
		return conv, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(llm.Conversation), nil
}

// touch devuelve el handle si existe y renueva su TTL; la expiracion cuenta
// desde el ultimo uso. Un Remove concurrente no puede quedar pisado.
func (r *SessionRegistry) touch(sessionID string) (llm.Conversation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.cache.Get(sessionID)
	if ok {
		r.cache.Add(sessionID, conv)
	}
	return conv, ok
}

// Remove descarta el handle de la sesion; el siguiente uso lo reconstruye.
func (r *SessionRegistry) Remove(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Remove(sessionID)
}

func (r *SessionRegistry) Len() int {
	return r.cache.Len()
}
