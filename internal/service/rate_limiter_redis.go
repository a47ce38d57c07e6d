package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// MessageRateLimiter limita cuantos mensajes puede postear una sesion por ventana.
type MessageRateLimiter interface {
	Allow(ctx context.Context, sessionID string) bool
}

// Ventana fija por sesion: el primer INCR de la ventana fija el TTL.
const sessionRateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`

const sessionRateLimitPrefix = "chat:rl:session:"

type redisMessageRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisMessageRateLimiter(client *redis.Client, window time.Duration, max int) MessageRateLimiter {
	if client == nil {
		return nil
	}
	return newSessionRateLimiter(client, window, max)
}

func newSessionRateLimiter(client redisEvaler, window time.Duration, max int) *redisMessageRateLimiter {
	if window < time.Millisecond {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisMessageRateLimiter{client: client, window: window, max: max}
}

// sessionRateLimitKey usa un hash del id: los session ids son strings opacos
// del cliente, de cualquier largo y contenido, y se comparan byte a byte.
func sessionRateLimitKey(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return sessionRateLimitPrefix + hex.EncodeToString(sum[:])
}

// Allow es fail-open: si Redis falla, el mensaje pasa.
func (l *redisMessageRateLimiter) Allow(ctx context.Context, sessionID string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if sessionID == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	count, err := l.client.Eval(ctx, sessionRateLimitScript, []string{sessionRateLimitKey(sessionID)}, l.window.Milliseconds()).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
