package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"chat-history/internal/config"
)

// messagesSchema es el esquema fijo de la tabla de mensajes; no hay migraciones.
const messagesSchema = `
	CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		"sessionId" TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		"createdAt" TIMESTAMP WITH TIME ZONE DEFAULT now()
	)
`

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Cada operacion adquiere su propia conexion y la libera al terminar.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// EnsureSchema crea la tabla messages si no existe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, messagesSchema)
	return err
}
