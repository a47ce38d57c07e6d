package repository

import (
	"context"

	"chat-history/internal/config"
	"chat-history/internal/db"
)

// Open elige Postgres o SQLite segun DATABASE_URL, crea la tabla si falta y
// devuelve el repositorio junto con su funcion de cierre.
func Open(ctx context.Context, cfg *config.Config) (MessageRepository, func(), error) {
	if cfg.UsesSQLite() {
		dbx, err := db.OpenSQLite(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteMessageRepository(dbx), func() { _ = dbx.Close() }, nil
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return NewPgMessageRepository(pool), pool.Close, nil
}
