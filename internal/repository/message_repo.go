package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"chat-history/internal/domain"
)

// MessageRepository es el log append-only de mensajes por sesion.
type MessageRepository interface {
	Append(ctx context.Context, sessionID, role, content string) error
	History(ctx context.Context, sessionID string) ([]domain.Turn, error)
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
	Ping(ctx context.Context) error
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Append(ctx context.Context, sessionID, role, content string) error {
	const query = `
		INSERT INTO messages ("sessionId", role, content)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, sessionID, role, content)
	return storageErr("append", err)
}

func (r *PgMessageRepository) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	const query = `
		SELECT role, content
		FROM messages
		WHERE "sessionId" = $1
		ORDER BY "createdAt" ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, storageErr("history", err)
	}
	defer rows.Close()

	turns := []domain.Turn{}
	for rows.Next() {
		var t domain.Turn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			return nil, storageErr("history", err)
		}
		turns = append(turns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("history", err)
	}

	return turns, nil
}

func (r *PgMessageRepository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	const query = `DELETE FROM messages WHERE "sessionId" = $1`
	tag, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return 0, storageErr("delete", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgMessageRepository) Ping(ctx context.Context) error {
	return storageErr("ping", r.pool.Ping(ctx))
}
