package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"chat-history/internal/domain"
)

// SQLiteMessageRepository implementa MessageRepository sobre SQLite para
// desarrollo local y pruebas sin Postgres.
type SQLiteMessageRepository struct {
	db *sqlx.DB
}

func NewSQLiteMessageRepository(db *sqlx.DB) *SQLiteMessageRepository {
	return &SQLiteMessageRepository{db: db}
}

func (r *SQLiteMessageRepository) Append(ctx context.Context, sessionID, role, content string) error {
	const query = `INSERT INTO messages ("sessionId", role, content) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, sessionID, role, content)
	return storageErr("append", err)
}

func (r *SQLiteMessageRepository) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	const query = `
		SELECT role, content
		FROM messages
		WHERE "sessionId" = ?
		ORDER BY "createdAt" ASC, id ASC
	`
	turns := []domain.Turn{}
	if err := r.db.SelectContext(ctx, &turns, query, sessionID); err != nil {
		return nil, storageErr("history", err)
	}
	if turns == nil {
		turns = []domain.Turn{}
	}
	return turns, nil
}

func (r *SQLiteMessageRepository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE "sessionId" = ?`, sessionID)
	if err != nil {
		return 0, storageErr("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete", err)
	}
	return n, nil
}

func (r *SQLiteMessageRepository) Ping(ctx context.Context) error {
	return storageErr("ping", r.db.PingContext(ctx))
}
