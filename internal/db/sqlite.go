package db

import (
	"context"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const sqliteMessagesSchema = `
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		"sessionId" TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		"createdAt" TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

// OpenSQLite abre (o crea) el archivo SQLite y asegura el esquema.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	dbx, err := sqlx.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializa escrituras; una sola conexion evita SQLITE_BUSY.
	dbx.SetMaxOpenConns(1)

	if err := EnsureSQLiteSchema(ctx, dbx); err != nil {
		_ = dbx.Close()
		return nil, err
	}
	return dbx, nil
}

// EnsureSQLiteSchema crea la tabla messages si no existe.
func EnsureSQLiteSchema(ctx context.Context, dbx *sqlx.DB) error {
	if _, err := dbx.ExecContext(ctx, sqliteMessagesSchema); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}
