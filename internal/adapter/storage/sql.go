package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.KeyValueStore = (*SQLStore)(nil)

type sqldb interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Close() error
}

// An SQLStore keeps settings in the postgres table created by the
// migrations under migrations/.
type SQLStore struct {
	sqldb sqldb
}

func NewSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	const op = "NewSQLStore"

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid dsn: %w", op, err)
	}
	connStr := stdlib.RegisterConnConfig(connConfig)
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &SQLStore{db}
	if err := s.ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) ping(ctx context.Context) error {
	const op = "SQLStore.ping"
	if err := s.sqldb.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: database unavailable: %w", op, err)
	}
	slog.Info("database is available", "op", op)
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "SQLStore.Get"

	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT value FROM settings WHERE key = $1;`

	var value string
	err := s.sqldb.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	const op = "SQLStore.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`

	if _, err := s.sqldb.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	const op = "SQLStore.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")
	if err := s.sqldb.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("sql database is closed")
	return nil
}
