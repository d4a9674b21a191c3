package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/pkg/logger"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const schema = `CREATE TABLE IF NOT EXISTS player_progress (
	player_id  TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore - таблица player_progress, одна строка на игрока.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres подключается по DSN и создает таблицу, если ее нет.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping failed: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	logger.Log.WithField("component", "storage").Info("PostgreSQL progress store ready.")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context, playerID string) (domain.Progress, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM player_progress WHERE player_id = $1`, playerID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Progress{}, false, nil
	}
	if err != nil {
		return domain.Progress{}, false, fmt.Errorf("load progress %s: %w", playerID, err)
	}
	_, pr, err := Decode(data)
	if err != nil {
		return domain.Progress{}, false, err
	}
	return pr, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, playerID string, pr domain.Progress) error {
	data, err := Encode(playerID, pr, time.Now())
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO player_progress (player_id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (player_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		playerID, data)
	if err != nil {
		return fmt.Errorf("save progress %s: %w", playerID, err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM player_progress`); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }
