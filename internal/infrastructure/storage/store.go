// Package storage - хранилище прогресса игроков. Best effort:
// мир работает и без него, ошибки только логируются.
package storage

import (
	"context"
	"time"

	"clawtown-server/internal/domain"
)

// ProgressStore - сохраненный прогресс по id игрока.
type ProgressStore interface {
	// Load возвращает false, если записи нет.
	Load(ctx context.Context, playerID string) (domain.Progress, bool, error)
	Save(ctx context.Context, playerID string, pr domain.Progress) error
	// Clear удаляет все записи (debug/reset).
	Clear(ctx context.Context) error
	Close() error
}

// Options - что подключать. Пустые адреса - хранилище в памяти.
type Options struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

// Open собирает хранилище: Postgres или память, поверх - кэш Redis.
func Open(ctx context.Context, opts Options) (ProgressStore, error) {
	var backend ProgressStore = NewMemoryStore()
	if opts.DatabaseURL != "" {
		pg, err := OpenPostgres(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		backend = pg
	}
	if opts.RedisAddr == "" {
		return backend, nil
	}
	cached, err := NewCachedStore(ctx, backend, CacheOptions{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
		TTL:      opts.CacheTTL,
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return cached, nil
}
