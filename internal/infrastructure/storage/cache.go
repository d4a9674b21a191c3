package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "clawtown:progress:"

type CacheOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // 0 - без истечения
}

// CachedStore - cache-aside поверх другого хранилища. Запись идет
// в основное хранилище, затем в кэш. Ошибки кэша не фатальны.
type CachedStore struct {
	backend ProgressStore
	rdb     *redis.Client
	ttl     time.Duration
	log     *logrus.Entry
}

func NewCachedStore(ctx context.Context, backend ProgressStore, opts CacheOptions) (*CachedStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis.Ping failed: %w", err)
	}
	return newCachedStore(backend, rdb, opts.TTL), nil
}

func newCachedStore(backend ProgressStore, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		backend: backend,
		rdb:     rdb,
		ttl:     ttl,
		log:     logger.Log.WithField("component", "progress_cache"),
	}
}

func cacheKey(playerID string) string { return cacheKeyPrefix + playerID }

func (s *CachedStore) Load(ctx context.Context, playerID string) (domain.Progress, bool, error) {
	val, err := s.rdb.Get(ctx, cacheKey(playerID)).Bytes()
	switch {
	case err == nil:
		if _, pr, err := Decode(val); err == nil {
			return pr, true, nil
		}
		s.log.WithField("player_id", playerID).Warn("Corrupt cache entry, falling back to store.")
	case !errors.Is(err, redis.Nil):
		s.log.WithError(err).WithField("player_id", playerID).Warn("Cache read failed.")
	}

	pr, ok, err := s.backend.Load(ctx, playerID)
	if err != nil || !ok {
		return pr, ok, err
	}
	s.fill(ctx, playerID, pr)
	return pr, true, nil
}

func (s *CachedStore) Save(ctx context.Context, playerID string, pr domain.Progress) error {
	if err := s.backend.Save(ctx, playerID, pr); err != nil {
		return err
	}
	s.fill(ctx, playerID, pr)
	return nil
}

func (s *CachedStore) fill(ctx context.Context, playerID string, pr domain.Progress) {
	data, err := Encode(playerID, pr, time.Now())
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(playerID), data, s.ttl).Err(); err != nil {
		s.log.WithError(err).WithField("player_id", playerID).Warn("Cache write failed.")
	}
}

// Clear чистит основное хранилище и все ключи прогресса в кэше.
func (s *CachedStore) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return err
	}
	iter := s.rdb.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}
	return iter.Err()
}

func (s *CachedStore) Close() error {
	return errors.Join(s.rdb.Close(), s.backend.Close())
}
