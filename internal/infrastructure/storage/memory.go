package storage

import (
	"context"
	"time"

	"clawtown-server/internal/domain"

	"github.com/sasha-s/go-deadlock"
)

// MemoryStore держит закодированные записи в памяти процесса.
type MemoryStore struct {
	mu      deadlock.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, playerID string) (domain.Progress, bool, error) {
	s.mu.RLock()
	data, ok := s.records[playerID]
	s.mu.RUnlock()
	if !ok {
		return domain.Progress{}, false, nil
	}
	_, pr, err := Decode(data)
	if err != nil {
		return domain.Progress{}, false, err
	}
	return pr, true, nil
}

func (s *MemoryStore) Save(_ context.Context, playerID string, pr domain.Progress) error {
	data, err := Encode(playerID, pr, time.Now())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records[playerID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	clear(s.records)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len - число записей.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
