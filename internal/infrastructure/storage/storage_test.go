package storage

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func sampleProgress() domain.Progress {
	return domain.Progress{
		Name:       "Alice",
		Level:      3,
		XP:         27,
		HP:         34,
		MaxHP:      34,
		StatPoints: 2,
		Base:       domain.BaseStats{Str: 3, Agi: 1, Vit: 1, Int: 1, Dex: 2, Luk: 1},
		Zenny:      12,
		Inventory:  map[string]int{"jelly": 2, "dagger_1": 1},
		Equipment:  domain.Equipment{Weapon: "dagger_1"},
		Meta:       domain.Meta{Kills: 4, Pickups: 6},
		Job:        domain.JobArcher,
		JobSkill:   domain.JobSkill{Name: "Long Shot", Spell: "arrow"},
		Signature:  domain.Signature{Name: "Pop", Effect: domain.EffectMark},
		LinkedBot:  true,
	}
}

func TestCodecRoundTrip(t *testing.T) {
	pr := sampleProgress()
	data, err := Encode("p1", pr, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	id, got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if id != "p1" || !reflect.DeepEqual(got, pr) {
		t.Errorf("Decode = (%q, %+v), want (p1, %+v)", id, got, pr)
	}
}

func TestDecodeRejectsForeignRecords(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"wrong magic", `{"magic":"CDRP","version":1}`},
		{"future version", `{"magic":"CTPG","version":9}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode([]byte(tt.data)); !errors.Is(err, ErrCorrupt) {
				t.Errorf("got %v, want ErrCorrupt", err)
			}
		})
	}
}

// exerciseStore - общий сценарий для любой реализации ProgressStore.
func exerciseStore(t *testing.T, s ProgressStore) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Load(ctx, "missing"); err != nil || ok {
		t.Fatalf("Load(missing) = (%v, %v), want (false, nil)", ok, err)
	}

	pr := sampleProgress()
	if err := s.Save(ctx, "p1", pr); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := s.Load(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("Load(p1) = (%v, %v)", ok, err)
	}
	if !reflect.DeepEqual(got, pr) {
		t.Errorf("Load = %+v, want %+v", got, pr)
	}

	pr.Level = 4
	if err := s.Save(ctx, "p1", pr); err != nil {
		t.Fatal(err)
	}
	if got, _, _ := s.Load(ctx, "p1"); got.Level != 4 {
		t.Errorf("overwrite lost: level %d", got.Level)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := s.Load(ctx, "p1"); ok {
		t.Error("record survived Clear")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	if s.Len() != 0 {
		t.Errorf("Len = %d after clear", s.Len())
	}
}

func TestOpenDefaultsToMemory(t *testing.T) {
	s, err := Open(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open({}) = %T, want *MemoryStore", s)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("CT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CT_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestCachedStore(t *testing.T) {
	addr := os.Getenv("CT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CT_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend := NewMemoryStore()
	s, err := NewCachedStore(ctx, backend, CacheOptions{Addr: addr, TTL: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)

	// Промах кэша читает основное хранилище и заполняет кэш
	if err := backend.Save(ctx, "p2", sampleProgress()); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Load(ctx, "p2"); err != nil || !ok {
		t.Fatalf("cache-aside miss: (%v, %v)", ok, err)
	}
	if n, _ := s.rdb.Exists(ctx, cacheKey("p2")).Result(); n != 1 {
		t.Error("cache not filled after miss")
	}
}
