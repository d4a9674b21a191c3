package engine

import (
	"context"
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/infrastructure/storage"
	"clawtown-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SavedProgress - копия прогресса, снятая внутри актора.
type SavedProgress struct {
	PlayerID string
	Progress domain.Progress
}

// Persister пишет прогресс в хранилище вне актора.
// Сохранение best effort: ошибки логируются, тик не ждет базу.
type Persister struct {
	store   storage.ProgressStore
	queue   chan []SavedProgress
	timeout time.Duration
	log     *logrus.Entry
}

func NewPersister(store storage.ProgressStore, timeout time.Duration) *Persister {
	return &Persister{
		store:   store,
		queue:   make(chan []SavedProgress, 16),
		timeout: timeout,
		log:     logger.Component("persister"),
	}
}

// Enqueue не блокирует. Если очередь полна, пачка теряется:
// флаг dirty уже снят, следующее изменение игрока поставит его снова.
func (p *Persister) Enqueue(batch []SavedProgress) bool {
	select {
	case p.queue <- batch:
		return true
	default:
		p.log.WithField("players", len(batch)).Warn("Persist queue full, batch dropped.")
		return false
	}
}

// Run обрабатывает очередь до отмены ctx, затем дописывает остаток.
func (p *Persister) Run(ctx context.Context) {
	for {
		select {
		case batch := <-p.queue:
			p.Save(batch)
		case <-ctx.Done():
			for {
				select {
				case batch := <-p.queue:
					p.Save(batch)
				default:
					return
				}
			}
		}
	}
}

// Save пишет пачку синхронно. Возвращает число успешно сохраненных.
func (p *Persister) Save(batch []SavedProgress) int {
	saved := 0
	for _, item := range batch {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.store.Save(ctx, item.PlayerID, item.Progress)
		cancel()
		if err != nil {
			p.log.WithError(err).WithField("player_id", item.PlayerID).Warn("Failed to save progress.")
			continue
		}
		saved++
	}
	if saved > 0 {
		p.log.WithField("players", saved).Debug("Progress saved.")
	}
	return saved
}

// Load - загрузчик для World. Вызывается внутри актора, поэтому с коротким таймаутом.
func (p *Persister) Load(playerID string) (domain.Progress, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	pr, ok, err := p.store.Load(ctx, playerID)
	if err != nil {
		p.log.WithError(err).WithField("player_id", playerID).Warn("Failed to load progress.")
		return domain.Progress{}, false
	}
	return pr, ok
}

// Clear стирает все сохранения (debug/reset).
func (p *Persister) Clear(ctx context.Context) error {
	return p.store.Clear(ctx)
}
