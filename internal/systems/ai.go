package systems

import (
	"time"

	"clawtown-server/internal/domain"
	"clawtown-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// RespawnMonsters возвращает мертвых монстров, чье время пришло.
func RespawnMonsters(w *domain.World) []*domain.Monster {
	back := w.RespawnDue()
	for _, m := range back {
		logger.Log.WithFields(logrus.Fields{
			"component":  "ai_system",
			"monster_id": m.ID,
			"x":          m.Pos.X,
			"y":          m.Pos.Y,
		}).Debug("Monster respawned.")
	}
	return back
}

// WanderMonsters - один тик блуждания живых слаймов.
// В момент NextWanderAt направление иногда меняется по одной из осей,
// на границе области скорость отражается.
func WanderMonsters(w *domain.World) {
	now := w.Now()
	lo, hi := domain.WanderBounds()

	for _, m := range w.Monsters() {
		if !m.Alive || !m.Wanders() {
			continue
		}

		if !now.Before(m.NextWanderAt) {
			r := w.Rng.Float64()
			if r < 0.33 {
				m.VX = randSign(w)
			}
			if r > 0.66 {
				m.VY = randSign(w)
			}
			m.NextWanderAt = now.Add(time.Duration(700+w.Rng.Intn(1400)) * time.Millisecond)
		}

		m.Pos = m.Pos.Shift(m.VX*domain.MonsterSpeed, m.VY*domain.MonsterSpeed)
		m.Pos.X, m.VX = reflect(m.Pos.X, m.VX, lo.X, hi.X)
		m.Pos.Y, m.VY = reflect(m.Pos.Y, m.VY, lo.Y, hi.Y)
	}
}

// reflect прижимает координату к [lo, hi] и разворачивает скорость от стены.
func reflect(v, vel, lo, hi float64) (float64, float64) {
	if v < lo {
		return lo, 1
	}
	if v > hi {
		return hi, -1
	}
	return v, vel
}

func randSign(w *domain.World) float64 {
	if w.Rng.Float64() < 0.5 {
		return -1
	}
	return 1
}
