package systems

import (
	"math"
	"sort"

	"clawtown-server/internal/domain"
)

// Геометрия заклинаний, в пикселях.
const (
	MeleeRange     = 120.0
	FireballRadius = 130.0
	HailRadius     = 150.0
	ArrowRange     = 260.0
	ArrowCorridor  = 90.0
	ArrowDeadZone  = 6.0
	CleaveRadius   = 120.0
	CleaveMaxHits  = 3
	FlurryRange    = 92.0
)

// ArrowTarget ищет цель выстрела: ближайший живой монстр по оси взгляда
// внутри коридора ±ArrowCorridor, не ближе ArrowDeadZone.
// Если в коридоре никого нет, берется ближайший живой монстр в ArrowRange.
func ArrowTarget(w *domain.World, from domain.Point, facing domain.Facing) (*domain.Monster, bool) {
	fx, fy := facing.Vector()

	var best *domain.Monster
	bestDist := ArrowRange + 1
	for _, m := range w.Monsters() {
		if !m.Alive {
			continue
		}
		dx := m.Pos.X - from.X
		dy := m.Pos.Y - from.Y

		// along - дистанция по оси взгляда, across - отклонение поперек
		along := dx*fx + dy*fy
		across := math.Abs(dx*fy - dy*fx)
		if along <= ArrowDeadZone || across > ArrowCorridor {
			continue
		}
		if along <= ArrowRange && along < bestDist {
			best, bestDist = m, along
		}
	}
	if best != nil {
		return best, true
	}
	return w.NearestAliveMonster(from, ArrowRange)
}

// ArrowEnd - точка, где заканчивается промах.
func ArrowEnd(from domain.Point, facing domain.Facing) domain.Point {
	fx, fy := facing.Vector()
	return from.Shift(fx*ArrowRange, fy*ArrowRange)
}

// NearestAlive - до limit ближайших живых монстров в радиусе r.
func NearestAlive(w *domain.World, at domain.Point, r float64, limit int) []*domain.Monster {
	in := w.AliveMonstersWithin(at, r)
	sort.SliceStable(in, func(i, j int) bool {
		return at.Dist2(in[i].Pos) < at.Dist2(in[j].Pos)
	})
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	return in
}
