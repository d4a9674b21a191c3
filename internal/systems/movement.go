package systems

import (
	"clawtown-server/internal/domain"
)

// MoveAgents - шаг всех игроков в режиме агента к их цели.
// Возвращает игроков, прибывших на этом тике.
func MoveAgents(w *domain.World) []*domain.Player {
	var arrived []*domain.Player
	for _, p := range w.Players() {
		if w.StepTowardGoal(p) {
			arrived = append(arrived, p)
		}
	}
	return arrived
}

// CollectDrops - автоподбор предметов рядом с каждым игроком.
func CollectDrops(w *domain.World) int {
	if len(w.Drops()) == 0 {
		return 0
	}
	n := 0
	for _, p := range w.Players() {
		n += len(w.PickupNearby(p))
		if len(w.Drops()) == 0 {
			break
		}
	}
	return n
}
