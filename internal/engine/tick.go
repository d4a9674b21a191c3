package engine

import (
	"clawtown-server/internal/domain"
	"clawtown-server/internal/systems"
	"clawtown-server/pkg/api"
)

// Step проводит мир через один тик и возвращает снимок этого же тика.
// Порядок систем фиксирован: сначала монстры, потом игроки, потом предметы.
func Step(w *domain.World) api.Snapshot {
	systems.RespawnMonsters(w)
	systems.WanderMonsters(w)
	systems.RunAutopilot(w)
	systems.MoveAgents(w)
	systems.CollectDrops(w)
	w.ExpireDrops()

	w.Tick++
	return BuildSnapshot(w)
}
