package systems

import (
	"fmt"

	"clawtown-server/internal/domain"
)

// Площадь, вокруг которой патрулирует автопилот.
var plaza = domain.Point{X: 15*domain.TileSize + 32, Y: 10*domain.TileSize + 16}

const patrolJitter = 220.0

// CanAutopilot - привязанный игрок в режиме агента, чей внешний бот молчит.
func CanAutopilot(w *domain.World, p *domain.Player) bool {
	if p.Mode != domain.ModeAgent || !p.LinkedBot {
		return false
	}
	return w.Now().Sub(p.BotLastSeenAt) > domain.AutopilotIdleAfter
}

// RunAutopilot - встроенный бот для всех подходящих игроков.
func RunAutopilot(w *domain.World) {
	for _, p := range w.Players() {
		Autopilot(w, p)
	}
}

// Autopilot: бьет монстра рядом, идет к монстру в радиусе охоты,
// иначе гуляет вокруг площади. Решение не чаще раза в AutopilotInterval.
func Autopilot(w *domain.World, p *domain.Player) {
	if !CanAutopilot(w, p) {
		return
	}
	now := w.Now()
	if ok, _ := domain.Allow(p.Autopilot.LastRunAt, domain.AutopilotInterval, now); !ok {
		return
	}
	p.Autopilot.LastRunAt = now

	if target, ok := w.NearestAliveMonster(p.Pos, domain.AutopilotHuntRange); ok {
		if p.Pos.Within(target.Pos, domain.AutopilotHitRange) {
			Cast(CastContext{World: w, Player: p, Spell: domain.SpellSignature, Source: "autopilot"})
			autopilotState(w, p, "hit:"+target.ID, fmt.Sprintf("Attacking %s.", target.Name))
			return
		}
		if p.Goal == nil {
			w.SetGoal(p, target.Pos.X, target.Pos.Y)
			autopilotState(w, p, "hunt:"+target.ID, fmt.Sprintf("Spotted %s, moving in.", target.Name))
		}
		return
	}

	if p.Goal == nil {
		jitter := func() float64 { return (w.Rng.Float64() - 0.5) * patrolJitter }
		w.SetGoal(p, plaza.X+jitter(), plaza.Y+jitter())
		autopilotState(w, p, "wander", "Patrolling the plaza.")
	}
}

// autopilotState запоминает новое состояние и озвучивает его, не чаще AutopilotSayGap.
func autopilotState(w *domain.World, p *domain.Player, state, line string) {
	if p.Autopilot.State == state {
		return
	}
	p.Autopilot.State = state
	now := w.Now()
	if ok, _ := domain.Allow(p.Autopilot.LastSayAt, domain.AutopilotSayGap, now); !ok {
		return
	}
	p.Autopilot.LastSayAt = now
	w.Say(p, "[BOT] "+line)
}
