package actions

import (
	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/internal/systems"
	"clawtown-server/pkg/api"
)

// CastOutcome - тело ответа на каст, его превращает в JSON слой выше.
type CastOutcome struct {
	Result systems.CastResult
}

// HandleCast - обычная атака, заклинание или навык профессии ("job").
// Отказ по кулдауну не ошибка: он приходит в CastResult с RetryIn.
// Точка AoE не прижимается к миру, недостающая ось берется у кастера.
func HandleCast(ctx handlers.Context, p api.CastPayload) (handlers.Result, error) {
	res := systems.CastByName(ctx.World, ctx.Actor, p.Spell, castTarget(ctx.Actor.Pos, p), ctx.CastSource())
	return handlers.Result{Data: CastOutcome{Result: res}}, nil
}

func castTarget(from domain.Point, p api.CastPayload) *domain.Point {
	if p.X == nil && p.Y == nil {
		return nil
	}
	pt := from
	if p.X != nil {
		pt.X = *p.X
	}
	if p.Y != nil {
		pt.Y = *p.Y
	}
	return &pt
}
