package actions

import (
	"fmt"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/pkg/api"
)

func HandleEquip(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	w, actor := ctx.World, ctx.Actor
	if err := w.Equip(actor, p.ItemID); err != nil {
		return handlers.Result{}, err
	}
	w.SystemChat(fmt.Sprintf("%s equipped %s.", actor.Name, domain.ItemName(p.ItemID)))
	return handlers.EmptyResult(), nil
}

// HandleAllocStat - n по умолчанию 1.
func HandleAllocStat(ctx handlers.Context, p api.AllocStatPayload) (handlers.Result, error) {
	n := p.N
	if n == 0 {
		n = 1
	}
	if err := ctx.World.AllocateStat(ctx.Actor, p.Stat, n); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}
