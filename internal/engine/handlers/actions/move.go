package actions

import (
	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/pkg/api"
)

// HandleMove - шаг в ручном режиме.
func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	if err := ctx.World.ApplyMovement(ctx.Actor, p.Dx, p.Dy); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}

// HandleSetGoal - клик по карте или цель бота. Переводит игрока в режим агента.
func HandleSetGoal(ctx handlers.Context, p api.GoalPayload) (handlers.Result, error) {
	if err := ctx.World.SetGoal(ctx.Actor, *p.X, *p.Y); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}

func HandleSetMode(ctx handlers.Context, p api.ModePayload) (handlers.Result, error) {
	mode, err := domain.ParseMode(p.Mode)
	if err != nil {
		return handlers.Result{}, err
	}
	ctx.World.SetMode(ctx.Actor, mode)
	return handlers.Result{WithPlayer: true}, nil
}
