package admin

import (
	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/pkg/api"
	"clawtown-server/pkg/logger"
)

// Debug-команды. Доступны только при CT_TEST=1, игрок указывается в payload.

func findPlayer(ctx handlers.Context, id string) (*domain.Player, error) {
	p, ok := ctx.World.Player(id)
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "unknown playerId")
	}
	return p, nil
}

// HandleTeleport переносит игрока и сбрасывает его цель.
func HandleTeleport(ctx handlers.Context, p api.TeleportPayload) (handlers.Result, error) {
	player, err := findPlayer(ctx, p.PlayerID)
	if err != nil {
		return handlers.Result{}, err
	}
	ctx.World.Teleport(player, p.X, p.Y)
	logger.Log.WithField("player_id", player.ID).Debug("⚡ Teleported via debug API")
	return handlers.EmptyResult(), nil
}

func HandleSpawnMonster(ctx handlers.Context, p api.SpawnMonsterPayload) (handlers.Result, error) {
	m := ctx.World.SpawnMonster(domain.MonsterSpec{
		ID:    p.ID,
		Kind:  domain.ParseMonsterKind(p.Kind),
		Name:  p.Name,
		Color: p.Color,
		Pos:   domain.Point{X: p.X, Y: p.Y},
		MaxHP: p.MaxHP,
		HP:    p.HP,
	})
	return handlers.Result{Data: map[string]any{"ok": true, "id": m.ID}}, nil
}

func HandleGrantItem(ctx handlers.Context, p api.GrantItemPayload) (handlers.Result, error) {
	player, err := findPlayer(ctx, p.PlayerID)
	if err != nil {
		return handlers.Result{}, err
	}
	if _, ok := domain.LookupItem(p.ItemID); !ok {
		return handlers.Result{}, domain.Invalid("unknown itemId")
	}
	qty := p.Qty
	if qty <= 0 {
		qty = 1
	}
	if err := ctx.World.AddItem(player, p.ItemID, qty, "granted"); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}

func HandleSetJob(ctx handlers.Context, p api.SetJobPayload) (handlers.Result, error) {
	player, err := findPlayer(ctx, p.PlayerID)
	if err != nil {
		return handlers.Result{}, err
	}
	job, err := domain.ParseJob(p.Job)
	if err != nil {
		return handlers.Result{}, err
	}
	ctx.World.SetJob(player, job)
	return handlers.Result{Data: map[string]any{"ok": true, "job": string(job), "jobSkill": player.JobSkill}}, nil
}

// HandleKill - добить монстра (проверка наград и респауна вручную).
func HandleKill(ctx handlers.Context, p api.KillMonsterPayload) (handlers.Result, error) {
	m, ok := ctx.World.Monster(p.MonsterID)
	if !ok {
		return handlers.Result{}, domain.NewError(domain.ErrNotFound, "unknown monsterId")
	}
	player, err := findPlayer(ctx, p.PlayerID)
	if err != nil {
		return handlers.Result{}, err
	}
	hit, ok := ctx.World.DamageMonster(player, m, m.HP)
	if !ok {
		return handlers.Result{}, domain.Conflict("%s is already down", m.Name)
	}
	return handlers.Result{Data: map[string]any{"ok": true, "killed": hit.Killed}}, nil
}
