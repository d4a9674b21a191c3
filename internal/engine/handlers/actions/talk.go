package actions

import (
	"strings"

	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/pkg/api"
)

func HandleChat(ctx handlers.Context, p api.TextPayload) (handlers.Result, error) {
	if _, err := ctx.World.Chat(ctx.Actor, p.Text); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}

// HandleEmote - пока есть только wave: реплика в чат и эффект echo.
func HandleEmote(ctx handlers.Context, p api.EmotePayload) (handlers.Result, error) {
	emote := strings.ToLower(strings.TrimSpace(p.Emote))
	if emote != "wave" {
		return handlers.Result{}, domain.Invalid("unknown emote")
	}
	w, actor := ctx.World, ctx.Actor
	w.Say(actor, "*waves*")
	w.PushFx(string(domain.EffectEcho), actor.Pos, actor.ID, map[string]any{"emote": emote})
	return handlers.EmptyResult(), nil
}

func HandlePing(ctx handlers.Context) (handlers.Result, error) {
	actor := ctx.Actor
	ctx.World.PushFx(string(domain.EffectMark), actor.Pos, actor.ID, map[string]any{"ping": true})
	return handlers.EmptyResult(), nil
}

func HandleBoardPost(ctx handlers.Context, p api.BoardPayload) (handlers.Result, error) {
	if _, err := ctx.World.PostBoard(ctx.Actor, p.Content); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}

// HandleSetIntent - с сокета намерение пишется только в ручном режиме,
// в режиме агента его ведет бот.
func HandleSetIntent(ctx handlers.Context, p api.TextPayload) (handlers.Result, error) {
	if ctx.Source == handlers.SourceSocket && ctx.Actor.Mode != domain.ModeManual {
		return handlers.Result{}, domain.Conflict("intent is owned by the bot in agent mode")
	}
	ctx.World.SetIntent(ctx.Actor, p.Text)
	return handlers.EmptyResult(), nil
}

func HandleSetInterrupt(ctx handlers.Context, p api.InterruptPayload) (handlers.Result, error) {
	level, err := domain.ParseInterrupt(p.Level)
	if err != nil {
		return handlers.Result{}, err
	}
	ctx.World.SetInterrupt(ctx.Actor, level)
	return handlers.Result{WithPlayer: true}, nil
}
