package actions

import (
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/pkg/api"
)

// HandleCraft - переработка материалов по рецепту. Нехватка материалов
// приходит игроку личным системным сообщением.
func HandleCraft(ctx handlers.Context, p api.CraftPayload) (handlers.Result, error) {
	itemID, err := ctx.World.Craft(ctx.Actor, p.Recipe)
	if err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{Data: map[string]any{"ok": true, "itemId": itemID}}, nil
}
