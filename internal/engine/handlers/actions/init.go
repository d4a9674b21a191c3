package actions

import (
	"clawtown-server/internal/domain"
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/pkg/api"
)

// Профиль игрока: имя, фирменная атака, навык профессии.

func HandleSetName(ctx handlers.Context, p api.NamePayload) (handlers.Result, error) {
	ctx.World.SetName(ctx.Actor, p.Name)
	return handlers.EmptyResult(), nil
}

// HandleSetSignature меняет имя и эффект атаки, девиз остается прежним.
func HandleSetSignature(ctx handlers.Context, p api.SignaturePayload) (handlers.Result, error) {
	sig := ctx.Actor.Signature
	sig.Name = p.Name
	sig.Effect = domain.SignatureEffect(p.Effect)
	ctx.World.SetSignature(ctx.Actor, sig)
	return handlers.EmptyResult(), nil
}

func HandleSetJobSkill(ctx handlers.Context, p api.JobSkillPayload) (handlers.Result, error) {
	err := ctx.World.SetJobSkill(ctx.Actor, domain.JobSkill{Name: p.Name, Spell: p.Spell})
	if err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}
