package actions

import (
	"clawtown-server/internal/engine/handlers"
	"clawtown-server/pkg/api"
)

// Группы. Ошибки сокету дублируются личным фреймом party_error.

// PartyOutcome - тело ответа на групповые команды.
type PartyOutcome = api.PartyResponse

func partyFail(ctx handlers.Context, err error) (handlers.Result, error) {
	if ctx.Source == handlers.SourceSocket {
		ctx.ReplyTo(api.ServerFrame{Type: api.FramePartyError, Error: err.Error()})
	}
	return handlers.Result{}, err
}

// HandlePartyCreate - повторное создание возвращает текущую группу.
func HandlePartyCreate(ctx handlers.Context) (handlers.Result, error) {
	if id := ctx.Actor.PartyID; id != "" {
		return handlers.Result{Data: PartyOutcome{OK: true, PartyID: id}}, nil
	}
	party, err := ctx.World.CreateParty(ctx.Actor)
	if err != nil {
		return partyFail(ctx, err)
	}
	return handlers.Result{Data: PartyOutcome{OK: true, PartyID: party.ID}}, nil
}

// HandlePartyLeave - выход без группы ничего не делает.
func HandlePartyLeave(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Actor.PartyID == "" {
		return handlers.EmptyResult(), nil
	}
	if err := ctx.World.LeaveParty(ctx.Actor); err != nil {
		return partyFail(ctx, err)
	}
	return handlers.EmptyResult(), nil
}

func HandlePartyCode(ctx handlers.Context) (handlers.Result, error) {
	code, expiresAt, err := ctx.World.PartyCode(ctx.Actor)
	if err != nil {
		return partyFail(ctx, err)
	}
	ctx.ReplyTo(api.ServerFrame{Type: api.FramePartyCode, JoinCode: code})
	return handlers.Result{Data: PartyOutcome{OK: true, JoinCode: code, ExpiresAt: expiresAt.UnixMilli()}}, nil
}

func HandlePartyJoin(ctx handlers.Context, p api.PartyJoinPayload) (handlers.Result, error) {
	party, err := ctx.World.JoinParty(ctx.Actor, p.JoinCode)
	if err != nil {
		return partyFail(ctx, err)
	}
	return handlers.Result{Data: PartyOutcome{OK: true, PartyID: party.ID}}, nil
}

// HandlePartySummon - лидер призывает элиту за зени.
func HandlePartySummon(ctx handlers.Context) (handlers.Result, error) {
	m, err := ctx.World.SummonElite(ctx.Actor)
	if err != nil {
		return partyFail(ctx, err)
	}
	return handlers.Result{Data: map[string]any{"ok": true, "monsterId": m.ID}}, nil
}
