package domain

import (
	"fmt"
	"strings"
	"time"

	"clawtown-server/pkg/utils"
)

// Party - группа игроков. Пустая группа удаляется.
type Party struct {
	ID           string
	LeaderID     string
	Members      []string
	LastSummonAt time.Time
}

func (p *Party) remove(playerID string) {
	for i, id := range p.Members {
		if id == playerID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return
		}
	}
}

type partyCode struct {
	partyID   string
	expiresAt time.Time
}

// Parties - группы в порядке создания.
func (w *World) Parties() []*Party { return w.parties }

// Party ищет группу по id.
func (w *World) Party(id string) (*Party, bool) {
	for _, p := range w.parties {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// CreateParty - игрок становится лидером новой группы.
func (w *World) CreateParty(p *Player) (*Party, error) {
	if p.PartyID != "" {
		return nil, Conflict("already in a party")
	}
	party := &Party{ID: NewID("party"), LeaderID: p.ID, Members: []string{p.ID}}
	w.parties = append(w.parties, party)
	p.PartyID = party.ID
	p.markDirty()
	w.SystemChat(fmt.Sprintf("%s formed a party.", p.Name))
	return party, nil
}

// LeaveParty - при уходе лидера лидерство переходит следующему участнику.
func (w *World) LeaveParty(p *Player) error {
	if p.PartyID == "" {
		return Conflict("not in a party")
	}
	w.detach(p)
	w.SystemChat(fmt.Sprintf("%s left the party.", p.Name))
	return nil
}

func (w *World) detach(p *Player) {
	if party, ok := w.Party(p.PartyID); ok {
		party.remove(p.ID)
		if party.LeaderID == p.ID {
			party.LeaderID = ""
			if len(party.Members) > 0 {
				party.LeaderID = party.Members[0]
			}
		}
		if party.LeaderID == "" {
			w.deleteParty(party.ID)
		}
	}
	p.PartyID = ""
	p.markDirty()
}

func (w *World) deleteParty(id string) {
	for i, party := range w.parties {
		if party.ID == id {
			w.parties = append(w.parties[:i], w.parties[i+1:]...)
			break
		}
	}
	for code, rec := range w.partyCodes {
		if rec.partyID == id {
			delete(w.partyCodes, code)
		}
	}
}

// leaderParty - группа игрока, если он ее лидер.
func (w *World) leaderParty(p *Player) (*Party, error) {
	if p.PartyID == "" {
		return nil, Conflict("not in a party")
	}
	party, ok := w.Party(p.PartyID)
	if !ok {
		return nil, NewError(ErrNotFound, "party not found")
	}
	if party.LeaderID != p.ID {
		return nil, NewError(ErrForbidden, "only the party leader can do that")
	}
	return party, nil
}

// PartyCode выдает код приглашения. У группы не больше одного активного кода.
func (w *World) PartyCode(p *Player) (string, time.Time, error) {
	party, err := w.leaderParty(p)
	if err != nil {
		return "", time.Time{}, err
	}
	for code, rec := range w.partyCodes {
		if rec.partyID == party.ID {
			delete(w.partyCodes, code)
		}
	}
	code := utils.RandomCode(6)
	expires := w.Now().Add(PartyCodeTTL)
	w.partyCodes[code] = partyCode{partyID: party.ID, expiresAt: expires}
	return code, expires, nil
}

// JoinParty - вход по коду. Игрок сначала покидает текущую группу.
func (w *World) JoinParty(p *Player, code string) (*Party, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	rec, ok := w.partyCodes[code]
	if !ok {
		return nil, NewError(ErrNotFound, "invalid party code")
	}
	if w.Now().After(rec.expiresAt) {
		delete(w.partyCodes, code)
		return nil, NewError(ErrExpired, "party code expired")
	}
	party, ok := w.Party(rec.partyID)
	if !ok {
		return nil, NewError(ErrNotFound, "party not found")
	}
	if p.PartyID == party.ID {
		return party, nil
	}
	if p.PartyID != "" {
		w.detach(p)
	}
	party.Members = append(party.Members, p.ID)
	p.PartyID = party.ID
	p.markDirty()
	w.SystemChat(fmt.Sprintf("%s joined a party.", p.Name))
	return party, nil
}

// SweepPartyCodes удаляет просроченные коды групп.
func (w *World) SweepPartyCodes() {
	now := w.Now()
	for code, rec := range w.partyCodes {
		if now.After(rec.expiresAt) {
			delete(w.partyCodes, code)
		}
	}
}

// SummonElite - лидер платит EliteSummonCost зени и вызывает элиту рядом с собой.
func (w *World) SummonElite(p *Player) (*Monster, error) {
	party, err := w.leaderParty(p)
	if err != nil {
		return nil, err
	}
	now := w.Now()
	if ok, retry := Allow(party.LastSummonAt, EliteSummonCooldown, now); !ok {
		return nil, &RateLimitError{Action: "summon", RetryIn: retry}
	}
	if p.Zenny < EliteSummonCost {
		return nil, Conflict("need %d zenny", EliteSummonCost)
	}
	p.Zenny -= EliteSummonCost
	p.markDirty()
	party.LastSummonAt = now

	pos := ClampToWorld(p.Pos.Shift(18, 0))
	m := w.SpawnMonster(MonsterSpec{
		ID:    NewID("m_elite"),
		Kind:  KindElite,
		Name:  EliteName,
		Pos:   pos,
		MaxHP: EliteMaxHP,
	})
	w.SystemChat("An elite appeared: " + EliteName + "!")
	w.PushFx(string(EffectMark), pos, p.ID, map[string]any{"elite": true})
	return m, nil
}

// PartyMembersNear - участники группы игрока в радиусе r от точки.
// Без группы возвращает самого игрока.
func (w *World) PartyMembersNear(p *Player, at Point, r float64) []*Player {
	var out []*Player
	if party, ok := w.Party(p.PartyID); ok && p.PartyID != "" {
		for _, id := range party.Members {
			mp, ok := w.players[id]
			if !ok || !mp.Pos.Within(at, r) {
				continue
			}
			out = append(out, mp)
		}
	}
	if len(out) == 0 {
		out = append(out, p)
	}
	return out
}
