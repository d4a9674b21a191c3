package domain

import (
	"container/heap"
	"fmt"
	"time"
)

// MonsterSpec - параметры нового монстра.
type MonsterSpec struct {
	ID    string
	Kind  MonsterKind
	Name  string
	Color string
	Pos   Point
	MaxHP int
	HP    int // 0 - полное здоровье
}

// SpawnMonster создает монстра или заменяет монстра с тем же id.
func (w *World) SpawnMonster(spec MonsterSpec) *Monster {
	if spec.ID == "" {
		spec.ID = NewID("m")
	}
	if spec.Kind == "" {
		spec.Kind = KindSlime
	}
	if spec.Name == "" {
		spec.Name = "Poring"
	}
	spec.MaxHP = max(1, spec.MaxHP)
	hp := spec.HP
	if hp <= 0 || hp > spec.MaxHP {
		hp = spec.MaxHP
	}
	m := &Monster{
		ID:    spec.ID,
		Kind:  spec.Kind,
		Name:  spec.Name,
		Color: spec.Color,
		Pos:   ClampToWorld(spec.Pos),
		HP:    hp,
		MaxHP: spec.MaxHP,
		Alive: true,
	}
	w.resetWander(m)

	w.cancelRespawn(m.ID)
	if old, ok := w.monsterIndex[m.ID]; ok {
		for i, cur := range w.monsters {
			if cur == old {
				w.monsters[i] = m
				break
			}
		}
	} else {
		w.monsters = append(w.monsters, m)
	}
	w.monsterIndex[m.ID] = m
	return m
}

func (w *World) resetWander(m *Monster) {
	m.VX = w.randSign()
	m.VY = w.randSign()
	m.NextWanderAt = w.Now().Add(w.randMillis(500, 2000))
	if !m.Wanders() {
		m.VX, m.VY = 0, 0
	}
}

func (w *World) cancelRespawn(id string) {
	if item, ok := w.respawnIndex[id]; ok {
		if item.Index >= 0 {
			heap.Remove(&w.respawns, item.Index)
		}
		delete(w.respawnIndex, id)
	}
}

// HitOutcome - результат одного попадания.
type HitOutcome struct {
	MonsterID string
	Damage    int
	HPAfter   int
	Alive     bool
	Killed    bool
	Crit      bool
}

// DamageMonster наносит урон от игрока p. HP не уходит ниже нуля.
// Переход HP из >0 в 0 убивает монстра ровно один раз: опыт и лут получателям,
// счетчик убийств, респаун через RespawnDelay.
func (w *World) DamageMonster(p *Player, m *Monster, dmg int) (HitOutcome, bool) {
	if !m.Alive || dmg <= 0 {
		return HitOutcome{}, false
	}
	prev := m.HP
	m.HP = max(0, m.HP-dmg)
	out := HitOutcome{MonsterID: m.ID, Damage: dmg, HPAfter: m.HP, Alive: true}
	if prev > 0 && m.HP == 0 {
		w.kill(p, m)
		out.Alive = false
		out.Killed = true
	}
	return out, true
}

func (w *World) kill(p *Player, m *Monster) {
	m.Alive = false
	m.VX, m.VY = 0, 0
	m.RespawnAt = w.Now().Add(RespawnDelay)
	w.scheduleRespawn(m, m.RespawnAt)

	xp := m.KillXP()
	for _, kp := range w.PartyMembersNear(p, m.Pos, PartyShareTiles*TileSize) {
		w.dropLoot(m)
		kp.Meta.Kills++
		w.GrantXP(kp, xp)
	}
	w.SystemChat(fmt.Sprintf("%s defeated %s! (+%d XP)", p.Name, m.Name, xp))
}

// RespawnDue возвращает к жизни монстров, чье время пришло.
func (w *World) RespawnDue() []*Monster {
	var back []*Monster
	for _, item := range w.respawns.PopDue(w.Now()) {
		delete(w.respawnIndex, item.Monster.ID)
		m := item.Monster
		if cur, ok := w.monsterIndex[m.ID]; !ok || cur != m || m.Alive {
			continue
		}
		m.Alive = true
		m.HP = m.MaxHP
		m.RespawnAt = time.Time{}
		m.Pos = SpawnPoints[w.Rng.Intn(len(SpawnPoints))]
		w.resetWander(m)
		w.SystemChat(fmt.Sprintf("%s returned.", m.Name))
		back = append(back, m)
	}
	return back
}
