package domain

import (
	"container/heap"
	"math/rand"
	"time"
)

// Options - параметры создания мира.
type Options struct {
	Now         func() time.Time // часы, по умолчанию time.Now
	Seed        int64            // зерно случайности, 0 - от времени
	EmptyRoster bool             // без стартовых слаймов (тесты)
}

// World - агрегат состояния города. Не потокобезопасен:
// владеет им ровно один писатель (актор мира).
type World struct {
	Tick uint64
	Now  func() time.Time
	Rng  *rand.Rand
	Feed Feed

	// OnEffect вызывается для каждого нового эффекта, сразу.
	OnEffect func(EffectEvent)

	ids          *IDGen
	emptyRoster  bool
	players      map[string]*Player
	playerOrder  []*Player
	monsters     []*Monster
	monsterIndex map[string]*Monster
	drops        []*Drop
	parties      []*Party
	partyCodes   map[string]partyCode
	fx           *fxRing
	respawns     RespawnQueue
	respawnIndex map[string]*RespawnItem
}

func NewWorld(opts Options) *World {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := &World{
		Now:         now,
		Rng:         rand.New(rand.NewSource(seed)),
		ids:         NewIDGen(seed + 1),
		emptyRoster: opts.EmptyRoster,
	}
	w.clear()
	if !w.emptyRoster {
		w.spawnRoster()
	}
	return w
}

func (w *World) clear() {
	w.players = make(map[string]*Player)
	w.playerOrder = nil
	w.monsters = nil
	w.monsterIndex = make(map[string]*Monster)
	w.drops = nil
	w.parties = nil
	w.partyCodes = make(map[string]partyCode)
	w.fx = newFxRing(FxRingCap)
	w.respawns = make(RespawnQueue, 0)
	heap.Init(&w.respawns)
	w.respawnIndex = make(map[string]*RespawnItem)
	w.Feed.reset()
}

// Reset возвращает мир в стартовое состояние (debug/reset).
func (w *World) Reset() {
	w.clear()
	w.Tick = 0
	if !w.emptyRoster {
		w.spawnRoster()
	}
}

func (w *World) spawnRoster() {
	for _, r := range startingRoster {
		w.SpawnMonster(MonsterSpec{ID: r.id, Kind: KindSlime, Name: r.name, Color: r.color, Pos: r.pos, MaxHP: r.maxHP})
	}
}

// randSign - случайно -1 или 1.
func (w *World) randSign() float64 {
	if w.Rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

// randMillis - случайная длительность в [lo, hi) миллисекунд.
func (w *World) randMillis(lo, hi int) time.Duration {
	return time.Duration(lo+w.Rng.Intn(hi-lo)) * time.Millisecond
}

// --- Чтение ---

// Player ищет игрока по id.
func (w *World) Player(id string) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// Players - все игроки в порядке появления.
func (w *World) Players() []*Player { return w.playerOrder }

// Monster ищет монстра по id.
func (w *World) Monster(id string) (*Monster, bool) {
	m, ok := w.monsterIndex[id]
	return m, ok
}

// Monsters - все монстры в порядке появления.
func (w *World) Monsters() []*Monster { return w.monsters }

// NearestAliveMonster - ближайший живой монстр не дальше r (граница включительно).
func (w *World) NearestAliveMonster(at Point, r float64) (*Monster, bool) {
	var best *Monster
	bestD2 := r * r
	for _, m := range w.monsters {
		if !m.Alive {
			continue
		}
		if d2 := at.Dist2(m.Pos); d2 <= bestD2 {
			if best == nil || d2 < bestD2 {
				best, bestD2 = m, d2
			}
		}
	}
	return best, best != nil
}

// AliveMonstersWithin - живые монстры в радиусе r, в порядке появления.
func (w *World) AliveMonstersWithin(at Point, r float64) []*Monster {
	var out []*Monster
	for _, m := range w.monsters {
		if m.Alive && m.Pos.Within(at, r) {
			out = append(out, m)
		}
	}
	return out
}

// DirtyPlayers - игроки с несохраненным прогрессом. Флаг снимается.
func (w *World) DirtyPlayers() []*Player {
	var out []*Player
	for _, p := range w.playerOrder {
		if p.dirty {
			p.dirty = false
			out = append(out, p)
		}
	}
	return out
}
