package domain

import "time"

// Meta - счетчики для статуса бота.
type Meta struct {
	Kills   int `json:"kills"`
	Crafts  int `json:"crafts"`
	Pickups int `json:"pickups"`
}

// Player - запись игрока. Создается лениво по id клиента и никогда не удаляется.
// Мутации только через методы World (см. store.go).
type Player struct {
	ID     string
	Name   string
	Pos    Point
	Facing Facing

	// Mode и Goal: в ручном режиме Goal всегда nil.
	Mode Mode
	Goal *Point

	Intent    string
	Interrupt InterruptLevel

	HP         int
	MaxHP      int
	Level      int
	XP         int
	StatPoints int
	Base       BaseStats

	Job       Job
	JobSkill  JobSkill
	Signature Signature

	Zenny     int
	Inventory Inventory
	Equipment Equipment
	Meta      Meta

	PartyID string

	// Бот
	LinkedBot       bool
	BotLastSeenAt   time.Time
	BotLastActionAt time.Time

	// Кулдауны
	LastMoveAt time.Time
	LastChatAt time.Time
	LastCastAt time.Time

	CreatedAt  time.Time
	LastSeenAt time.Time

	Autopilot AutopilotState
	dirty     bool
}

// AutopilotState - состояние встроенного бота.
type AutopilotState struct {
	LastRunAt time.Time
	LastSayAt time.Time
	State     string // hunt:<id>, hit:<id> или wander
}

func newPlayer(id, name string, now time.Time) *Player {
	p := &Player{
		ID:         id,
		Name:       NormalizeName(name),
		Pos:        Point{X: float64(WorldWidth / 2 * TileSize), Y: float64(WorldHeight / 2 * TileSize)},
		Facing:     FacingDown,
		Mode:       ModeManual,
		Interrupt:  InterruptAll,
		HP:         StartHP,
		MaxHP:      StartHP,
		Level:      1,
		StatPoints: StartStatPoints,
		Base:       DefaultBaseStats(),
		Job:        JobNovice,
		JobSkill:   JobNovice.DefaultSkill(),
		Signature:  Signature{Effect: EffectSpark},
		Inventory:  Inventory{},
		CreatedAt:  now,
		LastSeenAt: now,
	}
	p.ensureVitals(false)
	return p
}

// Stats - производные боевые характеристики.
func (p *Player) Stats() DerivedStats {
	return ComputeStats(p.Job, p.Base, p.Equipment)
}

// Damage - урон обычной атаки.
func (p *Player) Damage() int {
	return max(1, p.Stats().Atk)
}

// XPToNext - сколько нужно опыта на текущем уровне.
func (p *Player) XPToNext() int {
	return XPNeed(p.Level)
}

// Dirty - прогресс менялся с последнего сохранения.
func (p *Player) Dirty() bool { return p.dirty }

func (p *Player) markDirty() { p.dirty = true }

// ensureVitals пересчитывает максимум здоровья. Максимум никогда не уменьшается.
// gain=true добавляет прирост максимума к текущему здоровью.
func (p *Player) ensureVitals(gain bool) {
	p.Base.Sanitize()
	next := max(p.MaxHP, ComputeMaxHP(p.Level, p.Base.Vit))
	if next != p.MaxHP {
		delta := next - p.MaxHP
		p.MaxHP = next
		if gain {
			p.HP += delta
		}
	}
	p.HP = ClampInt(p.HP, 0, p.MaxHP)
}

// HasItem - есть ли предмет в инвентаре.
func (p *Player) HasItem(itemID string) bool {
	if itemID == ItemZenny {
		return p.Zenny > 0
	}
	return p.Inventory[itemID] > 0
}
