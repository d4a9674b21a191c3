package domain

import (
	"fmt"
	"math"
	"strings"
)

// EnsurePlayer - идемпотентное получение или создание игрока.
// Непустое имя переименовывает существующего игрока.
func (w *World) EnsurePlayer(id, name string) (*Player, error) {
	return w.EnsurePlayerFrom(id, name, nil)
}

// EnsurePlayerFrom - то же, но новый игрок поднимается из saved.
// Для уже живого игрока saved игнорируется.
func (w *World) EnsurePlayerFrom(id, name string, saved *Progress) (*Player, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, Invalid("playerId required")
	}
	now := w.Now()
	if p, ok := w.players[id]; ok {
		if strings.TrimSpace(name) != "" {
			w.SetName(p, name)
		}
		p.LastSeenAt = now
		return p, nil
	}

	p := newPlayer(id, name, now)
	if saved != nil {
		p.ApplyProgress(*saved)
		if strings.TrimSpace(name) != "" {
			p.Name = NormalizeName(name)
		}
	}
	p.ensureVitals(false)
	p.markDirty()
	w.players[id] = p
	w.playerOrder = append(w.playerOrder, p)
	w.SystemChat(fmt.Sprintf("%s entered the town.", p.Name))
	return p, nil
}

// --- Движение ---

// ApplyMovement - ручной шаг. dx, dy прижимаются к [-1, 1].
func (w *World) ApplyMovement(p *Player, dx, dy float64) error {
	if p.Mode != ModeManual {
		return Conflict("movement requires manual mode")
	}
	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return Invalid("invalid direction")
	}
	if err := Throttle(&p.LastMoveAt, MoveMinInterval, w.Now(), "move"); err != nil {
		return err
	}
	dx = Clamp(dx, -1, 1)
	dy = Clamp(dy, -1, 1)
	p.Pos = ClampToWorld(p.Pos.Shift(dx*ManualSpeed, dy*ManualSpeed))
	p.Facing = FacingFromDelta(dx, dy, p.Facing)
	return nil
}

// SetGoal - цель для пошагового движения. В ручном режиме переключает игрока
// в режим агента, так что в ручном режиме цели не бывает.
func (w *World) SetGoal(p *Player, x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return Invalid("invalid goal")
	}
	goal := ClampToWorld(Point{X: x, Y: y})
	p.Mode = ModeAgent
	p.Goal = &goal
	return nil
}

// ClearGoal снимает цель.
func (w *World) ClearGoal(p *Player) {
	p.Goal = nil
}

// SetMode - при переходе в ручной режим цель сбрасывается.
func (w *World) SetMode(p *Player, mode Mode) {
	p.Mode = mode
	if mode == ModeManual {
		p.Goal = nil
	}
}

// StepTowardGoal - один тик движения агента. Возвращает true при прибытии.
// За прибытие +1 опыта, ровно один раз на цель.
func (w *World) StepTowardGoal(p *Player) bool {
	if p.Mode != ModeAgent || p.Goal == nil {
		return false
	}
	dx := p.Goal.X - p.Pos.X
	dy := p.Goal.Y - p.Pos.Y
	stepX := axisStep(dx, AgentSpeed)
	stepY := axisStep(dy, AgentSpeed)
	p.Facing = FacingFromDelta(dx, dy, p.Facing)
	p.Pos = ClampToWorld(p.Pos.Shift(stepX, stepY))
	if math.Abs(dx) <= AgentSpeed && math.Abs(dy) <= AgentSpeed {
		p.Goal = nil
		w.GrantXP(p, ArrivalXP)
		return true
	}
	return false
}

func axisStep(d, speed float64) float64 {
	if math.Abs(d) <= speed {
		return d
	}
	if d > 0 {
		return speed
	}
	return -speed
}

// Teleport переносит игрока в точку (debug).
func (w *World) Teleport(p *Player, x, y float64) {
	p.Pos = ClampToWorld(Point{X: x, Y: y})
	p.Goal = nil
}

// --- Опыт и характеристики ---

// GrantXP начисляет опыт. За каждый новый уровень: очко характеристик,
// пересчет максимума здоровья и полное лечение.
func (w *World) GrantXP(p *Player, n int) {
	if n <= 0 {
		return
	}
	p.XP += n
	p.markDirty()
	level := LevelForXP(p.XP)
	if level <= p.Level {
		return
	}
	p.StatPoints += level - p.Level
	p.Level = level
	p.ensureVitals(true)
	p.HP = p.MaxHP
	w.SystemChat(fmt.Sprintf("%s reached Level %d!", p.Name, p.Level))
}

// AllocateStat тратит n очков на характеристику. Прирост максимума здоровья
// добавляется к текущему здоровью.
func (w *World) AllocateStat(p *Player, stat string, n int) error {
	if n < 1 {
		return Invalid("invalid amount")
	}
	field := p.Base.field(stat)
	if field == nil {
		return Invalid("invalid stat")
	}
	if p.StatPoints < n {
		return Conflict("not enough stat points")
	}
	spend := min(n, MaxBaseStat-*field)
	if spend <= 0 {
		return Conflict("stat is already at max")
	}
	*field += spend
	p.StatPoints -= spend
	p.ensureVitals(true)
	p.markDirty()
	return nil
}

// SetJob меняет профессию и выдает навык профессии (debug/admin).
func (w *World) SetJob(p *Player, job Job) {
	p.Job = job
	p.JobSkill = job.DefaultSkill()
	p.markDirty()
}

// --- Текстовые поля ---

func (w *World) SetName(p *Player, name string) {
	p.Name = NormalizeName(name)
	p.markDirty()
}

func (w *World) SetIntent(p *Player, text string) {
	p.Intent = SafeText(text, MaxIntentLen)
}

func (w *World) SetInterrupt(p *Player, level InterruptLevel) {
	p.Interrupt = level
}

func (w *World) SetSignature(p *Player, sig Signature) {
	p.Signature = Signature{
		Name:    SafeText(sig.Name, 48),
		Tagline: SafeText(sig.Tagline, 120),
		Effect:  ParseEffect(string(sig.Effect)),
	}
	p.markDirty()
}

func (w *World) SetJobSkill(p *Player, skill JobSkill) error {
	spell := strings.ToLower(strings.TrimSpace(skill.Spell))
	if spell == "" {
		spell = SpellSignature.String()
	}
	if ParseSpell(spell) == SpellUnknown {
		return Invalid("unknown spell")
	}
	p.JobSkill = JobSkill{Name: SafeText(skill.Name, 48), Spell: spell}
	p.markDirty()
	return nil
}

// --- Боты ---

// LinkBot отмечает, что у игрока есть привязанный бот.
func (w *World) LinkBot(p *Player) {
	p.LinkedBot = true
	p.BotLastSeenAt = w.Now()
	p.markDirty()
	w.SystemChat(fmt.Sprintf("%s's CloudBot is now linked.", p.Name))
}

// TouchBot - бот опросил сервер. action=true - бот совершил действие.
func (w *World) TouchBot(p *Player, action bool) {
	now := w.Now()
	p.BotLastSeenAt = now
	if action {
		p.BotLastActionAt = now
	}
}
