package domain

import (
	"strings"
	"time"
)

// SpellKind - вариант заклинания. На каждый вариант свой резолвер в systems.
type SpellKind uint8

const (
	SpellUnknown SpellKind = iota
	SpellSignature
	SpellFireball
	SpellHail
	SpellArrow
	SpellCleave
	SpellFlurry
)

// SpellJob - псевдоним навыка профессии, раскрывается до разбора.
const SpellJob = "job"

var spellStringToKind = map[string]SpellKind{
	"signature": SpellSignature,
	"attack":    SpellSignature,
	"fireball":  SpellFireball,
	"hail":      SpellHail,
	"arrow":     SpellArrow,
	"cleave":    SpellCleave,
	"flurry":    SpellFlurry,
}

var spellKindToString = map[SpellKind]string{
	SpellSignature: "signature",
	SpellFireball:  "fireball",
	SpellHail:      "hail",
	SpellArrow:     "arrow",
	SpellCleave:    "cleave",
	SpellFlurry:    "flurry",
}

// ParseSpell разбирает имя заклинания. Пустое имя - обычная атака.
func ParseSpell(s string) SpellKind {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return SpellSignature
	}
	if k, ok := spellStringToKind[name]; ok {
		return k
	}
	return SpellUnknown
}

func (k SpellKind) String() string {
	if s, ok := spellKindToString[k]; ok {
		return s
	}
	return "unknown"
}

// Cooldown - минимальный интервал между кастами для этого заклинания.
func (k SpellKind) Cooldown() time.Duration {
	if k == SpellFlurry {
		return 520 * time.Millisecond
	}
	return 700 * time.Millisecond
}

// ResolveSpellName раскрывает "job" в навык профессии игрока.
func ResolveSpellName(p *Player, name string) string {
	if strings.EqualFold(strings.TrimSpace(name), SpellJob) {
		return p.JobSkill.Spell
	}
	return name
}
