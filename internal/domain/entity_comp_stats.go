package domain

import "strings"

// BaseStats - шесть базовых характеристик, каждая в [1, 99].
type BaseStats struct {
	Str int `json:"str"`
	Agi int `json:"agi"`
	Vit int `json:"vit"`
	Int int `json:"int"`
	Dex int `json:"dex"`
	Luk int `json:"luk"`
}

// StatNames - допустимые имена для alloc_stat.
var StatNames = []string{"str", "agi", "vit", "int", "dex", "luk"}

func DefaultBaseStats() BaseStats {
	return BaseStats{Str: 1, Agi: 1, Vit: 1, Int: 1, Dex: 1, Luk: 1}
}

// field возвращает указатель на характеристику по имени.
func (b *BaseStats) field(name string) *int {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "str":
		return &b.Str
	case "agi":
		return &b.Agi
	case "vit":
		return &b.Vit
	case "int":
		return &b.Int
	case "dex":
		return &b.Dex
	case "luk":
		return &b.Luk
	}
	return nil
}

// Sanitize прижимает все значения к [1, MaxBaseStat].
func (b *BaseStats) Sanitize() {
	for _, name := range StatNames {
		f := b.field(name)
		*f = ClampInt(*f, 1, MaxBaseStat)
	}
}

// DerivedStats - боевые характеристики, считаются на лету.
type DerivedStats struct {
	Atk  int
	Def  int
	Crit float64
	Aspd float64
}

const maxRate = 0.8

// ComputeStats: база профессии + характеристики + экипировка.
func ComputeStats(job Job, base BaseStats, equip Equipment) DerivedStats {
	bonus := equip.Bonus()

	atk := job.AtkBase() + max(0, base.Str-1)
	if job == JobArcher {
		atk += max(0, base.Dex-1) / 2
	}
	atk += bonus.Atk

	def := max(0, base.Vit-1)/2 + bonus.Def
	crit := Clamp(bonus.Crit+float64(max(0, base.Luk-1))*0.01, 0, maxRate)
	aspd := Clamp(bonus.Aspd+float64(max(0, base.Agi-1))*0.01, 0, maxRate)

	return DerivedStats{Atk: atk, Def: def, Crit: crit, Aspd: aspd}
}

// ComputeMaxHP - максимум здоровья для уровня и живучести.
func ComputeMaxHP(level, vit int) int {
	return max(1, StartHP+(level-1)*2+(vit-1)*3)
}

// XPNeed - сколько опыта нужно, чтобы пройти уровень level.
func XPNeed(level int) int {
	return 10 + (level-1)*5
}

// LevelForXP - уровень по суммарному опыту, не выше MaxLevel.
func LevelForXP(xp int) int {
	level := 1
	remaining := xp
	for level < MaxLevel && remaining >= XPNeed(level) {
		remaining -= XPNeed(level)
		level++
	}
	return level
}
