package domain

// Progress - сохраняемая часть игрока. Позиция, режим и кулдауны не сохраняются.
type Progress struct {
	Name       string         `json:"name"`
	Level      int            `json:"level"`
	XP         int            `json:"xp"`
	HP         int            `json:"hp"`
	MaxHP      int            `json:"maxHp"`
	StatPoints int            `json:"statPoints"`
	Base       BaseStats      `json:"baseStats"`
	Zenny      int            `json:"zenny"`
	Inventory  map[string]int `json:"inventory"`
	Equipment  Equipment      `json:"equipment"`
	Meta       Meta           `json:"meta"`
	Job        Job            `json:"job"`
	JobSkill   JobSkill       `json:"jobSkill"`
	Signature  Signature      `json:"signatureSpell"`
	LinkedBot  bool           `json:"linkedBot"`
}

// Progress снимает копию прогресса игрока.
func (p *Player) Progress() Progress {
	inv := make(map[string]int, len(p.Inventory))
	for id, qty := range p.Inventory {
		if qty > 0 {
			inv[id] = qty
		}
	}
	return Progress{
		Name:       p.Name,
		Level:      p.Level,
		XP:         p.XP,
		HP:         p.HP,
		MaxHP:      p.MaxHP,
		StatPoints: p.StatPoints,
		Base:       p.Base,
		Zenny:      p.Zenny,
		Inventory:  inv,
		Equipment:  p.Equipment,
		Meta:       p.Meta,
		Job:        p.Job,
		JobSkill:   p.JobSkill,
		Signature:  p.Signature,
		LinkedBot:  p.LinkedBot,
	}
}

// ApplyProgress восстанавливает прогресс поверх нового игрока.
// Некорректные значения прижимаются к допустимым.
func (p *Player) ApplyProgress(pr Progress) {
	if pr.Name != "" {
		p.Name = NormalizeName(pr.Name)
	}
	p.Level = ClampInt(pr.Level, 1, MaxLevel)
	p.XP = max(0, pr.XP)
	p.StatPoints = max(0, pr.StatPoints)
	p.Base = pr.Base
	p.Base.Sanitize()
	p.Zenny = max(0, pr.Zenny)
	p.Inventory = Inventory{}
	for id, qty := range pr.Inventory {
		if _, ok := LookupItem(id); ok && qty > 0 && id != ItemZenny {
			p.Inventory[id] = qty
		}
	}
	p.Equipment = Equipment{}
	for _, id := range []string{pr.Equipment.Weapon, pr.Equipment.Armor, pr.Equipment.Accessory} {
		if def, ok := LookupItem(id); ok && def.Slot.Equippable() && p.Inventory[id] > 0 {
			p.Equipment.Set(def.Slot, id)
		}
	}
	p.Meta = pr.Meta
	if job, err := ParseJob(string(pr.Job)); err == nil {
		p.Job = job
	}
	p.JobSkill = p.Job.DefaultSkill()
	if ParseSpell(pr.JobSkill.Spell) != SpellUnknown && pr.JobSkill.Spell != "" {
		p.JobSkill = pr.JobSkill
	}
	p.Signature = pr.Signature
	p.Signature.Effect = ParseEffect(string(pr.Signature.Effect))
	p.LinkedBot = pr.LinkedBot

	p.MaxHP = 0
	p.ensureVitals(false)
	p.MaxHP = max(p.MaxHP, pr.MaxHP)
	p.HP = ClampInt(pr.HP, 1, p.MaxHP)
}
