package domain

import "fmt"

// AddItem кладет предмет в инвентарь. Зены идут в кошелек.
// Привязанный бот сразу надевает предмет, если он лучше текущего.
func (w *World) AddItem(p *Player, itemID string, qty int, reason string) error {
	def, ok := LookupItem(itemID)
	if !ok {
		return NewError(ErrNotFound, "unknown item")
	}
	qty = max(1, qty)
	p.markDirty()
	if def.ID == ItemZenny {
		p.Zenny += qty
		return nil
	}
	if p.Inventory == nil {
		p.Inventory = Inventory{}
	}
	p.Inventory[def.ID] += qty
	w.maybeAutoEquip(p, def, reason)
	return nil
}

// CountItem - сколько предметов у игрока.
func (w *World) CountItem(p *Player, itemID string) int {
	if itemID == ItemZenny {
		return p.Zenny
	}
	return p.Inventory[itemID]
}

// ConsumeItem списывает qty предметов. При нехватке ничего не меняется.
// Надетый предмет снимается, если последний экземпляр ушел.
func (w *World) ConsumeItem(p *Player, itemID string, qty int) error {
	qty = max(1, qty)
	if w.CountItem(p, itemID) < qty {
		return Conflict("not enough %s", ItemName(itemID))
	}
	p.markDirty()
	if itemID == ItemZenny {
		p.Zenny -= qty
		return nil
	}
	p.Inventory[itemID] -= qty
	if p.Inventory[itemID] <= 0 {
		delete(p.Inventory, itemID)
		if def, ok := LookupItem(itemID); ok && p.Equipment.Get(def.Slot) == itemID {
			p.Equipment.Set(def.Slot, "")
		}
	}
	return nil
}

// Equip надевает предмет из инвентаря в его слот.
func (w *World) Equip(p *Player, itemID string) error {
	def, ok := LookupItem(itemID)
	if !ok {
		return NewError(ErrNotFound, "unknown item")
	}
	if !def.Slot.Equippable() {
		return Invalid("not equippable")
	}
	if p.Inventory[def.ID] <= 0 {
		return Conflict("not owned")
	}
	p.Equipment.Set(def.Slot, def.ID)
	p.markDirty()
	return nil
}

func (w *World) maybeAutoEquip(p *Player, def ItemDef, reason string) {
	if !p.LinkedBot || !def.Slot.Equippable() {
		return
	}
	cur, hasCur := LookupItem(p.Equipment.Get(def.Slot))
	curScore := 0.0
	if hasCur {
		curScore = cur.Stats.Score()
	}
	if def.Stats.Score() <= curScore {
		return
	}
	if err := w.Equip(p, def.ID); err != nil {
		return
	}
	prev := "nothing"
	if hasCur {
		prev = cur.Name
	}
	text := fmt.Sprintf("[BOT] Equipped %s instead of %s.", def.Name, prev)
	if reason != "" {
		text = fmt.Sprintf("[BOT] Equipped %s instead of %s (%s).", def.Name, prev, reason)
	}
	w.Say(p, text)
}

// RecipeJelly3 - единственный рецепт: 3 желе на случайную экипировку.
const RecipeJelly3 = "jelly_3"

var craftTable = []struct {
	itemID string
	weight int
}{
	{"dagger_1", 35},
	{"sword_1", 30},
	{"bow_1", 20},
	{"armor_1", 10},
	{"ring_1", 5},
}

func (w *World) rollCraftReward() string {
	sum := 0
	for _, row := range craftTable {
		sum += row.weight
	}
	r := w.Rng.Float64() * float64(sum)
	for _, row := range craftTable {
		r -= float64(row.weight)
		if r <= 0 {
			return row.itemID
		}
	}
	return craftTable[0].itemID
}

// Craft - ремесло по рецепту. Возвращает id полученного предмета.
func (w *World) Craft(p *Player, recipe string) (string, error) {
	if recipe != RecipeJelly3 {
		return "", Invalid("unknown recipe")
	}
	if w.CountItem(p, "jelly") < 3 {
		w.SystemChatTo(p.ID, fmt.Sprintf("%s needs 3 Poring Jelly to craft.", p.Name))
		return "", Conflict("needs 3 Poring Jelly")
	}
	if err := w.ConsumeItem(p, "jelly", 3); err != nil {
		return "", err
	}
	reward := w.rollCraftReward()
	if err := w.AddItem(p, reward, 1, "crafted"); err != nil {
		return "", err
	}
	p.Meta.Crafts++
	w.SystemChat(fmt.Sprintf("%s crafted %s!", p.Name, ItemName(reward)))
	w.PushFx(string(EffectGuard), p.Pos, p.ID, map[string]any{"craft": true, "rewardId": reward})
	return reward, nil
}
