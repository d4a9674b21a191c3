package domain

import (
	"fmt"
	"time"
)

// Drop - предмет на земле. Исчезает через DropTTL.
type Drop struct {
	ID          string
	ItemID      string
	Qty         int
	Pos         Point
	ByMonsterID string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// rollSlimeLoot: немного зени всегда, остальное по одному броску.
func (w *World) rollSlimeLoot() []ItemStack {
	out := []ItemStack{{ItemID: ItemZenny, Qty: 1 + w.Rng.Intn(3)}}
	r := w.Rng.Float64()
	table := []struct {
		itemID string
		under  float64
	}{
		{"jelly", 0.55},
		{"leaf", 0.22},
		{"dagger_1", 0.12},
		{"armor_1", 0.07},
		{"ring_1", 0.04},
	}
	for _, row := range table {
		if r < row.under {
			out = append(out, ItemStack{ItemID: row.itemID, Qty: 1})
		}
	}
	return out
}

// rollEliteLoot: зени, желе и гарантированная экипировка.
func (w *World) rollEliteLoot() []ItemStack {
	equip := []string{"sword_1", "bow_1", "armor_1", "ring_1"}
	out := []ItemStack{
		{ItemID: ItemZenny, Qty: 12 + w.Rng.Intn(10)},
		{ItemID: "jelly", Qty: 2 + w.Rng.Intn(2)},
		{ItemID: equip[w.Rng.Intn(len(equip))], Qty: 1},
	}
	if w.Rng.Float64() < 0.25 {
		out = append(out, ItemStack{ItemID: "dagger_1", Qty: 1})
	}
	return out
}

// dropLoot разбрасывает лут монстра вокруг его позиции.
func (w *World) dropLoot(m *Monster) {
	var items []ItemStack
	switch m.Kind {
	case KindElite:
		items = w.rollEliteLoot()
	default:
		items = w.rollSlimeLoot()
	}
	for _, it := range items {
		pos := m.Pos.Shift((w.Rng.Float64()-0.5)*16, (w.Rng.Float64()-0.5)*16)
		w.SpawnDrop(pos, it.ItemID, it.Qty, m.ID)
	}
}

// SpawnDrop кладет предмет на землю. Неизвестные предметы не создаются.
func (w *World) SpawnDrop(pos Point, itemID string, qty int, byMonsterID string) (*Drop, bool) {
	if _, ok := LookupItem(itemID); !ok {
		return nil, false
	}
	now := w.Now()
	d := &Drop{
		ID:          NewID("drop"),
		ItemID:      itemID,
		Qty:         max(1, qty),
		Pos:         ClampToWorld(pos),
		ByMonsterID: byMonsterID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(DropTTL),
	}
	w.drops = append(w.drops, d)
	return d, true
}

// Drops - предметы на земле в порядке появления.
func (w *World) Drops() []*Drop { return w.drops }

// ExpireDrops убирает просроченные предметы. Возвращает число удаленных.
func (w *World) ExpireDrops() int {
	now := w.Now()
	kept := w.drops[:0]
	for _, d := range w.drops {
		if now.After(d.ExpiresAt) {
			continue
		}
		kept = append(kept, d)
	}
	removed := len(w.drops) - len(kept)
	clear(w.drops[len(kept):])
	w.drops = kept
	return removed
}

// PickupNearby подбирает все предметы в радиусе PickupRadius.
// Каждый подбор: предмет в инвентарь, системное сообщение и +1 опыта.
func (w *World) PickupNearby(p *Player) []*Drop {
	now := w.Now()
	var picked []*Drop
	kept := w.drops[:0]
	for _, d := range w.drops {
		if now.After(d.ExpiresAt) || !d.Pos.Within(p.Pos, PickupRadius) {
			kept = append(kept, d)
			continue
		}
		picked = append(picked, d)
	}
	clear(w.drops[len(kept):])
	w.drops = kept

	for _, d := range picked {
		w.AddItem(p, d.ItemID, d.Qty, "pickup")
		p.Meta.Pickups++
		text := fmt.Sprintf("%s picked up %s.", p.Name, ItemName(d.ItemID))
		if d.Qty > 1 {
			text = fmt.Sprintf("%s picked up %s x%d.", p.Name, ItemName(d.ItemID), d.Qty)
		}
		w.SystemChat(text)
		w.GrantXP(p, PickupXP)
	}
	return picked
}
