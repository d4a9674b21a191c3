package domain

import "sort"

// Slot - классификация предмета.
type Slot string

const (
	SlotCurrency  Slot = "currency"
	SlotMaterial  Slot = "material"
	SlotWeapon    Slot = "weapon"
	SlotArmor     Slot = "armor"
	SlotAccessory Slot = "accessory"
)

// Equippable - можно ли надеть предмет этого слота.
func (s Slot) Equippable() bool {
	return s == SlotWeapon || s == SlotArmor || s == SlotAccessory
}

// ItemStats - плоские бонусы предмета.
type ItemStats struct {
	Atk  int
	Def  int
	Crit float64
	Aspd float64
}

// Score - эвристика автоэкипировки: ранняя игра ценит чистую атаку.
func (s ItemStats) Score() float64 {
	return float64(s.Atk)*100 + float64(s.Def)*40 + s.Crit*30 + s.Aspd*20
}

type ItemDef struct {
	ID        string
	Name      string
	Slot      Slot
	Stackable bool
	Rarity    string
	Stats     ItemStats
	order     int
}

const ItemZenny = "zenny"

var itemCatalog = map[string]ItemDef{}

func defineItem(def ItemDef) {
	def.order = len(itemCatalog)
	if def.Rarity == "" {
		def.Rarity = "common"
	}
	itemCatalog[def.ID] = def
}

func init() {
	defineItem(ItemDef{ID: ItemZenny, Name: "Zeny", Slot: SlotCurrency, Stackable: true})
	defineItem(ItemDef{ID: "jelly", Name: "Poring Jelly", Slot: SlotMaterial, Stackable: true})
	defineItem(ItemDef{ID: "leaf", Name: "Green Leaf", Slot: SlotMaterial, Stackable: true})
	defineItem(ItemDef{ID: "dagger_1", Name: "Beginner Dagger", Slot: SlotWeapon, Stats: ItemStats{Atk: 1, Aspd: 0.06, Crit: 0.02}})
	defineItem(ItemDef{ID: "sword_1", Name: "Training Sword", Slot: SlotWeapon, Stats: ItemStats{Atk: 2}})
	defineItem(ItemDef{ID: "bow_1", Name: "Feather Bow", Slot: SlotWeapon, Stats: ItemStats{Atk: 2, Crit: 0.02}})
	defineItem(ItemDef{ID: "armor_1", Name: "Cloth Armor", Slot: SlotArmor, Stats: ItemStats{Def: 1}})
	defineItem(ItemDef{ID: "ring_1", Name: "Copper Ring", Slot: SlotAccessory, Stats: ItemStats{Atk: 1}})
}

// LookupItem ищет предмет в каталоге.
func LookupItem(id string) (ItemDef, bool) {
	def, ok := itemCatalog[id]
	return def, ok
}

// ItemName - имя предмета или сам id, если предмета нет в каталоге.
func ItemName(id string) string {
	if def, ok := itemCatalog[id]; ok {
		return def.Name
	}
	return id
}

// Inventory - мультимножество item id -> количество. Зены хранятся отдельно.
type Inventory map[string]int

// Stack - строка инвентаря в порядке каталога.
type Stack struct {
	Def ItemDef
	Qty int
}

// Stacks возвращает содержимое в стабильном порядке (порядок каталога, потом id).
func (inv Inventory) Stacks() []Stack {
	out := make([]Stack, 0, len(inv))
	for id, qty := range inv {
		if qty <= 0 {
			continue
		}
		def, ok := LookupItem(id)
		if !ok {
			def = ItemDef{ID: id, Name: id, Slot: SlotMaterial, Rarity: "common", order: len(itemCatalog)}
		}
		out = append(out, Stack{Def: def, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Def.order != out[j].Def.order {
			return out[i].Def.order < out[j].Def.order
		}
		return out[i].Def.ID < out[j].Def.ID
	})
	return out
}

// Equipment - один предмет на слот. Пустая строка - слот свободен.
type Equipment struct {
	Weapon    string `json:"weapon"`
	Armor     string `json:"armor"`
	Accessory string `json:"accessory"`
}

func (e *Equipment) Get(slot Slot) string {
	switch slot {
	case SlotWeapon:
		return e.Weapon
	case SlotArmor:
		return e.Armor
	case SlotAccessory:
		return e.Accessory
	}
	return ""
}

func (e *Equipment) Set(slot Slot, itemID string) {
	switch slot {
	case SlotWeapon:
		e.Weapon = itemID
	case SlotArmor:
		e.Armor = itemID
	case SlotAccessory:
		e.Accessory = itemID
	}
}

// Bonus суммирует бонусы всех надетых предметов.
func (e *Equipment) Bonus() ItemStats {
	var total ItemStats
	for _, id := range []string{e.Weapon, e.Armor, e.Accessory} {
		def, ok := LookupItem(id)
		if !ok {
			continue
		}
		total.Atk += def.Stats.Atk
		total.Def += def.Stats.Def
		total.Crit += def.Stats.Crit
		total.Aspd += def.Stats.Aspd
	}
	return total
}

// ItemStack - предмет и количество (лут, награды).
type ItemStack struct {
	ItemID string
	Qty    int
}
