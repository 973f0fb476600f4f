package catalog

import "github.com/cory-johannsen/focusquest/internal/game/stats"

// Slot identifies an equipment slot.
type Slot string

const (
	SlotHead      Slot = "head"
	SlotBody      Slot = "body"
	SlotWeapon    Slot = "weapon"
	SlotAccessory Slot = "accessory"
	SlotLegs      Slot = "legs"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotHead, SlotBody, SlotWeapon, SlotAccessory, SlotLegs}

// Valid reports whether s is one of Slots.
func (s Slot) Valid() bool {
	for _, known := range Slots {
		if s == known {
			return true
		}
	}
	return false
}

// Item type constants for ItemDef.Type.
const (
	TypeMaterial   = "material"
	TypeWeapon     = "weapon"
	TypeArmor      = "armor"
	TypeAccessory  = "accessory"
	TypeConsumable = "consumable"
)

var validTypes = map[string]bool{
	TypeMaterial:   true,
	TypeWeapon:     true,
	TypeArmor:      true,
	TypeAccessory:  true,
	TypeConsumable: true,
}

// ItemDef is the full static definition of an item.
type ItemDef struct {
	ID        string
	Name      string
	SellPrice int
	Type      string
	Slot      Slot
	Atk       int
	Def       int
	Bonus     stats.Attributes
}

// IsEquipment reports whether the item occupies an equipment slot.
func (d ItemDef) IsEquipment() bool {
	return d.Slot != ""
}
