// Package character defines the character aggregate and the pure rules that
// mutate it: class presets, legacy backfill, stack bookkeeping, and stat
// point allocation.
package character

import (
	"errors"
	"time"

	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/stats"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterExists is returned when creating a second character for an owner.
var ErrCharacterExists = errors.New("character already exists")

// Stack aggregates identical items under one quantity.
//
// Invariant: Quantity >= 1 while the stack is held in an inventory.
type Stack struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// EquippedItem is one unit of an item occupying an equipment slot. It carries
// the combat metadata so derived stats never need a catalog lookup.
type EquippedItem struct {
	ItemID string           `json:"item_id"`
	Name   string           `json:"name"`
	Atk    int              `json:"atk"`
	Def    int              `json:"def"`
	Bonus  stats.Attributes `json:"bonus"`
}

// Character represents a player character's persistent state. There is one
// character per owner.
//
// Invariants: Level >= 1; XP >= 0; StatPoints >= 0; Gold >= 0;
// MaxHP >= 1; 0 <= CurrentHP <= MaxHP; XP < Level*500 after progression;
// item ids are unique across Inventory stacks.
type Character struct {
	OwnerID string
	Name    string
	Class   Class

	Level      int
	XP         int
	StatPoints int
	Gold       int

	MaxHP     int
	CurrentHP int

	Attributes stats.Attributes
	Inventory  []Stack
	Equipment  map[catalog.Slot]*EquippedItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of c.
//
// Postcondition: mutating the clone's inventory or equipment never affects c.
func (c *Character) Clone() *Character {
	out := *c
	out.Inventory = make([]Stack, len(c.Inventory))
	copy(out.Inventory, c.Inventory)
	out.Equipment = make(map[catalog.Slot]*EquippedItem, len(c.Equipment))
	for slot, item := range c.Equipment {
		if item == nil {
			continue
		}
		cp := *item
		out.Equipment[slot] = &cp
	}
	return &out
}

// Gear returns the combat contribution of every equipped item.
func (c *Character) Gear() []stats.Gear {
	gear := make([]stats.Gear, 0, len(c.Equipment))
	for _, slot := range catalog.Slots {
		item := c.Equipment[slot]
		if item == nil {
			continue
		}
		gear = append(gear, stats.Gear{Atk: item.Atk, Def: item.Def, Bonus: item.Bonus})
	}
	return gear
}

// Derived recomputes the character's combat statistics from attributes and equipment.
func (c *Character) Derived() stats.Derived {
	return stats.Derive(c.Attributes, c.MaxHP, c.Gear())
}

// XPToNextLevel returns the experience threshold for the current level.
//
// Postcondition: returns Level * 500.
func (c *Character) XPToNextLevel() int {
	return XPThreshold(c.Level)
}

// XPThreshold returns the experience needed to advance past level.
func XPThreshold(level int) int {
	return level * 500
}

// Backfill repairs records written before attributes, stat points,
// inventory, and equipment existed. It is applied only when a character is
// read from a store.
//
// Postcondition: every Character invariant that does not depend on XP holds.
func (c *Character) Backfill() {
	preset, known := Presets[c.Class]
	if c.Level < 1 {
		c.Level = 1
	}
	if c.XP < 0 {
		c.XP = 0
	}
	if c.StatPoints < 0 {
		c.StatPoints = 0
	}
	if c.Gold < 0 {
		c.Gold = 0
	}
	if c.Attributes.IsZero() && known {
		c.Attributes = preset.Attributes
	}
	if c.MaxHP < 1 {
		c.MaxHP = 1
		if known {
			c.MaxHP = preset.MaxHP + (c.Level-1)*HPPerLevel
		}
	}
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
	if c.Inventory == nil {
		c.Inventory = []Stack{}
	}
	if c.Equipment == nil {
		c.Equipment = make(map[catalog.Slot]*EquippedItem)
	}
}
