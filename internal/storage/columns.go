// Package storage holds what the character store backends share: the JSON
// encoding of the nested character columns.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/game/stats"
)

// Columns are the JSON documents stored beside a character's scalar columns.
type Columns struct {
	Attributes []byte
	Inventory  []byte
	Equipment  []byte
}

// EncodeColumns serializes the nested parts of c.
func EncodeColumns(c *character.Character) (Columns, error) {
	var cols Columns
	var err error
	if cols.Attributes, err = json.Marshal(c.Attributes); err != nil {
		return Columns{}, fmt.Errorf("encoding attributes: %w", err)
	}
	inv := c.Inventory
	if inv == nil {
		inv = []character.Stack{}
	}
	if cols.Inventory, err = json.Marshal(inv); err != nil {
		return Columns{}, fmt.Errorf("encoding inventory: %w", err)
	}
	eq := c.Equipment
	if eq == nil {
		eq = map[catalog.Slot]*character.EquippedItem{}
	}
	if cols.Equipment, err = json.Marshal(eq); err != nil {
		return Columns{}, fmt.Errorf("encoding equipment: %w", err)
	}
	return cols, nil
}

// DecodeColumns fills the nested parts of c and applies the legacy backfill.
// Empty documents decode to zero values.
//
// Postcondition: c satisfies every invariant Backfill restores.
func DecodeColumns(c *character.Character, cols Columns) error {
	c.Attributes = stats.Attributes{}
	if len(cols.Attributes) > 0 {
		if err := json.Unmarshal(cols.Attributes, &c.Attributes); err != nil {
			return fmt.Errorf("decoding attributes: %w", err)
		}
	}
	c.Inventory = nil
	if len(cols.Inventory) > 0 {
		if err := json.Unmarshal(cols.Inventory, &c.Inventory); err != nil {
			return fmt.Errorf("decoding inventory: %w", err)
		}
	}
	c.Equipment = nil
	if len(cols.Equipment) > 0 {
		if err := json.Unmarshal(cols.Equipment, &c.Equipment); err != nil {
			return fmt.Errorf("decoding equipment: %w", err)
		}
	}
	for slot, item := range c.Equipment {
		if item == nil || !slot.Valid() {
			delete(c.Equipment, slot)
		}
	}
	c.Backfill()
	return nil
}
