// Package inventory implements selling, equipping, and unequipping items on a
// character. Item metadata that the inventory stack does not store is looked
// up in the catalog.
package inventory

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/character"
)

var (
	// ErrNotEquipment is returned when equipping an item whose catalog entry
	// is unknown or has no slot.
	ErrNotEquipment = errors.New("item cannot be equipped")
	// ErrInvalidAmount is returned when selling a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrUnknownSlot is returned for a slot name outside catalog.Slots.
	ErrUnknownSlot = errors.New("unknown equipment slot")
)

// legacyPrice is the sell price of a held item that the catalog no longer knows.
const legacyPrice = 1

// Catalog is the item lookup the manager needs.
type Catalog interface {
	Item(id string) (catalog.ItemDef, bool)
}

// SaleReceipt describes a completed sale.
type SaleReceipt struct {
	ItemID    string
	Sold      int
	UnitPrice int
	Gold      int
	// Remaining is the quantity still held after the sale.
	Remaining int
}

// Manager applies inventory operations to a character. It holds no state.
type Manager struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: cat and logger must be non-nil.
func NewManager(cat Catalog, logger *zap.Logger) *Manager {
	return &Manager{catalog: cat, logger: logger}
}

// Sell sells up to amount units of itemID. Selling more than is held sells
// the entire stack.
//
// Precondition: c must be non-nil.
// Postcondition: on success Gold increases by UnitPrice*Sold and the held
// quantity decreases by Sold (stack removed when exhausted); on error c is unchanged.
func (m *Manager) Sell(c *character.Character, itemID string, amount int) (SaleReceipt, error) {
	if amount <= 0 {
		return SaleReceipt{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if _, held := c.Stack(itemID); !held {
		return SaleReceipt{}, fmt.Errorf("%w: %q is not in the inventory", catalog.ErrItemNotFound, itemID)
	}

	price := legacyPrice
	if def, ok := m.catalog.Item(itemID); ok {
		price = def.SellPrice
	} else {
		m.logger.Warn("selling item unknown to catalog at legacy price",
			zap.String("owner", c.OwnerID),
			zap.String("item", itemID),
		)
	}

	sold := c.TakeItem(itemID, amount)
	gold := price * sold
	c.Gold += gold

	m.logger.Debug("item sold",
		zap.String("owner", c.OwnerID),
		zap.String("item", itemID),
		zap.Int("sold", sold),
		zap.Int("gold", gold),
	)
	return SaleReceipt{
		ItemID:    itemID,
		Sold:      sold,
		UnitPrice: price,
		Gold:      gold,
		Remaining: c.Quantity(itemID),
	}, nil
}

// Equip moves one unit of itemID from the inventory into its slot. An item
// already in that slot is moved back into the inventory first.
//
// Precondition: c must be non-nil.
// Postcondition: OwnedCount of every item id is unchanged; on error c is unchanged.
func (m *Manager) Equip(c *character.Character, itemID string) error {
	stack, held := c.Stack(itemID)
	if !held {
		return fmt.Errorf("%w: %q is not in the inventory", catalog.ErrItemNotFound, itemID)
	}
	def, ok := m.catalog.Item(itemID)
	if !ok || !def.IsEquipment() {
		return fmt.Errorf("%w: %q", ErrNotEquipment, itemID)
	}

	if c.Equipment == nil {
		c.Equipment = make(map[catalog.Slot]*character.EquippedItem)
	}
	if displaced := c.Equipment[def.Slot]; displaced != nil {
		c.AddItem(displaced.ItemID, displaced.Name, 1)
	}
	c.TakeItem(itemID, 1)
	c.Equipment[def.Slot] = &character.EquippedItem{
		ItemID: def.ID,
		Name:   stack.Name,
		Atk:    def.Atk,
		Def:    def.Def,
		Bonus:  def.Bonus,
	}

	m.logger.Debug("item equipped",
		zap.String("owner", c.OwnerID),
		zap.String("item", itemID),
		zap.String("slot", string(def.Slot)),
	)
	return nil
}

// Unequip moves the item in slot back into the inventory. An empty slot is a no-op.
//
// Precondition: c must be non-nil.
// Postcondition: slot is empty; OwnedCount of every item id is unchanged.
func (m *Manager) Unequip(c *character.Character, slot catalog.Slot) error {
	if !slot.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	item := c.Equipment[slot]
	if item == nil {
		return nil
	}
	c.AddItem(item.ItemID, item.Name, 1)
	delete(c.Equipment, slot)

	m.logger.Debug("item unequipped",
		zap.String("owner", c.OwnerID),
		zap.String("item", item.ItemID),
		zap.String("slot", string(slot)),
	)
	return nil
}
