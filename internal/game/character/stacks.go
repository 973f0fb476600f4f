package character

// Quantity returns how many units of itemID the inventory holds.
func (c *Character) Quantity(itemID string) int {
	if i := c.stackIndex(itemID); i >= 0 {
		return c.Inventory[i].Quantity
	}
	return 0
}

// Stack returns a copy of the stack for itemID and whether it exists.
func (c *Character) Stack(itemID string) (Stack, bool) {
	if i := c.stackIndex(itemID); i >= 0 {
		return c.Inventory[i], true
	}
	return Stack{}, false
}

// AddItem merges quantity units of itemID into the inventory, appending a
// new stack when none exists.
//
// Precondition: quantity > 0.
// Postcondition: Quantity(itemID) increases by exactly quantity.
func (c *Character) AddItem(itemID, name string, quantity int) {
	if quantity <= 0 {
		return
	}
	if i := c.stackIndex(itemID); i >= 0 {
		c.Inventory[i].Quantity += quantity
		return
	}
	c.Inventory = append(c.Inventory, Stack{ItemID: itemID, Name: name, Quantity: quantity})
}

// TakeItem removes up to quantity units of itemID and returns how many were
// removed. A stack that reaches zero is removed.
//
// Precondition: quantity > 0.
// Postcondition: returns min(quantity, held); no stack with Quantity < 1 remains.
func (c *Character) TakeItem(itemID string, quantity int) int {
	i := c.stackIndex(itemID)
	if i < 0 || quantity <= 0 {
		return 0
	}
	held := c.Inventory[i].Quantity
	if quantity >= held {
		c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
		return held
	}
	c.Inventory[i].Quantity -= quantity
	return quantity
}

// OwnedCount returns units of itemID held in the inventory plus equipped.
func (c *Character) OwnedCount(itemID string) int {
	n := c.Quantity(itemID)
	for _, item := range c.Equipment {
		if item != nil && item.ItemID == itemID {
			n++
		}
	}
	return n
}

func (c *Character) stackIndex(itemID string) int {
	for i := range c.Inventory {
		if c.Inventory[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
