package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/focusquest/internal/game/stats"
)

// ErrNoStatPoints is returned when an allocation is attempted with an empty
// balance. The character is left unchanged; callers may treat it as a no-op.
var ErrNoStatPoints = errors.New("no stat points available")

// Allocate spends one stat point on the named attribute.
//
// Postcondition: on success the attribute is +1 and StatPoints is -1;
// on error the character is unchanged.
func (c *Character) Allocate(attr string) error {
	return c.AllocateN(attr, 1)
}

// AllocateN spends n stat points on the named attribute, all or nothing.
//
// Precondition: n >= 1.
// Postcondition: on success the attribute is +n and StatPoints is -n;
// on error the character is unchanged.
func (c *Character) AllocateN(attr string, n int) error {
	if n < 1 {
		return fmt.Errorf("allocation amount must be >= 1, got %d", n)
	}
	name, err := stats.ParseAttribute(attr)
	if err != nil {
		return err
	}
	if c.StatPoints <= 0 || c.StatPoints < n {
		return fmt.Errorf("%w: have %d, need %d", ErrNoStatPoints, c.StatPoints, n)
	}
	if err := c.Attributes.Increment(name, n); err != nil {
		return err
	}
	c.StatPoints -= n
	return nil
}
