package character

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/stats"
)

// Class is a character class id.
type Class string

const (
	ClassWarrior Class = "warrior"
	ClassMage    Class = "mage"
	ClassRogue   Class = "rogue"
)

// HPPerLevel is the default max HP granted per level, used when backfilling
// legacy records.
const HPPerLevel = 20

// Preset is the starting state a class fixes at creation.
type Preset struct {
	MaxHP      int
	Attributes stats.Attributes
}

// Presets maps each class to its starting state.
var Presets = map[Class]Preset{
	ClassWarrior: {MaxHP: 100, Attributes: stats.Attributes{Str: 8, Agi: 4, Vit: 8, Int: 2, Dex: 5, Luk: 3}},
	ClassMage:    {MaxHP: 60, Attributes: stats.Attributes{Str: 2, Agi: 4, Vit: 4, Int: 9, Dex: 6, Luk: 5}},
	ClassRogue:   {MaxHP: 80, Attributes: stats.Attributes{Str: 5, Agi: 8, Vit: 5, Int: 3, Dex: 6, Luk: 3}},
}

// classAliases accepts the identifiers used by the first release of the app.
var classAliases = map[string]Class{
	"guerreiro": ClassWarrior,
	"mago":      ClassMage,
	"ladino":    ClassRogue,
}

// ParseClass resolves a class id or legacy alias.
func ParseClass(s string) (Class, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	if c, ok := classAliases[n]; ok {
		return c, nil
	}
	if _, ok := Presets[Class(n)]; ok {
		return Class(n), nil
	}
	return "", fmt.Errorf("unknown class %q", s)
}

// Build constructs a new level 1 Character for ownerID. The class fixes the
// initial attributes and max HP.
//
// Precondition: ownerID and name must be non-empty; class must be a known class.
// Postcondition: Returns a Character ready for persistence, or a non-nil error.
func Build(ownerID, name string, class Class, now time.Time) (*Character, error) {
	if ownerID == "" {
		return nil, errors.New("owner id must not be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	preset, ok := Presets[class]
	if !ok {
		return nil, fmt.Errorf("unknown class %q", class)
	}
	return &Character{
		OwnerID:    ownerID,
		Name:       name,
		Class:      class,
		Level:      1,
		MaxHP:      preset.MaxHP,
		CurrentHP:  preset.MaxHP,
		Attributes: preset.Attributes,
		Inventory:  []Stack{},
		Equipment:  make(map[catalog.Slot]*EquippedItem),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
