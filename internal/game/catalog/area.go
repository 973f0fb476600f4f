// Package catalog holds the static content of the game: areas, their enemy
// rosters, and the drop tables those enemies carry. The item catalog is
// derived from the drop tables and addressable by item id.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/focusquest/internal/game/stats"
)

// ErrAreaNotFound is returned when an area id is not present in the catalog.
var ErrAreaNotFound = errors.New("area not found")

// Drop is one entry in an enemy's loot table.
type Drop struct {
	ItemID    string  `yaml:"item"`
	Name      string  `yaml:"name"`
	SellPrice int     `yaml:"sell_price"`
	Chance    float64 `yaml:"chance"`
	Type      string  `yaml:"type"`
	// Slot is empty for items that cannot be equipped.
	Slot  Slot             `yaml:"slot"`
	Atk   int              `yaml:"atk"`
	Def   int              `yaml:"def"`
	Bonus stats.Attributes `yaml:"bonus"`
}

// Item returns the catalog definition carried by this drop.
func (d Drop) Item() ItemDef {
	typ := d.Type
	if typ == "" {
		typ = TypeMaterial
	}
	return ItemDef{
		ID:        d.ItemID,
		Name:      d.Name,
		SellPrice: d.SellPrice,
		Type:      typ,
		Slot:      d.Slot,
		Atk:       d.Atk,
		Def:       d.Def,
		Bonus:     d.Bonus,
	}
}

// Enemy is a member of an area's roster.
type Enemy struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
	HP    int    `yaml:"hp"`
	Atk   int    `yaml:"atk"`
	Def   int    `yaml:"def"`
	Flee  int    `yaml:"flee"`
	// SpawnWeight biases roster selection; zero means the default weight of 1.
	SpawnWeight int    `yaml:"spawn_weight"`
	Drops       []Drop `yaml:"drops"`
}

// Weight returns the effective spawn weight.
//
// Postcondition: returns >= 1.
func (e Enemy) Weight() int {
	if e.SpawnWeight <= 0 {
		return 1
	}
	return e.SpawnWeight
}

// Area is a themed collection of enemies selectable before starting a quest.
type Area struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Color    string  `yaml:"color"`
	MinLevel int     `yaml:"min_level"`
	Roster   []Enemy `yaml:"roster"`
}

// Validate checks that the area satisfies its invariants.
//
// Precondition: a must not be nil.
// Postcondition: Returns nil iff id and name are set, the roster is non-empty,
// every enemy has level >= 1, and every drop has an id, a name, a sell price
// >= 0, a chance in (0, 1], and (if set) a known slot.
func (a *Area) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("area: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("area %q: name must not be empty", a.ID)
	}
	if a.MinLevel < 0 {
		return fmt.Errorf("area %q: min_level must be >= 0, got %d", a.ID, a.MinLevel)
	}
	if len(a.Roster) == 0 {
		return fmt.Errorf("area %q: roster must not be empty", a.ID)
	}
	for i, e := range a.Roster {
		if e.Name == "" {
			return fmt.Errorf("area %q: roster[%d] must have a name", a.ID, i)
		}
		if e.Level < 1 {
			return fmt.Errorf("area %q: enemy %q level must be >= 1, got %d", a.ID, e.Name, e.Level)
		}
		if e.SpawnWeight < 0 {
			return fmt.Errorf("area %q: enemy %q spawn_weight must be >= 0", a.ID, e.Name)
		}
		for j, d := range e.Drops {
			if err := validateDrop(d); err != nil {
				return fmt.Errorf("area %q: enemy %q drop[%d]: %w", a.ID, e.Name, j, err)
			}
		}
	}
	return nil
}

func validateDrop(d Drop) error {
	if d.ItemID == "" {
		return errors.New("item id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("item %q: name must not be empty", d.ItemID)
	}
	if d.SellPrice < 0 {
		return fmt.Errorf("item %q: sell_price must be >= 0, got %d", d.ItemID, d.SellPrice)
	}
	if d.Chance <= 0 || d.Chance > 1.0 {
		return fmt.Errorf("item %q: chance must be in (0, 1.0], got %f", d.ItemID, d.Chance)
	}
	if d.Type != "" && !validTypes[d.Type] {
		return fmt.Errorf("item %q: unknown type %q", d.ItemID, d.Type)
	}
	if d.Slot != "" && !d.Slot.Valid() {
		return fmt.Errorf("item %q: unknown slot %q", d.ItemID, d.Slot)
	}
	return nil
}

// LoadAreaFromBytes parses a single area from raw YAML bytes.
//
// Postcondition: Returns a validated *Area, or an error.
func LoadAreaFromBytes(data []byte) (*Area, error) {
	var a Area
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing area YAML: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadAreas reads all *.yaml and *.yml files in dir and returns the parsed areas.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all areas or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadAreas(dir string) ([]*Area, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading area dir %q: %w", dir, err)
	}

	var areas []*Area
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		a, err := LoadAreaFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		areas = append(areas, a)
	}
	return areas, nil
}
