package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrItemNotFound is returned when an item id is not present in the catalog.
var ErrItemNotFound = errors.New("item not found")

// Catalog indexes areas by id and items by id. It is immutable after
// construction and safe for concurrent use.
type Catalog struct {
	areas    []*Area
	areaByID map[string]*Area
	items    map[string]ItemDef
}

// New builds a Catalog from validated areas. The item index is derived from
// every drop table; an item id that appears in several tables must carry an
// identical definition each time.
//
// Precondition: every area has passed Validate.
// Postcondition: Returns a Catalog, or an error on duplicate area ids or
// conflicting item definitions.
func New(areas []*Area) (*Catalog, error) {
	c := &Catalog{
		areaByID: make(map[string]*Area, len(areas)),
		items:    make(map[string]ItemDef),
	}
	for _, a := range areas {
		if _, exists := c.areaByID[a.ID]; exists {
			return nil, fmt.Errorf("catalog: area ID %q already registered", a.ID)
		}
		c.areaByID[a.ID] = a
		c.areas = append(c.areas, a)
		for _, e := range a.Roster {
			for _, d := range e.Drops {
				def := d.Item()
				if prev, ok := c.items[def.ID]; ok && prev != def {
					return nil, fmt.Errorf("catalog: item %q defined inconsistently in area %q", def.ID, a.ID)
				}
				c.items[def.ID] = def
			}
		}
	}
	sort.SliceStable(c.areas, func(i, j int) bool {
		if c.areas[i].MinLevel != c.areas[j].MinLevel {
			return c.areas[i].MinLevel < c.areas[j].MinLevel
		}
		return c.areas[i].ID < c.areas[j].ID
	})
	return c, nil
}

// Load reads every area in dir and builds a Catalog.
//
// Precondition: dir must be a readable directory.
func Load(dir string) (*Catalog, error) {
	areas, err := LoadAreas(dir)
	if err != nil {
		return nil, err
	}
	return New(areas)
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (c *Catalog) Item(id string) (ItemDef, bool) {
	d, ok := c.items[id]
	return d, ok
}

// Lookup returns the ItemDef for id or ErrItemNotFound.
func (c *Catalog) Lookup(id string) (ItemDef, error) {
	d, ok := c.items[id]
	if !ok {
		return ItemDef{}, fmt.Errorf("%w: %q", ErrItemNotFound, id)
	}
	return d, nil
}

// Area returns the area with the given id or ErrAreaNotFound.
func (c *Catalog) Area(id string) (*Area, error) {
	a, ok := c.areaByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAreaNotFound, id)
	}
	return a, nil
}

// Areas returns all areas ordered by minimum level, then id.
//
// Postcondition: returned slice is a copy.
func (c *Catalog) Areas() []*Area {
	out := make([]*Area, len(c.areas))
	copy(out, c.areas)
	return out
}

// ItemCount returns the number of distinct item ids in the catalog.
func (c *Catalog) ItemCount() int {
	return len(c.items)
}
