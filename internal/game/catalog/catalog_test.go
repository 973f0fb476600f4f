package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/stats"
)

const meadowYAML = `
id: meadow
name: Meadow
color: "#00ff00"
min_level: 1
roster:
  - name: Slime
    level: 1
    atk: 5
    def: 1
    flee: 2
    drops:
      - item: slime_jelly
        name: Slime Jelly
        sell_price: 3
        chance: 0.5
      - item: twig_sword
        name: Twig Sword
        sell_price: 10
        chance: 0.1
        type: weapon
        slot: weapon
        atk: 4
        bonus:
          str: 1
`

func TestLoadAreaFromBytes(t *testing.T) {
	a, err := catalog.LoadAreaFromBytes([]byte(meadowYAML))
	require.NoError(t, err)
	assert.Equal(t, "meadow", a.ID)
	require.Len(t, a.Roster, 1)
	assert.Equal(t, 1, a.Roster[0].Weight())
	require.Len(t, a.Roster[0].Drops, 2)
	assert.Equal(t, catalog.SlotWeapon, a.Roster[0].Drops[1].Slot)
	assert.Equal(t, stats.Attributes{Str: 1}, a.Roster[0].Drops[1].Bonus)
}

func TestArea_Validate_Rejects(t *testing.T) {
	base := func() *catalog.Area {
		return &catalog.Area{
			ID: "a", Name: "A",
			Roster: []catalog.Enemy{{Name: "E", Level: 1, Drops: []catalog.Drop{
				{ItemID: "x", Name: "X", SellPrice: 1, Chance: 0.5},
			}}},
		}
	}
	cases := map[string]func(a *catalog.Area){
		"empty id":      func(a *catalog.Area) { a.ID = "" },
		"empty name":    func(a *catalog.Area) { a.Name = "" },
		"empty roster":  func(a *catalog.Area) { a.Roster = nil },
		"zero level":    func(a *catalog.Area) { a.Roster[0].Level = 0 },
		"zero chance":   func(a *catalog.Area) { a.Roster[0].Drops[0].Chance = 0 },
		"chance over 1": func(a *catalog.Area) { a.Roster[0].Drops[0].Chance = 1.5 },
		"bad slot":      func(a *catalog.Area) { a.Roster[0].Drops[0].Slot = "tail" },
		"bad type":      func(a *catalog.Area) { a.Roster[0].Drops[0].Type = "gem" },
		"neg price":     func(a *catalog.Area) { a.Roster[0].Drops[0].SellPrice = -1 },
		"neg weight":    func(a *catalog.Area) { a.Roster[0].SpawnWeight = -2 },
	}
	require.NoError(t, base().Validate())
	for name, mutate := range cases {
		a := base()
		mutate(a)
		assert.Error(t, a.Validate(), name)
	}
}

func TestNew_IndexesItems(t *testing.T) {
	a, err := catalog.LoadAreaFromBytes([]byte(meadowYAML))
	require.NoError(t, err)
	c, err := catalog.New([]*catalog.Area{a})
	require.NoError(t, err)

	jelly, ok := c.Item("slime_jelly")
	require.True(t, ok)
	assert.Equal(t, 3, jelly.SellPrice)
	assert.Equal(t, catalog.TypeMaterial, jelly.Type)
	assert.False(t, jelly.IsEquipment())

	sword, err := c.Lookup("twig_sword")
	require.NoError(t, err)
	assert.True(t, sword.IsEquipment())
	assert.Equal(t, 4, sword.Atk)

	_, err = c.Lookup("dragon_scale")
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	got, err := c.Area("meadow")
	require.NoError(t, err)
	assert.Same(t, a, got)
	_, err = c.Area("moon")
	assert.ErrorIs(t, err, catalog.ErrAreaNotFound)
	assert.Equal(t, 2, c.ItemCount())
}

func TestNew_RejectsDuplicateArea(t *testing.T) {
	a, err := catalog.LoadAreaFromBytes([]byte(meadowYAML))
	require.NoError(t, err)
	_, err = catalog.New([]*catalog.Area{a, a})
	assert.Error(t, err)
}

func TestNew_RejectsConflictingItem(t *testing.T) {
	a, err := catalog.LoadAreaFromBytes([]byte(meadowYAML))
	require.NoError(t, err)
	b := &catalog.Area{ID: "b", Name: "B", Roster: []catalog.Enemy{{Name: "E", Level: 1, Drops: []catalog.Drop{
		{ItemID: "slime_jelly", Name: "Slime Jelly", SellPrice: 99, Chance: 0.5},
	}}}}
	_, err = catalog.New([]*catalog.Area{a, b})
	assert.Error(t, err)
}

func TestLoadAreas_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meadow.yaml"), []byte(meadowYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	areas, err := catalog.LoadAreas(dir)
	require.NoError(t, err)
	assert.Len(t, areas, 1)
}

func TestLoadAreas_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: x\nname: X\n"), 0o644))
	_, err := catalog.LoadAreas(dir)
	assert.Error(t, err)
}

// TestLoad_ShippedContent verifies every area under content/areas loads and
// that areas are ordered by minimum level.
func TestLoad_ShippedContent(t *testing.T) {
	c, err := catalog.Load(filepath.Join("..", "..", "..", "content", "areas"))
	require.NoError(t, err)
	areas := c.Areas()
	require.NotEmpty(t, areas)
	for i := 1; i < len(areas); i++ {
		assert.LessOrEqual(t, areas[i-1].MinLevel, areas[i].MinLevel)
	}
	_, ok := c.Item("slime_jelly")
	assert.True(t, ok)
}
