package character_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/game/stats"
)

var now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newWarrior(t *testing.T) *character.Character {
	t.Helper()
	c, err := character.Build("owner-1", "Zara", character.ClassWarrior, now)
	require.NoError(t, err)
	return c
}

func TestBuild_ClassPresets(t *testing.T) {
	for class, hp := range map[character.Class]int{
		character.ClassWarrior: 100,
		character.ClassMage:    60,
		character.ClassRogue:   80,
	} {
		c, err := character.Build("owner", "Hero", class, now)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Level)
		assert.Equal(t, 0, c.XP)
		assert.Equal(t, 0, c.Gold)
		assert.Equal(t, 0, c.StatPoints)
		assert.Equal(t, hp, c.MaxHP)
		assert.Equal(t, hp, c.CurrentHP)
		assert.Equal(t, character.Presets[class].Attributes, c.Attributes)
		assert.NotNil(t, c.Inventory)
		assert.NotNil(t, c.Equipment)
	}
}

func TestBuild_Rejects(t *testing.T) {
	_, err := character.Build("", "Hero", character.ClassMage, now)
	assert.Error(t, err)
	_, err = character.Build("owner", "  ", character.ClassMage, now)
	assert.Error(t, err)
	_, err = character.Build("owner", "Hero", "bard", now)
	assert.Error(t, err)
}

func TestParseClass(t *testing.T) {
	for in, want := range map[string]character.Class{
		"warrior": character.ClassWarrior, "Mage": character.ClassMage,
		"guerreiro": character.ClassWarrior, "mago": character.ClassMage, "ladino": character.ClassRogue,
	} {
		got, err := character.ParseClass(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := character.ParseClass("necromancer")
	assert.Error(t, err)
}

func TestBackfill_LegacyRecord(t *testing.T) {
	c := &character.Character{OwnerID: "o", Name: "Old", Class: character.ClassMage, Level: 3, MaxHP: 100, CurrentHP: 250}
	c.Backfill()
	assert.Equal(t, character.Presets[character.ClassMage].Attributes, c.Attributes)
	assert.Equal(t, 100, c.CurrentHP)
	assert.NotNil(t, c.Inventory)
	assert.NotNil(t, c.Equipment)

	c = &character.Character{Class: character.ClassRogue}
	c.Backfill()
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 80, c.MaxHP)
}

func TestStacks_AddAndTake(t *testing.T) {
	c := newWarrior(t)
	c.AddItem("slime_jelly", "Slime Jelly", 2)
	c.AddItem("slime_jelly", "Slime Jelly", 1)
	c.AddItem("rat_tail", "Rat Tail", 1)
	require.Len(t, c.Inventory, 2)
	assert.Equal(t, 3, c.Quantity("slime_jelly"))

	assert.Equal(t, 2, c.TakeItem("slime_jelly", 2))
	assert.Equal(t, 1, c.Quantity("slime_jelly"))
	assert.Equal(t, 1, c.TakeItem("slime_jelly", 5))
	_, ok := c.Stack("slime_jelly")
	assert.False(t, ok)
	assert.Equal(t, 0, c.TakeItem("slime_jelly", 1))
}

func TestStacks_NeverEmpty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := &character.Character{}
		ids := []string{"a", "b", "c"}
		for i := 0; i < 30; i++ {
			id := rapid.SampledFrom(ids).Draw(rt, "id")
			n := rapid.IntRange(1, 4).Draw(rt, "n")
			if rapid.Bool().Draw(rt, "add") {
				c.AddItem(id, id, n)
			} else {
				before := c.Quantity(id)
				took := c.TakeItem(id, n)
				assert.Equal(rt, min(before, n), took)
			}
		}
		seen := map[string]bool{}
		for _, s := range c.Inventory {
			assert.GreaterOrEqual(rt, s.Quantity, 1)
			assert.False(rt, seen[s.ItemID], "duplicate stack %q", s.ItemID)
			seen[s.ItemID] = true
		}
	})
}

func TestClone_IsDeep(t *testing.T) {
	c := newWarrior(t)
	c.AddItem("slime_jelly", "Slime Jelly", 1)
	c.Equipment[catalog.SlotWeapon] = &character.EquippedItem{ItemID: "wooden_sword", Atk: 5}

	cp := c.Clone()
	cp.AddItem("slime_jelly", "Slime Jelly", 4)
	cp.Equipment[catalog.SlotWeapon].Atk = 99
	delete(cp.Equipment, catalog.SlotWeapon)

	assert.Equal(t, 1, c.Quantity("slime_jelly"))
	require.NotNil(t, c.Equipment[catalog.SlotWeapon])
	assert.Equal(t, 5, c.Equipment[catalog.SlotWeapon].Atk)
}

func TestDerived_IncludesEquipment(t *testing.T) {
	c := newWarrior(t)
	before := c.Derived()
	c.Equipment[catalog.SlotWeapon] = &character.EquippedItem{ItemID: "wooden_sword", Atk: 5, Bonus: stats.Attributes{Str: 1}}
	after := c.Derived()
	assert.Equal(t, before.Atk+5+2, after.Atk)
	assert.Equal(t, float64(c.MaxHP), after.HP)
}

func TestOwnedCount(t *testing.T) {
	c := newWarrior(t)
	c.AddItem("wooden_sword", "Wooden Sword", 2)
	c.Equipment[catalog.SlotWeapon] = &character.EquippedItem{ItemID: "wooden_sword"}
	assert.Equal(t, 3, c.OwnedCount("wooden_sword"))
}

func TestXPThreshold(t *testing.T) {
	c := newWarrior(t)
	assert.Equal(t, 500, c.XPToNextLevel())
	assert.Equal(t, 1500, character.XPThreshold(3))
}
