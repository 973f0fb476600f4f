package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/focusquest/internal/game/stats"
)

func TestDerive_BaseFormulas(t *testing.T) {
	a := stats.Attributes{Str: 10, Agi: 6, Vit: 8, Int: 4, Dex: 6, Luk: 5}
	d := stats.Derive(a, 120, nil)

	assert.Equal(t, 120.0, d.HP)
	assert.Equal(t, 18.0, d.SP)
	assert.Equal(t, 23.0, d.Atk)  // 2*10 + 0.5*6
	assert.Equal(t, 11.0, d.MAtk) // 2*4 + 0.5*6
	assert.Equal(t, 12.0, d.Def)  // 1.5*8
	assert.Equal(t, 10.0, d.MDef) // 8 + 0.5*4
	assert.Equal(t, 23.0, d.Hit)  // 3*6 + 5
	assert.Equal(t, 17.0, d.Flee) // 2*6 + 5
	assert.InDelta(t, 1.3, d.ASPD, 1e-9)
	assert.InDelta(t, 2.5, d.Crit, 1e-9)
}

func TestDerive_GearAddsFlatAndBonuses(t *testing.T) {
	a := stats.Attributes{Str: 5, Dex: 2}
	gear := []stats.Gear{
		{Atk: 7},
		{Def: 3, Bonus: stats.Attributes{Str: 1, Luk: 10}},
	}
	d := stats.Derive(a, 50, gear)

	assert.Equal(t, 20.0, d.Atk) // 2*(5+1) + 0.5*2 + 7
	assert.Equal(t, 3.0, d.Def)
	assert.Equal(t, 16.0, d.Hit) // 3*2 + 10
	assert.InDelta(t, 4.0, d.Crit, 1e-9)
}

func TestDerive_CritClamped(t *testing.T) {
	d := stats.Derive(stats.Attributes{Luk: 1000}, 1, nil)
	assert.Equal(t, 100.0, d.Crit)
}

func TestDerive_EmptyGearEqualsNoGear(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := drawAttributes(rt)
		assert.Equal(rt, stats.Derive(a, 10, nil), stats.Derive(a, 10, []stats.Gear{{}}))
	})
}

func TestDerive_CritInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := stats.Derive(drawAttributes(rt), 10, nil)
		assert.GreaterOrEqual(rt, d.Crit, 0.0)
		assert.LessOrEqual(rt, d.Crit, 100.0)
	})
}

func TestParseAttribute(t *testing.T) {
	cases := map[string]string{
		"str": stats.Str, "STR": stats.Str, "strength": stats.Str,
		" agi ": stats.Agi, "Vitality": stats.Vit, "int": stats.Int,
		"dexterity": stats.Dex, "luck": stats.Luk,
	}
	for in, want := range cases {
		got, err := stats.ParseAttribute(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := stats.ParseAttribute("charisma")
	assert.ErrorIs(t, err, stats.ErrUnknownAttribute)
}

func TestAttributes_IncrementAndGet(t *testing.T) {
	var a stats.Attributes
	require.NoError(t, a.Increment("dex", 2))
	v, err := a.Get("dexterity")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	err = a.Increment("wis", 1)
	assert.ErrorIs(t, err, stats.ErrUnknownAttribute)
	assert.Equal(t, stats.Attributes{Dex: 2}, a)
}

func TestAttributes_Add(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a, b := drawAttributes(rt), drawAttributes(rt)
		sum := a.Add(b)
		for _, n := range stats.Names {
			av, _ := a.Get(n)
			bv, _ := b.Get(n)
			sv, _ := sum.Get(n)
			assert.Equal(rt, av+bv, sv)
		}
	})
}

func drawAttributes(rt *rapid.T) stats.Attributes {
	return stats.Attributes{
		Str: rapid.IntRange(0, 200).Draw(rt, "str"),
		Agi: rapid.IntRange(0, 200).Draw(rt, "agi"),
		Vit: rapid.IntRange(0, 200).Draw(rt, "vit"),
		Int: rapid.IntRange(0, 200).Draw(rt, "int"),
		Dex: rapid.IntRange(0, 200).Draw(rt, "dex"),
		Luk: rapid.IntRange(0, 200).Draw(rt, "luk"),
	}
}
