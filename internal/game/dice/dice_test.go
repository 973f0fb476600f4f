package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/focusquest/internal/game/dice"
)

// fixedSource returns the queued values in order, then repeats the last one.
type fixedSource struct {
	vals []int
	i    int
}

func (f *fixedSource) Intn(n int) int {
	v := f.vals[f.i]
	if f.i < len(f.vals)-1 {
		f.i++
	}
	return v % n
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

// TestSeededSource_Replay verifies equal seeds yield equal sequences.
func TestSeededSource_Replay(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		n := rapid.IntRange(1, 1000).Draw(rt, "n")
		a := dice.NewSeededSource(seed)
		b := dice.NewSeededSource(seed)
		for i := 0; i < 50; i++ {
			assert.Equal(rt, a.Intn(n), b.Intn(n))
		}
	})
}

func TestNewSeed(t *testing.T) {
	_, err := dice.NewSeed()
	assert.NoError(t, err)
}

func TestRoller_Chance_Bounds(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop())
	for i := 0; i < 200; i++ {
		assert.False(t, r.Chance("never", 0))
		assert.True(t, r.Chance("always", 1))
		assert.True(t, r.Chance("over", 1.7))
	}
}

func TestRoller_Chance_Threshold(t *testing.T) {
	// 0.25 => threshold 2500; draw 2499 succeeds, draw 2500 fails.
	r := dice.NewLoggedRoller(&fixedSource{vals: []int{2499, 2500}}, zap.NewNop())
	assert.True(t, r.Chance("hit", 0.25))
	assert.False(t, r.Chance("hit", 0.25))
}

func TestRoller_Percent(t *testing.T) {
	r := dice.NewLoggedRoller(&fixedSource{vals: []int{4999, 5000}}, zap.NewNop())
	assert.True(t, r.Percent("crit", 50))
	assert.False(t, r.Percent("crit", 50))
}

func TestRoller_Pick_Weighted(t *testing.T) {
	// weights [1, 0, 3]: draws 0 -> 0, 1..3 -> 2.
	r := dice.NewLoggedRoller(&fixedSource{vals: []int{0, 1, 3}}, zap.NewNop())
	w := []int{1, 0, 3}
	assert.Equal(t, 0, r.Pick("enemy", w))
	assert.Equal(t, 2, r.Pick("enemy", w))
	assert.Equal(t, 2, r.Pick("enemy", w))
}

func TestRoller_Pick_NeverZeroWeight(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		weights := rapid.SliceOfN(rapid.IntRange(0, 5), 1, 8).Draw(rt, "weights")
		weights = append(weights, 1)
		r := dice.NewLoggedRoller(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), zap.NewNop())
		idx := r.Pick("enemy", weights)
		assert.Greater(rt, weights[idx], 0)
	})
}

func TestRoller_Pick_PanicsWithoutWeight(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop())
	assert.Panics(t, func() { r.Pick("enemy", []int{0, 0}) })
}
