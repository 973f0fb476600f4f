// Package combat turns a completed focus session into a batch of abstract
// encounters against an area's roster. Simulation is pure: the character is
// read, never written, and all randomness flows through a dice.Roller.
package combat

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/game/dice"
)

var (
	// ErrNoEncounters is returned for a non-positive session length.
	ErrNoEncounters = errors.New("session duration must be positive")
	// ErrEmptyRoster is returned for an area without enemies.
	ErrEmptyRoster = errors.New("area has no enemies")
)

// Kill counts defeats of one enemy type.
type Kill struct {
	EnemyName string `json:"enemy_name"`
	Count     int    `json:"count"`
}

// DroppedItem is one unit of loot.
type DroppedItem struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
}

// Result is the outcome of a simulated session.
type Result struct {
	// Kills is ordered by first defeat.
	Kills        []Kill        `json:"kills"`
	XPEarned     int           `json:"xp_earned"`
	GoldEarned   int           `json:"gold_earned"`
	ItemsDropped []DroppedItem `json:"items_dropped"`
	HPLost       int           `json:"hp_lost"`

	Encounters  int `json:"encounters"`
	Hits        int `json:"hits"`
	Crits       int `json:"crits"`
	DamageDealt int `json:"damage_dealt"`
}

// KillCount returns the total number of enemies defeated.
func (r Result) KillCount() int {
	n := 0
	for _, k := range r.Kills {
		n += k.Count
	}
	return n
}

// Simulator resolves sessions with a fixed configuration.
type Simulator struct {
	cfg    Config
	roller *dice.Roller
}

// NewSimulator creates a Simulator.
//
// Precondition: cfg must pass Validate; roller must be non-nil.
func NewSimulator(cfg Config, roller *dice.Roller) *Simulator {
	return &Simulator{cfg: cfg, roller: roller}
}

// EncounterCount returns the number of encounters a session of minutes yields.
//
// Postcondition: returns max(1, minutes / EncounterIntervalMinutes) for minutes > 0.
func (s *Simulator) EncounterCount(minutes int) int {
	return max(1, minutes/s.cfg.EncounterIntervalMinutes)
}

// Simulate runs one session of durationMinutes in area for c.
//
// Precondition: c and area must be non-nil.
// Postcondition: c is not modified; 0 <= HPLost <= max(0, c.CurrentHP-1).
func (s *Simulator) Simulate(c *character.Character, area *catalog.Area, durationMinutes int) (Result, error) {
	if durationMinutes <= 0 {
		return Result{}, fmt.Errorf("%w: got %d minutes", ErrNoEncounters, durationMinutes)
	}
	if len(area.Roster) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrEmptyRoster, area.ID)
	}

	derived := c.Derived()
	weights := make([]int, len(area.Roster))
	for i, e := range area.Roster {
		weights[i] = e.Weight()
	}
	dropBoost := 1 + float64(c.Attributes.Luk)*s.cfg.LuckDropFactor

	res := Result{Kills: []Kill{}, ItemsDropped: []DroppedItem{}}
	killIdx := map[string]int{}
	hpLost := 0
	res.Encounters = s.EncounterCount(durationMinutes)

	for i := 0; i < res.Encounters; i++ {
		enemy := &area.Roster[s.roller.Pick("spawn", weights)]
		hitChance := clamp(derived.Hit-float64(enemy.Flee), s.cfg.MinHitChance, s.cfg.MaxHitChance)
		retaliation := max(0, int(math.Floor(float64(enemy.Atk)-derived.Def)))

		if !s.roller.Percent("hit", hitChance) {
			hpLost += retaliation
			continue
		}

		res.Hits++
		dmg := math.Max(1, math.Floor(derived.Atk-float64(enemy.Def)))
		if s.roller.Percent("crit", derived.Crit) {
			dmg = math.Floor(dmg * s.cfg.CritMultiplier)
			res.Crits++
		}
		res.DamageDealt += int(dmg)

		if j, seen := killIdx[enemy.Name]; seen {
			res.Kills[j].Count++
		} else {
			killIdx[enemy.Name] = len(res.Kills)
			res.Kills = append(res.Kills, Kill{EnemyName: enemy.Name, Count: 1})
		}
		res.XPEarned += enemy.Level * s.cfg.XPPerEnemyLevel
		res.GoldEarned += enemy.Level * s.cfg.GoldPerEnemyLevel

		for _, d := range enemy.Drops {
			if s.roller.Chance("drop:"+d.ItemID, DropChance(d.Chance, dropBoost)) {
				res.ItemsDropped = append(res.ItemsDropped, DroppedItem{ItemID: d.ItemID, Name: d.Name})
			}
		}

		// The defeated enemy still swings once, at half strength.
		hpLost += retaliation / 2
	}

	res.HPLost = min(hpLost, max(0, c.CurrentHP-1))
	return res, nil
}

// DropChance applies the luck boost to a base drop probability.
//
// Postcondition: result is in [0, 1].
func DropChance(base, boost float64) float64 {
	return clamp(base*boost, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
