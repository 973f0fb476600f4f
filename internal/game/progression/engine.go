// Package progression applies combat and time rewards to a character:
// experience, currency, level resolution, HP policy, and loot merge.
package progression

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/game/combat"
)

// Config holds the tunable progression constants. The level threshold
// (character.XPThreshold) and max HP per level (character.HPPerLevel) are
// fixed by the character model.
type Config struct {
	XPPerMinute        int
	GoldPerMinute      int
	StatPointsPerLevel int
}

// DefaultConfig returns the shipped progression constants.
func DefaultConfig() Config {
	return Config{
		XPPerMinute:        10,
		GoldPerMinute:      5,
		StatPointsPerLevel: 5,
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.XPPerMinute < 0 || c.GoldPerMinute < 0 {
		errs = append(errs, errors.New("per-minute rewards must not be negative"))
	}
	if c.StatPointsPerLevel < 0 {
		errs = append(errs, errors.New("stat points per level must not be negative"))
	}
	return errors.Join(errs...)
}

// Summary reports what an application changed.
type Summary struct {
	XPGained         int      `json:"xp_gained"`
	GoldGained       int      `json:"gold_gained"`
	LevelsGained     int      `json:"levels_gained"`
	NewLevel         int      `json:"new_level"`
	StatPointsGained int      `json:"stat_points_gained"`
	HPLost           int      `json:"hp_lost"`
	ItemsAdded       []string `json:"items_added"`
}

// LeveledUp reports whether at least one level was gained.
func (s Summary) LeveledUp() bool {
	return s.LevelsGained > 0
}

// Engine applies rewards. It is stateless and safe for concurrent use on
// distinct characters.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: cfg must pass Validate; logger must be non-nil.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

// Apply mutates c with a combat result. Apply is not idempotent: the caller
// must ensure each result is applied at most once.
//
// Precondition: c must satisfy the character invariants.
// Postcondition: XP < character.XPThreshold(Level); every dropped item is merged into the inventory.
func (e *Engine) Apply(c *character.Character, res combat.Result) Summary {
	sum := e.reward(c, res.XPEarned, res.GoldEarned, res.HPLost)
	sum.ItemsAdded = make([]string, 0, len(res.ItemsDropped))
	for _, item := range res.ItemsDropped {
		c.AddItem(item.ItemID, item.Name, 1)
		sum.ItemsAdded = append(sum.ItemsAdded, item.ItemID)
	}
	e.logger.Debug("combat reward applied",
		zap.String("owner", c.OwnerID),
		zap.Int("xp", sum.XPGained),
		zap.Int("gold", sum.GoldGained),
		zap.Int("levels", sum.LevelsGained),
		zap.Int("items", len(sum.ItemsAdded)),
	)
	return sum
}

// ApplyTimeReward mutates c with the reward for a session run without an area.
//
// Precondition: minutes >= 0.
func (e *Engine) ApplyTimeReward(c *character.Character, minutes int) Summary {
	sum := e.reward(c, minutes*e.cfg.XPPerMinute, minutes*e.cfg.GoldPerMinute, 0)
	sum.ItemsAdded = []string{}
	e.logger.Debug("time reward applied",
		zap.String("owner", c.OwnerID),
		zap.Int("minutes", minutes),
		zap.Int("levels", sum.LevelsGained),
	)
	return sum
}

func (e *Engine) reward(c *character.Character, xp, gold, hpLost int) Summary {
	c.XP += xp
	c.Gold += gold

	levels := 0
	for c.XP >= c.XPToNextLevel() {
		c.XP -= c.XPToNextLevel()
		c.Level++
		c.StatPoints += e.cfg.StatPointsPerLevel
		c.MaxHP += character.HPPerLevel
		levels++
	}

	applied := 0
	if levels > 0 {
		c.CurrentHP = c.MaxHP
	} else {
		applied = min(hpLost, c.CurrentHP)
		c.CurrentHP -= applied
	}

	return Summary{
		XPGained:         xp,
		GoldGained:       gold,
		LevelsGained:     levels,
		NewLevel:         c.Level,
		StatPointsGained: levels * e.cfg.StatPointsPerLevel,
		HPLost:           applied,
	}
}
