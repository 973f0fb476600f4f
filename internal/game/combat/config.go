package combat

import "errors"

// Config holds the tunable constants of the encounter model.
type Config struct {
	// EncounterIntervalMinutes is the focus time that buys one encounter.
	EncounterIntervalMinutes int
	XPPerEnemyLevel          int
	GoldPerEnemyLevel        int
	// LuckDropFactor scales drop chances by (1 + luk*LuckDropFactor).
	LuckDropFactor float64
	CritMultiplier float64
	// MinHitChance and MaxHitChance bound the hit chance, in percent.
	MinHitChance float64
	MaxHitChance float64
}

// DefaultConfig returns the shipped encounter constants.
func DefaultConfig() Config {
	return Config{
		EncounterIntervalMinutes: 5,
		XPPerEnemyLevel:          25,
		GoldPerEnemyLevel:        12,
		LuckDropFactor:           0.01,
		CritMultiplier:           1.5,
		MinHitChance:             5,
		MaxHitChance:             95,
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.EncounterIntervalMinutes < 1 {
		errs = append(errs, errors.New("encounter interval must be at least 1 minute"))
	}
	if c.XPPerEnemyLevel < 0 || c.GoldPerEnemyLevel < 0 {
		errs = append(errs, errors.New("per-level rewards must not be negative"))
	}
	if c.LuckDropFactor < 0 {
		errs = append(errs, errors.New("luck drop factor must not be negative"))
	}
	if c.CritMultiplier < 1 {
		errs = append(errs, errors.New("crit multiplier must be at least 1"))
	}
	if c.MinHitChance < 0 || c.MaxHitChance > 100 || c.MinHitChance > c.MaxHitChance {
		errs = append(errs, errors.New("hit chance bounds must satisfy 0 <= min <= max <= 100"))
	}
	return errors.Join(errs...)
}
