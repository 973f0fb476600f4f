package stats

// Gear is the combat-relevant part of one equipped item.
type Gear struct {
	Atk   int
	Def   int
	Bonus Attributes
}

// Derived holds the combat statistics computed from attributes and gear.
// It is never persisted; recompute it after every mutation.
type Derived struct {
	HP   float64
	SP   float64
	Atk  float64
	MAtk float64
	Def  float64
	MDef float64
	Hit  float64
	Flee float64
	// ASPD is attacks per simulated tick.
	ASPD float64
	// Crit is a percentage in [0, 100].
	Crit float64
}

// Derive computes derived combat statistics.
//
// Gear attribute bonuses are added to the base attributes before any formula
// is evaluated; gear Atk and Def are then added to atk and def. maxHP is
// carried through unchanged because vitality is folded into it at level-up.
//
// Postcondition: 0 <= Crit <= 100. Absent gear contributes zero.
func Derive(base Attributes, maxHP int, gear []Gear) Derived {
	attrs := base
	var gearAtk, gearDef int
	for _, g := range gear {
		attrs = attrs.Add(g.Bonus)
		gearAtk += g.Atk
		gearDef += g.Def
	}

	str := float64(attrs.Str)
	agi := float64(attrs.Agi)
	vit := float64(attrs.Vit)
	intl := float64(attrs.Int)
	dex := float64(attrs.Dex)
	luk := float64(attrs.Luk)

	return Derived{
		HP:   float64(maxHP),
		SP:   10 + 2*intl,
		Atk:  2*str + 0.5*dex + float64(gearAtk),
		MAtk: 2*intl + 0.5*dex,
		Def:  1.5*vit + float64(gearDef),
		MDef: vit + 0.5*intl,
		Hit:  3*dex + luk,
		Flee: 2*agi + luk,
		ASPD: 1 + 0.05*agi,
		Crit: clamp(1+0.3*luk, 0, 100),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
