package dice

import (
	"math"

	"go.uber.org/zap"
)

// chanceScale is the resolution of probability rolls: one draw in
// [0, chanceScale) per roll, i.e. basis points.
const chanceScale = 10000

// Roller wraps a Source and logger to provide logged probability rolls.
// All rolls are logged at debug level with label, threshold, draw, and outcome.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Chance reports whether an event of probability p happens.
// Exactly one draw is consumed regardless of p so that replays stay aligned.
//
// Postcondition: p <= 0 always returns false; p >= 1 always returns true.
func (r *Roller) Chance(label string, p float64) bool {
	threshold := int(math.Round(p * chanceScale))
	draw := r.src.Intn(chanceScale)
	ok := draw < threshold
	r.logger.Debug("chance roll",
		zap.String("label", label),
		zap.Int("threshold", threshold),
		zap.Int("draw", draw),
		zap.Bool("success", ok),
	)
	return ok
}

// Percent is Chance expressed in percent.
func (r *Roller) Percent(label string, pct float64) bool {
	return r.Chance(label, pct/100)
}

// Pick draws an index from weights with probability proportional to its weight.
//
// Precondition: every weight >= 0 and at least one weight > 0.
// Postcondition: returns an index whose weight is > 0.
func (r *Roller) Pick(label string, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		panic("dice: Pick called with no positive weight")
	}
	draw := r.src.Intn(total)
	idx := 0
	for i, w := range weights {
		if draw < w {
			idx = i
			break
		}
		draw -= w
	}
	r.logger.Debug("weighted pick",
		zap.String("label", label),
		zap.Int("total_weight", total),
		zap.Int("index", idx),
	)
	return idx
}
