package core

import (
	"math"
	"time"

	"github.com/signalsfoundry/survey-simulator/model"
)

// DecayCompleteness is the default CompletenessOracle. Revisit completeness
// decays exponentially from the baseline toward a floor as mission time
// elapses: targets observed early keep little residual discovery value.
type DecayCompleteness struct {
	// Floor is the asymptotic revisit completeness fraction.
	Floor float64
	// DecayScale is the e-folding time of the decay.
	DecayScale time.Duration
}

// NewDecayCompleteness returns the oracle with a one-year decay scale.
func NewDecayCompleteness() *DecayCompleteness {
	return &DecayCompleteness{Floor: 0.1, DecayScale: 365 * 24 * time.Hour}
}

// Baseline implements CompletenessOracle.
func (c *DecayCompleteness) Baseline(s *model.Star) float64 { return s.Comp0 }

// Update implements CompletenessOracle.
func (c *DecayCompleteness) Update(s *model.Star, elapsed time.Duration) float64 {
	if c.DecayScale <= 0 {
		return s.Comp0 * c.Floor
	}
	decay := math.Exp(-float64(elapsed) / float64(c.DecayScale))
	return s.Comp0 * (c.Floor + (1-c.Floor)*decay)
}
