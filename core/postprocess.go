package core

import (
	"math"
	"math/rand"
)

// ThresholdDetection is the default DetectionStatsOracle: one false-alarm
// draw per observation, and per-planet missed detections below an SNR
// threshold or by random chance above it.
type ThresholdDetection struct {
	// FAP is the per-observation false-alarm probability.
	FAP float64
	// MDP is the missed-detection probability for planets above threshold.
	MDP float64
	// SNRThreshold is the detection limit; planets below it are missed.
	SNRThreshold float64
	// FAFluxFloor scales the flux-ratio bound of synthesized false alarms.
	FAFluxFloor float64
}

// NewThresholdDetection returns the oracle with canonical statistics.
func NewThresholdDetection() *ThresholdDetection {
	return &ThresholdDetection{
		FAP:          3e-5,
		MDP:          1e-3,
		SNRThreshold: 5.0,
		FAFluxFloor:  1e-10,
	}
}

// DetOccur implements DetectionStatsOracle.
func (d *ThresholdDetection) DetOccur(snr []float64, rng *rand.Rand) (bool, []bool) {
	fa := rng.Float64() <= d.FAP
	missed := make([]bool, len(snr))
	for i, s := range snr {
		if s < d.SNRThreshold {
			missed[i] = true
			continue
		}
		missed[i] = rng.Float64() <= d.MDP
	}
	return fa, missed
}

// MaxFAFluxRatio implements DetectionStatsOracle: the brightest flux ratio
// a speckle false alarm can plausibly present, decreasing with working
// angle.
func (d *ThresholdDetection) MaxFAFluxRatio(waMas float64) float64 {
	if waMas <= 0 {
		return d.FAFluxFloor
	}
	return d.FAFluxFloor * math.Max(1, 1000.0/waMas)
}
