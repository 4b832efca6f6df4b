package core

import (
	"math"
	"time"

	"github.com/signalsfoundry/survey-simulator/model"
)

// BasicOpticalSystem is the default OpticalOracle: a coronagraph count-rate
// model with throughput and raw-contrast terms per observing mode. Signal
// and noise follow the Nemati count formulation used by the executor:
//
//	S = Cp*t,  N = sqrt(Cb*t + (Csp*t)^2)
type BasicOpticalSystem struct {
	// ApertureM is the primary mirror diameter in metres.
	ApertureM float64
	// ZeroMagFlux is the photon flux of a zero-magnitude star through the
	// collecting area, in counts per second per square metre.
	ZeroMagFlux float64
	// PixelScaleArcsec2 is the solid angle over which zodi surface
	// brightness is integrated.
	PixelScaleArcsec2 float64
	// StabilityFrac is the fraction of the raw contrast left as residual
	// speckle after post-processing.
	StabilityFrac float64
}

// NewBasicOpticalSystem returns an optical system with representative
// 4m-class coronagraph parameters.
func NewBasicOpticalSystem() *BasicOpticalSystem {
	return &BasicOpticalSystem{
		ApertureM:         4.0,
		ZeroMagFlux:       1e10,
		PixelScaleArcsec2: 0.1,
		StabilityFrac:     0.1,
	}
}

// starCountRate is the stellar photon count rate through the aperture.
func (os *BasicOpticalSystem) starCountRate(s *model.Star, mode *model.ObservingMode) float64 {
	area := math.Pi / 4 * os.ApertureM * os.ApertureM
	return os.ZeroMagFlux * math.Pow(10, -0.4*s.VMag) * area * mode.BandwidthFrac
}

// PhotonCounts implements OpticalOracle.
func (os *BasicOpticalSystem) PhotonCounts(s *model.Star, fZ, fEZ, dMag, waMas float64, mode *model.ObservingMode) (cp, cb, csp float64) {
	cStar := os.starCountRate(s, mode)
	cp = cStar * math.Pow(10, -0.4*dMag) * mode.Throughput
	zodi := (fZ + fEZ) * os.PixelScaleArcsec2 * cStar * mode.Throughput
	leak := cStar * mode.Contrast * mode.Throughput
	cb = cp + zodi + leak
	csp = leak * os.StabilityFrac
	return cp, cb, csp
}

// IntegrationTime implements OpticalOracle: it inverts the SNR formula for
// the mode's threshold. Infeasible combinations (signal buried under the
// residual-speckle floor) return zero.
func (os *BasicOpticalSystem) IntegrationTime(s *model.Star, fZ, fEZ, dMag, waMas float64, mode *model.ObservingMode) time.Duration {
	cp, cb, csp := os.PhotonCounts(s, fZ, fEZ, dMag, waMas, mode)
	snr := mode.SNRThreshold
	denom := cp*cp - (snr*csp)*(snr*csp)
	if cp <= 0 || denom <= 0 {
		return 0
	}
	tSec := snr * snr * cb / denom
	if tSec <= 0 || math.IsInf(tSec, 0) || math.IsNaN(tSec) {
		return 0
	}
	return time.Duration(tSec * float64(time.Second))
}

// MaxIntegrationTime implements OpticalOracle: the integration time needed
// at the mode's limiting delta magnitude.
func (os *BasicOpticalSystem) MaxIntegrationTime(s *model.Star, fZ, fEZ float64, mode *model.ObservingMode) time.Duration {
	return os.IntegrationTime(s, fZ, fEZ, mode.DMagLim, mode.IWAMas, mode)
}
