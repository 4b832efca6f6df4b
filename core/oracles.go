package core

import (
	"math/rand"
	"time"

	"github.com/signalsfoundry/survey-simulator/model"
)

// The survey engine consults its astrophysical and engineering collaborators
// only through the narrow interfaces below. Default implementations live in
// observatory.go, optics.go, zodi.go, completeness.go, and postprocess.go;
// scenarios may substitute their own.

// GeometryOracle supplies spacecraft position, target directions, and
// keepout availability.
type GeometryOracle interface {
	// Orbit returns the observatory's heliocentric position in AU.
	Orbit(t time.Time) Vec3
	// StarDirection returns the unit pointing vector toward the star.
	StarDirection(s *model.Star, t time.Time) Vec3
	// Keepout reports, per star, whether pointing at it from rSC satisfies
	// the angular-exclusion constraint of the given keepout angle.
	Keepout(stars []*model.Star, t time.Time, rSC Vec3, koAngleDeg float64) []bool
}

// OpticalOracle supplies integration times and photon count rates for a
// given observing mode.
type OpticalOracle interface {
	// MaxIntegrationTime returns the time needed to reach the mode's
	// limiting delta magnitude on this star, or zero when infeasible.
	MaxIntegrationTime(s *model.Star, fZ, fEZ float64, mode *model.ObservingMode) time.Duration
	// IntegrationTime returns the time needed to reach the mode's SNR
	// threshold for a source of the given delta magnitude and working
	// angle, or zero when infeasible.
	IntegrationTime(s *model.Star, fZ, fEZ, dMag, waMas float64, mode *model.ObservingMode) time.Duration
	// PhotonCounts returns the planet signal, background, and residual
	// speckle count rates in counts per second.
	PhotonCounts(s *model.Star, fZ, fEZ, dMag, waMas float64, mode *model.ObservingMode) (cp, cb, csp float64)
}

// ZodiacalOracle supplies local and exozodiacal surface brightness.
type ZodiacalOracle interface {
	// LocalZodi returns the local-zodi surface brightness toward the star
	// as seen from rSC, in 1/arcsec^2.
	LocalZodi(s *model.Star, lambdaNm float64, rSC Vec3) float64
	// ExozodiBaseline returns the nominal exozodi brightness in 1/arcsec^2.
	ExozodiBaseline() float64
}

// CompletenessOracle supplies detection completeness values for ranking.
type CompletenessOracle interface {
	// Baseline returns the single-visit completeness of an unvisited star.
	Baseline(s *model.Star) float64
	// Update returns the time-dependent revisit completeness.
	Update(s *model.Star, elapsed time.Duration) float64
}

// DetectionStatsOracle models the post-processing false-alarm and
// missed-detection statistics.
type DetectionStatsOracle interface {
	// DetOccur returns a false-alarm flag and a per-planet missed mask for
	// the given SNR vector. An empty vector can still raise a false alarm.
	DetOccur(snr []float64, rng *rand.Rand) (falseAlarm bool, missed []bool)
	// MaxFAFluxRatio bounds the flux ratio a false alarm can present at
	// the given working angle.
	MaxFAFluxRatio(waMas float64) float64
}
