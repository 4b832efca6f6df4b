package core

import (
	"context"
	"math"
	"time"

	"github.com/signalsfoundry/survey-simulator/internal/logging"
	"github.com/signalsfoundry/survey-simulator/model"
)

// detectionResult is the outcome of one detection observation. statuses and
// snr are parallel to the star's planet list.
type detectionResult struct {
	statuses   []int
	snr        []float64
	falseAlarm *FalseAlarm
}

// observationDetection runs the detection observation at a star: it
// integrates on the planets inside the mode's working-angle annulus, rolls
// the post-processing statistics, synthesizes a false alarm when one
// occurs, schedules the follow-up revisit, and stores the detection
// snapshot for the characterization stage.
func (s *Survey) observationDetection(ctx context.Context, sInd int, intTime time.Duration, mode *model.ObservingMode) detectionResult {
	star := s.catalog.Stars()[sInd]
	planets := s.universe.PlanetsOf(sInd)

	res := detectionResult{
		statuses: make([]int, len(planets)),
		snr:      make([]float64, len(planets)),
	}

	// Planets outside the annulus are classified up front and excluded
	// from the integration.
	s.universe.PropagateSystem(star, s.clock.CurrentTimeNorm().Seconds())
	var inRange []int
	for i, p := range planets {
		switch {
		case p.WorkingAngleMas < mode.IWAMas:
			res.statuses[i] = model.DetStatusBelowIWA
		case p.WorkingAngleMas > mode.OWAMas:
			res.statuses[i] = model.DetStatusAboveOWA
		default:
			inRange = append(inRange, i)
		}
	}

	if len(inRange) > 0 {
		snr := s.calcSignalNoise(star, planets, inRange, intTime, mode)
		for k, i := range inRange {
			res.snr[i] = snr[k]
		}
		// The multiplier's share beyond the raw integration still burns
		// exoplanet science time.
		extra := time.Duration(float64(intTime) * (mode.TimeMultiplier - 1))
		if extra > 0 {
			s.clock.AllocateTime(extra, true)
		}
	} else {
		// Nothing to integrate on, but the observation happens anyway.
		total := time.Duration(float64(intTime) * mode.TimeMultiplier)
		if total > 0 {
			s.clock.AllocateTime(total, true)
		}
	}

	inRangeSNR := make([]float64, len(inRange))
	for k, i := range inRange {
		inRangeSNR[k] = res.snr[i]
	}
	fa, missed := s.stats.DetOccur(inRangeSNR, s.rng)
	nDet := 0
	for k, i := range inRange {
		if missed[k] {
			res.statuses[i] = model.DetStatusMissed
		} else {
			res.statuses[i] = model.DetStatusDetected
			nDet++
		}
	}
	if fa {
		res.falseAlarm = s.synthesizeFalseAlarm(star, mode)
		s.metrics.IncFalseAlarms()
	}
	if nDet > 0 {
		s.metrics.IncDetections()
	}

	s.log.Debug(ctx, "detection complete",
		logging.Int("star_ind", sInd),
		logging.Int("detected", nDet),
		logging.Int("planets", len(planets)),
	)

	s.scheduleFollowUp(star, planets, res.statuses, res.falseAlarm)
	s.storeSnapshot(sInd, planets, res)
	return res
}

// calcSignalNoise integrates on the selected planets, splitting the
// integration into ntFlux sub-intervals and re-evaluating the time-varying
// orbital geometry and brightness at each midpoint. Each half-interval is
// charged against the exoplanet science budget as it elapses.
func (s *Survey) calcSignalNoise(star *model.Star, planets []*model.Planet, inRange []int, intTime time.Duration, mode *model.ObservingMode) []float64 {
	dt := intTime / time.Duration(s.ntFlux)
	signal := make([]float64, len(inRange))
	noiseSq := make([]float64, len(inRange))

	for n := 0; n < s.ntFlux; n++ {
		s.clock.AllocateTime(dt/2, true)
		s.universe.PropagateSystem(star, s.clock.CurrentTimeNorm().Seconds())
		rSC := s.geometry.Orbit(s.clock.CurrentTimeAbs())
		fZ := s.zodi.LocalZodi(star, mode.LambdaNm, rSC)

		dtSec := dt.Seconds()
		for k, i := range inRange {
			p := planets[i]
			cp, cb, csp := s.optics.PhotonCounts(star, fZ, p.ExozodiBrightness, p.DeltaMag, p.WorkingAngleMas, mode)
			signal[k] += cp * dtSec
			noiseSq[k] += cb*dtSec + (csp*dtSec)*(csp*dtSec)
		}
		s.clock.AllocateTime(dt/2, true)
	}

	snr := make([]float64, len(inRange))
	for k := range inRange {
		if noiseSq[k] > 0 {
			snr[k] = signal[k] / math.Sqrt(noiseSq[k])
		}
	}
	return snr
}

// synthesizeFalseAlarm fabricates the speckle source raised by the
// post-processing statistics: a working angle uniform over the annulus the
// planet population could occupy, and a delta magnitude uniform between the
// angle-dependent brightness bound and the mode's limiting magnitude.
func (s *Survey) synthesizeFalseAlarm(star *model.Star, mode *model.ObservingMode) *FalseAlarm {
	waMax := mode.OWAMas
	if aMax := s.universe.MaxSemiMajorAxisAU(); aMax > 0 && star.DistPc > 0 {
		if popMax := WorkingAngleMas(aMax, star.DistPc); popMax < waMax {
			waMax = popMax
		}
	}
	wa := mode.IWAMas + s.rng.Float64()*(waMax-mode.IWAMas)
	dMagMin := -2.5 * math.Log10(s.stats.MaxFAFluxRatio(wa))
	dMag := dMagMin + s.rng.Float64()*(mode.DMagLim-dMagMin)
	return &FalseAlarm{
		ExozodiBrightness: s.zodi.ExozodiBaseline(),
		DeltaMag:          dMag,
		WorkingAngleMas:   wa,
	}
}

// scheduleFollowUp queues the star's next look. After a detection (a false
// alarm counts) the revisit lands half the orbit implied by the minimum
// apparent separation later, when that source is back near maximum
// elongation; otherwise three quarters of the population-average period
// pass first.
func (s *Survey) scheduleFollowUp(star *model.Star, planets []*model.Planet, statuses []int, fa *FalseAlarm) {
	now := s.clock.CurrentTimeNorm()

	// Among detected planets, follow the one at minimum separation.
	var best *model.Planet
	for i, p := range planets {
		if statuses[i] != model.DetStatusDetected {
			continue
		}
		if best == nil || p.SeparationAU < best.SeparationAU {
			best = p
		}
	}
	sp, mp := 0.0, 0.0
	if best != nil {
		sp, mp = best.SeparationAU, best.MassKg
	}
	if fa != nil {
		if faSep := ImpliedSeparationAU(fa.WorkingAngleMas, star.DistPc); faSep > 0 && (best == nil || faSep < sp) {
			sp, mp = faSep, s.universe.MeanMassKg()
		}
	}

	var revisit time.Duration
	if sp > 0 {
		period := OrbitalPeriod(sp, star.MassSolar, mp)
		revisit = now + time.Duration(period/2*float64(time.Second))
	} else {
		period := OrbitalPeriod(s.universe.MeanSeparationAU(), star.MassSolar, s.universe.MeanMassKg())
		revisit = now + time.Duration(0.75*period*float64(time.Second))
	}
	if revisit > now {
		s.ledger.scheduleRevisit(star.Index, revisit)
	}
}

// storeSnapshot records the per-planet outcome of this attempt, replacing
// whatever the previous visit left.
func (s *Survey) storeSnapshot(sInd int, planets []*model.Planet, res detectionResult) {
	snap := &DetectionSnapshot{
		Planets:    make([]PlanetSighting, len(planets)),
		FalseAlarm: res.falseAlarm,
	}
	for i, p := range planets {
		snap.Planets[i] = PlanetSighting{
			PlanetIndex:       p.Index,
			Detected:          res.statuses[i] == model.DetStatusDetected,
			ExozodiBrightness: p.ExozodiBrightness,
			DeltaMag:          p.DeltaMag,
			WorkingAngleMas:   p.WorkingAngleMas,
		}
	}
	s.ledger.recordSnapshot(sInd, snap)
}
