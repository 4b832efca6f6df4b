package core

import (
	"context"
	"math"
	"time"

	"github.com/signalsfoundry/survey-simulator/internal/logging"
	"github.com/signalsfoundry/survey-simulator/model"
)

// characterizationResult is the outcome of one characterization attempt.
// statuses and snr are parallel to the star's planet list; when a false
// alarm was under test its SNR is appended after the planets.
type characterizationResult struct {
	statuses []int
	snr      []float64
	intTime  time.Duration
}

// observationCharacterization spectrally characterizes whatever the last
// detection at this star found. Candidates are the snapshot's detected
// planets that still lack a full spectrum, plus the snapshot's false alarm
// if one was raised; the false alarm is a candidate in its own right and
// can carry the observation alone. All candidates share the longest
// feasible integration.
func (s *Survey) observationCharacterization(ctx context.Context, sInd int, mode *model.ObservingMode) characterizationResult {
	star := s.catalog.Stars()[sInd]
	planets := s.universe.PlanetsOf(sInd)

	res := characterizationResult{
		statuses: make([]int, len(planets)),
		snr:      make([]float64, len(planets)),
	}

	snap := s.ledger.snapshot(sInd)
	if snap == nil {
		return res
	}
	var cands []int
	for i, sighting := range snap.Planets {
		if sighting.Detected && s.fullSpectra[sighting.PlanetIndex] < 1 {
			cands = append(cands, i)
		}
	}
	if len(cands) == 0 && snap.FalseAlarm == nil {
		return res
	}

	now := s.clock.CurrentTimeAbs()
	rSC := s.geometry.Orbit(now)
	if ok := s.geometry.Keepout([]*model.Star{star}, now, rSC, s.keepoutDeg); len(ok) != 1 || !ok[0] {
		return res
	}

	s.universe.PropagateSystem(star, s.clock.CurrentTimeNorm().Seconds())
	fZ := s.zodi.LocalZodi(star, mode.LambdaNm, rSC)

	// Integration time per candidate comes from the brightness the last
	// detection recorded, not from the (unknowable) current truth.
	var kept []int
	var maxTime time.Duration
	for _, i := range cands {
		sighting := snap.Planets[i]
		t := s.charIntegrationTime(star, fZ, sighting.ExozodiBrightness, sighting.DeltaMag, sighting.WorkingAngleMas, now, mode)
		if t <= 0 {
			continue
		}
		kept = append(kept, i)
		if t > maxTime {
			maxTime = t
		}
	}
	faKept := false
	if fa := snap.FalseAlarm; fa != nil {
		if t := s.charIntegrationTime(star, fZ, fa.ExozodiBrightness, fa.DeltaMag, fa.WorkingAngleMas, now, mode); t > 0 {
			faKept = true
			if t > maxTime {
				maxTime = t
			}
		}
	}

	if len(kept) > 0 {
		snr := s.calcSignalNoise(star, planets, kept, maxTime, mode)
		for k, i := range kept {
			res.snr[i] = snr[k]
		}
		extra := time.Duration(float64(maxTime) * (mode.TimeMultiplier - 1))
		if extra > 0 {
			s.clock.AllocateTime(extra, true)
		}
		res.intTime = maxTime
	} else if faKept {
		// The false alarm alone still costs the full integration.
		total := time.Duration(float64(maxTime) * mode.TimeMultiplier)
		if total > 0 {
			s.clock.AllocateTime(total, true)
		}
		res.intTime = maxTime
	}

	nFull, nPartial := 0, 0
	for _, i := range kept {
		p := planets[i]
		if res.snr[i] <= mode.SNRThreshold {
			continue
		}
		lo := mode.IWAMas * (1 + mode.BandwidthFrac/2)
		hi := mode.OWAMas * (1 - mode.BandwidthFrac/2)
		if p.WorkingAngleMas > lo && p.WorkingAngleMas < hi {
			res.statuses[i] = model.CharStatusFull
			s.fullSpectra[p.Index]++
			nFull++
		} else {
			res.statuses[i] = model.CharStatusPartial
			s.partialSpectra[p.Index]++
			nPartial++
		}
	}

	if faKept && res.intTime > 0 {
		res.snr = append(res.snr, s.falseAlarmSNR(star, fZ, snap.FalseAlarm, res.intTime, mode))
	}

	if nFull > 0 || nPartial > 0 {
		s.metrics.IncCharacterizations()
	}
	s.log.Debug(ctx, "characterization complete",
		logging.Int("star_ind", sInd),
		logging.Int("full", nFull),
		logging.Int("partial", nPartial),
	)
	return res
}

// charIntegrationTime computes one candidate's characterization time from
// its recorded brightness and applies the cutoff and end-of-integration
// keepout filters. A zero return means the candidate is out.
func (s *Survey) charIntegrationTime(star *model.Star, fZ, fEZ, dMag, waMas float64, now time.Time, mode *model.ObservingMode) time.Duration {
	t := s.optics.IntegrationTime(star, fZ, fEZ, dMag, waMas, mode)
	total := time.Duration(float64(t) * mode.TimeMultiplier)
	if total <= 0 || total >= mode.IntCutoff {
		return 0
	}
	endTime := now.Add(t)
	rEnd := s.geometry.Orbit(endTime)
	if ok := s.geometry.Keepout([]*model.Star{star}, endTime, rEnd, s.keepoutDeg); len(ok) != 1 || !ok[0] {
		return 0
	}
	return t
}

// falseAlarmSNR evaluates the closed-form SNR a static source of the false
// alarm's recorded brightness would accumulate over the integration.
func (s *Survey) falseAlarmSNR(star *model.Star, fZ float64, fa *FalseAlarm, intTime time.Duration, mode *model.ObservingMode) float64 {
	cp, cb, csp := s.optics.PhotonCounts(star, fZ, fa.ExozodiBrightness, fa.DeltaMag, fa.WorkingAngleMas, mode)
	tSec := intTime.Seconds()
	noise := math.Sqrt(cb*tSec + (csp*tSec)*(csp*tSec))
	if noise <= 0 {
		return 0
	}
	return cp * tSec / noise
}
