package core

import (
	"math"
	"time"

	"github.com/signalsfoundry/survey-simulator/model"
)

// selection is the outcome of one successful target pick.
type selection struct {
	starIndex int
	intTime   time.Duration
	slewTime  time.Duration
}

// nextTarget picks the next star and its integration time by narrowing the
// full candidate set through keepout, integration-cutoff, keepout-at-end,
// and visit-recency stages, then ranking by completeness. It retries with
// an idle time charge until a target is found or the mission ends.
func (s *Survey) nextTarget(oldSInd int, mode *model.ObservingMode) (selection, bool) {
	// Settling plus instrument overhead is charged up front. When the
	// current observing block cannot absorb it, skip ahead.
	if !s.clock.AllocateTime(mode.OverheadTime, false) {
		s.clock.AdvanceToNextObservingBlock()
	}

	var slewTimeFac float64
	if s.occulter != nil {
		slewTimeFac = s.occulter.slewTimeFactor()
	}

	for !s.clock.MissionIsOver() {
		stars := s.catalog.Stars()
		cands := make([]int, len(stars))
		for i := range stars {
			cands[i] = i
		}

		slews := s.slewTimes(oldSInd, slewTimeFac)
		intTimes := make([]time.Duration, len(stars))

		cands = s.filterKeepoutAtStart(cands, slews)
		cands = s.filterIntegrationTime(cands, slews, intTimes, mode)
		cands = s.filterKeepoutAtEnd(cands, slews, intTimes)
		cands = s.filterVisitRecency(cands)

		if len(cands) > 0 {
			sInd := s.rankByCompleteness(cands)
			s.ledger.recordVisit(sInd)
			sel := selection{starIndex: sInd, intTime: intTimes[sInd], slewTime: slews[sInd]}
			if s.occulter != nil && sel.slewTime > 0 {
				if !s.clock.AllocateTime(sel.slewTime, false) {
					return selection{}, false
				}
				if s.clock.MissionIsOver() {
					return selection{}, false
				}
			}
			return sel, true
		}

		// No observable target: charge the idle interval and retry, or
		// skip to the next observing block when this one is exhausted.
		if !s.clock.AllocateTime(s.clock.DtAlloc, false) {
			if !s.clock.AdvanceToNextObservingBlock() {
				return selection{}, false
			}
		}
	}
	return selection{}, false
}

// slewTimes computes the per-candidate starshade slew time from the angular
// separation between the previous and candidate target directions. Without
// an occulter, or without a previous target, every slew is zero.
func (s *Survey) slewTimes(oldSInd int, slewTimeFac float64) []time.Duration {
	stars := s.catalog.Stars()
	slews := make([]time.Duration, len(stars))
	if s.occulter == nil || oldSInd < 0 {
		return slews
	}
	now := s.clock.CurrentTimeAbs()
	oldDir := s.geometry.StarDirection(stars[oldSInd], now)
	for i, st := range stars {
		sd := AngularSeparationRad(oldDir, s.geometry.StarDirection(st, now))
		slews[i] = time.Duration(math.Sqrt(slewTimeFac*math.Sin(sd/2)) * float64(time.Second))
	}
	return slews
}

// filterKeepoutAtStart drops candidates whose position at their own start
// time (arrival after slew) violates keepout.
func (s *Survey) filterKeepoutAtStart(cands []int, slews []time.Duration) []int {
	stars := s.catalog.Stars()
	out := cands[:0]
	for _, i := range cands {
		startTime := s.clock.CurrentTimeAbs().Add(slews[i])
		rSC := s.geometry.Orbit(startTime)
		ok := s.geometry.Keepout([]*model.Star{stars[i]}, startTime, rSC, s.keepoutDeg)
		if len(ok) == 1 && ok[0] {
			out = append(out, i)
		}
	}
	return out
}

// filterIntegrationTime queries the optical oracle for the detection
// integration time and keeps candidates whose total time (after the mode's
// multiplier) lies strictly inside (0, cutoff).
func (s *Survey) filterIntegrationTime(cands []int, slews []time.Duration, intTimes []time.Duration, mode *model.ObservingMode) []int {
	stars := s.catalog.Stars()
	fEZ := s.zodi.ExozodiBaseline()
	out := cands[:0]
	for _, i := range cands {
		startTime := s.clock.CurrentTimeAbs().Add(slews[i])
		rSC := s.geometry.Orbit(startTime)
		fZ := s.zodi.LocalZodi(stars[i], mode.LambdaNm, rSC)
		t := s.optics.MaxIntegrationTime(stars[i], fZ, fEZ, mode)
		intTimes[i] = t
		total := time.Duration(float64(t) * mode.TimeMultiplier)
		if total > 0 && total < mode.IntCutoff {
			out = append(out, i)
		}
	}
	return out
}

// filterKeepoutAtEnd recomputes each candidate's end time (start plus
// integration) and drops those that violate keepout there.
func (s *Survey) filterKeepoutAtEnd(cands []int, slews, intTimes []time.Duration) []int {
	stars := s.catalog.Stars()
	out := cands[:0]
	for _, i := range cands {
		endTime := s.clock.CurrentTimeAbs().Add(slews[i]).Add(intTimes[i])
		rSC := s.geometry.Orbit(endTime)
		ok := s.geometry.Keepout([]*model.Star{stars[i]}, endTime, rSC, s.keepoutDeg)
		if len(ok) == 1 && ok[0] {
			out = append(out, i)
		}
	}
	return out
}

// filterVisitRecency keeps candidates at the minimum visit count among the
// survivors, plus any survivor with a pending revisit inside the matching
// window.
func (s *Survey) filterVisitRecency(cands []int) []int {
	if len(cands) == 0 {
		return cands
	}
	minVisits := s.ledger.visitCount(cands[0])
	for _, i := range cands[1:] {
		if v := s.ledger.visitCount(i); v < minVisits {
			minVisits = v
		}
	}
	now := s.clock.CurrentTimeNorm()
	out := cands[:0]
	for _, i := range cands {
		if s.ledger.visitCount(i) == minVisits || s.ledger.revisitDue(i, now) {
			out = append(out, i)
		}
	}
	return out
}

// rankByCompleteness scores survivors by baseline completeness (unvisited
// stars) or time-updated completeness (revisits), then picks uniformly at
// random among the survivors tied at the maximum.
func (s *Survey) rankByCompleteness(cands []int) int {
	stars := s.catalog.Stars()
	now := s.clock.CurrentTimeNorm()

	best := math.Inf(-1)
	var tied []int
	for _, i := range cands {
		var comp float64
		if s.ledger.visitCount(i) == 0 {
			comp = s.completeness.Baseline(stars[i])
		} else {
			comp = s.completeness.Update(stars[i], now)
		}
		switch {
		case comp > best:
			best = comp
			tied = tied[:0]
			tied = append(tied, i)
		case comp == best:
			tied = append(tied, i)
		}
	}
	return tied[s.rng.Intn(len(tied))]
}
