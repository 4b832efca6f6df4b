package core

import "time"

// RevisitWindow is the matching window around a scheduled revisit time.
// A pending revisit is eligible while |revisit - now| is strictly less
// than this.
const RevisitWindow = 7 * 24 * time.Hour

// PlanetSighting is one planet's entry in a detection snapshot.
type PlanetSighting struct {
	PlanetIndex int
	Detected    bool
	// ExozodiBrightness is in 1/arcsec^2, WorkingAngleMas in mas.
	ExozodiBrightness float64
	DeltaMag          float64
	WorkingAngleMas   float64
}

// FalseAlarm is the synthetic source appended to a snapshot when the
// post-processing oracle raises a false positive. It is kept separate from
// the real sightings instead of being spliced into them.
type FalseAlarm struct {
	ExozodiBrightness float64
	DeltaMag          float64
	WorkingAngleMas   float64
}

// DetectionSnapshot records the most recent detection attempt at a star.
type DetectionSnapshot struct {
	Planets    []PlanetSighting
	FalseAlarm *FalseAlarm
}

// Revisit is one pending entry of the revisit queue.
type Revisit struct {
	StarIndex int
	// At is the scheduled revisit time in normalized mission time.
	At time.Duration
}

// visitLedger tracks per-star visit counts, detection snapshots, and the
// revisit queue. It is owned by the Survey and mutated only through the
// methods below.
type visitLedger struct {
	visits    []int
	snapshots []*DetectionSnapshot
	revisits  []Revisit
}

func newVisitLedger(nStars int) *visitLedger {
	return &visitLedger{
		visits:    make([]int, nStars),
		snapshots: make([]*DetectionSnapshot, nStars),
	}
}

func (l *visitLedger) visitCount(sInd int) int { return l.visits[sInd] }

func (l *visitLedger) recordVisit(sInd int) { l.visits[sInd]++ }

func (l *visitLedger) snapshot(sInd int) *DetectionSnapshot { return l.snapshots[sInd] }

func (l *visitLedger) recordSnapshot(sInd int, snap *DetectionSnapshot) {
	l.snapshots[sInd] = snap
}

// scheduleRevisit adds or replaces the pending revisit for a star. The
// queue is unique by target; a newer schedule supersedes the old one.
func (l *visitLedger) scheduleRevisit(sInd int, at time.Duration) {
	for i := range l.revisits {
		if l.revisits[i].StarIndex == sInd {
			l.revisits[i].At = at
			return
		}
	}
	l.revisits = append(l.revisits, Revisit{StarIndex: sInd, At: at})
}

// revisitDue reports whether the star has a pending revisit within the
// matching window of now. The boundary at exactly one window is excluded.
func (l *visitLedger) revisitDue(sInd int, now time.Duration) bool {
	for _, r := range l.revisits {
		if r.StarIndex != sInd {
			continue
		}
		dt := r.At - now
		if dt < 0 {
			dt = -dt
		}
		if dt < RevisitWindow {
			return true
		}
	}
	return false
}

// pendingRevisits returns a copy of the queue, mainly for tests and
// reporting.
func (l *visitLedger) pendingRevisits() []Revisit {
	out := make([]Revisit, len(l.revisits))
	copy(out, l.revisits)
	return out
}
