package core

import (
	"testing"

	"github.com/signalsfoundry/survey-simulator/timekeeping"
)

func TestVisitLedgerCounts(t *testing.T) {
	l := newVisitLedger(3)
	l.recordVisit(1)
	l.recordVisit(1)
	l.recordVisit(2)

	if got := l.visitCount(0); got != 0 {
		t.Fatalf("visitCount(0) = %d, want 0", got)
	}
	if got := l.visitCount(1); got != 2 {
		t.Fatalf("visitCount(1) = %d, want 2", got)
	}
}

func TestVisitLedgerSnapshotReplacement(t *testing.T) {
	l := newVisitLedger(1)
	if l.snapshot(0) != nil {
		t.Fatalf("fresh ledger should have no snapshot")
	}
	first := &DetectionSnapshot{Planets: []PlanetSighting{{PlanetIndex: 0}}}
	second := &DetectionSnapshot{Planets: []PlanetSighting{{PlanetIndex: 0, Detected: true}}}
	l.recordSnapshot(0, first)
	l.recordSnapshot(0, second)
	if got := l.snapshot(0); got != second {
		t.Fatalf("snapshot should be the most recent one")
	}
}

func TestRevisitQueueUniqueByTarget(t *testing.T) {
	l := newVisitLedger(2)
	l.scheduleRevisit(0, timekeeping.Days(10))
	l.scheduleRevisit(1, timekeeping.Days(20))
	l.scheduleRevisit(0, timekeeping.Days(30)) // supersedes the first

	pending := l.pendingRevisits()
	if len(pending) != 2 {
		t.Fatalf("queue length = %d, want 2 (unique by target)", len(pending))
	}
	for _, r := range pending {
		if r.StarIndex == 0 && r.At != timekeeping.Days(30) {
			t.Fatalf("star 0 revisit = %v, want the newer 30 day schedule", r.At)
		}
	}
}

func TestRevisitDueWindow(t *testing.T) {
	l := newVisitLedger(1)
	l.scheduleRevisit(0, timekeeping.Days(100))

	cases := []struct {
		now  float64
		want bool
	}{
		{100, true},
		{94, true},
		{106, true},
		{93, false}, // exactly one window early
		{107, false},
		{80, false},
	}
	for _, tc := range cases {
		if got := l.revisitDue(0, timekeeping.Days(tc.now)); got != tc.want {
			t.Fatalf("revisitDue at day %v = %v, want %v", tc.now, got, tc.want)
		}
	}

	if l.revisitDue(1, timekeeping.Days(100)) {
		t.Fatalf("star without a schedule must not be due")
	}
}
