package core

import (
	"math/rand"
	"testing"
)

func TestDetOccurThreshold(t *testing.T) {
	d := &ThresholdDetection{FAP: 0, MDP: 0, SNRThreshold: 5}
	rng := rand.New(rand.NewSource(1))

	fa, missed := d.DetOccur([]float64{10, 4.9, 5.1, 0}, rng)
	if fa {
		t.Fatalf("false alarm raised with FAP 0")
	}
	want := []bool{false, true, false, true}
	for i, w := range want {
		if missed[i] != w {
			t.Fatalf("missed[%d] = %v, want %v", i, missed[i], w)
		}
	}
}

func TestDetOccurForcedFalseAlarm(t *testing.T) {
	d := &ThresholdDetection{FAP: 1, SNRThreshold: 5}
	rng := rand.New(rand.NewSource(1))

	fa, missed := d.DetOccur(nil, rng)
	if !fa {
		t.Fatalf("FAP 1 must raise a false alarm")
	}
	if len(missed) != 0 {
		t.Fatalf("empty SNR vector should yield an empty missed mask")
	}
}

func TestDetOccurMissedDetectionProbability(t *testing.T) {
	d := &ThresholdDetection{MDP: 1, SNRThreshold: 5}
	rng := rand.New(rand.NewSource(1))

	_, missed := d.DetOccur([]float64{100}, rng)
	if !missed[0] {
		t.Fatalf("MDP 1 must miss even a bright planet")
	}
}

func TestMaxFAFluxRatioDecreasesWithAngle(t *testing.T) {
	d := NewThresholdDetection()
	near := d.MaxFAFluxRatio(50)
	far := d.MaxFAFluxRatio(2000)
	if near <= far {
		t.Fatalf("flux-ratio bound should shrink with working angle: %v vs %v", near, far)
	}
	if far != d.FAFluxFloor {
		t.Fatalf("large-angle bound = %v, want the floor %v", far, d.FAFluxFloor)
	}
	if d.MaxFAFluxRatio(0) != d.FAFluxFloor {
		t.Fatalf("degenerate angle should return the floor")
	}
}
