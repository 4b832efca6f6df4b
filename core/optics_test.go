package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/survey-simulator/model"
)

func TestIntegrationTimeInvertsSNR(t *testing.T) {
	os := NewBasicOpticalSystem()
	mode := testDetectionMode()
	star := &model.Star{Name: "alpha", DistPc: 10, MassSolar: 1, VMag: 5}

	dMag, wa := 20.0, 100.0
	fZ, fEZ := 1e-8, 1e-9
	intTime := os.IntegrationTime(star, fZ, fEZ, dMag, wa, mode)
	if intTime <= 0 {
		t.Fatalf("expected a feasible integration time, got %v", intTime)
	}

	// Accumulating counts for exactly that long must land on the mode's
	// SNR threshold.
	cp, cb, csp := os.PhotonCounts(star, fZ, fEZ, dMag, wa, mode)
	tSec := intTime.Seconds()
	snr := cp * tSec / math.Sqrt(cb*tSec+(csp*tSec)*(csp*tSec))
	if math.Abs(snr-mode.SNRThreshold) > 0.01*mode.SNRThreshold {
		t.Fatalf("SNR at the computed time = %v, want %v", snr, mode.SNRThreshold)
	}
}

func TestIntegrationTimeInfeasibleUnderSpeckleFloor(t *testing.T) {
	os := NewBasicOpticalSystem()
	mode := testDetectionMode()
	mode.Contrast = 1e-6 // raw speckle far above the planet signal
	star := &model.Star{Name: "alpha", DistPc: 10, MassSolar: 1, VMag: 5}

	if got := os.IntegrationTime(star, 1e-8, 1e-9, 30, 100, mode); got != 0 {
		t.Fatalf("integration under the speckle floor should be infeasible, got %v", got)
	}
}

func TestMaxIntegrationTimeUsesLimitingMagnitude(t *testing.T) {
	os := NewBasicOpticalSystem()
	mode := testDetectionMode()
	star := &model.Star{Name: "alpha", DistPc: 10, MassSolar: 1, VMag: 5}

	max := os.MaxIntegrationTime(star, 1e-8, 1e-9, mode)
	atLim := os.IntegrationTime(star, 1e-8, 1e-9, mode.DMagLim, mode.IWAMas, mode)
	if max != atLim {
		t.Fatalf("MaxIntegrationTime = %v, want the dMagLim time %v", max, atLim)
	}

	// Brighter sources integrate faster than the limiting case.
	bright := os.IntegrationTime(star, 1e-8, 1e-9, mode.DMagLim-5, mode.IWAMas, mode)
	if bright <= 0 || bright >= max {
		t.Fatalf("brighter source time %v should be shorter than the limit %v", bright, max)
	}
}
