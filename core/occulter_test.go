package core

import (
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/survey-simulator/timekeeping"
)

func TestSlewTimeFactorLaw(t *testing.T) {
	o := NewOcculter()
	stf := o.slewTimeFactor()
	if stf <= 0 {
		t.Fatalf("slew time factor should be positive, got %v", stf)
	}

	// A 60 degree retarget at the nominal sizing lands in the tens of
	// days, matching starshade slew scales.
	slewSec := math.Sqrt(stf * math.Sin(math.Pi/6))
	days := slewSec / 86400
	if days < 10 || days > 200 {
		t.Fatalf("60 deg slew = %v days, want tens of days", days)
	}

	o.DefburnPortion = 0
	if o.slewTimeFactor() != 0 {
		t.Fatalf("degenerate burn portion should disable the law")
	}
}

func TestSlewUsageBurnsPropellant(t *testing.T) {
	o := NewOcculter()
	dV, mass := o.slewUsage(30 * 24 * time.Hour)
	if dV <= 0 || mass <= 0 {
		t.Fatalf("slew usage should be positive: dV=%v mass=%v", dV, mass)
	}
	if mass >= o.SCMass {
		t.Fatalf("slew cannot burn the whole spacecraft: %v of %v kg", mass, o.SCMass)
	}
}

func TestStationKeepUsageScalesLinearly(t *testing.T) {
	o := NewOcculter()
	_, oneDay := o.stationKeepUsage(timekeeping.Days(1))
	_, twoDays := o.stationKeepUsage(timekeeping.Days(2))
	if math.Abs(twoDays-2*oneDay) > 1e-9*oneDay {
		t.Fatalf("station-keeping mass should scale with time: %v vs %v", oneDay, twoDays)
	}
}

func TestUpdateOcculterMassDebitsPhases(t *testing.T) {
	fx := newSurveyFixture(t, 1000, 0.9)
	addTestStar(t, fx.catalog, "alpha", 0.5)
	occ := NewOcculter()
	fx.params.Occulter = occ
	s := fx.build(t)

	before := occ.SCMass
	usage := s.updateOcculterMass(timekeeping.Days(30), timekeeping.Days(1), timekeeping.Days(2))

	if usage.SlewMassUsed <= 0 || usage.DetMassUsed <= 0 || usage.CharMassUsed <= 0 {
		t.Fatalf("all three phases should burn propellant: %+v", usage)
	}
	total := usage.SlewMassUsed + usage.DetMassUsed + usage.CharMassUsed
	if math.Abs(before-occ.SCMass-total) > 1e-9 {
		t.Fatalf("spacecraft mass drop %v does not match the usage sum %v", before-occ.SCMass, total)
	}
	if usage.DetSCMass <= usage.CharSCMass {
		// Characterization is debited after detection.
		t.Fatalf("det snapshot mass %v should exceed char snapshot mass %v", usage.DetSCMass, usage.CharSCMass)
	}
	if usage.SlewTimeDays != 30 {
		t.Fatalf("slew_time = %v, want 30", usage.SlewTimeDays)
	}
	if usage.SlewAngleDeg <= 0 || usage.SlewAngleDeg > 180 {
		t.Fatalf("slew angle %v out of range", usage.SlewAngleDeg)
	}
	// The characterization phase burns twice the detection phase's mass
	// at the same disturbance force.
	if math.Abs(usage.CharMassUsed-2*usage.DetMassUsed) > 1e-6*usage.DetMassUsed {
		t.Fatalf("char mass %v should be twice det mass %v", usage.CharMassUsed, usage.DetMassUsed)
	}
}

func TestUpdateOcculterMassZeroPhases(t *testing.T) {
	fx := newSurveyFixture(t, 1000, 0.9)
	addTestStar(t, fx.catalog, "alpha", 0.5)
	occ := NewOcculter()
	fx.params.Occulter = occ
	s := fx.build(t)

	before := occ.SCMass
	usage := s.updateOcculterMass(0, 0, 0)
	if occ.SCMass != before {
		t.Fatalf("nothing happened, but mass changed by %v", before-occ.SCMass)
	}
	if usage.DetSCMass != before || usage.CharSCMass != before {
		t.Fatalf("snapshot masses should equal the untouched wet mass")
	}
}
