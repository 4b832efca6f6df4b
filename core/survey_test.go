package core

import (
	"context"
	"testing"
	"time"

	"github.com/signalsfoundry/survey-simulator/model"
	"github.com/signalsfoundry/survey-simulator/timekeeping"
)

var testEpoch = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

// fixedOptics returns the same integration time and count rates for every
// star, which makes scheduling arithmetic exact in tests.
type fixedOptics struct {
	t           time.Duration
	cp, cb, csp float64
}

func (f *fixedOptics) MaxIntegrationTime(s *model.Star, fZ, fEZ float64, mode *model.ObservingMode) time.Duration {
	return f.t
}

func (f *fixedOptics) IntegrationTime(s *model.Star, fZ, fEZ, dMag, waMas float64, mode *model.ObservingMode) time.Duration {
	return f.t
}

func (f *fixedOptics) PhotonCounts(s *model.Star, fZ, fEZ, dMag, waMas float64, mode *model.ObservingMode) (float64, float64, float64) {
	return f.cp, f.cb, f.csp
}

func testDetectionMode() *model.ObservingMode {
	return &model.ObservingMode{
		Name:           "imaging-550",
		Instrument:     "imager",
		Detection:      true,
		LambdaNm:       550,
		BandwidthFrac:  0.2,
		IWAMas:         10,
		OWAMas:         1000,
		SNRThreshold:   5,
		TimeMultiplier: 1,
		OverheadTime:   timekeeping.Days(0.1),
		IntCutoff:      timekeeping.Days(10),
		Throughput:     0.3,
		Contrast:       1e-10,
		DMagLim:        25,
	}
}

// addTestStar appends an always-observable star (anti-solar at the epoch for
// a heliocentric observatory parked at +X).
func addTestStar(t *testing.T, tc *TargetCatalog, name string, comp0 float64) *model.Star {
	t.Helper()
	s := &model.Star{
		Name:              name,
		RightAscensionDeg: 0,
		DeclinationDeg:    0,
		DistPc:            10,
		MassSolar:         1,
		VMag:              5,
		Comp0:             comp0,
	}
	if err := tc.AddStar(s); err != nil {
		t.Fatalf("AddStar(%s): %v", name, err)
	}
	return s
}

func addTestPlanet(t *testing.T, u *Universe, starInd int, aAU float64) *model.Planet {
	t.Helper()
	p := &model.Planet{
		StarIndex:         starInd,
		SemiMajorAxisAU:   aAU,
		MassKg:            5.97e24,
		RadiusEarth:       1,
		Albedo:            0.3,
		PhaseRad:          1.5707963267948966, // max elongation
		ExozodiBrightness: 1e-9,
	}
	if err := u.AddPlanet(p); err != nil {
		t.Fatalf("AddPlanet: %v", err)
	}
	return p
}

type surveyFixture struct {
	clock    *timekeeping.MissionClock
	catalog  *TargetCatalog
	universe *Universe
	params   SurveyParams
}

func newSurveyFixture(t *testing.T, lifeDays float64, portion float64) *surveyFixture {
	t.Helper()
	clock := timekeeping.NewMissionClock(testEpoch, timekeeping.Days(lifeDays), portion)
	catalog := NewTargetCatalog()
	universe := NewUniverse()
	return &surveyFixture{
		clock:    clock,
		catalog:  catalog,
		universe: universe,
		params: SurveyParams{
			Clock:        clock,
			Catalog:      catalog,
			Universe:     universe,
			Geometry:     NewHeliocentricObservatory(testEpoch, 1.0),
			Optics:       &fixedOptics{t: timekeeping.Days(1), cp: 1, cb: 1, csp: 0},
			Zodi:         NewUniformZodiacalLight(),
			Completeness: NewDecayCompleteness(),
			Stats: &ThresholdDetection{
				FAP:          0,
				MDP:          0,
				SNRThreshold: 5,
				FAFluxFloor:  1e-10,
			},
			Modes: []*model.ObservingMode{testDetectionMode()},
			Seed:  1,
		},
	}
}

func (fx *surveyFixture) build(t *testing.T) *Survey {
	t.Helper()
	// Initialize derived orbital state the way the scenario loader does.
	for _, st := range fx.catalog.Stars() {
		fx.universe.PropagateSystem(st, 0)
	}
	s, err := NewSurvey(fx.params)
	if err != nil {
		t.Fatalf("NewSurvey: %v", err)
	}
	return s
}

func TestNewSurveyValidation(t *testing.T) {
	fx := newSurveyFixture(t, 100, 0.5)
	addTestStar(t, fx.catalog, "alpha", 0.5)

	p := fx.params
	p.Optics = nil
	if _, err := NewSurvey(p); err == nil {
		t.Fatalf("NewSurvey should fail without an optical oracle")
	}

	p = fx.params
	p.Modes = []*model.ObservingMode{{Name: "spectro", Instrument: "spectrometer"}}
	if _, err := NewSurvey(p); err == nil {
		t.Fatalf("NewSurvey should fail without a detection mode")
	}
}

func TestRunSimRecordsObservations(t *testing.T) {
	fx := newSurveyFixture(t, 100, 0.5)
	addTestStar(t, fx.catalog, "alpha", 0.5)
	addTestPlanet(t, fx.universe, 0, 1.0)
	s := fx.build(t)

	drm, err := s.RunSim(context.Background())
	if err != nil {
		t.Fatalf("RunSim: %v", err)
	}
	if len(drm) == 0 {
		t.Fatalf("expected at least one observation record")
	}

	prevArrival := -1.0
	for i, rec := range drm {
		if rec.StarIndex != 0 {
			t.Fatalf("record %d star_ind = %d, want 0", i, rec.StarIndex)
		}
		if len(rec.PlanetInds) != 1 || rec.PlanetInds[0] != 0 {
			t.Fatalf("record %d plan_inds = %v, want [0]", i, rec.PlanetInds)
		}
		if rec.ArrivalDays < prevArrival {
			t.Fatalf("record %d arrival %v before previous %v", i, rec.ArrivalDays, prevArrival)
		}
		prevArrival = rec.ArrivalDays
		if rec.IntTimeDetDays != 1 {
			t.Fatalf("record %d int_time_det = %v, want 1", i, rec.IntTimeDetDays)
		}
	}

	if got := s.clock.CurrentTimeNorm(); got > s.clock.MissionLife {
		t.Fatalf("mission overran its life: %v > %v", got, s.clock.MissionLife)
	}
	if got := s.clock.ExoplanetObsTime(); got > s.clock.ObsBudget() {
		t.Fatalf("observation budget overrun: %v > %v", got, s.clock.ObsBudget())
	}
}

func TestRunSimDeterministicObservationCount(t *testing.T) {
	fx := newSurveyFixture(t, 100, 0.5)
	addTestStar(t, fx.catalog, "alpha", 0.5)
	addTestPlanet(t, fx.universe, 0, 1.0)
	// An unreachable threshold suppresses detections, so no follow-up
	// characterization time is charged and each loop costs exactly the
	// overhead plus one day of integration.
	fx.params.Stats = &ThresholdDetection{SNRThreshold: 1e12}
	s := fx.build(t)

	drm, err := s.RunSim(context.Background())
	if err != nil {
		t.Fatalf("RunSim: %v", err)
	}
	// Budget is 50 days at one charged day per observation.
	if len(drm) != 50 {
		t.Fatalf("got %d observations, want 50", len(drm))
	}
	for _, rec := range drm {
		for _, d := range rec.Detected {
			if d == model.DetStatusDetected {
				t.Fatalf("unexpected detection with unreachable threshold")
			}
		}
	}
}

func TestRunSimStopsAtPropellantFloor(t *testing.T) {
	fx := newSurveyFixture(t, 1000, 0.9)
	addTestStar(t, fx.catalog, "alpha", 0.5)
	addTestPlanet(t, fx.universe, 0, 1.0)
	occ := NewOcculter()
	occ.SCMass = occ.DryMass + 0.001
	occ.LateralForceN = 100 // burn through the margin on the first integration
	fx.params.Occulter = occ
	s := fx.build(t)

	drm, err := s.RunSim(context.Background())
	if err != nil {
		t.Fatalf("RunSim: %v", err)
	}
	if len(drm) != 1 {
		t.Fatalf("got %d observations, want 1 before the propellant floor", len(drm))
	}
	if drm[0].Occulter == nil {
		t.Fatalf("occulter usage missing from record")
	}
	if occ.SCMass >= occ.DryMass {
		t.Fatalf("spacecraft mass %v did not cross the dry mass %v", occ.SCMass, occ.DryMass)
	}
}

func TestSeedExtendedListCollectsDetectedStars(t *testing.T) {
	fx := newSurveyFixture(t, 100, 0.5)
	addTestStar(t, fx.catalog, "alpha", 0.5)
	addTestStar(t, fx.catalog, "beta", 0.4)
	addTestPlanet(t, fx.universe, 0, 1.0)
	s := fx.build(t)

	s.drm = append(s.drm,
		&model.ObservationRecord{StarIndex: 0, Detected: []int{model.DetStatusDetected}},
		&model.ObservationRecord{StarIndex: 1, Detected: []int{model.DetStatusMissed}},
	)
	s.seedExtendedList()

	if !s.extended[0] {
		t.Fatalf("star 0 should be on the extended list")
	}
	if s.extended[1] {
		t.Fatalf("star 1 had no detection and should not be on the extended list")
	}
}
