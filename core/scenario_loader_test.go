package core

import (
	"strings"
	"testing"

	"github.com/signalsfoundry/survey-simulator/timekeeping"
)

const testScenarioJSON = `{
  "mission": {
    "start": "2030-01-01T00:00:00Z",
    "life_days": 365,
    "portion_exoplanet": 0.2,
    "auto_block_days": 10,
    "telescope_keepout_deg": 50,
    "nt_flux": 4,
    "seed": 42
  },
  "observatory": {"kind": "heliocentric", "radius_au": 1.0},
  "occulter": {
    "sc_mass_kg": 6000,
    "dry_mass_kg": 3400,
    "thrust_n": 0.45,
    "occulter_sep_km": 55000,
    "defburn_portion": 0.05,
    "slew_isp": 4160,
    "station_keep_isp": 220,
    "lateral_force_n": 0.025
  },
  "observing_modes": [
    {
      "name": "imaging-550",
      "instrument": "imager",
      "detection": true,
      "lambda_nm": 550,
      "bandwidth": 0.2,
      "iwa_mas": 10,
      "owa_mas": 1000,
      "snr": 5,
      "time_multiplier": 1.1,
      "overhead_days": 0.2,
      "int_cutoff_days": 15,
      "throughput": 0.3,
      "contrast": 1e-10,
      "dmag_lim": 25
    },
    {
      "name": "spectro-660",
      "instrument": "spectrometer",
      "lambda_nm": 660,
      "bandwidth": 0.18,
      "iwa_mas": 12,
      "owa_mas": 900,
      "snr": 10,
      "throughput": 0.2,
      "contrast": 1e-10,
      "dmag_lim": 24
    }
  ],
  "stars": [
    {"name": "alpha", "ra_deg": 0, "dec_deg": 0, "dist_pc": 10, "mass_solar": 1, "vmag": 5, "comp0": 0.4},
    {"name": "beta", "ra_deg": 45, "dec_deg": 30, "dist_pc": 8, "mass_solar": 0.9, "vmag": 6, "comp0": 0.3}
  ],
  "planets": [
    {"star": "alpha", "a_au": 1.0, "mass_kg": 5.97e24, "radius_earth": 1, "albedo": 0.3, "phase_deg": 90},
    {"star": "beta", "a_au": 2.5, "mass_kg": 1.2e25, "radius_earth": 1.8, "albedo": 0.25, "phase_deg": 45, "fez": 5e-9}
  ]
}`

func TestLoadScenario(t *testing.T) {
	scn, err := LoadScenario(strings.NewReader(testScenarioJSON))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}

	if scn.Catalog.NStars() != 2 {
		t.Fatalf("NStars = %d, want 2", scn.Catalog.NStars())
	}
	if scn.Universe.NPlanets() != 2 {
		t.Fatalf("NPlanets = %d, want 2", scn.Universe.NPlanets())
	}
	if scn.Clock.MissionLife != timekeeping.Days(365) {
		t.Fatalf("MissionLife = %v, want 365 days", scn.Clock.MissionLife)
	}
	if scn.TelescopeKeepoutDeg != 50 || scn.NtFlux != 4 || scn.Seed != 42 {
		t.Fatalf("mission knobs not plumbed: %+v", scn)
	}

	// auto_block_days 10 at portion 0.2 spaces blocks 50 days apart.
	blocks := scn.Clock.Blocks()
	if len(blocks) < 2 {
		t.Fatalf("expected a generated block schedule, got %d blocks", len(blocks))
	}
	if blocks[1].Start != timekeeping.Days(50) {
		t.Fatalf("second block starts at %v, want day 50", blocks[1].Start)
	}

	if len(scn.Modes) != 2 {
		t.Fatalf("modes = %d, want 2", len(scn.Modes))
	}
	det := scn.Modes[0]
	if !det.Detection || det.IntCutoff != timekeeping.Days(15) || det.OverheadTime != timekeeping.Days(0.2) {
		t.Fatalf("detection mode not plumbed: %+v", det)
	}
	spec := scn.Modes[1]
	if spec.TimeMultiplier != 1 {
		t.Fatalf("omitted time multiplier should default to 1, got %v", spec.TimeMultiplier)
	}
	if spec.IntCutoff != scn.Clock.MissionLife {
		t.Fatalf("omitted cutoff should default to the mission life, got %v", spec.IntCutoff)
	}

	// Derived orbital state must be initialized at mission start.
	p0 := scn.Universe.Planet(0)
	if p0.WorkingAngleMas <= 0 || p0.DeltaMag <= 0 {
		t.Fatalf("planet state not initialized: %+v", p0)
	}
	if p0.ExozodiBrightness <= 0 {
		t.Fatalf("omitted fez should take the zodi baseline, got %v", p0.ExozodiBrightness)
	}
	if scn.Universe.Planet(1).ExozodiBrightness != 5e-9 {
		t.Fatalf("explicit fez not honored")
	}

	if scn.Occulter == nil || scn.Occulter.SCMass != 6000 || scn.Occulter.DryMass != 3400 {
		t.Fatalf("occulter not plumbed: %+v", scn.Occulter)
	}

	// The loaded pieces must wire straight into a survey.
	if _, err := NewSurvey(SurveyParams{
		Clock:        scn.Clock,
		Catalog:      scn.Catalog,
		Universe:     scn.Universe,
		Geometry:     scn.Geometry,
		Optics:       NewBasicOpticalSystem(),
		Zodi:         NewUniformZodiacalLight(),
		Completeness: NewDecayCompleteness(),
		Stats:        NewThresholdDetection(),
		Modes:        scn.Modes,
		Occulter:     scn.Occulter,
		Seed:         scn.Seed,
	}); err != nil {
		t.Fatalf("NewSurvey from loaded scenario: %v", err)
	}
}

func TestLoadScenarioRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"malformed json":  `{"mission":`,
		"bad start epoch": `{"mission": {"start": "yesterday", "life_days": 10, "portion_exoplanet": 0.5}}`,
		"zero life":       `{"mission": {"start": "2030-01-01T00:00:00Z", "life_days": 0, "portion_exoplanet": 0.5}}`,
		"bad portion":     `{"mission": {"start": "2030-01-01T00:00:00Z", "life_days": 10, "portion_exoplanet": 1.5}}`,
		"unknown host": `{
			"mission": {"start": "2030-01-01T00:00:00Z", "life_days": 10, "portion_exoplanet": 0.5},
			"planets": [{"star": "ghost", "a_au": 1}]
		}`,
	}
	for name, js := range cases {
		if _, err := LoadScenario(strings.NewReader(js)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestLoadScenarioExplicitBlocks(t *testing.T) {
	js := `{
		"mission": {
			"start": "2030-01-01T00:00:00Z",
			"life_days": 100,
			"portion_exoplanet": 0.5,
			"observing_blocks": [
				{"start_days": 0, "end_days": 20},
				{"start_days": 40, "end_days": 60}
			]
		},
		"observing_modes": [{"name": "det", "instrument": "imager", "detection": true}]
	}`
	scn, err := LoadScenario(strings.NewReader(js))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	blocks := scn.Clock.Blocks()
	if len(blocks) != 2 || blocks[1].End != timekeeping.Days(60) {
		t.Fatalf("explicit blocks not honored: %+v", blocks)
	}
}
