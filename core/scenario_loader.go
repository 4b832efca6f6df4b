package core

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/signalsfoundry/survey-simulator/model"
	"github.com/signalsfoundry/survey-simulator/timekeeping"
)

// Scenario is everything a survey run needs, assembled from one JSON file.
// The loader builds the clock, catalog, universe, modes, observatory, and
// the optional occulter; the caller supplies the remaining oracles (or
// takes the defaults) when wiring SurveyParams.
type Scenario struct {
	Clock    *timekeeping.MissionClock
	Catalog  *TargetCatalog
	Universe *Universe
	Modes    []*model.ObservingMode
	Geometry GeometryOracle
	Occulter *Occulter

	TelescopeKeepoutDeg float64
	NtFlux              int
	Seed                int64
}

// internal JSON shapes - kept unexported so we're free to evolve them.
type scenarioJSON struct {
	Mission     missionJSON      `json:"mission"`
	Observatory *observatoryJSON `json:"observatory"`
	Occulter    *occulterJSON    `json:"occulter"`
	Modes       []modeJSON       `json:"observing_modes"`
	Stars       []starJSON       `json:"stars"`
	Planets     []planetJSON     `json:"planets"`
}

type missionJSON struct {
	// Start is the mission start epoch, RFC 3339.
	Start string `json:"start"`
	// LifeDays and PortionExoplanet follow the usual mission-sizing
	// convention of fractional days.
	LifeDays         float64     `json:"life_days"`
	PortionExoplanet float64     `json:"portion_exoplanet"`
	DtAllocDays      float64     `json:"dt_alloc_days"`
	ObservingBlocks  []blockJSON `json:"observing_blocks"`
	// AutoBlockDays, when positive, generates the block schedule from a
	// fixed block duration instead of an explicit list.
	AutoBlockDays       float64 `json:"auto_block_days"`
	TelescopeKeepoutDeg float64 `json:"telescope_keepout_deg"`
	NtFlux              int     `json:"nt_flux"`
	Seed                int64   `json:"seed"`
}

type blockJSON struct {
	StartDays float64 `json:"start_days"`
	EndDays   float64 `json:"end_days"`
}

type observatoryJSON struct {
	Kind string `json:"kind"` // "heliocentric" | "earth-orbit"
	// RadiusAU applies to heliocentric observatories.
	RadiusAU float64 `json:"radius_au"`
	// TLE1/TLE2 apply to earth-orbit observatories.
	TLE1 string `json:"tle1"`
	TLE2 string `json:"tle2"`
}

type occulterJSON struct {
	SCMassKg       float64 `json:"sc_mass_kg"`
	DryMassKg      float64 `json:"dry_mass_kg"`
	ThrustN        float64 `json:"thrust_n"`
	OcculterSepKm  float64 `json:"occulter_sep_km"`
	DefburnPortion float64 `json:"defburn_portion"`
	SlewIsp        float64 `json:"slew_isp"`
	StationKeepIsp float64 `json:"station_keep_isp"`
	LateralForceN  float64 `json:"lateral_force_n"`
}

type modeJSON struct {
	Name           string  `json:"name"`
	Instrument     string  `json:"instrument"`
	Detection      bool    `json:"detection"`
	LambdaNm       float64 `json:"lambda_nm"`
	BandwidthFrac  float64 `json:"bandwidth"`
	IWAMas         float64 `json:"iwa_mas"`
	OWAMas         float64 `json:"owa_mas"`
	SNRThreshold   float64 `json:"snr"`
	TimeMultiplier float64 `json:"time_multiplier"`
	OverheadDays   float64 `json:"overhead_days"`
	IntCutoffDays  float64 `json:"int_cutoff_days"`
	Throughput     float64 `json:"throughput"`
	Contrast       float64 `json:"contrast"`
	DMagLim        float64 `json:"dmag_lim"`
}

type starJSON struct {
	Name      string  `json:"name"`
	RADeg     float64 `json:"ra_deg"`
	DecDeg    float64 `json:"dec_deg"`
	DistPc    float64 `json:"dist_pc"`
	MassSolar float64 `json:"mass_solar"`
	VMag      float64 `json:"vmag"`
	Comp0     float64 `json:"comp0"`
}

type planetJSON struct {
	Star            string  `json:"star"`
	SemiMajorAxisAU float64 `json:"a_au"`
	MassKg          float64 `json:"mass_kg"`
	RadiusEarth     float64 `json:"radius_earth"`
	Albedo          float64 `json:"albedo"`
	PhaseDeg        float64 `json:"phase_deg"`
	// Exozodi defaults to the zodiacal model's baseline when omitted.
	Exozodi float64 `json:"fez"`
}

// LoadScenario reads a JSON scenario from r and assembles the simulation
// inputs. It fails on structural errors and on the same validation the
// direct constructors apply (unknown host stars, bad observing blocks);
// astrophysical plausibility is the scenario author's problem.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	epoch, err := time.Parse(time.RFC3339, payload.Mission.Start)
	if err != nil {
		return nil, fmt.Errorf("LoadScenario: mission start: %w", err)
	}
	if payload.Mission.LifeDays <= 0 {
		return nil, fmt.Errorf("LoadScenario: mission life must be positive, got %g days", payload.Mission.LifeDays)
	}
	portion := payload.Mission.PortionExoplanet
	if portion <= 0 || portion > 1 {
		return nil, fmt.Errorf("LoadScenario: exoplanet portion must be in (0,1], got %g", portion)
	}

	clock := timekeeping.NewMissionClock(epoch, timekeeping.Days(payload.Mission.LifeDays), portion)
	if payload.Mission.DtAllocDays > 0 {
		clock.DtAlloc = timekeeping.Days(payload.Mission.DtAllocDays)
	}
	switch {
	case len(payload.Mission.ObservingBlocks) > 0:
		blocks := make([]timekeeping.ObservingBlock, 0, len(payload.Mission.ObservingBlocks))
		for _, b := range payload.Mission.ObservingBlocks {
			blocks = append(blocks, timekeeping.ObservingBlock{
				Start: timekeeping.Days(b.StartDays),
				End:   timekeeping.Days(b.EndDays),
			})
		}
		if err := clock.InitObservingBlocks(blocks); err != nil {
			return nil, fmt.Errorf("LoadScenario: observing blocks: %w", err)
		}
	case payload.Mission.AutoBlockDays > 0:
		if err := clock.AutoObservingBlocks(timekeeping.Days(payload.Mission.AutoBlockDays)); err != nil {
			return nil, fmt.Errorf("LoadScenario: observing blocks: %w", err)
		}
	}

	catalog := NewTargetCatalog()
	for _, js := range payload.Stars {
		if err := catalog.AddStar(&model.Star{
			Name:              js.Name,
			RightAscensionDeg: js.RADeg,
			DeclinationDeg:    js.DecDeg,
			DistPc:            js.DistPc,
			MassSolar:         js.MassSolar,
			VMag:              js.VMag,
			Comp0:             js.Comp0,
		}); err != nil {
			return nil, fmt.Errorf("LoadScenario: %w", err)
		}
	}

	universe := NewUniverse()
	for _, js := range payload.Planets {
		host, ok := starByName(catalog, js.Star)
		if !ok {
			return nil, fmt.Errorf("LoadScenario: planet of %q: %w", js.Star, ErrNoPlanetHost)
		}
		fEZ := js.Exozodi
		if fEZ <= 0 {
			fEZ = NewUniformZodiacalLight().ExozodiBaseline()
		}
		if err := universe.AddPlanet(&model.Planet{
			StarIndex:         host.Index,
			SemiMajorAxisAU:   js.SemiMajorAxisAU,
			MassKg:            js.MassKg,
			RadiusEarth:       js.RadiusEarth,
			Albedo:            js.Albedo,
			PhaseRad:          js.PhaseDeg * math.Pi / 180,
			ExozodiBrightness: fEZ,
		}); err != nil {
			return nil, fmt.Errorf("LoadScenario: %w", err)
		}
	}
	// Initialize the derived orbital state at mission start.
	for _, st := range catalog.Stars() {
		universe.PropagateSystem(st, 0)
	}

	modes := make([]*model.ObservingMode, 0, len(payload.Modes))
	for _, js := range payload.Modes {
		m := &model.ObservingMode{
			Name:           js.Name,
			Instrument:     js.Instrument,
			Detection:      js.Detection,
			LambdaNm:       js.LambdaNm,
			BandwidthFrac:  js.BandwidthFrac,
			IWAMas:         js.IWAMas,
			OWAMas:         js.OWAMas,
			SNRThreshold:   js.SNRThreshold,
			TimeMultiplier: js.TimeMultiplier,
			OverheadTime:   timekeeping.Days(js.OverheadDays),
			IntCutoff:      timekeeping.Days(js.IntCutoffDays),
			Throughput:     js.Throughput,
			Contrast:       js.Contrast,
			DMagLim:        js.DMagLim,
		}
		if m.TimeMultiplier < 1 {
			m.TimeMultiplier = 1
		}
		if m.IntCutoff <= 0 {
			m.IntCutoff = clock.MissionLife
		}
		modes = append(modes, m)
	}

	geom := observatoryFromJSON(payload.Observatory, epoch)

	var occ *Occulter
	if payload.Occulter != nil {
		occ = &Occulter{
			SCMass:         payload.Occulter.SCMassKg,
			DryMass:        payload.Occulter.DryMassKg,
			ThrustN:        payload.Occulter.ThrustN,
			OcculterSepKm:  payload.Occulter.OcculterSepKm,
			DefburnPortion: payload.Occulter.DefburnPortion,
			SlewIsp:        payload.Occulter.SlewIsp,
			StationKeepIsp: payload.Occulter.StationKeepIsp,
			LateralForceN:  payload.Occulter.LateralForceN,
		}
	}

	return &Scenario{
		Clock:               clock,
		Catalog:             catalog,
		Universe:            universe,
		Modes:               modes,
		Geometry:            geom,
		Occulter:            occ,
		TelescopeKeepoutDeg: payload.Mission.TelescopeKeepoutDeg,
		NtFlux:              payload.Mission.NtFlux,
		Seed:                payload.Mission.Seed,
	}, nil
}

// observatoryFromJSON maps the JSON "kind" string to a GeometryOracle.
// Empty and unknown kinds default to a 1 AU heliocentric orbit.
func observatoryFromJSON(js *observatoryJSON, epoch time.Time) GeometryOracle {
	if js == nil {
		return NewHeliocentricObservatory(epoch, 1.0)
	}
	switch strings.ToLower(strings.TrimSpace(js.Kind)) {
	case "earth-orbit":
		return NewEarthOrbitObservatory(epoch, js.TLE1, js.TLE2)
	case "heliocentric", "":
		return NewHeliocentricObservatory(epoch, js.RadiusAU)
	default:
		return NewHeliocentricObservatory(epoch, 1.0)
	}
}

func starByName(tc *TargetCatalog, name string) (*model.Star, bool) {
	s, ok := tc.byName[name]
	return s, ok
}
