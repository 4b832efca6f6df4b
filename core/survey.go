package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/survey-simulator/internal/logging"
	"github.com/signalsfoundry/survey-simulator/internal/observability"
	"github.com/signalsfoundry/survey-simulator/model"
	"github.com/signalsfoundry/survey-simulator/timekeeping"
)

var (
	ErrMissingCollaborator = errors.New("missing required collaborator")
	ErrNoDetectionMode     = errors.New("no observing mode has the detection flag")
)

// SurveyParams collects everything a Survey needs. Clock, Catalog,
// Universe, the five oracles, and at least one detection-flagged observing
// mode are required; Logger, Metrics, and Occulter are optional.
type SurveyParams struct {
	Clock    *timekeeping.MissionClock
	Catalog  *TargetCatalog
	Universe *Universe

	Geometry     GeometryOracle
	Optics       OpticalOracle
	Zodi         ZodiacalOracle
	Completeness CompletenessOracle
	Stats        DetectionStatsOracle

	Modes []*model.ObservingMode

	// TelescopeKeepoutDeg is the solar-exclusion half angle.
	TelescopeKeepoutDeg float64
	// NtFlux is the number of sub-intervals the executor splits an
	// integration into; each re-evaluates the time-varying brightness.
	NtFlux int

	// Occulter enables the starshade resource ledger when non-nil.
	Occulter *Occulter

	// Seed drives the injectable random source used for tie-breaking and
	// false-alarm synthesis.
	Seed int64

	Logger  logging.Logger
	Metrics *observability.SurveyCollector
}

// Survey owns all mutable mission state (clock, ledgers, mission log) and
// runs the scheduling loop. Collaborators are consulted only through the
// oracle interfaces.
type Survey struct {
	clock    *timekeeping.MissionClock
	catalog  *TargetCatalog
	universe *Universe

	geometry     GeometryOracle
	optics       OpticalOracle
	zodi         ZodiacalOracle
	completeness CompletenessOracle
	stats        DetectionStatsOracle

	modes      []*model.ObservingMode
	keepoutDeg float64
	ntFlux     int

	occulter *Occulter

	rng     *rand.Rand
	log     logging.Logger
	metrics *observability.SurveyCollector
	tracer  trace.Tracer

	ledger         *visitLedger
	fullSpectra    []int
	partialSpectra []int
	extended       map[int]bool

	drm []*model.ObservationRecord
}

// NewSurvey validates the parameters and builds a Survey positioned at
// mission start. Configuration errors are fatal here, before any simulated
// time elapses.
func NewSurvey(p SurveyParams) (*Survey, error) {
	switch {
	case p.Clock == nil:
		return nil, fmt.Errorf("mission clock: %w", ErrMissingCollaborator)
	case p.Catalog == nil:
		return nil, fmt.Errorf("target catalog: %w", ErrMissingCollaborator)
	case p.Universe == nil:
		return nil, fmt.Errorf("simulated universe: %w", ErrMissingCollaborator)
	case p.Geometry == nil:
		return nil, fmt.Errorf("geometry oracle: %w", ErrMissingCollaborator)
	case p.Optics == nil:
		return nil, fmt.Errorf("optical oracle: %w", ErrMissingCollaborator)
	case p.Zodi == nil:
		return nil, fmt.Errorf("zodiacal oracle: %w", ErrMissingCollaborator)
	case p.Completeness == nil:
		return nil, fmt.Errorf("completeness oracle: %w", ErrMissingCollaborator)
	case p.Stats == nil:
		return nil, fmt.Errorf("detection statistics oracle: %w", ErrMissingCollaborator)
	}
	if _, err := detectionMode(p.Modes); err != nil {
		return nil, err
	}
	ntFlux := p.NtFlux
	if ntFlux < 1 {
		ntFlux = 1
	}
	keepout := p.TelescopeKeepoutDeg
	if keepout <= 0 {
		keepout = 45.0
	}
	log := p.Logger
	if log == nil {
		log = logging.Noop()
	}

	return &Survey{
		clock:          p.Clock,
		catalog:        p.Catalog,
		universe:       p.Universe,
		geometry:       p.Geometry,
		optics:         p.Optics,
		zodi:           p.Zodi,
		completeness:   p.Completeness,
		stats:          p.Stats,
		modes:          p.Modes,
		keepoutDeg:     keepout,
		ntFlux:         ntFlux,
		occulter:       p.Occulter,
		rng:            rand.New(rand.NewSource(p.Seed)),
		log:            log,
		metrics:        p.Metrics,
		tracer:         otel.Tracer("core/survey"),
		ledger:         newVisitLedger(p.Catalog.NStars()),
		fullSpectra:    make([]int, p.Universe.NPlanets()),
		partialSpectra: make([]int, p.Universe.NPlanets()),
		extended:       make(map[int]bool),
	}, nil
}

// detectionMode picks the default detection mode: the first mode with the
// detection flag set.
func detectionMode(modes []*model.ObservingMode) (*model.ObservingMode, error) {
	for _, m := range modes {
		if m != nil && m.Detection {
			return m, nil
		}
	}
	return nil, ErrNoDetectionMode
}

// characterizationMode picks the first spectroscopy mode, falling back to
// the first mode when the scenario has none.
func characterizationMode(modes []*model.ObservingMode) *model.ObservingMode {
	for _, m := range modes {
		if m != nil && strings.Contains(strings.ToLower(m.Instrument), "spec") {
			return m
		}
	}
	return modes[0]
}

// DRM returns the mission log accumulated so far.
func (s *Survey) DRM() []*model.ObservationRecord { return s.drm }

// Clock exposes the mission clock, mainly for reporting.
func (s *Survey) Clock() *timekeeping.MissionClock { return s.clock }

// RunSim performs the survey simulation: it repeatedly selects the next
// target, runs detection then characterization, and appends a record to
// the mission log until the time budget is exhausted or, for occulter
// missions, the propellant floor is breached.
func (s *Survey) RunSim(ctx context.Context) ([]*model.ObservationRecord, error) {
	detMode, err := detectionMode(s.modes)
	if err != nil {
		return nil, err
	}
	charMode := characterizationMode(s.modes)

	s.log.Info(ctx, "survey starting",
		logging.Int("stars", s.catalog.NStars()),
		logging.Int("planets", s.universe.NPlanets()),
		logging.String("detection_mode", detMode.Name),
		logging.String("characterization_mode", charMode.Name),
	)

	oldSInd := -1
	for !s.clock.MissionIsOver() {
		sel, ok := s.nextTarget(oldSInd, detMode)
		if !ok {
			break
		}
		oldSInd = sel.starIndex

		// Once nominal mission life is exceeded, seed the extended list
		// with every star that ever yielded a detection.
		if s.clock.CurrentTimeNorm() > s.clock.MissionLife && len(s.extended) == 0 {
			s.seedExtendedList()
		}

		star := s.catalog.Stars()[sel.starIndex]
		obsCtx, span := s.tracer.Start(ctx, "observation",
			trace.WithAttributes(
				attribute.Int("star_ind", sel.starIndex),
				attribute.String("star", star.Name),
				attribute.Float64("arrival_days", timekeeping.ToDays(s.clock.CurrentTimeNorm())),
			))

		rec := &model.ObservationRecord{
			StarIndex:   sel.starIndex,
			ArrivalDays: timekeeping.ToDays(s.clock.CurrentTimeNorm()),
		}
		planets := s.universe.PlanetsOf(sel.starIndex)
		for _, p := range planets {
			rec.PlanetInds = append(rec.PlanetInds, p.Index)
		}

		det := s.observationDetection(obsCtx, sel.starIndex, sel.intTime, detMode)
		rec.IntTimeDetDays = timekeeping.ToDays(sel.intTime)
		rec.Detected = det.statuses
		rec.DetSNR = det.snr
		for _, p := range planets {
			rec.DetExozodi = append(rec.DetExozodi, p.ExozodiBrightness)
			rec.DetDeltaMag = append(rec.DetDeltaMag, p.DeltaMag)
			rec.DetWAMas = append(rec.DetWAMas, p.WorkingAngleMas)
		}
		if det.falseAlarm != nil {
			rec.FalseAlarm = &model.FalseAlarmEntry{
				ExozodiBrightness: det.falseAlarm.ExozodiBrightness,
				DeltaMag:          det.falseAlarm.DeltaMag,
				WorkingAngleMas:   det.falseAlarm.WorkingAngleMas,
			}
		}

		char := s.observationCharacterization(obsCtx, sel.starIndex, charMode)
		rec.IntTimeCharDays = timekeeping.ToDays(char.intTime)
		rec.Characterized = char.statuses
		rec.CharSNR = char.snr
		rec.CharModeName = charMode.Name
		for _, p := range planets {
			rec.CharExozodi = append(rec.CharExozodi, p.ExozodiBrightness)
			rec.CharDeltaMag = append(rec.CharDeltaMag, p.DeltaMag)
			rec.CharWAMas = append(rec.CharWAMas, p.WorkingAngleMas)
		}

		if s.occulter != nil {
			rec.Occulter = s.updateOcculterMass(sel.slewTime, sel.intTime, char.intTime)
			s.metrics.SetPropellantMass(s.occulter.SCMass)
		}

		s.drm = append(s.drm, rec)
		s.metrics.IncObservations()
		s.metrics.SetMissionElapsedDays(timekeeping.ToDays(s.clock.CurrentTimeNorm()))
		s.metrics.ObserveIntegrationTime(sel.intTime)
		span.End()

		if s.occulter != nil && s.occulter.SCMass < s.occulter.DryMass {
			s.log.Info(ctx, "propellant exhausted, ending mission",
				logging.Float64("sc_mass_kg", s.occulter.SCMass),
				logging.Float64("dry_mass_kg", s.occulter.DryMass),
			)
			break
		}
	}

	s.log.Info(ctx, "survey complete",
		logging.Int("observations", len(s.drm)),
		logging.Float64("elapsed_days", timekeeping.ToDays(s.clock.CurrentTimeNorm())),
	)
	return s.drm, nil
}

// seedExtendedList scans the mission log for stars with at least one
// historical detection; those remain eligible during bonus time.
func (s *Survey) seedExtendedList() {
	for _, rec := range s.drm {
		for _, d := range rec.Detected {
			if d == model.DetStatusDetected {
				s.extended[rec.StarIndex] = true
				break
			}
		}
	}
}
