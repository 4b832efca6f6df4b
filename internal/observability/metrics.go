package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SurveyCollector bundles the Prometheus metrics of a survey run. All
// recording methods are safe to call on a nil collector so the engine never
// has to branch on whether metrics were wired.
type SurveyCollector struct {
	gatherer prometheus.Gatherer

	Observations      prometheus.Counter
	Detections        prometheus.Counter
	Characterizations prometheus.Counter
	FalseAlarms       prometheus.Counter

	MissionElapsedDays prometheus.Gauge
	OcculterMassKg     prometheus.Gauge

	IntegrationTimeDays prometheus.Histogram
}

// NewSurveyCollector registers survey metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSurveyCollector(reg prometheus.Registerer) (*SurveyCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	observations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "survey_observations_total",
		Help: "Cumulative number of observations appended to the mission log.",
	}), "survey_observations_total")
	if err != nil {
		return nil, err
	}
	detections, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "survey_detections_total",
		Help: "Cumulative number of observations with at least one planet detected.",
	}), "survey_detections_total")
	if err != nil {
		return nil, err
	}
	characterizations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "survey_characterizations_total",
		Help: "Cumulative number of observations yielding a full or partial spectrum.",
	}), "survey_characterizations_total")
	if err != nil {
		return nil, err
	}
	falseAlarms, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "survey_false_alarms_total",
		Help: "Cumulative number of post-processing false alarms raised.",
	}), "survey_false_alarms_total")
	if err != nil {
		return nil, err
	}

	elapsed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "survey_mission_elapsed_days",
		Help: "Normalized mission time elapsed, in days.",
	}), "survey_mission_elapsed_days")
	if err != nil {
		return nil, err
	}
	occulterMass, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "survey_occulter_sc_mass_kg",
		Help: "Current starshade spacecraft wet mass, in kilograms.",
	}), "survey_occulter_sc_mass_kg")
	if err != nil {
		return nil, err
	}

	intTimes, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "survey_integration_time_days",
		Help:    "Detection integration times, in days.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}), "survey_integration_time_days")
	if err != nil {
		return nil, err
	}

	return &SurveyCollector{
		gatherer:            gatherer,
		Observations:        observations,
		Detections:          detections,
		Characterizations:   characterizations,
		FalseAlarms:         falseAlarms,
		MissionElapsedDays:  elapsed,
		OcculterMassKg:      occulterMass,
		IntegrationTimeDays: intTimes,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SurveyCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SurveyCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// IncObservations counts one appended mission-log record.
func (c *SurveyCollector) IncObservations() {
	if c == nil || c.Observations == nil {
		return
	}
	c.Observations.Inc()
}

// IncDetections counts one observation with a detection.
func (c *SurveyCollector) IncDetections() {
	if c == nil || c.Detections == nil {
		return
	}
	c.Detections.Inc()
}

// IncCharacterizations counts one observation with a spectrum.
func (c *SurveyCollector) IncCharacterizations() {
	if c == nil || c.Characterizations == nil {
		return
	}
	c.Characterizations.Inc()
}

// IncFalseAlarms counts one raised false alarm.
func (c *SurveyCollector) IncFalseAlarms() {
	if c == nil || c.FalseAlarms == nil {
		return
	}
	c.FalseAlarms.Inc()
}

// SetMissionElapsedDays updates the elapsed-time gauge.
func (c *SurveyCollector) SetMissionElapsedDays(days float64) {
	if c == nil || c.MissionElapsedDays == nil {
		return
	}
	c.MissionElapsedDays.Set(days)
}

// SetPropellantMass updates the starshade wet-mass gauge.
func (c *SurveyCollector) SetPropellantMass(kg float64) {
	if c == nil || c.OcculterMassKg == nil {
		return
	}
	c.OcculterMassKg.Set(kg)
}

// ObserveIntegrationTime records one detection integration time.
func (c *SurveyCollector) ObserveIntegrationTime(d time.Duration) {
	if c == nil || c.IntegrationTimeDays == nil {
		return
	}
	c.IntegrationTimeDays.Observe(d.Hours() / 24)
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
