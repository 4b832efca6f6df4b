package model

// Detection status codes stored per planet in an ObservationRecord.
const (
	DetStatusBelowIWA = -1
	DetStatusAboveOWA = -2
	DetStatusMissed   = 0
	DetStatusDetected = 1
)

// Characterization status codes stored per planet in an ObservationRecord.
const (
	CharStatusNone    = 0
	CharStatusPartial = -1
	CharStatusFull    = 1
)

// OcculterUsage captures the propellant bookkeeping for one observation of
// a starshade mission. All masses are kilograms, delta-Vs metres per second.
type OcculterUsage struct {
	SlewTimeDays float64 `json:"slew_time"`
	SlewAngleDeg float64 `json:"slew_angle"`
	SlewDeltaV   float64 `json:"slew_dV"`
	SlewMassUsed float64 `json:"slew_mass_used"`
	DetDeltaV    float64 `json:"det_dV"`
	DetMassUsed  float64 `json:"det_mass_used"`
	DetSCMass    float64 `json:"det_scMass"`
	CharDeltaV   float64 `json:"char_dV"`
	CharMassUsed float64 `json:"char_mass_used"`
	CharSCMass   float64 `json:"char_scMass"`
}

// FalseAlarmEntry holds the synthesized parameters of a false positive.
type FalseAlarmEntry struct {
	ExozodiBrightness float64 `json:"FA_fEZ"`
	DeltaMag          float64 `json:"FA_dMag"`
	WorkingAngleMas   float64 `json:"FA_WA"`
}

// ObservationRecord is one entry of the mission log (the DRM). Records are
// immutable once appended; the log is the sole output of a survey run.
type ObservationRecord struct {
	StarIndex   int     `json:"star_ind"`
	ArrivalDays float64 `json:"arrival_time"`
	PlanetInds  []int   `json:"plan_inds"`

	IntTimeDetDays float64   `json:"int_time_det"`
	Detected       []int     `json:"plan_detected"`
	DetExozodi     []float64 `json:"plan_det_fEZ"`
	DetDeltaMag    []float64 `json:"plan_det_dMag"`
	DetWAMas       []float64 `json:"plan_det_WA"`
	DetSNR         []float64 `json:"SNR_det"`

	FalseAlarm *FalseAlarmEntry `json:"false_alarm,omitempty"`

	IntTimeCharDays float64   `json:"int_time_char"`
	Characterized   []int     `json:"plan_characterized"`
	CharExozodi     []float64 `json:"plan_char_fEZ"`
	CharDeltaMag    []float64 `json:"plan_char_dMag"`
	CharWAMas       []float64 `json:"plan_char_WA"`
	CharSNR         []float64 `json:"SNR_char"`
	CharModeName    string    `json:"char_mode"`

	Occulter *OcculterUsage `json:"occulter,omitempty"`
}
