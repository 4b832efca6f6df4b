package model

import "time"

// ObservingMode is one bandpass/instrument configuration of the optical
// system. A scenario carries at least one mode with Detection set.
type ObservingMode struct {
	Name string
	// Instrument is the instrument name, e.g. "imager" or "spectro".
	// Characterization defaults to the first mode whose instrument name
	// contains "spec".
	Instrument string

	// Detection marks the default detection mode.
	Detection bool

	// LambdaNm is the central wavelength in nanometres.
	LambdaNm float64
	// BandwidthFrac is the fractional bandwidth (delta-lambda/lambda).
	BandwidthFrac float64

	// IWAMas and OWAMas are the inner and outer working angles in
	// milliarcseconds.
	IWAMas float64
	OWAMas float64

	// SNRThreshold is the signal-to-noise required for a full or partial
	// spectrum during characterization.
	SNRThreshold float64

	// TimeMultiplier scales integration time into total charged time.
	TimeMultiplier float64
	// OverheadTime is the fixed per-observation overhead (settling plus
	// instrument overhead).
	OverheadTime time.Duration
	// IntCutoff is the longest total integration the scheduler will accept.
	IntCutoff time.Duration

	// Throughput and Contrast describe the coronagraph performance at the
	// working angles of interest.
	Throughput float64
	Contrast   float64

	// DMagLim is the limiting delta magnitude for this mode.
	DMagLim float64
}
