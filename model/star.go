package model

// MotionSource indicates how the observatory's motion is determined.
type MotionSource int

const (
	MotionSourceUnknown    MotionSource = iota
	MotionSourceSpacetrack              // TLE-based orbit propagation
	MotionSourceHeliocentric
)

// Star is a single target-catalog entry. Catalog attributes are static:
// they are supplied by the catalog loader and never mutated by the engine.
type Star struct {
	// Index is the star's position in the catalog. It is assigned by the
	// catalog on insertion and used as the stable identifier everywhere
	// in the engine (visit ledger, revisit queue, DRM records).
	Index int
	Name  string

	// RightAscensionDeg and DeclinationDeg locate the star on the sky.
	RightAscensionDeg float64
	DeclinationDeg    float64

	// DistPc is the distance to the star in parsecs.
	DistPc float64
	// MassSolar is the stellar mass in solar masses.
	MassSolar float64
	// VMag is the apparent V-band magnitude.
	VMag float64

	// Comp0 is the baseline single-visit completeness computed by the
	// completeness collaborator at catalog-build time.
	Comp0 float64
}
