package model

// Planet is one simulated planet. The orbital phase quantities (working
// angle, apparent separation, delta magnitude) are time-varying and are
// advanced by the universe propagator; everything else is fixed at
// universe-generation time.
type Planet struct {
	// Index is the planet's position in the universe's planet list.
	Index int
	// StarIndex is the catalog index of the host star.
	StarIndex int

	// SemiMajorAxisAU is the orbit semi-major axis in AU.
	SemiMajorAxisAU float64
	// MassKg is the planet mass in kilograms.
	MassKg float64
	// Radius and albedo drive the phase-dependent delta magnitude.
	RadiusEarth float64
	Albedo      float64

	// PhaseRad is the current orbital phase angle in radians.
	PhaseRad float64

	// SeparationAU is the current apparent (projected) star-planet
	// separation in AU.
	SeparationAU float64
	// WorkingAngleMas is the current angular star-planet separation in
	// milliarcseconds.
	WorkingAngleMas float64
	// DeltaMag is the current planet-to-star delta magnitude.
	DeltaMag float64
	// ExozodiBrightness is the exozodiacal surface brightness toward this
	// planet, in 1/arcsec^2.
	ExozodiBrightness float64
}
