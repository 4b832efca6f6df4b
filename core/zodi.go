package core

import "github.com/signalsfoundry/survey-simulator/model"

// UniformZodiacalLight is the default ZodiacalOracle: a constant local-zodi
// brightness scaled by the inverse square of the observatory's heliocentric
// distance, and a fixed exozodi baseline.
type UniformZodiacalLight struct {
	// FZ0 is the local-zodi surface brightness at 1 AU, in 1/arcsec^2.
	FZ0 float64
	// FEZ0 is the nominal exozodi surface brightness, in 1/arcsec^2.
	FEZ0 float64
}

// NewUniformZodiacalLight returns the oracle with canonical values.
func NewUniformZodiacalLight() *UniformZodiacalLight {
	return &UniformZodiacalLight{FZ0: 1e-8, FEZ0: 1e-9}
}

// LocalZodi implements ZodiacalOracle.
func (z *UniformZodiacalLight) LocalZodi(s *model.Star, lambdaNm float64, rSC Vec3) float64 {
	r := rSC.Norm()
	if r <= 0 {
		return z.FZ0
	}
	return z.FZ0 / (r * r)
}

// ExozodiBaseline implements ZodiacalOracle.
func (z *UniformZodiacalLight) ExozodiBaseline() float64 { return z.FEZ0 }
