package core

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/survey-simulator/model"
)

// Observatory is the default GeometryOracle. It models a telescope on
// either a heliocentric circular orbit or an Earth orbit propagated with
// SGP4 from a TLE, and enforces a solar-exclusion keepout cone.
type Observatory struct {
	// Epoch anchors the orbital phase of the heliocentric orbit.
	Epoch time.Time
	// OrbitRadiusAU is the heliocentric orbit radius (1.0 for an
	// Earth-trailing or Earth-bound observatory).
	OrbitRadiusAU float64

	motionSource model.MotionSource
	sat          satellite.Satellite
}

// NewHeliocentricObservatory models a telescope on a circular orbit of the
// given radius around the Sun.
func NewHeliocentricObservatory(epoch time.Time, radiusAU float64) *Observatory {
	if radiusAU <= 0 {
		radiusAU = 1.0
	}
	return &Observatory{
		Epoch:         epoch,
		OrbitRadiusAU: radiusAU,
		motionSource:  model.MotionSourceHeliocentric,
	}
}

// NewEarthOrbitObservatory models a telescope in Earth orbit, propagated
// with SGP4 from the provided TLE. The heliocentric position is the sum of
// Earth's circular orbit and the propagated geocentric position.
func NewEarthOrbitObservatory(epoch time.Time, tle1, tle2 string) *Observatory {
	sat := satellite.TLEToSat(tle1, tle2, satellite.GravityWGS72)
	return &Observatory{
		Epoch:         epoch,
		OrbitRadiusAU: 1.0,
		motionSource:  model.MotionSourceSpacetrack,
		sat:           sat,
	}
}

// siderealYear is Earth's orbital period.
var siderealYear = time.Duration(365.25636 * 24 * float64(time.Hour))

// earthPosition returns Earth's heliocentric position on a circular 1 AU
// orbit in the ecliptic plane.
func (o *Observatory) earthPosition(t time.Time) Vec3 {
	elapsed := t.Sub(o.Epoch)
	theta := 2 * math.Pi * float64(elapsed) / float64(siderealYear)
	return Vec3{X: math.Cos(theta), Y: math.Sin(theta)}.Scale(o.OrbitRadiusAU)
}

// Orbit implements GeometryOracle.
func (o *Observatory) Orbit(t time.Time) Vec3 {
	if o.motionSource != model.MotionSourceSpacetrack {
		return o.earthPosition(t)
	}
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	posECI, _ := satellite.Propagate(o.sat, year, int(month), day, hour, min, sec)
	// go-satellite works in kilometres; the survey geometry is in AU.
	const kmToAU = 1000.0 / AstronomicalUnitM
	geo := Vec3{X: posECI.X, Y: posECI.Y, Z: posECI.Z}.Scale(kmToAU)
	return o.earthPosition(t).Add(geo)
}

// StarDirection implements GeometryOracle. Catalog stars are far enough
// that the pointing vector is independent of the spacecraft position.
func (o *Observatory) StarDirection(s *model.Star, t time.Time) Vec3 {
	return DirectionFromRADec(s.RightAscensionDeg, s.DeclinationDeg)
}

// Keepout implements GeometryOracle: a star is observable when its pointing
// direction stays outside the solar exclusion cone of koAngleDeg.
func (o *Observatory) Keepout(stars []*model.Star, t time.Time, rSC Vec3, koAngleDeg float64) []bool {
	ok := make([]bool, len(stars))
	sunDir := rSC.Scale(-1).Unit()
	koRad := koAngleDeg * math.Pi / 180.0
	for i, s := range stars {
		if s == nil {
			continue
		}
		sep := AngularSeparationRad(o.StarDirection(s, t), sunDir)
		ok[i] = sep > koRad
	}
	return ok
}
