package core

import "math"

// Astronomical constants used across the survey engine (SI unless noted).
const (
	AstronomicalUnitM = 1.495978707e11
	ParsecM           = 3.0856775814913673e16
	SolarMassKg       = 1.98892e30
	EarthRadiusM      = 6.371e6
	GravConst         = 6.674e-11

	MasPerRad = 180.0 / math.Pi * 3600.0 * 1000.0
)

// Vec3 is a heliocentric position or direction vector. Positions are in AU;
// directions are unit vectors.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Scale returns v scaled by k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Unit returns the normalised vector. The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// AngularSeparationRad returns the angle between two directions in radians.
// Degenerate (zero) inputs yield zero separation.
func AngularSeparationRad(a, b Vec3) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	cos := a.Dot(b) / (na * nb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// DirectionFromRADec converts equatorial coordinates in degrees into a unit
// direction vector.
func DirectionFromRADec(raDeg, decDeg float64) Vec3 {
	ra := raDeg * math.Pi / 180.0
	dec := decDeg * math.Pi / 180.0
	return Vec3{
		X: math.Cos(dec) * math.Cos(ra),
		Y: math.Cos(dec) * math.Sin(ra),
		Z: math.Sin(dec),
	}
}
