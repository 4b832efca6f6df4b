package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/signalsfoundry/survey-simulator/model"
)

var (
	ErrStarExists   = errors.New("star already exists")
	ErrStarNotFound = errors.New("star not found")
	ErrStarBadInput = errors.New("invalid star")
	ErrNoPlanetHost = errors.New("planet references unknown star")
)

// TargetCatalog is the in-memory store of candidate stars. Entries are
// static once added; the engine only reads them.
type TargetCatalog struct {
	stars  []*model.Star
	byName map[string]*model.Star
}

// NewTargetCatalog creates an empty catalog.
func NewTargetCatalog() *TargetCatalog {
	return &TargetCatalog{byName: make(map[string]*model.Star)}
}

// AddStar appends a star to the catalog and assigns its index. Names must
// be unique and distances positive.
func (tc *TargetCatalog) AddStar(s *model.Star) error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("nil or unnamed star: %w", ErrStarBadInput)
	}
	if s.DistPc <= 0 || s.MassSolar <= 0 {
		return fmt.Errorf("star %q needs positive distance and mass: %w", s.Name, ErrStarBadInput)
	}
	if _, exists := tc.byName[s.Name]; exists {
		return fmt.Errorf("star %q: %w", s.Name, ErrStarExists)
	}
	s.Index = len(tc.stars)
	tc.stars = append(tc.stars, s)
	tc.byName[s.Name] = s
	return nil
}

// NStars returns the catalog size.
func (tc *TargetCatalog) NStars() int { return len(tc.stars) }

// Star returns the star at the given catalog index.
func (tc *TargetCatalog) Star(ind int) (*model.Star, error) {
	if ind < 0 || ind >= len(tc.stars) {
		return nil, fmt.Errorf("index %d: %w", ind, ErrStarNotFound)
	}
	return tc.stars[ind], nil
}

// Stars returns the catalog's backing slice. Callers must not mutate it.
func (tc *TargetCatalog) Stars() []*model.Star { return tc.stars }

// Universe holds the simulated planets and their star assignment.
type Universe struct {
	planets []*model.Planet
	byStar  map[int][]*model.Planet
}

// NewUniverse creates an empty universe over the given catalog.
func NewUniverse() *Universe {
	return &Universe{byStar: make(map[int][]*model.Planet)}
}

// AddPlanet appends a planet. The host star index must be valid in the
// catalog the universe is used with; the loader enforces that.
func (u *Universe) AddPlanet(p *model.Planet) error {
	if p == nil {
		return fmt.Errorf("nil planet: %w", ErrNoPlanetHost)
	}
	if p.StarIndex < 0 {
		return fmt.Errorf("planet host index %d: %w", p.StarIndex, ErrNoPlanetHost)
	}
	p.Index = len(u.planets)
	u.planets = append(u.planets, p)
	u.byStar[p.StarIndex] = append(u.byStar[p.StarIndex], p)
	return nil
}

// NPlanets returns the universe size.
func (u *Universe) NPlanets() int { return len(u.planets) }

// Planet returns the planet at the given index.
func (u *Universe) Planet(ind int) *model.Planet {
	if ind < 0 || ind >= len(u.planets) {
		return nil
	}
	return u.planets[ind]
}

// PlanetsOf returns the planets orbiting the given star, in index order.
func (u *Universe) PlanetsOf(starInd int) []*model.Planet {
	return u.byStar[starInd]
}

// MeanSeparationAU returns the population-average apparent separation.
func (u *Universe) MeanSeparationAU() float64 {
	if len(u.planets) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range u.planets {
		sum += p.SeparationAU
	}
	return sum / float64(len(u.planets))
}

// MaxSemiMajorAxisAU is the population's largest planet semi-major axis,
// used to bound false-alarm working-angle sampling.
func (u *Universe) MaxSemiMajorAxisAU() float64 {
	max := 0.0
	for _, p := range u.planets {
		if p.SemiMajorAxisAU > max {
			max = p.SemiMajorAxisAU
		}
	}
	return max
}

// MeanMassKg returns the population-average planet mass.
func (u *Universe) MeanMassKg() float64 {
	if len(u.planets) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range u.planets {
		sum += p.MassKg
	}
	return sum / float64(len(u.planets))
}

// OrbitalPeriod returns the Keplerian period of a circular orbit of the
// given semi-major axis around the given stellar mass.
func OrbitalPeriod(aAU, starMassSolar, planetMassKg float64) float64 {
	mu := GravConst * (starMassSolar*SolarMassKg + planetMassKg)
	if mu <= 0 || aAU <= 0 {
		return 0
	}
	aM := aAU * AstronomicalUnitM
	return 2 * math.Pi * math.Sqrt(aM*aM*aM/mu)
}

// PropagateSystem advances the planets of one star to the given normalized
// mission time (seconds), updating phase, apparent separation, working
// angle, and delta magnitude.
func (u *Universe) PropagateSystem(star *model.Star, elapsedSec float64) {
	for _, p := range u.byStar[star.Index] {
		period := OrbitalPeriod(p.SemiMajorAxisAU, star.MassSolar, p.MassKg)
		if period <= 0 {
			continue
		}
		phase := p.PhaseRad + 2*math.Pi*elapsedSec/period
		phase = math.Mod(phase, 2*math.Pi)
		if phase < 0 {
			phase += 2 * math.Pi
		}
		sep := p.SemiMajorAxisAU * math.Abs(math.Sin(phase))

		p.SeparationAU = sep
		p.WorkingAngleMas = WorkingAngleMas(sep, star.DistPc)
		p.DeltaMag = lambertDeltaMag(p, phase)
	}
}

// WorkingAngleMas converts a projected separation at a distance into an
// angular separation in milliarcseconds.
func WorkingAngleMas(sepAU, distPc float64) float64 {
	if distPc <= 0 {
		return 0
	}
	return math.Atan2(sepAU*AstronomicalUnitM, distPc*ParsecM) * MasPerRad
}

// ImpliedSeparationAU inverts WorkingAngleMas: the projected separation a
// source at the given angular separation would have at the star's distance.
func ImpliedSeparationAU(waMas, distPc float64) float64 {
	if waMas <= 0 || distPc <= 0 {
		return 0
	}
	return math.Tan(waMas/MasPerRad) * distPc * ParsecM / AstronomicalUnitM
}

// lambertDeltaMag evaluates the planet-to-star delta magnitude for a
// Lambert-sphere phase function at the given orbital phase.
func lambertDeltaMag(p *model.Planet, phase float64) float64 {
	beta := math.Abs(math.Mod(phase, 2*math.Pi))
	if beta > math.Pi {
		beta = 2*math.Pi - beta
	}
	phi := (math.Sin(beta) + (math.Pi-beta)*math.Cos(beta)) / math.Pi
	if phi <= 0 {
		phi = 1e-10
	}
	rp := p.RadiusEarth * EarthRadiusM
	a := p.SemiMajorAxisAU * AstronomicalUnitM
	ratio := p.Albedo * phi * (rp / a) * (rp / a)
	if ratio <= 0 {
		ratio = 1e-30
	}
	return -2.5 * math.Log10(ratio)
}
