package core

import (
	"math"
	"time"

	"github.com/signalsfoundry/survey-simulator/model"
	"github.com/signalsfoundry/survey-simulator/timekeeping"
)

const standardGravity = 9.80665 // m/s^2

// Occulter holds the starshade spacecraft's propulsion state. Slews between
// targets burn propellant impulsively; station-keeping during an
// integration burns it continuously against the lateral disturbance force.
// SCMass decreases over the mission; the survey ends when it crosses
// DryMass.
type Occulter struct {
	// SCMass is the current wet mass in kg; DryMass is the floor.
	SCMass  float64
	DryMass float64
	// ThrustN is the slew thrust in newtons.
	ThrustN float64
	// OcculterSepKm is the telescope-starshade separation.
	OcculterSepKm float64
	// DefburnPortion is the fraction of a slew spent thrusting.
	DefburnPortion float64
	// SlewIsp and StationKeepIsp are specific impulses in seconds.
	SlewIsp        float64
	StationKeepIsp float64
	// LateralForceN is the disturbance force countered during integrations.
	LateralForceN float64
}

// NewOcculter returns a starshade with representative sizing.
func NewOcculter() *Occulter {
	return &Occulter{
		SCMass:         6000,
		DryMass:        3400,
		ThrustN:        0.45,
		OcculterSepKm:  55000,
		DefburnPortion: 0.05,
		SlewIsp:        4160,
		StationKeepIsp: 220,
		LateralForceN:  0.025,
	}
}

// slewTimeFactor returns the coefficient of the slew-time law
// t = sqrt(factor * sin(sd/2)), in seconds squared, for the current mass.
func (o *Occulter) slewTimeFactor() float64 {
	ao := o.ThrustN / o.SCMass
	denom := o.DefburnPortion/2 - o.DefburnPortion*o.DefburnPortion/4
	if ao <= 0 || denom <= 0 {
		return 0
	}
	return 2 * o.OcculterSepKm * 1000 / ao / denom
}

// slewUsage returns the delta-V and propellant mass of a slew of the given
// duration.
func (o *Occulter) slewUsage(slewTime time.Duration) (dV, massUsed float64) {
	ao := o.ThrustN / o.SCMass
	dV = ao * o.DefburnPortion * slewTime.Seconds() / 2
	massUsed = o.SCMass * (1 - math.Exp(-dV/(o.SlewIsp*standardGravity)))
	return dV, massUsed
}

// stationKeepUsage returns the delta-V and propellant mass of holding
// position against the lateral disturbance for the given integration.
func (o *Occulter) stationKeepUsage(intTime time.Duration) (dV, massUsed float64) {
	tSec := intTime.Seconds()
	dV = o.LateralForceN / o.SCMass * tSec
	massUsed = o.LateralForceN / (o.StationKeepIsp * standardGravity) * tSec
	return dV, massUsed
}

// updateOcculterMass debits the slew and the two station-keeping phases of
// one observation from the spacecraft mass and returns the ledger entry.
// Both phases use their own computed usage; the detection and
// characterization integrations are charged independently.
func (s *Survey) updateOcculterMass(slewTime, tDet, tChar time.Duration) *model.OcculterUsage {
	o := s.occulter
	usage := &model.OcculterUsage{
		SlewTimeDays: timekeeping.ToDays(slewTime),
	}

	if slewTime > 0 {
		stf := o.slewTimeFactor()
		if stf > 0 {
			tSec := slewTime.Seconds()
			sinHalf := tSec * tSec / stf
			if sinHalf > 1 {
				sinHalf = 1
			}
			usage.SlewAngleDeg = 2 * math.Asin(sinHalf) * 180 / math.Pi
		}
		dV, m := o.slewUsage(slewTime)
		usage.SlewDeltaV = dV
		usage.SlewMassUsed = m
		o.SCMass -= m
	}

	if tDet > 0 {
		dV, m := o.stationKeepUsage(tDet)
		usage.DetDeltaV = dV
		usage.DetMassUsed = m
		o.SCMass -= m
	}
	usage.DetSCMass = o.SCMass

	if tChar > 0 {
		dV, m := o.stationKeepUsage(tChar)
		usage.CharDeltaV = dV
		usage.CharMassUsed = m
		o.SCMass -= m
	}
	usage.CharSCMass = o.SCMass
	return usage
}
