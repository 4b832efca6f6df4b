package timekeeping

import (
	"errors"
	"fmt"
	"time"
)

// Day is one mission day. Scenario files express durations in (fractional)
// days; helpers below convert at the boundary.
const Day = 24 * time.Hour

// Days converts a fractional day count into a Duration.
func Days(d float64) time.Duration {
	return time.Duration(d * float64(Day))
}

// ToDays converts a Duration into fractional days.
func ToDays(d time.Duration) float64 {
	return float64(d) / float64(Day)
}

var (
	ErrNoBlocks        = errors.New("no observing blocks defined")
	ErrBlockOrder      = errors.New("observing blocks must be ordered and non-overlapping")
	ErrBlockDegenerate = errors.New("observing block end must be after start")
)

// ObservingBlock is one window of mission-normalized time during which
// scheduling may occur.
type ObservingBlock struct {
	Start time.Duration
	End   time.Duration
}

// MissionClock tracks absolute and normalized elapsed mission time, the
// exoplanet observation sub-budget, and the partition of the mission into
// observing blocks. It is the only component allowed to mutate time state;
// everything else goes through AllocateTime and AdvanceToNextObservingBlock.
type MissionClock struct {
	// MissionStart anchors normalized time to the calendar.
	MissionStart time.Time
	// MissionLife is the ceiling on normalized elapsed time.
	MissionLife time.Duration
	// MissionPortion is the fraction of MissionLife reservable for
	// exoplanet observation.
	MissionPortion float64
	// DtAlloc is the idle charge applied when no target is observable.
	// It must be strictly positive or the scheduler retry loop could spin.
	DtAlloc time.Duration

	currentTimeAbs   time.Time
	currentTimeNorm  time.Duration
	exoplanetObsTime time.Duration

	blocks   []ObservingBlock
	obNumber int
}

// NewMissionClock constructs a clock positioned at mission start with a
// single observing block spanning the whole mission life. Callers that want
// a segmented schedule follow up with InitObservingBlocks or
// AutoObservingBlocks.
func NewMissionClock(start time.Time, life time.Duration, portion float64) *MissionClock {
	return &MissionClock{
		MissionStart:   start,
		MissionLife:    life,
		MissionPortion: portion,
		DtAlloc:        Day,
		currentTimeAbs: start,
		blocks:         []ObservingBlock{{Start: 0, End: life}},
	}
}

// CurrentTimeAbs returns the absolute calendar time.
func (c *MissionClock) CurrentTimeAbs() time.Time { return c.currentTimeAbs }

// CurrentTimeNorm returns the elapsed time since mission start.
func (c *MissionClock) CurrentTimeNorm() time.Duration { return c.currentTimeNorm }

// ExoplanetObsTime returns the cumulative time charged against the
// observation sub-budget.
func (c *MissionClock) ExoplanetObsTime() time.Duration { return c.exoplanetObsTime }

// ObsBudget returns the total observation sub-budget.
func (c *MissionClock) ObsBudget() time.Duration {
	return time.Duration(float64(c.MissionLife) * c.MissionPortion)
}

// Blocks returns a copy of the observing-block schedule.
func (c *MissionClock) Blocks() []ObservingBlock {
	out := make([]ObservingBlock, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// BlockNumber returns the index of the current observing block.
func (c *MissionClock) BlockNumber() int { return c.obNumber }

// InitObservingBlocks installs an explicit ordered schedule. The clock is
// repositioned to the start of the first block.
func (c *MissionClock) InitObservingBlocks(blocks []ObservingBlock) error {
	if len(blocks) == 0 {
		return ErrNoBlocks
	}
	for i, b := range blocks {
		if b.End <= b.Start {
			return fmt.Errorf("block %d [%v,%v): %w", i, b.Start, b.End, ErrBlockDegenerate)
		}
		if i > 0 && b.Start < blocks[i-1].End {
			return fmt.Errorf("block %d starts before block %d ends: %w", i, i-1, ErrBlockOrder)
		}
	}
	c.blocks = make([]ObservingBlock, len(blocks))
	copy(c.blocks, blocks)
	c.obNumber = 0
	c.currentTimeNorm = c.blocks[0].Start
	c.currentTimeAbs = c.MissionStart.Add(c.blocks[0].Start)
	return nil
}

// AutoObservingBlocks generates contiguous blocks of obDuration separated by
// idle gaps sized so that total observing time across the mission equals
// MissionLife*MissionPortion. Block k starts at k*obDuration/MissionPortion.
func (c *MissionClock) AutoObservingBlocks(obDuration time.Duration) error {
	if obDuration <= 0 {
		return fmt.Errorf("observing block duration %v: %w", obDuration, ErrBlockDegenerate)
	}
	if c.MissionPortion <= 0 || c.MissionPortion > 1 {
		return fmt.Errorf("mission portion %v out of (0,1]", c.MissionPortion)
	}
	budget := c.ObsBudget()
	spacing := time.Duration(float64(obDuration) / c.MissionPortion)
	var blocks []ObservingBlock
	for allocated := time.Duration(0); allocated < budget; allocated += obDuration {
		start := time.Duration(len(blocks)) * spacing
		blocks = append(blocks, ObservingBlock{Start: start, End: start + obDuration})
	}
	return c.InitObservingBlocks(blocks)
}

// AllocateTime advances the clock by dt. The advance is all-or-nothing: it
// returns false, leaving every field untouched, when dt is non-positive,
// when it would overrun the mission life or the current observing block, or
// when chargeObsBudget is set and it would overrun the observation budget.
func (c *MissionClock) AllocateTime(dt time.Duration, chargeObsBudget bool) bool {
	if dt <= 0 {
		return false
	}
	if c.currentTimeNorm+dt > c.MissionLife {
		return false
	}
	if c.currentTimeNorm+dt > c.blocks[c.obNumber].End {
		return false
	}
	if chargeObsBudget && c.exoplanetObsTime+dt > c.ObsBudget() {
		return false
	}
	c.currentTimeAbs = c.currentTimeAbs.Add(dt)
	c.currentTimeNorm += dt
	if chargeObsBudget {
		c.exoplanetObsTime += dt
	}
	return true
}

// MissionIsOver reports whether the observation budget is exhausted, the
// mission life has elapsed, or the current observing block has been overrun
// with no further block remaining.
func (c *MissionClock) MissionIsOver() bool {
	if c.exoplanetObsTime >= c.ObsBudget() {
		return true
	}
	if c.currentTimeNorm >= c.MissionLife {
		return true
	}
	if c.currentTimeNorm >= c.blocks[c.obNumber].End && c.obNumber == len(c.blocks)-1 {
		return true
	}
	return false
}

// AdvanceToNextObservingBlock jumps the clock to the start of the next
// observing block. It returns false when no further block exists.
func (c *MissionClock) AdvanceToNextObservingBlock() bool {
	if c.obNumber+1 >= len(c.blocks) {
		return false
	}
	c.obNumber++
	start := c.blocks[c.obNumber].Start
	c.currentTimeAbs = c.currentTimeAbs.Add(start - c.currentTimeNorm)
	c.currentTimeNorm = start
	return true
}
