package tide

import (
	"fmt"
	"time"
)

// Query window around "now" used to locate the bounding events. The window
// reaches further forward than back because the fetch window is anchored one
// day in the past and tides are roughly six hours apart.
const (
	queryBack    = 12 * time.Hour
	queryForward = 24 * time.Hour
)

// Store is the read side of the tide cache the calculator needs.
type Store interface {
	// QueryRange returns all cached events with start <= time <= end,
	// ascending by time.
	QueryRange(start, end time.Time) ([]WaterLevel, error)
}

// Calculator derives the current tide state from cached water level data.
// It is stateless apart from its collaborators and safe for concurrent use.
type Calculator struct {
	store Store
	now   func() time.Time
}

// NewCalculator creates a calculator reading from the given store.
func NewCalculator(store Store) *Calculator {
	return &Calculator{
		store: store,
		now:   time.Now,
	}
}

// CurrentState computes the tide state at the present moment.
//
// It returns (nil, nil) when the cached data cannot bracket "now" with one
// event on each side: that is the defined "unavailable" state, not an error.
// Storage failures are returned as errors.
func (c *Calculator) CurrentState() (*State, error) {
	now := c.now()

	levels, err := c.store.QueryRange(now.Add(-queryBack), now.Add(queryForward))
	if err != nil {
		return nil, fmt.Errorf("query water levels: %w", err)
	}

	// Need at least one event on each side of now.
	if len(levels) < 2 {
		return nil, nil
	}

	var (
		lastEvent *WaterLevel
		nextEvent *WaterLevel
	)

	for i := range levels {
		wl := levels[i]

		if !wl.Time.After(now) {
			lastEvent = &wl
		} else {
			nextEvent = &wl

			break
		}
	}

	if lastEvent == nil || nextEvent == nil {
		// All events on one side of now.
		return nil, nil
	}

	direction := DirectionFalling
	if nextEvent.Flag == FlagHigh {
		direction = DirectionRising
	}

	elapsed := now.Sub(lastEvent.Time).Seconds()
	total := nextEvent.Time.Sub(lastEvent.Time).Seconds()

	if total <= 0 {
		// Zero-duration bracket, should not occur with valid data.
		return nil, nil
	}

	progress := elapsed / total
	if progress < 0 {
		progress = 0
	}

	if progress > 1 {
		progress = 1
	}

	return &State{
		Direction: direction,
		Progress:  progress,
		NextEvent: *nextEvent,
		LastEvent: *lastEvent,
	}, nil
}
