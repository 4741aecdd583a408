// Package tide contains the water level models and the tide state
// calculator. All timestamps are naive local times: the upstream API data is
// converted to wall-clock time before it enters the system, and every
// comparison here is against time.Now in the same frame.
package tide

import "time"

// WaterLevelFlag marks a water level event as a high or low tide.
type WaterLevelFlag string

const (
	FlagHigh WaterLevelFlag = "high"
	FlagLow  WaterLevelFlag = "low"
)

// Direction is the way the tide is currently heading.
type Direction string

const (
	DirectionRising  Direction = "rising"
	DirectionFalling Direction = "falling"
)

// WaterLevel is a single predicted tide event. Two events with the same Time
// are considered duplicates regardless of flag; Time is the identity key in
// the cache.
type WaterLevel struct {
	Time time.Time      `json:"time"`
	Flag WaterLevelFlag `json:"flag"`
}

// State is the derived tide state at a point in time. It is computed fresh
// on every query and never persisted.
type State struct {
	Direction Direction  `json:"direction"`
	Progress  float64    `json:"progress"` // 0.0 = just had an event, 1.0 = about to have the next
	NextEvent WaterLevel `json:"next_event"`
	LastEvent WaterLevel `json:"last_event"`
}
