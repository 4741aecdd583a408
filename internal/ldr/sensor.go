// Package ldr adjusts LED brightness from ambient light. A light dependent
// resistor in an RC timing circuit is sampled on a GPIO line; the charge
// count maps linearly onto a brightness level pushed to the visualizer.
// The real sensor uses the Linux GPIO character device; the fake allows
// testing without hardware.
package ldr

import (
	"context"
)

// Sensor measures ambient light via RC timing.
type Sensor interface {
	// ReadCount discharges the capacitor and counts until the line goes
	// high. Higher counts mean a darker room.
	ReadCount(ctx context.Context) (int, error)

	// Close releases sensor resources.
	Close() error
}

// RC timing calibration for a typical LDR.
const (
	minCount = 1
	maxCount = 250000
)

// Brightness output range. The floor keeps the strip visible in a dark
// room.
const (
	minBrightness = 5
	maxBrightness = 255
)

// scaleBrightness maps an RC charge count onto a brightness level. The map
// is linear: a dark room (high count) yields a bright strip, a bright room
// (low count) a dim one.
func scaleBrightness(count int) int {
	if count > maxCount {
		count = maxCount
	}

	scaled := (count-minCount)*(maxBrightness-minBrightness)/(maxCount-minCount) + minBrightness

	if scaled < minBrightness {
		scaled = minBrightness
	}

	if scaled > maxBrightness {
		scaled = maxBrightness
	}

	return scaled
}
