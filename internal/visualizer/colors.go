package visualizer

import (
	"github.com/fjordlys/tidelight/internal/led"
	"github.com/fjordlys/tidelight/internal/tide"
)

// middleColors computes the base gradient for the middle LEDs. Logical index
// numMiddle-1 is the reference LED, always blue. Of the remaining LEDs,
// floor(progress*(numMiddle-1)) are blue, filled from the reference outward
// toward the top, and the rest are purple.
func middleColors(progress float64, numMiddle int) []led.Color {
	if numMiddle <= 0 {
		return nil
	}

	colors := make([]led.Color, numMiddle)
	colors[numMiddle-1] = colorBlue

	numBlue := int(progress * float64(numMiddle-1))

	for i := 0; i < numMiddle-1; i++ {
		if i < numBlue {
			colors[numMiddle-2-i] = colorBlue
		} else {
			colors[numMiddle-2-i] = colorPurple
		}
	}

	return colors
}

// applyWave overlays the 3-LED cascading wave on the base gradient. The wave
// occupies three consecutive logical positions; each position's shade cycles
// through three intensities as the wave advances, so the head always carries
// the most intense shade. Rising tides move the wave toward the top
// (decreasing logical index), falling tides toward the bottom.
func applyWave(base []led.Color, wavePos int, direction tide.Direction) []led.Color {
	numMiddle := len(base)

	result := make([]led.Color, numMiddle)
	copy(result, base)

	phase := wavePos % 3

	for offset := 0; offset < waveSpan; offset++ {
		var pos int

		if direction == tide.DirectionRising {
			pos = (numMiddle - 2 - wavePos) - offset
		} else {
			pos = wavePos + offset
		}

		if pos < 0 || pos >= numMiddle {
			continue
		}

		result[pos] = shiftColor(result[pos], (phase+offset)%3)
	}

	return result
}

// shiftColor maps a base color to one of three wave shades. Blue bases shift
// toward cyan by fixing the green channel at 100/150/200; purple and red
// bases shift toward magenta by adding 20/40/60 to the red and blue channels.
// Other bases get a saturation multiplier as a fallback.
func shiftColor(c led.Color, level int) led.Color {
	switch {
	case c.B > c.R && c.B > c.G:
		greens := [3]uint8{100, 150, 200}
		c.G = greens[level]
	case c.R > c.G:
		boosts := [3]int{20, 40, 60}
		c.R = clampChannel(int(c.R) + boosts[level])
		c.B = clampChannel(int(c.B) + boosts[level])
	default:
		boosts := [3]float64{1.2, 1.4, 1.6}
		c.R = clampChannel(int(float64(c.R) * boosts[level]))
		c.G = clampChannel(int(float64(c.G) * boosts[level]))
		c.B = clampChannel(int(float64(c.B) * boosts[level]))
	}

	return c
}

func clampChannel(v int) uint8 {
	if v > 255 {
		return 255
	}

	if v < 0 {
		return 0
	}

	return uint8(v)
}
