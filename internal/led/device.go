// Package led abstracts the LED strip as an opaque pixel sink. The
// visualizer renders into a Device without knowing whether pixels end up on
// WS281x hardware or in a test buffer.
package led

// Color is a single pixel color.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Device is a write-only pixel buffer. SetPixel and SetBrightness stage
// changes; Show flushes them to the output in one frame.
type Device interface {
	// Begin initializes the device. It must be called before any other
	// method.
	Begin() error
	// SetPixel stages a color for the pixel at index. Out-of-range
	// indices are ignored.
	SetPixel(index int, color Color)
	// SetBrightness stages a global brightness level (0-255).
	SetBrightness(level uint8)
	// Show flushes staged pixels and brightness to the output.
	Show() error
	// Clear stages all pixels off.
	Clear()
	// NumPixels returns the strip length.
	NumPixels() int
}
