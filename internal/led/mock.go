package led

import (
	"sync"
)

// Mock is an in-memory Device that records every flushed frame. It stands in
// for the WS281x strip during development and in tests.
type Mock struct {
	mu         sync.Mutex
	pixels     []Color
	brightness uint8
	began      bool
	frames     []Frame
}

// Frame is a snapshot of the strip at one Show call.
type Frame struct {
	Pixels     []Color
	Brightness uint8
}

// NewMock creates a mock strip with the given pixel count.
func NewMock(count int) *Mock {
	return &Mock{
		pixels:     make([]Color, count),
		brightness: 255,
	}
}

// Begin implements Device.
func (m *Mock) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.began = true

	return nil
}

// SetPixel implements Device.
func (m *Mock) SetPixel(index int, color Color) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.pixels) {
		return
	}

	m.pixels[index] = color
}

// SetBrightness implements Device.
func (m *Mock) SetBrightness(level uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.brightness = level
}

// Show implements Device. Each call appends a snapshot to the frame log.
func (m *Mock) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]Color, len(m.pixels))
	copy(snapshot, m.pixels)

	m.frames = append(m.frames, Frame{
		Pixels:     snapshot,
		Brightness: m.brightness,
	})

	return nil
}

// Clear implements Device.
func (m *Mock) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.pixels {
		m.pixels[i] = Color{}
	}
}

// NumPixels implements Device.
func (m *Mock) NumPixels() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.pixels)
}

// Began reports whether Begin has been called.
func (m *Mock) Began() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.began
}

// Brightness returns the currently staged brightness.
func (m *Mock) Brightness() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.brightness
}

// Frames returns a copy of the frame log.
func (m *Mock) Frames() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := make([]Frame, len(m.frames))
	copy(frames, m.frames)

	return frames
}

// LastFrame returns the most recent flushed frame, if any.
func (m *Mock) LastFrame() (Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.frames) == 0 {
		return Frame{}, false
	}

	return m.frames[len(m.frames)-1], true
}

// Reset drops the recorded frame log.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames = nil
}
