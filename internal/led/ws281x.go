//go:build linux

package led

import (
	"fmt"
	"sync"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
)

// Hardware wiring constants for the WS281x strip.
const (
	gpioPin   = 18
	ledFreqHz = 800000
	dmaNum    = 10
)

// WS281x drives a real WS281x strip. Brightness is applied in software by
// scaling channels at Show time, so runtime brightness changes never require
// reinitializing the driver.
type WS281x struct {
	mu         sync.Mutex
	dev        *ws2811.WS2811
	pixels     []Color
	brightness uint8
	count      int
}

// NewWS281x creates a driver for a strip of the given length.
func NewWS281x(count int, brightness uint8) (*WS281x, error) {
	opt := ws2811.DefaultOptions
	opt.Frequency = ledFreqHz
	opt.DmaNum = dmaNum
	opt.Channels[0].GpioPin = gpioPin
	opt.Channels[0].LedCount = count
	// Full hardware brightness; dimming happens in Show.
	opt.Channels[0].Brightness = 255
	opt.Channels[0].StripeType = ws2811.WS2811StripGRB

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("create ws281x driver: %w", err)
	}

	return &WS281x{
		dev:        dev,
		pixels:     make([]Color, count),
		brightness: brightness,
		count:      count,
	}, nil
}

// Begin implements Device.
func (w *WS281x) Begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.dev.Init(); err != nil {
		return fmt.Errorf("init ws281x strip: %w", err)
	}

	return nil
}

// SetPixel implements Device.
func (w *WS281x) SetPixel(index int, color Color) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if index < 0 || index >= w.count {
		return
	}

	w.pixels[index] = color
}

// SetBrightness implements Device.
func (w *WS281x) SetBrightness(level uint8) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.brightness = level
}

// Show implements Device.
func (w *WS281x) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	leds := w.dev.Leds(0)

	for i, c := range w.pixels {
		if i >= len(leds) {
			break
		}

		leds[i] = packScaled(c, w.brightness)
	}

	if err := w.dev.Render(); err != nil {
		return fmt.Errorf("render ws281x frame: %w", err)
	}

	return nil
}

// Clear implements Device.
func (w *WS281x) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.pixels {
		w.pixels[i] = Color{}
	}
}

// NumPixels implements Device.
func (w *WS281x) NumPixels() int {
	return w.count
}

// Close releases the driver's DMA channel. The strip is unusable afterwards.
func (w *WS281x) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.dev.Fini()

	return nil
}

func packScaled(c Color, brightness uint8) uint32 {
	scale := uint32(brightness)

	r := uint32(c.R) * scale / 255
	g := uint32(c.G) * scale / 255
	b := uint32(c.B) * scale / 255

	return r<<16 | g<<8 | b
}
