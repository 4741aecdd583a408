//go:build !linux

package led

import (
	"errors"
)

// WS281x is only available on linux where the DMA driver exists.
type WS281x struct{}

// NewWS281x always fails off-device. Use the mock strip instead.
func NewWS281x(count int, brightness uint8) (*WS281x, error) {
	return nil, errors.New("ws281x strip requires linux")
}

func (w *WS281x) Begin() error                    { return errors.New("ws281x strip requires linux") }
func (w *WS281x) SetPixel(index int, color Color) {}
func (w *WS281x) SetBrightness(level uint8)       {}
func (w *WS281x) Show() error                     { return errors.New("ws281x strip requires linux") }
func (w *WS281x) Clear()                          {}
func (w *WS281x) NumPixels() int                  { return 0 }
func (w *WS281x) Close() error                    { return nil }
