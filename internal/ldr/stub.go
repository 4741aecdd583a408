//go:build !linux

package ldr

import (
	"context"
	"errors"
)

// RealSensor is not available on non-Linux platforms.
type RealSensor struct{}

// NewRealSensor returns an error on non-Linux platforms.
func NewRealSensor(pin int) (*RealSensor, error) {
	return nil, errors.New("ldr: not supported on this platform (requires Linux)")
}

// ReadCount is not implemented on non-Linux platforms.
func (s *RealSensor) ReadCount(ctx context.Context) (int, error) {
	return 0, errors.New("ldr: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *RealSensor) Close() error {
	return nil
}
