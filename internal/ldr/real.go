//go:build linux

package ldr

import (
	"context"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// dischargeDelay is how long the line is driven low to drain the capacitor
// before each measurement.
const dischargeDelay = 100 * time.Millisecond

// RealSensor measures RC charge time on a GPIO line via the Linux GPIO
// character device.
type RealSensor struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	pin  int
}

// NewRealSensor opens the given GPIO line (BCM numbering) for RC timing.
func NewRealSensor(pin int) (*RealSensor, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()

		return nil, fmt.Errorf("request ldr pin %d: %w", pin, err)
	}

	return &RealSensor{
		chip: chip,
		line: line,
		pin:  pin,
	}, nil
}

// ReadCount implements Sensor. The line is driven low to discharge the
// capacitor, flipped to input, then polled until it reads high or the
// calibrated ceiling is hit.
func (s *RealSensor) ReadCount(ctx context.Context) (int, error) {
	if err := s.line.Reconfigure(gpiocdev.AsOutput(0)); err != nil {
		return 0, fmt.Errorf("discharge ldr pin %d: %w", s.pin, err)
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(dischargeDelay):
	}

	if err := s.line.Reconfigure(gpiocdev.AsInput); err != nil {
		return 0, fmt.Errorf("reconfigure ldr pin %d as input: %w", s.pin, err)
	}

	count := 0

	for count < maxCount {
		v, err := s.line.Value()
		if err != nil {
			return 0, fmt.Errorf("read ldr pin %d: %w", s.pin, err)
		}

		if v != 0 {
			break
		}

		count++
	}

	return count, nil
}

// Close releases the GPIO line. The pin is left as an input so the
// capacitor cannot discharge through a driven output after shutdown.
func (s *RealSensor) Close() error {
	if err := s.line.Reconfigure(gpiocdev.AsInput); err != nil {
		s.line.Close()
		s.chip.Close()

		return fmt.Errorf("reconfigure ldr pin %d: %w", s.pin, err)
	}

	if err := s.line.Close(); err != nil {
		s.chip.Close()

		return fmt.Errorf("close ldr pin %d: %w", s.pin, err)
	}

	if err := s.chip.Close(); err != nil {
		return fmt.Errorf("close gpio chip: %w", err)
	}

	return nil
}
