package ldr

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjordlys/tidelight/internal/deviceconfig"
)

const (
	pollInterval  = 500 * time.Millisecond
	debounceDelay = time.Second
	errorBackoff  = 5 * time.Second
)

// SensorFactory opens a sensor on the given GPIO pin. The controller calls
// it each time monitoring starts so a disabled sensor holds no hardware.
type SensorFactory func(pin int) (Sensor, error)

// Controller samples the light sensor and pushes debounced brightness
// levels to the visualizer. It can be enabled and disabled at runtime via
// the config fan-out; disabling restores the configured brightness.
type Controller struct {
	logger       logrus.FieldLogger
	factory      SensorFactory
	onBrightness func(level uint8)

	mu         sync.Mutex
	enabled    bool
	pin        int
	configured int
	current    int

	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}

	pollInterval  time.Duration
	debounceDelay time.Duration
}

// NewController creates a light sensor controller. onBrightness is the
// visualizer's brightness override.
func NewController(
	logger logrus.FieldLogger,
	cfg deviceconfig.Config,
	onBrightness func(level uint8),
	factory SensorFactory,
) (*Controller, error) {
	if onBrightness == nil {
		return nil, fmt.Errorf("brightness callback is required")
	}

	if factory == nil {
		return nil, fmt.Errorf("sensor factory is required")
	}

	return &Controller{
		logger:        logger.WithField("component", "ldr"),
		factory:       factory,
		onBrightness:  onBrightness,
		enabled:       cfg.LDR.Enabled,
		pin:           cfg.LDR.Pin,
		configured:    cfg.LEDStrip.Brightness,
		current:       cfg.LEDStrip.Brightness,
		pollInterval:  pollInterval,
		debounceDelay: debounceDelay,
	}, nil
}

// Start launches monitoring when the sensor is enabled. With the sensor
// disabled it only records the context so a later enable can start the
// loop.
func (c *Controller) Start(ctx context.Context) error {
	c.parent = ctx

	c.mu.Lock()
	enabled := c.enabled
	c.mu.Unlock()

	if !enabled {
		c.logger.Info("Light sensor disabled")

		return nil
	}

	return c.startLoop()
}

// Stop halts monitoring and releases the sensor.
func (c *Controller) Stop() error {
	c.stopLoop()

	return nil
}

// OnConfigUpdated applies a device configuration change. Toggling the
// enabled flag starts or stops monitoring; disabling restores the
// configured brightness.
func (c *Controller) OnConfigUpdated(cfg deviceconfig.Config) {
	c.mu.Lock()
	c.configured = cfg.LEDStrip.Brightness
	c.pin = cfg.LDR.Pin

	wasEnabled := c.enabled
	c.enabled = cfg.LDR.Enabled
	configured := c.configured
	c.mu.Unlock()

	if cfg.LDR.Enabled == wasEnabled {
		return
	}

	if cfg.LDR.Enabled {
		c.logger.Info("Light sensor enabled")

		if err := c.startLoop(); err != nil {
			c.logger.WithError(err).Error("Failed to start light sensor")
		}

		return
	}

	c.logger.Info("Light sensor disabled, restoring configured brightness")

	c.stopLoop()

	c.mu.Lock()
	c.current = configured
	c.mu.Unlock()

	c.onBrightness(clampLevel(configured))
}

// CurrentBrightness returns the last applied brightness level.
func (c *Controller) CurrentBrightness() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

func (c *Controller) startLoop() error {
	c.mu.Lock()
	pin := c.pin
	c.mu.Unlock()

	sensor, err := c.factory(pin)
	if err != nil {
		return fmt.Errorf("open light sensor: %w", err)
	}

	parent := c.parent
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.loop(ctx, sensor)

	c.logger.WithField("pin", pin).Info("Light sensor monitoring started")

	return nil
}

func (c *Controller) stopLoop() {
	if c.cancel == nil {
		return
	}

	c.cancel()
	<-c.done

	c.cancel = nil
	c.done = nil
}

// loop polls the sensor at a fixed interval. A reading that differs from
// the current brightness is held for a debounce delay and sampled again:
// matching readings apply directly, readings that agree on the direction
// move halfway toward the target, disagreeing readings are dropped. The
// double sampling keeps passing shadows from flickering the strip.
func (c *Controller) loop(ctx context.Context, sensor Sensor) {
	defer close(c.done)

	defer func() {
		if err := sensor.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close light sensor")
		}
	}()

	for {
		count, err := sensor.ReadCount(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			c.logger.WithError(err).Error("Light sensor read failed")

			if !sleepCtx(ctx, errorBackoff) {
				return
			}

			continue
		}

		target := scaleBrightness(count)

		c.mu.Lock()
		current := c.current
		c.mu.Unlock()

		if target != current {
			if !sleepCtx(ctx, c.debounceDelay) {
				return
			}

			confirm, err := sensor.ReadCount(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				c.logger.WithError(err).Error("Light sensor confirmation read failed")

				continue
			}

			confirmed := scaleBrightness(confirm)

			switch {
			case target == confirmed:
				c.apply(target)
			case target < current && confirmed < current:
				c.apply(current - (current-target)/2)
			case target > current && confirmed > current:
				c.apply(current + (target-current)/2)
			default:
				c.logger.WithFields(logrus.Fields{
					"first":  target,
					"second": confirmed,
				}).Debug("Inconsistent light readings, skipping")
			}
		}

		if !sleepCtx(ctx, c.pollInterval) {
			return
		}
	}
}

func (c *Controller) apply(level int) {
	c.mu.Lock()
	previous := c.current
	c.current = level
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"from": previous,
		"to":   level,
	}).Info("Adjusting brightness")

	c.onBrightness(clampLevel(level))
}

func clampLevel(level int) uint8 {
	if level < 0 {
		return 0
	}

	if level > 255 {
		return 255
	}

	return uint8(level)
}

// sleepCtx waits for d and reports false when the context was canceled
// first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)

	select {
	case <-ctx.Done():
		timer.Stop()

		return false
	case <-timer.C:
		return true
	}
}
