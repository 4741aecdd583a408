// Package visualizer renders the current tide state onto the LED strip. A
// 10 Hz loop reads the calculator, paints direction indicators and the
// progress gradient, overlays the wave animation and falls back to a red
// blink when no tide data is available.
package visualizer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjordlys/tidelight/internal/deviceconfig"
	"github.com/fjordlys/tidelight/internal/led"
	"github.com/fjordlys/tidelight/internal/tide"
)

// PatternWave enables the cascading wave overlay. Any other pattern value
// renders the static gradient.
const PatternWave = "wave"

const (
	tickInterval     = 100 * time.Millisecond
	errorBlinkPeriod = 500 * time.Millisecond

	// waveSpan is the number of consecutive LEDs the wave occupies.
	waveSpan = 3
)

var (
	colorGreen  = led.Color{G: 255}
	colorRed    = led.Color{R: 255}
	colorBlue   = led.Color{B: 255}
	colorPurple = led.Color{R: 128, B: 128}
	colorOff    = led.Color{}
)

// Calculator produces the current tide state. A nil state with nil error
// means no data is available.
type Calculator interface {
	CurrentState() (*tide.State, error)
}

// Visualizer owns the render loop and the LED topology derived from the
// device configuration.
type Visualizer struct {
	logger logrus.FieldLogger
	device led.Device
	calc   Calculator

	// mu guards the fields below. OnConfigUpdated holds it across the
	// whole topology recomputation so a render tick never sees a count
	// from one config and an invert from another.
	mu        sync.Mutex
	topo      topology
	pattern   string
	waveSpeed float64

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a visualizer for the given device configuration.
func New(
	logger logrus.FieldLogger,
	device led.Device,
	calc Calculator,
	cfg deviceconfig.Config,
) (*Visualizer, error) {
	if device == nil {
		return nil, fmt.Errorf("device is required")
	}

	if calc == nil {
		return nil, fmt.Errorf("calculator is required")
	}

	v := &Visualizer{
		logger:    logger.WithField("component", "visualizer"),
		device:    device,
		calc:      calc,
		topo:      newTopology(cfg.LEDStrip.Count, cfg.LEDStrip.Invert),
		pattern:   cfg.Color.Pattern,
		waveSpeed: cfg.Color.WaveSpeed,
	}

	device.SetBrightness(clampBrightness(cfg.LEDStrip.Brightness))

	return v, nil
}

// Start initializes the LED device and launches the render loop.
func (v *Visualizer) Start(ctx context.Context) error {
	if err := v.device.Begin(); err != nil {
		return fmt.Errorf("initialize led device: %w", err)
	}

	ctx, v.cancel = context.WithCancel(ctx)
	v.done = make(chan struct{})

	go v.loop(ctx)

	v.mu.Lock()
	v.logger.WithFields(logrus.Fields{
		"leds":    v.topo.count,
		"pattern": v.pattern,
	}).Info("Visualizer started")
	v.mu.Unlock()

	return nil
}

// Stop cancels the render loop, waits for it to exit and leaves the strip
// dark.
func (v *Visualizer) Stop() error {
	if v.cancel == nil {
		return nil
	}

	v.cancel()
	<-v.done

	return nil
}

// OnConfigUpdated recomputes the topology and animation parameters from a
// new device configuration.
func (v *Visualizer) OnConfigUpdated(cfg deviceconfig.Config) {
	v.mu.Lock()
	v.topo = newTopology(cfg.LEDStrip.Count, cfg.LEDStrip.Invert)
	v.pattern = cfg.Color.Pattern
	v.waveSpeed = cfg.Color.WaveSpeed
	v.mu.Unlock()

	v.device.SetBrightness(clampBrightness(cfg.LEDStrip.Brightness))

	v.logger.WithFields(logrus.Fields{
		"leds":    cfg.LEDStrip.Count,
		"pattern": cfg.Color.Pattern,
	}).Info("Visualizer config updated")
}

// OnTideDataUpdated is called by the scheduler when fresh data landed in the
// cache. The next tick reads it automatically.
func (v *Visualizer) OnTideDataUpdated() {
	v.logger.Debug("Tide data updated")
}

// SetBrightness overrides the displayed brightness and flushes immediately.
// This is the light sensor's callback.
func (v *Visualizer) SetBrightness(level uint8) {
	v.device.SetBrightness(level)

	if err := v.device.Show(); err != nil {
		v.logger.WithError(err).Warn("Failed to apply brightness override")
	}
}

func (v *Visualizer) loop(ctx context.Context) {
	defer close(v.done)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var (
		wavePos       int
		lastWaveStep  = time.Now()
		blinkOn       bool
		lastBlink     = time.Now()
		lastDirection tide.Direction
	)

	for {
		select {
		case <-ctx.Done():
			v.device.Clear()

			if err := v.device.Show(); err != nil {
				v.logger.WithError(err).Warn("Failed to blank strip on shutdown")
			}

			return
		case <-ticker.C:
		}

		v.mu.Lock()
		topo := v.topo
		pattern := v.pattern
		waveSpeed := v.waveSpeed
		v.mu.Unlock()

		state, err := v.calc.CurrentState()
		if err != nil {
			v.logger.WithError(err).Warn("Failed to read tide state")

			state = nil
		}

		if state == nil {
			dataAvailable.Set(0)

			if time.Since(lastBlink) >= errorBlinkPeriod {
				blinkOn = !blinkOn
				lastBlink = time.Now()
			}

			v.renderError(topo, blinkOn)

			continue
		}

		dataAvailable.Set(1)

		if lastDirection != "" && lastDirection != state.Direction {
			v.logger.WithFields(logrus.Fields{
				"from": lastDirection,
				"to":   state.Direction,
			}).Info("Tide direction changed")
		}

		lastDirection = state.Direction

		if pattern == PatternWave && topo.numMiddle > 1 {
			if time.Since(lastWaveStep).Seconds() >= waveSpeed {
				wavePos = (wavePos + 1) % (topo.numMiddle - 1)
				lastWaveStep = time.Now()
			}
		}

		v.renderFrame(topo, state, pattern, wavePos)
	}
}

// renderFrame paints one complete frame: direction indicators, the middle
// gradient and the optional wave overlay.
func (v *Visualizer) renderFrame(topo topology, state *tide.State, pattern string, wavePos int) {
	if state.Direction == tide.DirectionRising {
		v.device.SetPixel(topo.top, colorGreen)
		v.device.SetPixel(topo.bottom, colorOff)
	} else {
		v.device.SetPixel(topo.top, colorOff)
		v.device.SetPixel(topo.bottom, colorRed)
	}

	colors := middleColors(state.Progress, topo.numMiddle)

	if pattern == PatternWave {
		colors = applyWave(colors, wavePos, state.Direction)
	}

	for i, c := range colors {
		v.device.SetPixel(topo.middleStart+i, c)
	}

	if err := v.device.Show(); err != nil {
		v.logger.WithError(err).Warn("Failed to flush frame")

		return
	}

	framesTotal.Inc()
}

// renderError blinks the whole strip red.
func (v *Visualizer) renderError(topo topology, blinkOn bool) {
	if blinkOn {
		for i := 0; i < topo.count; i++ {
			v.device.SetPixel(i, colorRed)
		}
	} else {
		v.device.Clear()
	}

	if err := v.device.Show(); err != nil {
		v.logger.WithError(err).Warn("Failed to flush error frame")
	}
}

func clampBrightness(level int) uint8 {
	if level < 0 {
		return 0
	}

	if level > 255 {
		return 255
	}

	return uint8(level)
}
