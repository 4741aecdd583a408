package led_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fjordlys/tidelight/internal/led"
)

func TestWS281x_SatisfiesDevice(t *testing.T) {
	var dev led.Device = (*led.WS281x)(nil)

	// Shutdown releases the DMA channel through this narrower surface, so
	// the driver must keep exposing it on every platform.
	_, ok := dev.(interface{ Close() error })
	assert.True(t, ok)
}
