package led_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordlys/tidelight/internal/led"
)

func TestMock_RecordsFrames(t *testing.T) {
	mock := led.NewMock(5)

	require.NoError(t, mock.Begin())
	assert.True(t, mock.Began())
	assert.Equal(t, 5, mock.NumPixels())

	mock.SetPixel(0, led.Color{R: 255})
	mock.SetPixel(4, led.Color{B: 255})
	mock.SetBrightness(42)

	require.NoError(t, mock.Show())

	frame, ok := mock.LastFrame()
	require.True(t, ok)

	assert.Equal(t, led.Color{R: 255}, frame.Pixels[0])
	assert.Equal(t, led.Color{}, frame.Pixels[1])
	assert.Equal(t, led.Color{B: 255}, frame.Pixels[4])
	assert.Equal(t, uint8(42), frame.Brightness)
}

func TestMock_FramesAreSnapshots(t *testing.T) {
	mock := led.NewMock(3)

	mock.SetPixel(1, led.Color{G: 255})
	require.NoError(t, mock.Show())

	mock.SetPixel(1, led.Color{R: 255})
	require.NoError(t, mock.Show())

	frames := mock.Frames()
	require.Len(t, frames, 2)

	assert.Equal(t, led.Color{G: 255}, frames[0].Pixels[1])
	assert.Equal(t, led.Color{R: 255}, frames[1].Pixels[1])
}

func TestMock_Clear(t *testing.T) {
	mock := led.NewMock(3)

	mock.SetPixel(0, led.Color{R: 1, G: 2, B: 3})
	mock.Clear()

	require.NoError(t, mock.Show())

	frame, ok := mock.LastFrame()
	require.True(t, ok)

	for _, c := range frame.Pixels {
		assert.Equal(t, led.Color{}, c)
	}
}

func TestMock_IgnoresOutOfRange(t *testing.T) {
	mock := led.NewMock(2)

	mock.SetPixel(-1, led.Color{R: 255})
	mock.SetPixel(2, led.Color{R: 255})

	require.NoError(t, mock.Show())

	frame, ok := mock.LastFrame()
	require.True(t, ok)

	assert.Equal(t, []led.Color{{}, {}}, frame.Pixels)
}

func TestMock_NoFramesBeforeShow(t *testing.T) {
	mock := led.NewMock(2)

	_, ok := mock.LastFrame()
	assert.False(t, ok)
	assert.Empty(t, mock.Frames())
}
