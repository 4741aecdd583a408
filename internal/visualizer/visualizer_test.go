package visualizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordlys/tidelight/internal/deviceconfig"
	"github.com/fjordlys/tidelight/internal/led"
	"github.com/fjordlys/tidelight/internal/testutil"
	"github.com/fjordlys/tidelight/internal/tide"
)

type stubCalc struct {
	state *tide.State
	err   error
}

func (s *stubCalc) CurrentState() (*tide.State, error) {
	return s.state, s.err
}

func TestNewTopology(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		invert     bool
		wantTop    int
		wantBottom int
		wantMiddle int
	}{
		{
			name:       "default orientation",
			count:      60,
			wantTop:    0,
			wantBottom: 59,
			wantMiddle: 58,
		},
		{
			name:       "inverted orientation",
			count:      60,
			invert:     true,
			wantTop:    59,
			wantBottom: 0,
			wantMiddle: 58,
		},
		{
			name:       "minimum strip",
			count:      3,
			wantTop:    0,
			wantBottom: 2,
			wantMiddle: 1,
		},
		{
			name:       "degenerate two leds",
			count:      2,
			wantTop:    0,
			wantBottom: 1,
			wantMiddle: 0,
		},
		{
			name:  "degenerate zero leds",
			count: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo := newTopology(tt.count, tt.invert)

			assert.Equal(t, tt.wantTop, topo.top)
			assert.Equal(t, tt.wantBottom, topo.bottom)
			assert.Equal(t, tt.wantMiddle, topo.numMiddle)
			assert.Equal(t, 1, topo.middleStart)
		})
	}
}

func TestMiddleColors(t *testing.T) {
	t.Run("reference led is always blue", func(t *testing.T) {
		for _, progress := range []float64{0, 0.25, 0.5, 1} {
			colors := middleColors(progress, 8)

			require.Len(t, colors, 8)
			assert.Equal(t, colorBlue, colors[7])
		}
	})

	t.Run("low tide is all purple", func(t *testing.T) {
		colors := middleColors(0, 6)

		for i := 0; i < 5; i++ {
			assert.Equal(t, colorPurple, colors[i], "index %d", i)
		}
	})

	t.Run("high tide is all blue", func(t *testing.T) {
		colors := middleColors(1, 6)

		for i := 0; i < 6; i++ {
			assert.Equal(t, colorBlue, colors[i], "index %d", i)
		}
	})

	t.Run("half tide fills from the reference outward", func(t *testing.T) {
		// floor(0.5 * 4) = 2 blue LEDs next to the reference.
		colors := middleColors(0.5, 5)

		assert.Equal(t, colorPurple, colors[0])
		assert.Equal(t, colorPurple, colors[1])
		assert.Equal(t, colorBlue, colors[2])
		assert.Equal(t, colorBlue, colors[3])
		assert.Equal(t, colorBlue, colors[4])
	})

	t.Run("degenerate topology", func(t *testing.T) {
		assert.Nil(t, middleColors(0.5, 0))
	})
}

func TestShiftColor_Blue(t *testing.T) {
	wantGreens := []uint8{100, 150, 200}

	for level, wantGreen := range wantGreens {
		got := shiftColor(colorBlue, level)

		assert.Equal(t, led.Color{G: wantGreen, B: 255}, got, "level %d", level)
	}
}

func TestShiftColor_Purple(t *testing.T) {
	wantBoosts := []uint8{20, 40, 60}

	for level, boost := range wantBoosts {
		got := shiftColor(colorPurple, level)

		assert.Equal(t, led.Color{R: 128 + boost, B: 128 + boost}, got, "level %d", level)
	}
}

func TestShiftColor_ClampsAt255(t *testing.T) {
	got := shiftColor(led.Color{R: 250, B: 230}, 2)

	assert.Equal(t, uint8(255), got.R)
	assert.Equal(t, uint8(255), got.B)
}

func TestShiftColor_FallbackSaturation(t *testing.T) {
	got := shiftColor(led.Color{G: 100}, 1)

	assert.Equal(t, led.Color{G: 140}, got)
}

func TestApplyWave_Rising(t *testing.T) {
	base := middleColors(1, 6)

	// wavePos 0: positions 4,3,2 with shift levels 0,1,2.
	got := applyWave(base, 0, tide.DirectionRising)

	assert.Equal(t, uint8(100), got[4].G)
	assert.Equal(t, uint8(150), got[3].G)
	assert.Equal(t, uint8(200), got[2].G)
	assert.Equal(t, colorBlue, got[0])
	assert.Equal(t, colorBlue, got[1])
	assert.Equal(t, colorBlue, got[5])
}

func TestApplyWave_Falling(t *testing.T) {
	base := middleColors(0, 6)

	// wavePos 1: positions 1,2,3 with shift levels 1,2,0.
	got := applyWave(base, 1, tide.DirectionFalling)

	assert.Equal(t, led.Color{R: 168, B: 168}, got[1])
	assert.Equal(t, led.Color{R: 188, B: 188}, got[2])
	assert.Equal(t, led.Color{R: 148, B: 148}, got[3])
	assert.Equal(t, colorPurple, got[0])
	assert.Equal(t, colorPurple, got[4])
}

func TestApplyWave_OutOfRangeSkipped(t *testing.T) {
	base := middleColors(0, 4)

	// wavePos 2 falling occupies positions 2,3,4; 4 is out of range.
	got := applyWave(base, 2, tide.DirectionFalling)

	assert.NotEqual(t, base[2], got[2])
	assert.NotEqual(t, base[3], got[3])
	assert.Equal(t, base[0], got[0])
	assert.Equal(t, base[1], got[1])
}

func TestApplyWave_DoesNotMutateBase(t *testing.T) {
	base := middleColors(0.5, 6)

	want := make([]led.Color, len(base))
	copy(want, base)

	applyWave(base, 0, tide.DirectionRising)

	assert.Equal(t, want, base)
}

func newTestVisualizer(t *testing.T, mock *led.Mock, calc Calculator, cfg deviceconfig.Config) *Visualizer {
	t.Helper()

	v, err := New(testutil.NewTestLogger(), mock, calc, cfg)
	require.NoError(t, err)

	return v
}

func TestRenderFrame_Rising(t *testing.T) {
	cfg := deviceconfig.Default()
	cfg.LEDStrip.Count = 10

	mock := led.NewMock(10)
	v := newTestVisualizer(t, mock, &stubCalc{}, cfg)

	topo := newTopology(10, false)
	state := &tide.State{Direction: tide.DirectionRising, Progress: 1.0}

	v.renderFrame(topo, state, "none", 0)

	frame, ok := mock.LastFrame()
	require.True(t, ok)

	assert.Equal(t, colorGreen, frame.Pixels[0])
	assert.Equal(t, colorOff, frame.Pixels[9])

	// Full progress paints every middle LED blue.
	for i := 1; i <= 8; i++ {
		assert.Equal(t, colorBlue, frame.Pixels[i], "pixel %d", i)
	}
}

func TestRenderFrame_Falling(t *testing.T) {
	cfg := deviceconfig.Default()
	cfg.LEDStrip.Count = 10

	mock := led.NewMock(10)
	v := newTestVisualizer(t, mock, &stubCalc{}, cfg)

	topo := newTopology(10, false)
	state := &tide.State{Direction: tide.DirectionFalling, Progress: 0.0}

	v.renderFrame(topo, state, "none", 0)

	frame, ok := mock.LastFrame()
	require.True(t, ok)

	assert.Equal(t, colorOff, frame.Pixels[0])
	assert.Equal(t, colorRed, frame.Pixels[9])
	assert.Equal(t, colorBlue, frame.Pixels[8], "reference led")

	for i := 1; i <= 7; i++ {
		assert.Equal(t, colorPurple, frame.Pixels[i], "pixel %d", i)
	}
}

func TestRenderFrame_Inverted(t *testing.T) {
	cfg := deviceconfig.Default()
	cfg.LEDStrip.Count = 10
	cfg.LEDStrip.Invert = true

	mock := led.NewMock(10)
	v := newTestVisualizer(t, mock, &stubCalc{}, cfg)

	topo := newTopology(10, true)
	state := &tide.State{Direction: tide.DirectionRising, Progress: 0.5}

	v.renderFrame(topo, state, "none", 0)

	frame, ok := mock.LastFrame()
	require.True(t, ok)

	assert.Equal(t, colorGreen, frame.Pixels[9], "top moved to the far end")
	assert.Equal(t, colorOff, frame.Pixels[0])
	assert.Equal(t, colorBlue, frame.Pixels[8], "middle range does not move")
}

func TestRenderError(t *testing.T) {
	cfg := deviceconfig.Default()
	cfg.LEDStrip.Count = 5

	mock := led.NewMock(5)
	v := newTestVisualizer(t, mock, &stubCalc{}, cfg)

	topo := newTopology(5, false)

	v.renderError(topo, true)

	frame, ok := mock.LastFrame()
	require.True(t, ok)

	for i, c := range frame.Pixels {
		assert.Equal(t, colorRed, c, "pixel %d", i)
	}

	v.renderError(topo, false)

	frame, ok = mock.LastFrame()
	require.True(t, ok)

	for i, c := range frame.Pixels {
		assert.Equal(t, colorOff, c, "pixel %d", i)
	}
}

func TestVisualizer_Lifecycle(t *testing.T) {
	ctx := testutil.NewTestContext(t)

	cfg := deviceconfig.Default()
	cfg.LEDStrip.Count = 6
	cfg.Color.Pattern = "none"

	mock := led.NewMock(6)
	calc := &stubCalc{state: &tide.State{Direction: tide.DirectionRising, Progress: 0.5}}

	v := newTestVisualizer(t, mock, calc, cfg)

	require.NoError(t, v.Start(ctx))
	assert.True(t, mock.Began())

	require.Eventually(t, func() bool {
		return len(mock.Frames()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, v.Stop())

	frame, ok := mock.LastFrame()
	require.True(t, ok)

	for i, c := range frame.Pixels {
		assert.Equal(t, colorOff, c, "strip left dark, pixel %d", i)
	}
}

func TestVisualizer_OnConfigUpdated(t *testing.T) {
	cfg := deviceconfig.Default()
	cfg.LEDStrip.Count = 10
	cfg.LEDStrip.Brightness = 50

	mock := led.NewMock(10)
	v := newTestVisualizer(t, mock, &stubCalc{}, cfg)

	assert.Equal(t, uint8(50), mock.Brightness())

	updated := cfg
	updated.LEDStrip.Count = 8
	updated.LEDStrip.Invert = true
	updated.LEDStrip.Brightness = 200
	updated.Color.Pattern = "none"
	updated.Color.WaveSpeed = 1.5

	v.OnConfigUpdated(updated)

	v.mu.Lock()
	topo := v.topo
	pattern := v.pattern
	waveSpeed := v.waveSpeed
	v.mu.Unlock()

	assert.Equal(t, 7, topo.top)
	assert.Equal(t, 0, topo.bottom)
	assert.Equal(t, 6, topo.numMiddle)
	assert.Equal(t, "none", pattern)
	assert.Equal(t, 1.5, waveSpeed)
	assert.Equal(t, uint8(200), mock.Brightness())
}

func TestVisualizer_SetBrightness(t *testing.T) {
	cfg := deviceconfig.Default()
	cfg.LEDStrip.Count = 5

	mock := led.NewMock(5)
	v := newTestVisualizer(t, mock, &stubCalc{}, cfg)

	v.SetBrightness(17)

	frame, ok := mock.LastFrame()
	require.True(t, ok, "brightness override flushes immediately")
	assert.Equal(t, uint8(17), frame.Brightness)
}
