// Package deviceconfig holds the runtime device configuration: the single
// shared document every loop in the process reads its parameters from. The
// Manager owns the canonical copy; consumers only ever see value snapshots.
package deviceconfig

// Config is the full device configuration document. It is a pure value type
// (no pointers, slices or maps), so assignment is a deep copy.
type Config struct {
	ConfigVersion int       `json:"config_version"`
	Bluetooth     Bluetooth `json:"bluetooth"`
	Tide          Tide      `json:"tide"`
	LEDStrip      LEDStrip  `json:"led_strip"`
	LDR           LDR       `json:"ldr"`
	Color         Color     `json:"color"`
}

// Bluetooth holds the BLE transport settings consumed by the excluded GATT
// layer.
type Bluetooth struct {
	UseFakeLibrary bool   `json:"use_fake_library"`
	DeviceName     string `json:"device_name"`
}

// Tide holds the tide data settings.
type Tide struct {
	Location Location `json:"location"`
}

// Location is the single active tide location.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LEDStrip holds the LED strip topology and brightness settings.
type LEDStrip struct {
	Count      int  `json:"count"`
	Brightness int  `json:"brightness"`
	Invert     bool `json:"invert"`
	UseMock    bool `json:"use_mock"`
}

// LDR holds the light sensor settings.
type LDR struct {
	Enabled bool `json:"enabled"`
	Pin     int  `json:"pin"`
}

// Color holds the visualization pattern settings.
type Color struct {
	Format    string  `json:"format"`
	Pattern   string  `json:"pattern"`
	WaveSpeed float64 `json:"wave_speed"` // seconds per animation step
}

// Default returns the factory default configuration.
func Default() Config {
	return Config{
		ConfigVersion: 1,
		Bluetooth: Bluetooth{
			UseFakeLibrary: true,
			DeviceName:     "Tide Light",
		},
		Tide: Tide{
			Location: Location{
				Latitude:  69.966,
				Longitude: 23.272,
			},
		},
		LEDStrip: LEDStrip{
			Count:      60,
			Brightness: 50,
			Invert:     false,
			UseMock:    true,
		},
		LDR: LDR{
			Enabled: false,
			Pin:     11,
		},
		Color: Color{
			Format:    "rgb",
			Pattern:   "wave",
			WaveSpeed: 0.5,
		},
	}
}
