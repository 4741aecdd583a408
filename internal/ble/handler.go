package ble

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fjordlys/tidelight/internal/deviceconfig"
)

// Validation ranges for writable characteristics.
const (
	LatMin = -90.0
	LatMax = 90.0
	LonMin = -180.0
	LonMax = 180.0

	BrightnessMin = 0
	BrightnessMax = 255

	// Below 3 LEDs there is no room for both indicators and a middle
	// gradient.
	LEDCountMin = 3
	LEDCountMax = 255

	WaveSpeedMin = 0.1
	WaveSpeedMax = 5.0
)

var validPatterns = map[string]struct{}{
	"none": {},
	"wave": {},
}

// ConfigStore is the slice of the config manager the handler needs.
type ConfigStore interface {
	Get() deviceconfig.Config
	Replace(cfg deviceconfig.Config) error
}

// ConfigHandler validates characteristic writes and turns each one into a
// single Replace call on the config store. The last error code is sticky
// until the next write or an explicit clear, so a client can read it after
// a failed write.
type ConfigHandler struct {
	logger logrus.FieldLogger
	store  ConfigStore

	mu        sync.Mutex
	lastError ErrorCode
}

// NewConfigHandler creates a handler writing through the given store.
func NewConfigHandler(logger logrus.FieldLogger, store ConfigStore) *ConfigHandler {
	return &ConfigHandler{
		logger: logger.WithField("component", "ble_config"),
		store:  store,
	}
}

// LastError returns the sticky error code of the most recent write.
func (h *ConfigHandler) LastError() ErrorCode {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.lastError
}

// ClearError resets the sticky error code.
func (h *ConfigHandler) ClearError() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastError = ErrNone
}

func (h *ConfigHandler) setError(code ErrorCode) ErrorCode {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastError = code

	return code
}

// ValidateLocation parses and range-checks a "latitude,longitude" string.
func ValidateLocation(value string) (float64, float64, ErrorCode) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidFormat
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, ErrInvalidFormat
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, ErrInvalidFormat
	}

	if lat < LatMin || lat > LatMax {
		return 0, 0, ErrOutOfRange
	}

	if lon < LonMin || lon > LonMax {
		return 0, 0, ErrOutOfRange
	}

	return lat, lon, ErrNone
}

// ValidateBrightness range-checks a brightness value.
func ValidateBrightness(value int) ErrorCode {
	if value < BrightnessMin || value > BrightnessMax {
		return ErrOutOfRange
	}

	return ErrNone
}

// ValidatePattern checks a pattern name. Matching is case-insensitive.
func ValidatePattern(pattern string) ErrorCode {
	if _, ok := validPatterns[strings.ToLower(pattern)]; !ok {
		return ErrInvalidValue
	}

	return ErrNone
}

// ValidateWaveSpeed parses and range-checks a wave speed string.
func ValidateWaveSpeed(value string) (float64, ErrorCode) {
	speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, ErrInvalidFormat
	}

	if speed < WaveSpeedMin || speed > WaveSpeedMax {
		return 0, ErrOutOfRange
	}

	return speed, ErrNone
}

// ValidateLEDCount range-checks an LED count.
func ValidateLEDCount(value int) ErrorCode {
	if value < LEDCountMin || value > LEDCountMax {
		return ErrOutOfRange
	}

	return ErrNone
}

// ValidateLEDInvert checks the 0/1 invert byte.
func ValidateLEDInvert(value int) (bool, ErrorCode) {
	if value != 0 && value != 1 {
		return false, ErrInvalidValue
	}

	return value == 1, ErrNone
}

// requiredConfigKeys is the minimal structure a full-config write must carry.
var requiredConfigKeys = []string{"config_version", "bluetooth", "tide", "led_strip", "color"}

func validateFullConfig(data []byte) (deviceconfig.Config, ErrorCode) {
	var raw map[string]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return deviceconfig.Config{}, ErrInvalidFormat
	}

	for _, key := range requiredConfigKeys {
		if _, ok := raw[key]; !ok {
			return deviceconfig.Config{}, ErrInvalidFormat
		}
	}

	var cfg deviceconfig.Config

	if err := json.Unmarshal(data, &cfg); err != nil {
		return deviceconfig.Config{}, ErrInvalidFormat
	}

	return cfg, ErrNone
}

// UpdateLocation applies a "latitude,longitude" write.
func (h *ConfigHandler) UpdateLocation(value string) ErrorCode {
	lat, lon, code := ValidateLocation(value)
	if code != ErrNone {
		return h.setError(code)
	}

	cfg := h.store.Get()
	cfg.Tide.Location.Latitude = lat
	cfg.Tide.Location.Longitude = lon

	return h.replace(cfg)
}

// UpdateBrightness applies a brightness write.
func (h *ConfigHandler) UpdateBrightness(value int) ErrorCode {
	if code := ValidateBrightness(value); code != ErrNone {
		return h.setError(code)
	}

	cfg := h.store.Get()
	cfg.LEDStrip.Brightness = value

	return h.replace(cfg)
}

// UpdatePattern applies a pattern write. The stored value is lowercased.
func (h *ConfigHandler) UpdatePattern(pattern string) ErrorCode {
	if code := ValidatePattern(pattern); code != ErrNone {
		return h.setError(code)
	}

	cfg := h.store.Get()
	cfg.Color.Pattern = strings.ToLower(pattern)

	return h.replace(cfg)
}

// UpdateWaveSpeed applies a wave speed write.
func (h *ConfigHandler) UpdateWaveSpeed(value string) ErrorCode {
	speed, code := ValidateWaveSpeed(value)
	if code != ErrNone {
		return h.setError(code)
	}

	cfg := h.store.Get()
	cfg.Color.WaveSpeed = speed

	return h.replace(cfg)
}

// UpdateLEDCount applies an LED count write.
func (h *ConfigHandler) UpdateLEDCount(value int) ErrorCode {
	if code := ValidateLEDCount(value); code != ErrNone {
		return h.setError(code)
	}

	cfg := h.store.Get()
	cfg.LEDStrip.Count = value

	return h.replace(cfg)
}

// UpdateLEDInvert applies a 0/1 invert write.
func (h *ConfigHandler) UpdateLEDInvert(value int) ErrorCode {
	invert, code := ValidateLEDInvert(value)
	if code != ErrNone {
		return h.setError(code)
	}

	cfg := h.store.Get()
	cfg.LEDStrip.Invert = invert

	return h.replace(cfg)
}

// UpdateFullConfig applies a whole-document JSON write.
func (h *ConfigHandler) UpdateFullConfig(data []byte) ErrorCode {
	cfg, code := validateFullConfig(data)
	if code != ErrNone {
		return h.setError(code)
	}

	return h.replace(cfg)
}

func (h *ConfigHandler) replace(cfg deviceconfig.Config) ErrorCode {
	if err := h.store.Replace(cfg); err != nil {
		h.logger.WithError(err).Error("Failed to apply config update")

		return h.setError(ErrInternal)
	}

	return h.setError(ErrNone)
}

// Location returns the current location in "latitude,longitude" form.
func (h *ConfigHandler) Location() string {
	cfg := h.store.Get()

	return strconv.FormatFloat(cfg.Tide.Location.Latitude, 'f', -1, 64) +
		"," +
		strconv.FormatFloat(cfg.Tide.Location.Longitude, 'f', -1, 64)
}

// Brightness returns the current brightness.
func (h *ConfigHandler) Brightness() int {
	return h.store.Get().LEDStrip.Brightness
}

// Pattern returns the current pattern name.
func (h *ConfigHandler) Pattern() string {
	return h.store.Get().Color.Pattern
}

// WaveSpeed returns the current wave speed as a string.
func (h *ConfigHandler) WaveSpeed() string {
	return strconv.FormatFloat(h.store.Get().Color.WaveSpeed, 'f', -1, 64)
}

// LEDCount returns the current LED count.
func (h *ConfigHandler) LEDCount() int {
	return h.store.Get().LEDStrip.Count
}

// LEDInvert returns the current invert flag as 0 or 1.
func (h *ConfigHandler) LEDInvert() int {
	if h.store.Get().LEDStrip.Invert {
		return 1
	}

	return 0
}

// FullConfig returns the whole configuration document as indented JSON.
func (h *ConfigHandler) FullConfig() ([]byte, error) {
	return json.MarshalIndent(h.store.Get(), "", "  ")
}
