package ble

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fjordlys/tidelight/internal/tide"
	"github.com/fjordlys/tidelight/internal/version"
)

// Calculator produces the current tide state for the status document.
type Calculator interface {
	CurrentState() (*tide.State, error)
}

// CacheInfo is the slice of the cache the status document reports on.
type CacheInfo interface {
	IsEmpty() (bool, error)
	CachedLocation() (float64, float64, bool, error)
}

// Status is the document served through the status characteristic.
type Status struct {
	Tide   TideStatus   `json:"tide"`
	Cache  CacheStatus  `json:"cache"`
	System SystemStatus `json:"system"`
}

// TideStatus reports the current tide state, or why none is available.
type TideStatus struct {
	Available bool             `json:"available"`
	Reason    string           `json:"reason,omitempty"`
	Direction tide.Direction   `json:"direction,omitempty"`
	Progress  *float64         `json:"progress,omitempty"`
	NextEvent *tide.WaterLevel `json:"next_event,omitempty"`
	LastEvent *tide.WaterLevel `json:"last_event,omitempty"`
}

// CacheStatus reports what the tide cache holds.
type CacheStatus struct {
	HasData   bool     `json:"has_data"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// SystemStatus reports process-level metrics.
type SystemStatus struct {
	SessionID     string `json:"session_id"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	LastUpdate    string `json:"last_update"`
}

// StatusProvider builds the status document. Each process run gets a fresh
// session ID so clients can detect restarts.
type StatusProvider struct {
	logger    logrus.FieldLogger
	calc      Calculator
	cache     CacheInfo
	sessionID string
	started   time.Time
	now       func() time.Time
}

// NewStatusProvider creates a status provider over the calculator and cache.
func NewStatusProvider(logger logrus.FieldLogger, calc Calculator, cache CacheInfo) *StatusProvider {
	return &StatusProvider{
		logger:    logger.WithField("component", "ble_status"),
		calc:      calc,
		cache:     cache,
		sessionID: uuid.New().String(),
		started:   time.Now(),
		now:       time.Now,
	}
}

// SessionID returns this process run's session identifier.
func (p *StatusProvider) SessionID() string {
	return p.sessionID
}

// Status assembles the current status document. Read failures degrade the
// affected section instead of failing the whole document.
func (p *StatusProvider) Status() *Status {
	return &Status{
		Tide:   p.tideStatus(),
		Cache:  p.cacheStatus(),
		System: p.systemStatus(),
	}
}

// StatusJSON returns the status document in compact JSON, sized for a BLE
// read.
func (p *StatusProvider) StatusJSON() ([]byte, error) {
	return json.Marshal(p.Status())
}

func (p *StatusProvider) tideStatus() TideStatus {
	state, err := p.calc.CurrentState()
	if err != nil {
		p.logger.WithError(err).Warn("Failed to read tide state for status")

		return TideStatus{Reason: "tide state query failed"}
	}

	if state == nil {
		return TideStatus{Reason: "no tide data available"}
	}

	progress := math.Round(state.Progress*1000) / 1000
	next := state.NextEvent
	last := state.LastEvent

	return TideStatus{
		Available: true,
		Direction: state.Direction,
		Progress:  &progress,
		NextEvent: &next,
		LastEvent: &last,
	}
}

func (p *StatusProvider) cacheStatus() CacheStatus {
	lat, lon, ok, err := p.cache.CachedLocation()
	if err != nil {
		p.logger.WithError(err).Warn("Failed to read cached location for status")

		return CacheStatus{}
	}

	if !ok {
		return CacheStatus{}
	}

	empty, err := p.cache.IsEmpty()
	if err != nil {
		p.logger.WithError(err).Warn("Failed to check cache for status")

		return CacheStatus{Latitude: &lat, Longitude: &lon}
	}

	return CacheStatus{
		HasData:   !empty,
		Latitude:  &lat,
		Longitude: &lon,
	}
}

func (p *StatusProvider) systemStatus() SystemStatus {
	now := p.now()

	return SystemStatus{
		SessionID:     p.sessionID,
		Version:       version.Short(),
		UptimeSeconds: int64(now.Sub(p.started).Seconds()),
		LastUpdate:    now.Format(time.RFC3339),
	}
}
