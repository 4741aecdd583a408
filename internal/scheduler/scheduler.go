// Package scheduler keeps the tide cache populated for the configured
// location. A background loop checks cache freshness at a long interval and
// refetches when needed; location changes arriving over the config fan-out
// invalidate the cache and refetch synchronously.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjordlys/tidelight/internal/deviceconfig"
	"github.com/fjordlys/tidelight/internal/tide"
)

//go:generate mockgen -package mocks -destination mocks/scheduler.mock.go github.com/fjordlys/tidelight/internal/scheduler Fetcher,Store,Notifier

// fetchBackDays anchors the fetch window one day before the freshness
// window. Without it the most recent past event could fall outside the
// calculator's query window right after a fetch.
const fetchBackDays = 1

// Fetcher retrieves water level events for a location.
type Fetcher interface {
	FetchWaterLevels(
		ctx context.Context,
		latitude, longitude float64,
		daysBack, daysForward int,
	) ([]tide.WaterLevel, error)
}

// Store is the cache surface the scheduler writes through.
type Store interface {
	IsEmpty() (bool, error)
	HasDataForRange(start, end time.Time) (bool, error)
	Insert(events []tide.WaterLevel, latitude, longitude float64) error
	InvalidateAll() error
}

// Notifier is told when new tide data landed in the cache.
type Notifier interface {
	OnTideDataUpdated()
}

// Config holds scheduler settings.
type Config struct {
	// PrefetchDays is how far ahead the cache must be populated.
	PrefetchDays int `yaml:"prefetch_days"`
	// UpdateInterval is the period of the background freshness check.
	UpdateInterval time.Duration `yaml:"update_interval"`
	// RetryInterval is the shortened re-arm delay after a failed cycle.
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// Validate validates the configuration and sets defaults.
func (c *Config) Validate() error {
	if c.PrefetchDays == 0 {
		c.PrefetchDays = 7
	}

	if c.UpdateInterval == 0 {
		c.UpdateInterval = 7 * 24 * time.Hour
	}

	if c.RetryInterval == 0 {
		c.RetryInterval = 15 * time.Minute
	}

	if c.PrefetchDays < 1 {
		return fmt.Errorf("prefetch_days must be at least 1, got %d", c.PrefetchDays)
	}

	if c.RetryInterval > c.UpdateInterval {
		return fmt.Errorf(
			"retry_interval %v must not exceed update_interval %v",
			c.RetryInterval, c.UpdateInterval,
		)
	}

	return nil
}

// Scheduler runs the cache-freshness policy for the single active location.
type Scheduler struct {
	config  Config
	logger  logrus.FieldLogger
	store   Store
	fetcher Fetcher
	now     func() time.Time

	mu        sync.Mutex
	latitude  float64
	longitude float64
	notifier  Notifier

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler for the location in the given device config.
func New(
	logger logrus.FieldLogger,
	cfg Config,
	store Store,
	fetcher Fetcher,
	device deviceconfig.Config,
) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Scheduler{
		config:    cfg,
		logger:    logger.WithField("component", "scheduler"),
		store:     store,
		fetcher:   fetcher,
		now:       time.Now,
		latitude:  device.Tide.Location.Latitude,
		longitude: device.Tide.Location.Longitude,
	}, nil
}

// SetNotifier attaches the late-bound collaborator told about data changes.
func (s *Scheduler) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifier = n
}

// Start launches the background update loop. The first cycle runs
// immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx)

	s.logger.WithFields(logrus.Fields{
		"interval":      s.config.UpdateInterval,
		"prefetch_days": s.config.PrefetchDays,
	}).Info("Scheduler started")

	return nil
}

// Stop cancels the background loop and waits for it to exit. A loop blocked
// in a network fetch finishes that call first.
func (s *Scheduler) Stop() error {
	if s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done

	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	for {
		wait := s.config.UpdateInterval

		if err := s.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}

			s.logger.WithError(err).Error("Tide update failed, will retry")

			wait = s.config.RetryInterval
		}

		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()

			return
		case <-timer.C:
		}
	}
}

// RunOnce performs one freshness check. When the cache is empty or has no
// data inside [now, now+prefetch] it fetches a fresh window and notifies the
// visualizer; otherwise it is a no-op. Fetch and storage errors are returned
// to the caller.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	latitude, longitude := s.latitude, s.longitude
	s.mu.Unlock()

	now := s.now()
	start := now
	end := now.AddDate(0, 0, s.config.PrefetchDays)

	empty, err := s.store.IsEmpty()
	if err != nil {
		return fmt.Errorf("check cache: %w", err)
	}

	if !empty {
		covered, err := s.store.HasDataForRange(start, end)
		if err != nil {
			return fmt.Errorf("check cache range: %w", err)
		}

		if covered {
			s.logger.Debug("Cache up to date")

			return nil
		}
	}

	s.logger.WithFields(logrus.Fields{
		"latitude":  latitude,
		"longitude": longitude,
	}).Info("Fetching tide data")

	fetchStart := time.Now()

	levels, err := s.fetcher.FetchWaterLevels(ctx, latitude, longitude, fetchBackDays, s.config.PrefetchDays)

	fetchDuration.Observe(time.Since(fetchStart).Seconds())
	fetchesTotal.Inc()

	if err != nil {
		fetchErrorsTotal.Inc()

		return fmt.Errorf("fetch water levels: %w", err)
	}

	if err := s.store.Insert(levels, latitude, longitude); err != nil {
		return fmt.Errorf("insert water levels: %w", err)
	}

	s.logger.WithField("events", len(levels)).Info("Inserted water level events")

	s.mu.Lock()
	notifier := s.notifier
	s.mu.Unlock()

	if notifier != nil {
		notifier.OnTideDataUpdated()
	}

	return nil
}

// OnConfigUpdated handles a device configuration change. An unchanged
// location is a no-op. A changed location invalidates the whole cache before
// anything else, then refetches synchronously so the switch either completes
// or leaves a correctly-empty cache behind.
func (s *Scheduler) OnConfigUpdated(device deviceconfig.Config) {
	newLat := device.Tide.Location.Latitude
	newLon := device.Tide.Location.Longitude

	s.mu.Lock()
	if newLat == s.latitude && newLon == s.longitude {
		s.mu.Unlock()

		return
	}
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"latitude":  newLat,
		"longitude": newLon,
	}).Info("Tide location changed, invalidating cache")

	if err := s.store.InvalidateAll(); err != nil {
		s.logger.WithError(err).Error("Failed to invalidate cache for new location")

		return
	}

	s.mu.Lock()
	s.latitude = newLat
	s.longitude = newLon
	s.mu.Unlock()

	if err := s.RunOnce(context.Background()); err != nil {
		// The cache correctly reports itself empty until the next
		// successful cycle.
		s.logger.WithError(err).Error("Fetch for new location failed")
	}
}
