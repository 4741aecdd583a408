package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/fjordlys/tidelight/internal/ble"
	"github.com/fjordlys/tidelight/internal/cache"
	"github.com/fjordlys/tidelight/internal/config"
	"github.com/fjordlys/tidelight/internal/deviceconfig"
	"github.com/fjordlys/tidelight/internal/fetch"
	"github.com/fjordlys/tidelight/internal/ldr"
	"github.com/fjordlys/tidelight/internal/led"
	"github.com/fjordlys/tidelight/internal/scheduler"
	"github.com/fjordlys/tidelight/internal/server"
	"github.com/fjordlys/tidelight/internal/tide"
	"github.com/fjordlys/tidelight/internal/version"
	"github.com/fjordlys/tidelight/internal/visualizer"
)

// services holds the long-running application components.
type services struct {
	deviceCfg  *deviceconfig.Manager
	tideCache  *cache.Cache
	sched      *scheduler.Scheduler
	visualizer *visualizer.Visualizer
	lightCtrl  *ldr.Controller
	ledDevice  led.Device
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Setup logger
	logger := setupLogger()

	// Create application context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load and validate configuration
	cfg, err := loadAndValidateConfig(logger, *configPath)
	if err != nil {
		logger.WithError(err).Fatal("Configuration error")
	}

	// Setup services (cache, scheduler, visualizer, light sensor)
	svc, err := setupServices(ctx, logger, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Service setup failed")
	}

	// Start HTTP server
	srv, err := startServer(logger, cfg, svc)
	if err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	// Cancel application context to signal all loops to stop
	cancel()

	// Perform graceful shutdown
	shutdownGracefully(logger, cfg, srv, svc)
}

// setupLogger creates and configures the application logger.
func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})

	logger.WithFields(logrus.Fields{
		"version":    version.Short(),
		"git_commit": version.GitCommit,
		"build_date": version.BuildDate,
	}).Info("Starting...")

	return logger
}

// loadAndValidateConfig loads the configuration file and validates it.
func loadAndValidateConfig(logger *logrus.Logger, configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Set log level from config
	level, parseErr := logrus.ParseLevel(cfg.Server.LogLevel)
	if parseErr != nil {
		logger.WithError(parseErr).Warn("Invalid log level, using info")

		level = logrus.InfoLevel
	}

	logger.SetLevel(level)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"port":      cfg.Server.Port,
		"log_level": cfg.Server.LogLevel,
	}).Info("Configuration loaded")

	return cfg, nil
}

// setupServices wires the cache, scheduler, visualizer and light sensor
// controller together and starts their loops.
func setupServices(ctx context.Context, logger *logrus.Logger, cfg *config.Config) (*services, error) {
	svc := &services{}

	var err error

	// Load the device configuration document
	svc.deviceCfg, err = deviceconfig.Load(logger, cfg.Paths.DeviceConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load device config: %w", err)
	}

	device := svc.deviceCfg.Get()

	// Open the tide cache
	svc.tideCache, err = cache.Open(cfg.Paths.TideDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open tide cache: %w", err)
	}

	// Drop cached data recorded for a different location than the one we
	// are configured for. The scheduler refetches on its first cycle.
	if err := reconcileCachedLocation(logger, svc.tideCache, device); err != nil {
		return nil, err
	}

	// Create the tide API client and scheduler
	fetcher, err := fetch.New(logger, cfg.FetchConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch client: %w", err)
	}

	svc.sched, err = scheduler.New(logger, cfg.SchedulerConfig(), svc.tideCache, fetcher, device)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	// Create the LED device and visualizer
	svc.ledDevice, err = newLEDDevice(logger, device)
	if err != nil {
		return nil, fmt.Errorf("failed to create led device: %w", err)
	}

	calc := tide.NewCalculator(svc.tideCache)

	svc.visualizer, err = visualizer.New(logger, svc.ledDevice, calc, device)
	if err != nil {
		return nil, fmt.Errorf("failed to create visualizer: %w", err)
	}

	svc.sched.SetNotifier(svc.visualizer)

	// Create the light sensor controller
	svc.lightCtrl, err = ldr.NewController(logger, device, svc.visualizer.SetBrightness, newLightSensor)
	if err != nil {
		return nil, fmt.Errorf("failed to create light sensor controller: %w", err)
	}

	// Config fan-out: scheduler first so the cache is invalidated before
	// the visualizer renders against the new location.
	svc.deviceCfg.RegisterListener(svc.sched.OnConfigUpdated)
	svc.deviceCfg.RegisterListener(svc.visualizer.OnConfigUpdated)
	svc.deviceCfg.RegisterListener(svc.lightCtrl.OnConfigUpdated)

	if err := svc.sched.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("Scheduler started")

	if err := svc.visualizer.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start visualizer: %w", err)
	}

	logger.Info("Visualizer started")

	if err := svc.lightCtrl.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start light sensor controller: %w", err)
	}

	logger.Info("Light sensor controller started")

	return svc, nil
}

// reconcileCachedLocation invalidates the cache when it holds data for a
// location other than the configured one.
func reconcileCachedLocation(logger *logrus.Logger, tideCache *cache.Cache, device deviceconfig.Config) error {
	lat, lon, ok, err := tideCache.CachedLocation()
	if err != nil {
		return fmt.Errorf("failed to read cached location: %w", err)
	}

	if !ok {
		return nil
	}

	loc := device.Tide.Location
	if lat == loc.Latitude && lon == loc.Longitude {
		return nil
	}

	logger.WithFields(logrus.Fields{
		"cached_latitude":  lat,
		"cached_longitude": lon,
		"latitude":         loc.Latitude,
		"longitude":        loc.Longitude,
	}).Info("Cached tide data is for a different location, invalidating")

	if err := tideCache.InvalidateAll(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	return nil
}

// newLEDDevice selects the mock or the ws281x strip per the device config.
func newLEDDevice(logger *logrus.Logger, device deviceconfig.Config) (led.Device, error) {
	if device.LEDStrip.UseMock {
		logger.Info("Using mock LED strip")

		return led.NewMock(device.LEDStrip.Count), nil
	}

	brightness := device.LEDStrip.Brightness
	if brightness < 0 {
		brightness = 0
	} else if brightness > 255 {
		brightness = 255
	}

	return led.NewWS281x(device.LEDStrip.Count, uint8(brightness))
}

// newLightSensor is the sensor factory handed to the controller so a
// disabled sensor holds no GPIO line.
func newLightSensor(pin int) (ldr.Sensor, error) {
	return ldr.NewRealSensor(pin)
}

// startServer creates and starts the HTTP server.
func startServer(logger *logrus.Logger, cfg *config.Config, svc *services) (*server.Server, error) {
	configHandler := ble.NewConfigHandler(logger, svc.deviceCfg)

	calc := tide.NewCalculator(svc.tideCache)
	status := ble.NewStatusProvider(logger, calc, svc.tideCache)

	srv, err := server.New(logger, cfg, configHandler, status, svc.deviceCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	// Start server in goroutine
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("HTTP server starting")

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server error")
		}
	}()

	return srv, nil
}

// shutdownGracefully stops all components.
// Shutdown order:
// 1. HTTP server (stop accepting requests).
// 2. Scheduler (stop background fetches).
// 3. Light sensor controller (release the GPIO line).
// 4. Visualizer (clear the strip).
// 5. Tide cache (close the database).
func shutdownGracefully(logger *logrus.Logger, cfg *config.Config, srv *server.Server, svc *services) {
	logger.Info("Initiating graceful shutdown...")

	// Create a timeout context for the shutdown process
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Stop HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Error during server shutdown")
	}

	// Stop scheduler
	if svc.sched != nil {
		if err := svc.sched.Stop(); err != nil {
			logger.WithError(err).Error("Error stopping scheduler")
		}
	}

	// Stop light sensor controller
	if svc.lightCtrl != nil {
		if err := svc.lightCtrl.Stop(); err != nil {
			logger.WithError(err).Error("Error stopping light sensor controller")
		}
	}

	// Stop visualizer (clears the strip)
	if svc.visualizer != nil {
		if err := svc.visualizer.Stop(); err != nil {
			logger.WithError(err).Error("Error stopping visualizer")
		}
	}

	// Release the LED device if it holds hardware
	if closer, ok := svc.ledDevice.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.WithError(err).Error("Error closing led device")
		}
	}

	// Close the tide cache
	if svc.tideCache != nil {
		if err := svc.tideCache.Close(); err != nil {
			logger.WithError(err).Error("Error closing tide cache")
		}
	}

	logger.Info("Server stopped gracefully")
}
