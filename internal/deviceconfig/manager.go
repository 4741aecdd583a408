package deviceconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Listener is invoked with a snapshot of the new configuration after every
// successful replacement.
type Listener func(Config)

// Manager owns the canonical device configuration. Updates replace the whole
// document, persist it atomically, and are then broadcast synchronously to
// listeners in registration order. Writers never hold a long-lived mutable
// reference; every read hands out a copy.
type Manager struct {
	logger logrus.FieldLogger
	path   string

	mu        sync.Mutex
	config    Config
	listeners []Listener
}

// Load reads the configuration document at path. If the file does not exist,
// the factory defaults are written there first.
func Load(logger logrus.FieldLogger, path string) (*Manager, error) {
	m := &Manager{
		logger: logger.WithField("component", "deviceconfig"),
		path:   path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		m.logger.WithField("path", path).Info("No device config found, writing defaults")

		m.config = Default()
		if err := m.persist(); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}

		return m, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &m.config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return m, nil
}

// Get returns a snapshot of the current configuration.
func (m *Manager) Get() Config {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.config
}

// RegisterListener adds a callback invoked after every configuration
// replacement. Listeners are called synchronously, in registration order.
func (m *Manager) RegisterListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, l)
}

// Replace swaps in a new configuration document, persists it, and notifies
// listeners. Listeners run outside the lock so they may read the manager
// freely; they only run if persistence succeeded. A failed persist rolls the
// in-memory document back, so Get never returns a config that was neither
// persisted nor broadcast.
func (m *Manager) Replace(cfg Config) error {
	m.mu.Lock()

	previous := m.config
	m.config = cfg

	if err := m.persist(); err != nil {
		m.config = previous
		m.mu.Unlock()

		return err
	}

	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l(cfg)
	}

	return nil
}

// ResetToDefaults replaces the configuration with the factory defaults.
func (m *Manager) ResetToDefaults() error {
	m.logger.Info("Resetting configuration to defaults")

	return m.Replace(Default())
}

// persist writes the document to a temp file and renames it into place.
// Callers must hold the lock.
func (m *Manager) persist() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}

	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}

	return nil
}
