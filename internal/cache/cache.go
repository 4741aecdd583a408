// Package cache is the SQLite-backed store of tide predictions for the one
// active location. Rows carry no coordinates; the location the data belongs
// to is tracked in a metadata table and the only way to switch locations is
// a full invalidation.
package cache

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fjordlys/tidelight/internal/tide"
)

// timeLayout is a naive ISO-8601 form. Stored as TEXT, it sorts lexically in
// the same order as the timestamps it encodes, so range queries compare
// strings directly.
const timeLayout = "2006-01-02T15:04:05"

const (
	metaLatitude  = "current_latitude"
	metaLongitude = "current_longitude"
)

// Cache stores water level events for at most one location at a time.
// All operations serialize behind a single lock; it is safe for concurrent
// use from the scheduler, the visualizer's calculator calls, and config
// handlers.
type Cache struct {
	mu   sync.Mutex
	conn *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*Cache, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	c := &Cache{conn: conn}
	if err := c.migrate(); err != nil {
		conn.Close()

		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.Close()
}

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS waterlevels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		time TEXT NOT NULL UNIQUE,
		flag TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_waterlevels_time ON waterlevels(time);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`

	_, err := c.conn.Exec(schema)

	return err
}

// Insert stores the given events and stamps the location metadata with the
// given coordinates. Events whose time already exists are ignored, so the
// call is idempotent. The caller is responsible for invalidating first when
// the location changed.
func (c *Cache) Insert(events []tide.WaterLevel, latitude, longitude float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO waterlevels (time, flag) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, wl := range events {
		if _, err := stmt.Exec(wl.Time.Format(timeLayout), string(wl.Flag)); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	// Location metadata is (re)stamped on every insert, not just the first,
	// so repeated inserts for the same location are idempotent.
	for key, value := range map[string]float64{
		metaLatitude:  latitude,
		metaLongitude: longitude,
	} {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)",
			key, fmt.Sprintf("%v", value),
		); err != nil {
			return fmt.Errorf("store location metadata: %w", err)
		}
	}

	return tx.Commit()
}

// QueryRange returns all events with start <= time <= end, ascending by
// time. It does not filter by coordinates; the single-location invariant is
// the caller's responsibility.
func (c *Cache) QueryRange(start, end time.Time) ([]tide.WaterLevel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.conn.Query(
		"SELECT time, flag FROM waterlevels WHERE time BETWEEN ? AND ? ORDER BY time ASC",
		start.Format(timeLayout), end.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query water levels: %w", err)
	}
	defer rows.Close()

	var levels []tide.WaterLevel

	for rows.Next() {
		var (
			timeStr string
			flag    string
		)

		if err := rows.Scan(&timeStr, &flag); err != nil {
			return nil, fmt.Errorf("scan water level: %w", err)
		}

		ts, err := time.ParseInLocation(timeLayout, timeStr, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse stored time %q: %w", timeStr, err)
		}

		levels = append(levels, tide.WaterLevel{Time: ts, Flag: tide.WaterLevelFlag(flag)})
	}

	return levels, rows.Err()
}

// HasDataForRange reports whether at least one event falls inside the given
// window. This is deliberately an existence check, not a completeness check:
// the scheduler's re-fetch cadence depends on a single row counting as
// coverage.
func (c *Cache) HasDataForRange(start, end time.Time) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var one int

	err := c.conn.QueryRow(
		"SELECT 1 FROM waterlevels WHERE time BETWEEN ? AND ? LIMIT 1",
		start.Format(timeLayout), end.Format(timeLayout),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("check range: %w", err)
	}

	return true, nil
}

// IsEmpty reports whether the cache is considered unpopulated: it is empty
// when it holds no events OR no location metadata. Both must be present for
// the cache to count as populated.
func (c *Cache) IsEmpty() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _, hasLocation, err := c.cachedLocation()
	if err != nil {
		return false, err
	}

	var one int

	err = c.conn.QueryRow("SELECT 1 FROM waterlevels LIMIT 1").Scan(&one)
	if err == sql.ErrNoRows {
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("check data: %w", err)
	}

	return !hasLocation, nil
}

// InvalidateAll deletes every event and the location metadata. This is the
// only way to change the active location.
func (c *Cache) InvalidateAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM waterlevels"); err != nil {
		return fmt.Errorf("delete water levels: %w", err)
	}

	if _, err := tx.Exec(
		"DELETE FROM metadata WHERE key IN (?, ?)", metaLatitude, metaLongitude,
	); err != nil {
		return fmt.Errorf("delete location metadata: %w", err)
	}

	return tx.Commit()
}

// CachedLocation returns the coordinates the cached data belongs to. ok is
// false when no location metadata exists.
func (c *Cache) CachedLocation() (latitude, longitude float64, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cachedLocation()
}

func (c *Cache) cachedLocation() (float64, float64, bool, error) {
	lat, ok, err := c.metadataFloat(metaLatitude)
	if err != nil || !ok {
		return 0, 0, false, err
	}

	lon, ok, err := c.metadataFloat(metaLongitude)
	if err != nil || !ok {
		return 0, 0, false, err
	}

	return lat, lon, true, nil
}

func (c *Cache) metadataFloat(key string) (float64, bool, error) {
	var value float64

	err := c.conn.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("read metadata %s: %w", key, err)
	}

	return value, true, nil
}

// clearLocationMetadata removes only the location keys, leaving event rows
// in place. Used by tests to exercise the is-empty definition.
func (c *Cache) clearLocationMetadata() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.conn.Exec(
		"DELETE FROM metadata WHERE key IN (?, ?)", metaLatitude, metaLongitude,
	)

	return err
}
