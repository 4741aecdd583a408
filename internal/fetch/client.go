// Package fetch retrieves tide predictions from the water level API. The
// transport is plain HTTP returning an XML document of tabulated high/low
// events; everything beyond request/parse lives in the scheduler.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjordlys/tidelight/internal/tide"
)

// requestTimeLayout is the timestamp format the API expects in query
// parameters.
const requestTimeLayout = "2006-01-02T15:04"

// Config holds fetch client settings.
type Config struct {
	// BaseURL of the tide API endpoint.
	BaseURL string
	// RequestTimeout for a single fetch.
	RequestTimeout time.Duration
}

// Validate validates the configuration and sets defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}

	return nil
}

// Client fetches tabulated water level events for a location.
type Client struct {
	config     Config
	logger     logrus.FieldLogger
	httpClient *http.Client
	now        func() time.Time
}

// New creates a new fetch client.
func New(logger logrus.FieldLogger, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config:     cfg,
		logger:     logger.WithField("component", "fetch"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		now:        time.Now,
	}, nil
}

// FetchWaterLevels fetches high/low events for the given coordinates
// covering [now - daysBack, now + daysForward], ascending by time.
func (c *Client) FetchWaterLevels(
	ctx context.Context,
	latitude, longitude float64,
	daysBack, daysForward int,
) ([]tide.WaterLevel, error) {
	now := c.now()

	params := url.Values{}
	params.Set("tide_request", "locationdata")
	params.Set("lat", fmt.Sprintf("%v", latitude))
	params.Set("lon", fmt.Sprintf("%v", longitude))
	params.Set("fromtime", now.AddDate(0, 0, -daysBack).Format(requestTimeLayout))
	params.Set("totime", now.AddDate(0, 0, daysForward).Format(requestTimeLayout))
	params.Set("datatype", "tab")
	params.Set("lang", "en")

	reqURL := c.config.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	levels, err := parseWaterLevels(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"latitude":  latitude,
		"longitude": longitude,
		"events":    len(levels),
	}).Debug("Fetched water levels")

	return levels, nil
}
