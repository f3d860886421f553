// Package feeds fetches raw transit records from the transient (live) and
// permanent (static) feed endpoints and decodes the upstream GTFS-RT vehicle
// feed into Bus records.
package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrFeedUnavailable wraps any failure while fetching a feed class. A single
// failed request fails the whole cycle; no partial record set is produced.
var ErrFeedUnavailable = errors.New("feeds: feed unavailable")

// ClientConfig holds configuration for the feed client.
type ClientConfig struct {
	// TransientURL serves live records (trains, buses).
	TransientURL string
	// PermanentURL serves static records (stations, stops, routes).
	PermanentURL string
	// VehiclesURL is the GTFS-RT VehiclePositions feed; optional.
	VehiclesURL string
	// VehiclesAPIKey is sent as x-api-key when fetching VehiclesURL.
	VehiclesAPIKey string
	// Timeout applies to each HTTP request. Default: 10s.
	Timeout time.Duration
	// MaxRetries bounds per-request retry attempts. Default: 3.
	MaxRetries uint64
	// Logger for fetch operations.
	Logger zerolog.Logger
}

// Client fetches RawRecords from the two feed classes.
type Client struct {
	transientURL   string
	permanentURL   string
	vehiclesURL    string
	vehiclesAPIKey string
	transient      *resilientClient
	permanent      *resilientClient
	log            zerolog.Logger
}

// NewClient creates a feed client with a circuit breaker per feed class.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = 3
	}
	return &Client{
		transientURL:   cfg.TransientURL,
		permanentURL:   cfg.PermanentURL,
		vehiclesURL:    cfg.VehiclesURL,
		vehiclesAPIKey: cfg.VehiclesAPIKey,
		transient:      newResilientClient("transient", timeout, retries),
		permanent:      newResilientClient("permanent", timeout, retries),
		log:            cfg.Logger,
	}
}

// FetchTransient fetches live records for the given object types.
func (c *Client) FetchTransient(ctx context.Context, objectTypes []string) ([]RawRecord, error) {
	return c.fetch(ctx, c.transient, c.transientURL, objectTypes)
}

// FetchPermanent fetches static records for the given object types.
func (c *Client) FetchPermanent(ctx context.Context, objectTypes []string) ([]RawRecord, error) {
	return c.fetch(ctx, c.permanent, c.permanentURL, objectTypes)
}

// FetchCycle issues one request per feed class, object types comma-joined,
// and waits for both. If either fails the whole cycle fails and no records
// are returned. Empty type lists skip their feed class.
func (c *Client) FetchCycle(ctx context.Context, transientTypes, permanentTypes []string) ([]RawRecord, error) {
	var (
		wg           sync.WaitGroup
		transientRes []RawRecord
		permanentRes []RawRecord
		transientErr error
		permanentErr error
	)
	if len(transientTypes) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			transientRes, transientErr = c.FetchTransient(ctx, transientTypes)
		}()
	}
	if len(permanentTypes) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			permanentRes, permanentErr = c.FetchPermanent(ctx, permanentTypes)
		}()
	}
	wg.Wait()

	if transientErr != nil {
		return nil, fmt.Errorf("%w: transient: %v", ErrFeedUnavailable, transientErr)
	}
	if permanentErr != nil {
		return nil, fmt.Errorf("%w: permanent: %v", ErrFeedUnavailable, permanentErr)
	}

	records := make([]RawRecord, 0, len(transientRes)+len(permanentRes))
	records = append(records, transientRes...)
	records = append(records, permanentRes...)
	return records, nil
}

// FetchVehicles fetches the raw GTFS-RT VehiclePositions protobuf payload.
func (c *Client) FetchVehicles(ctx context.Context) ([]byte, error) {
	if c.vehiclesURL == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.vehiclesURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	if c.vehiclesAPIKey != "" {
		req.Header.Set("x-api-key", c.vehiclesAPIKey)
	}
	resp, err := c.transient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vehicles: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vehicles: HTTP %d from %s", resp.StatusCode, c.vehiclesURL)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) fetch(ctx context.Context, rc *resilientClient, base string, objectTypes []string) ([]RawRecord, error) {
	if base == "" {
		return nil, errors.New("feed URL not configured")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("objectType", strings.Join(objectTypes, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := rc.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, u)
	}

	var records []RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", u, err)
	}
	c.log.Debug().Str("url", base).Int("records", len(records)).Msg("feed fetched")
	return records, nil
}
