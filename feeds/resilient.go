package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when a feed's circuit breaker is open.
var ErrCircuitOpen = errors.New("feeds: circuit breaker is open")

// resilientClient wraps http.Client with exponential-backoff retries and a
// circuit breaker per feed endpoint. Transient failures (network errors and
// 5xx responses) are retried; anything else returns immediately.
type resilientClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	maxRetries uint64
	initial    time.Duration
	maxWait    time.Duration
}

func newResilientClient(name string, timeout time.Duration, maxRetries uint64) *resilientClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &resilientClient{
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[*http.Response](settings),
		maxRetries: maxRetries,
		initial:    100 * time.Millisecond,
		maxWait:    5 * time.Second,
	}
}

// Do executes req, retrying transient failures. The caller owns the response
// body on success.
func (c *resilientClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initial
	bo.MaxInterval = c.maxWait
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)

	var resp *http.Response
	operation := func() error {
		r, err := c.breaker.Execute(func() (*http.Response, error) {
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				_ = r.Body.Close()
				return nil, fmt.Errorf("HTTP %d from %s", r.StatusCode, req.URL)
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			return err
		}
		resp = r
		return nil
	}
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return resp, nil
}
