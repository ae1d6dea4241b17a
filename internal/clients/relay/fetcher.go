// Package relay implements the resilient proxy fetcher: an ordered chain of
// relay strategies that tolerates a rate-limiting, auth-blocking upstream.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/interfaces"
)

const (
	DefaultTimeout     = 20 * time.Second
	DefaultMaxAttempts = 3
	DefaultBackoffBase = 2 * time.Second
	DefaultJitterMax   = 1 * time.Second
)

// Relay is one strategy in the chain. Format carries a single %s placeholder
// that receives the URL-encoded target.
type Relay struct {
	Name   string
	Format string
	// FirstParty relays get bounded 429/401 retries with backoff; public
	// relays get a single paced attempt each.
	FirstParty bool
}

// URL builds the relay request URL for a target.
func (r Relay) URL(target string) string {
	return fmt.Sprintf(r.Format, url.QueryEscape(target))
}

// Fetcher walks the relay chain until one strategy yields parseable JSON.
type Fetcher struct {
	relays      []Relay
	httpClient  *http.Client
	limiter     *rate.Limiter // courtesy pacing for public relays
	breakers    map[string]*gobreaker.CircuitBreaker
	maxAttempts int
	backoffBase time.Duration
	jitterMax   time.Duration
	logger      *common.Logger

	// sleep is injectable so tests don't wait out real backoff schedules.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures the fetcher
type Option func(*Fetcher)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithMaxAttempts bounds retries against a first-party relay
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithCourtesyDelay sets the minimum spacing between public relay attempts
func WithCourtesyDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// NewFetcher creates a fetcher over an ordered relay chain.
func NewFetcher(relays []Relay, opts ...Option) *Fetcher {
	f := &Fetcher{
		relays:      relays,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
		breakers:    make(map[string]*gobreaker.CircuitBreaker, len(relays)),
		maxAttempts: DefaultMaxAttempts,
		backoffBase: DefaultBackoffBase,
		jitterMax:   DefaultJitterMax,
		logger:      common.NewSilentLogger(),
		sleep:       sleepCtx,
	}

	for _, opt := range opts {
		opt(f)
	}

	// Spend the limiter's initial token so even the first public relay
	// attempt waits out the courtesy delay.
	f.limiter.Reserve()

	// One breaker per relay so a dead public relay is skipped quickly
	// without poisoning the rest of the chain.
	for _, r := range relays {
		f.breakers[r.Name] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        r.Name,
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
	}

	return f
}

// FetchJSON walks the chain: the first-party relay with bounded backoff
// retries on 429/401, then each public relay with a courtesy delay. It
// returns the first body that parses as JSON, or ErrExhausted.
func (f *Fetcher) FetchJSON(ctx context.Context, targetURL string) (json.RawMessage, error) {
	var lastErr error

	for _, r := range f.relays {
		var body json.RawMessage
		var err error
		if r.FirstParty {
			body, err = f.fetchWithRetry(ctx, r, targetURL)
		} else {
			body, err = f.fetchPublic(ctx, r, targetURL)
		}
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.Debug().Str("relay", r.Name).Err(err).Msg("Relay strategy failed, falling through")
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrExhausted, lastErr)
	}
	return nil, ErrExhausted
}

// TryFetchJSON is the swallowing variant for callers where missing data is
// tolerable: it returns nil on exhaustion instead of an error.
func (f *Fetcher) TryFetchJSON(ctx context.Context, targetURL string) json.RawMessage {
	body, err := f.FetchJSON(ctx, targetURL)
	if err != nil {
		return nil
	}
	return body
}

// fetchWithRetry issues up to maxAttempts requests against a first-party
// relay, backing off on 429/401. Any other failure is a hard failure of the
// relay: fall through to the next strategy without retrying.
func (f *Fetcher) fetchWithRetry(ctx context.Context, r Relay, targetURL string) (json.RawMessage, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		body, status, err := f.doRequest(ctx, r, targetURL)
		if err == nil {
			return body, nil
		}
		lastErr = &Error{Relay: r.Name, Attempt: attempt, Status: status, Err: err}

		retryable := status == http.StatusTooManyRequests || status == http.StatusUnauthorized
		if !retryable || attempt == f.maxAttempts {
			return nil, lastErr
		}

		delay := f.backoffDelay(attempt)
		f.logger.Warn().
			Str("relay", r.Name).
			Int("status", status).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("Relay rate limited, backing off")
		if err := f.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// fetchPublic issues a single paced attempt against a public relay.
func (f *Fetcher) fetchPublic(ctx context.Context, r Relay, targetURL string) (json.RawMessage, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, status, err := f.doRequest(ctx, r, targetURL)
	if err != nil {
		return nil, &Error{Relay: r.Name, Attempt: 1, Status: status, Err: err}
	}
	return body, nil
}

// doRequest performs one GET through a relay, classifies the status, unwraps
// envelope responses, and validates the body is JSON. The returned status is
// 0 for transport-level failures.
func (f *Fetcher) doRequest(ctx context.Context, r Relay, targetURL string) (json.RawMessage, int, error) {
	breaker := f.breakers[r.Name]
	result, err := breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(targetURL), nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
		if err != nil {
			return nil, statusError{status: resp.StatusCode, err: err}
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, statusError{status: resp.StatusCode, err: ErrRateLimited}
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, statusError{status: resp.StatusCode, err: ErrUnauthorized}
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return nil, statusError{status: resp.StatusCode, err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		}

		body := unwrapEnvelope(raw)
		if !looksLikeJSON(body) || !json.Valid(body) {
			return nil, statusError{status: resp.StatusCode, err: ErrMalformed}
		}
		return json.RawMessage(body), nil
	})
	if err != nil {
		if se, ok := err.(statusError); ok {
			return nil, se.status, se.err
		}
		return nil, 0, err
	}
	return result.(json.RawMessage), 0, nil
}

// statusError carries the HTTP status through the circuit breaker boundary.
type statusError struct {
	status int
	err    error
}

func (e statusError) Error() string { return e.err.Error() }
func (e statusError) Unwrap() error { return e.err }

// backoffDelay is the schedule for attempt n: base*n plus random jitter.
// With the defaults that is 2s/4s/6s ± up to 1s.
func (f *Fetcher) backoffDelay(attempt int) time.Duration {
	d := f.backoffBase * time.Duration(attempt)
	if f.jitterMax > 0 {
		d += time.Duration(rand.Int63n(int64(f.jitterMax)))
	}
	return d
}

// unwrapEnvelope detects passthrough relays that wrap the target body in a
// {"contents": "..."} envelope and extracts the inner text.
func unwrapEnvelope(body []byte) []byte {
	if !bytes.Contains(body, []byte(`"contents"`)) {
		return body
	}
	var envelope struct {
		Contents string `json:"contents"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Contents == "" {
		return body
	}
	return []byte(envelope.Contents)
}

// looksLikeJSON rejects HTML error pages before a parse is attempted.
func looksLikeJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Ensure Fetcher implements RelayFetcher
var _ interfaces.RelayFetcher = (*Fetcher)(nil)
