package relay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(relays []Relay) *Fetcher {
	f := NewFetcher(relays, WithCourtesyDelay(time.Millisecond))
	f.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	f.jitterMax = 0
	return f
}

func TestFetchJSON_FirstPartySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://upstream/chart", r.URL.Query().Get("url"))
		w.Write([]byte(`{"chart":{"result":[]}}`))
	}))
	defer srv.Close()

	f := newTestFetcher([]Relay{
		{Name: "first-party", Format: srv.URL + "/api/relay?url=%s", FirstParty: true},
	})

	body, err := f.FetchJSON(context.Background(), "https://upstream/chart")
	require.NoError(t, err)
	assert.JSONEq(t, `{"chart":{"result":[]}}`, string(body))
}

func TestFetchJSON_RetryBound(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := newTestFetcher([]Relay{
		{Name: "first-party", Format: srv.URL + "/?url=%s", FirstParty: true},
	})

	_, err := f.FetchJSON(context.Background(), "https://upstream/chart")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "rate-limited relay must be retried exactly maxAttempts times")
}

func TestFetchJSON_UnauthorizedFallsThroughToPublicRelay(t *testing.T) {
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer blocked.Close()

	public := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer public.Close()

	f := newTestFetcher([]Relay{
		{Name: "first-party", Format: blocked.URL + "/?url=%s", FirstParty: true},
		{Name: "public", Format: public.URL + "/?url=%s"},
	})

	body, err := f.FetchJSON(context.Background(), "https://upstream/chart")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestFetchJSON_HardFailureNoRetry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher([]Relay{
		{Name: "first-party", Format: srv.URL + "/?url=%s", FirstParty: true},
	})

	_, err := f.FetchJSON(context.Background(), "https://upstream/chart")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "non-retryable status must fail the relay immediately")
}

func TestFetchJSON_UnwrapsContentsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"contents":"{\"price\":42}","status":{"http_code":200}}`))
	}))
	defer srv.Close()

	f := newTestFetcher([]Relay{
		{Name: "public", Format: srv.URL + "/?url=%s"},
	})

	body, err := f.FetchJSON(context.Background(), "https://upstream/chart")
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":42}`, string(body))
}

func TestFetchJSON_RejectsHTMLErrorPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Too Many Requests</body></html>`))
	}))
	defer srv.Close()

	f := newTestFetcher([]Relay{
		{Name: "public", Format: srv.URL + "/?url=%s"},
	})

	_, err := f.FetchJSON(context.Background(), "https://upstream/chart")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTryFetchJSON_SwallowsExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := newTestFetcher([]Relay{
		{Name: "public", Format: srv.URL + "/?url=%s"},
	})

	body := f.TryFetchJSON(context.Background(), "https://upstream/chart")
	assert.Nil(t, body)
}

func TestFetchJSON_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFetcher([]Relay{
		{Name: "first-party", Format: srv.URL + "/?url=%s", FirstParty: true},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchJSON(ctx, "https://upstream/chart")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, ErrExhausted))
}

func TestCourtesyDelay_AppliesToFirstPublicAttempt(t *testing.T) {
	f := NewFetcher(nil, WithCourtesyDelay(time.Minute))

	assert.False(t, f.limiter.Allow(), "first public attempt must wait out the courtesy delay")
}

func TestBackoffDelay_Schedule(t *testing.T) {
	f := newTestFetcher(nil)
	f.backoffBase = 2 * time.Second

	assert.Equal(t, 2*time.Second, f.backoffDelay(1))
	assert.Equal(t, 4*time.Second, f.backoffDelay(2))
	assert.Equal(t, 6*time.Second, f.backoffDelay(3))
}
