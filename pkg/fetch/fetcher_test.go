package fetch

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sriram-PR/linkedin-scraper/pkg/config"
	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longBody = "<html><body>" + strings.Repeat("profile ", 200) + "</body></html>"

// testConfig returns a validated AppConfig with fast retry delays for testing
func testConfig(t *testing.T, maxRetries int) *config.AppConfig {
	t.Helper()
	cfg := &config.AppConfig{
		MaxRetries:     &maxRetries,
		RetryBaseDelay: 10 * time.Millisecond,
		RequestTimeout: 2 * time.Second,
		Session:        config.SessionConfig{Token: "test"},
	}
	_, err := cfg.Validate()
	require.NoError(t, err)
	return cfg
}

// testLogger returns a logger that discards output
func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// sleepRecorder captures backoff delays without sleeping
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

// mockServer creates an httptest.Server that returns status codes in sequence.
// 2xx responses carry longBody. Returns the server and an attempt counter.
func mockServer(t *testing.T, statusCodes []int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	attemptCount := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := int(attemptCount.Add(1)) - 1
		if idx >= len(statusCodes) {
			idx = len(statusCodes) - 1
		}
		w.WriteHeader(statusCodes[idx])
		if statusCodes[idx] < 300 {
			_, _ = io.WriteString(w, longBody)
		}
	}))
	t.Cleanup(server.Close)
	return server, attemptCount
}

func newTestFetcher(t *testing.T, cfg *config.AppConfig, pool *ProxyPool, opts ...Option) *Fetcher {
	t.Helper()
	return NewFetcher(NewClient(cfg, testLogger()), cfg, pool, testLogger(), opts...)
}

func TestFetch_Success(t *testing.T) {
	server, attempts := mockServer(t, []int{http.StatusOK})
	rec := &sleepRecorder{}

	body, err := newTestFetcher(t, testConfig(t, 3), nil, WithSleep(rec.sleep)).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, longBody, body)
	assert.Equal(t, int32(1), attempts.Load())
	assert.Empty(t, rec.delays)
}

func TestFetch_RateLimitedThenSuccess(t *testing.T) {
	server, attempts := mockServer(t, []int{429, 429, 200})
	rec := &sleepRecorder{}

	body, err := newTestFetcher(t, testConfig(t, 3), nil, WithSleep(rec.sleep)).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, longBody, body)
	assert.Equal(t, int32(3), attempts.Load())
	require.Len(t, rec.delays, 2)
	assert.Equal(t, 10*time.Millisecond, rec.delays[0])
	assert.Equal(t, 20*time.Millisecond, rec.delays[1])
	assert.LessOrEqual(t, rec.delays[0], rec.delays[1])
}

func TestFetch_ServerErrorsExhaustRetries(t *testing.T) {
	server, attempts := mockServer(t, []int{500})
	rec := &sleepRecorder{}

	_, err := newTestFetcher(t, testConfig(t, 3), nil, WithSleep(rec.sleep)).Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrRetryFailed)
	assert.ErrorIs(t, err, utils.ErrServerHTTPError)
	assert.Equal(t, int32(4), attempts.Load())
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}, rec.delays)
	assert.Equal(t, "RetryFailed_HTTPServer", utils.CategorizeError(err))
}

func TestFetch_ZeroRetriesSingleAttempt(t *testing.T) {
	server, attempts := mockServer(t, []int{503})

	_, err := newTestFetcher(t, testConfig(t, 0), nil).Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, utils.ErrRetryFailed)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestFetch_PermanentFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
		category string
	}{
		{"404 not found", http.StatusNotFound, utils.ErrClientHTTPError, "HTTP_404"},
		{"403 forbidden", http.StatusForbidden, utils.ErrClientHTTPError, "HTTP_403"},
		{"999 bot wall", 999, utils.ErrOtherHTTPError, "HTTP_999"},
		{"304 not modified", http.StatusNotModified, utils.ErrOtherHTTPError, "HTTP_OtherStatus"},
		{"600 above server range", 600, utils.ErrOtherHTTPError, "HTTP_OtherStatus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, attempts := mockServer(t, []int{tt.status})

			_, err := newTestFetcher(t, testConfig(t, 3), nil).Fetch(context.Background(), server.URL)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.NotErrorIs(t, err, utils.ErrRetryFailed)
			assert.False(t, utils.IsRetryable(err))
			assert.Equal(t, tt.category, utils.CategorizeError(err))
			assert.Equal(t, int32(1), attempts.Load())
		})
	}
}

func TestFetch_ShortBodyIsContentTooShort(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = io.WriteString(w, "<html>authwall</html>")
	}))
	defer server.Close()

	_, err := newTestFetcher(t, testConfig(t, 3), nil).Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, utils.ErrContentTooShort)
	assert.Equal(t, "Content_TooShort", utils.CategorizeError(err))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestFetch_TimeoutIsRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
			return
		}
		_, _ = io.WriteString(w, longBody)
	}))
	defer server.Close()

	cfg := testConfig(t, 2)
	cfg.RequestTimeout = 50 * time.Millisecond
	rec := &sleepRecorder{}

	body, err := newTestFetcher(t, cfg, nil, WithSleep(rec.sleep)).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, longBody, body)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Len(t, rec.delays, 1)
}

func TestFetch_NetworkErrorExhausts(t *testing.T) {
	// Grab a free port and close it so connections are refused
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	rec := &sleepRecorder{}
	_, err = newTestFetcher(t, testConfig(t, 2), nil, WithSleep(rec.sleep)).Fetch(context.Background(), "http://"+addr+"/in/jane")

	assert.ErrorIs(t, err, utils.ErrRetryFailed)
	assert.ErrorIs(t, err, utils.ErrTransport)
	assert.Len(t, rec.delays, 2)
}

func TestFetch_SendsBrowserHeadersAndSession(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, longBody)
	}))
	defer server.Close()

	cfg := testConfig(t, 0)
	cookie := &http.Cookie{Name: "li_at", Value: "token-123"}
	_, err := newTestFetcher(t, cfg, nil, WithSession(cookie)).Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, cfg.UserAgent, got.Get("User-Agent"))
	assert.Equal(t, acceptHeader, got.Get("Accept"))
	assert.Equal(t, "en-US,en;q=0.5", got.Get("Accept-Language"))
	assert.Equal(t, "1", got.Get("DNT"))
	assert.Equal(t, "1", got.Get("Upgrade-Insecure-Requests"))
	assert.Contains(t, got.Get("Cookie"), "li_at=token-123")
}

func TestFetch_RotatesProxyAfterRateLimit(t *testing.T) {
	var mu sync.Mutex
	var route []string
	var calls atomic.Int32

	// Each proxy records itself; the shared sequence answers 429, 429, 200
	newProxy := func(name string) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			route = append(route, name)
			mu.Unlock()
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = io.WriteString(w, longBody)
		}))
		t.Cleanup(srv.Close)
		return srv
	}
	proxyA, proxyB := newProxy("A"), newProxy("B")

	pool := NewProxyPool([]string{proxyA.URL, proxyB.URL})
	rec := &sleepRecorder{}

	body, err := newTestFetcher(t, testConfig(t, 3), pool, WithSleep(rec.sleep)).Fetch(context.Background(), "http://www.linkedin.test/in/jane/")

	require.NoError(t, err)
	assert.Equal(t, longBody, body)
	assert.Equal(t, []string{"A", "B", "A"}, route)
	assert.Len(t, rec.delays, 2)
}

func TestFetch_ContextCancelledDuringBackoff(t *testing.T) {
	server, attempts := mockServer(t, []int{500})
	ctx, cancel := context.WithCancel(context.Background())

	cancelOnSleep := func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := newTestFetcher(t, testConfig(t, 3), nil, WithSleep(cancelOnSleep)).Fetch(ctx, server.URL)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotErrorIs(t, err, utils.ErrRetryFailed)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestFetch_InvalidURL(t *testing.T) {
	_, err := newTestFetcher(t, testConfig(t, 0), nil).Fetch(context.Background(), "::not a url")
	assert.ErrorIs(t, err, utils.ErrRequestCreation)
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	var pageHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = io.WriteString(w, "User-agent: *\nDisallow: /in/\n")
			return
		}
		pageHits.Add(1)
		_, _ = io.WriteString(w, longBody)
	}))
	defer server.Close()

	cfg := testConfig(t, 0)
	client := NewClient(cfg, testLogger())
	robots := NewRobotsHandler(client, cfg.UserAgent, testLogger())
	f := NewFetcher(client, cfg, nil, testLogger(), WithRobots(robots))

	_, err := f.Fetch(context.Background(), server.URL+"/in/jane")
	assert.ErrorIs(t, err, utils.ErrRobotsDisallowed)

	_, err = f.Fetch(context.Background(), server.URL+"/company/acme")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), pageHits.Load())
}
