package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Sriram-PR/linkedin-scraper/pkg/config"
	"github.com/Sriram-PR/linkedin-scraper/pkg/metrics"
	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Browser-like request headers; the target degrades or blocks bare clients
const (
	acceptHeader         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguageHeader = "en-US,en;q=0.5"
)

// SleepFunc waits for d or until ctx ends
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Fetcher
type Option func(*Fetcher)

// WithSession attaches a session cookie to every request
func WithSession(cookie *http.Cookie) Option {
	return func(f *Fetcher) { f.cookie = cookie }
}

// WithRateLimiter paces attempts per host
func WithRateLimiter(rl *RateLimiter) Option {
	return func(f *Fetcher) { f.limiter = rl }
}

// WithRobots rejects URLs disallowed by robots.txt
func WithRobots(rh *RobotsHandler) Option {
	return func(f *Fetcher) { f.robots = rh }
}

// WithSleep replaces the backoff sleep
func WithSleep(sleep SleepFunc) Option {
	return func(f *Fetcher) { f.sleep = sleep }
}

// Fetcher resolves a URL to HTML, retrying transient failures with linear backoff
type Fetcher struct {
	client  *http.Client
	cfg     *config.AppConfig
	proxies *ProxyPool
	limiter *RateLimiter
	robots  *RobotsHandler
	cookie  *http.Cookie
	sleep   SleepFunc
	log     *logrus.Entry
}

// NewFetcher creates a new Fetcher instance. proxies may be nil or empty.
func NewFetcher(client *http.Client, cfg *config.AppConfig, proxies *ProxyPool, log *logrus.Entry, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  client,
		cfg:     cfg,
		proxies: proxies,
		sleep:   sleepContext,
		log:     log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs rawURL and returns the body.
//
// Attempt n (1-based) after a failure waits retry_base_delay*n. Rate limited (429), 5xx and
// transport failures are retried up to max_retries times; a 429 also moves to the next proxy.
// Other failures return at once. Exhaustion returns ErrRetryFailed wrapping the last error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := url.Parse(rawURL)
	if err != nil || target.Host == "" {
		return "", utils.WrapErrorf(utils.ErrRequestCreation, "invalid url %q", rawURL)
	}
	reqLog := f.log.WithField("url", rawURL)

	if f.robots != nil && !f.robots.Allowed(ctx, target) {
		reqLog.Warn("Disallowed by robots.txt")
		return "", utils.WrapErrorf(utils.ErrRobotsDisallowed, "%s", rawURL)
	}

	proxy, _ := f.proxies.Next()
	maxRetries := f.cfg.Retries()
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", contextError(err, lastErr)
		}

		if attempt > 0 {
			delay := f.cfg.RetryBaseDelay * time.Duration(attempt)
			if errors.Is(lastErr, utils.ErrRateLimited) && f.proxies.Len() > 1 {
				proxy, _ = f.proxies.Next()
				metrics.ObserveProxyRotation()
				reqLog.WithField("proxy", proxy).Debug("Rotated proxy after rate limit")
			}
			reqLog.WithFields(logrus.Fields{"attempt": attempt, "max_retries": maxRetries, "delay": delay}).Warn("Retrying request...")
			if err := f.sleep(ctx, delay); err != nil {
				return "", contextError(err, lastErr)
			}
		}

		if err := f.limiter.Wait(ctx, target.Host); err != nil {
			return "", contextError(err, lastErr)
		}

		start := time.Now()
		body, err := f.attempt(ctx, target, proxy)
		if err == nil {
			metrics.ObserveFetch(metrics.OutcomeSuccess, time.Since(start))
			reqLog.WithField("attempt", attempt).Debug("Successfully fetched")
			return body, nil
		}
		if ctx.Err() != nil {
			return "", contextError(ctx.Err(), lastErr)
		}
		metrics.ObserveFetch(utils.CategorizeError(err), time.Since(start))

		if !utils.IsRetryable(err) {
			reqLog.WithField("attempt", attempt).Warnf("Not retrying: %v", err)
			return "", err
		}
		reqLog.WithField("attempt", attempt).Warnf("Attempt failed: %v", err)
		lastErr = err
	}

	reqLog.Errorf("All %d fetch attempts failed. Last error: %v", maxRetries+1, lastErr)
	return "", fmt.Errorf("%w: %w", utils.ErrRetryFailed, lastErr)
}

// attempt performs one GET under its own timeout and classifies the outcome
func (f *Fetcher) attempt(ctx context.Context, target *url.URL, proxy string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
	defer cancel()
	if proxy != "" {
		attemptCtx = WithProxy(attemptCtx, proxy)
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrRequestCreation, err)
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrTransport, err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	switch {
	case status >= 200 && status < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("%w: %w: %w", utils.ErrTransport, utils.ErrResponseBodyRead, err)
		}
		if len(body) < f.cfg.MinBodyBytes {
			return "", fmt.Errorf("%w: %d bytes, want at least %d", utils.ErrContentTooShort, len(body), f.cfg.MinBodyBytes)
		}
		return string(body), nil

	case status == http.StatusTooManyRequests:
		drain(resp)
		return "", fmt.Errorf("%w: status %d", utils.ErrRateLimited, status)

	case status >= 500 && status < 600:
		drain(resp)
		return "", fmt.Errorf("%w: status %d", utils.ErrServerHTTPError, status)

	case status >= 400:
		drain(resp)
		return "", fmt.Errorf("%w: status %d", utils.ErrClientHTTPError, status)

	default:
		drain(resp)
		return "", fmt.Errorf("%w: status %d", utils.ErrOtherHTTPError, status)
	}
}

func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguageHeader)
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
}

// contextError keeps the context error matchable while recording what failed before it
func contextError(ctxErr, lastErr error) error {
	if lastErr == nil {
		return ctxErr
	}
	return fmt.Errorf("%w (after: %v)", ctxErr, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
