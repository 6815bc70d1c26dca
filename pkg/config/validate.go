package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"
)

// Defaults applied by Validate
const (
	DefaultBotName            = "linkedin"
	DefaultConcurrentRequests = 1
	DefaultRequestTimeout     = 30 * time.Second
	DefaultMaxRetries         = 3
	DefaultRetryBaseDelay     = 1 * time.Second
	DefaultOutputDir          = "data"
	DefaultMinBodyBytes       = 1024
	DefaultOrigin             = "https://www.linkedin.com"
	DefaultProxyCheckURL      = "https://httpbin.org/ip"
	DefaultProxyCheckTimeout  = 10 * time.Second
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	if c.BotName == "" {
		c.BotName = DefaultBotName
	}

	// ConcurrentRequests
	if c.ConcurrentRequests <= 0 {
		if c.ConcurrentRequests < 0 {
			warnings = append(warnings, fmt.Sprintf("concurrent_requests should be > 0, defaulting to %d", DefaultConcurrentRequests))
		}
		c.ConcurrentRequests = DefaultConcurrentRequests
	}

	// RequestTimeout
	if c.RequestTimeout <= 0 {
		if c.RequestTimeout < 0 {
			warnings = append(warnings, fmt.Sprintf("request_timeout should be > 0, defaulting to %v", DefaultRequestTimeout))
		}
		c.RequestTimeout = DefaultRequestTimeout
	}

	// MaxRetries
	if c.MaxRetries == nil {
		n := DefaultMaxRetries
		c.MaxRetries = &n
	} else if *c.MaxRetries < 0 {
		warnings = append(warnings, "max_retries cannot be negative, setting to 0")
		n := 0
		c.MaxRetries = &n
	}

	// RetryBaseDelay
	if c.RetryBaseDelay < 0 {
		warnings = append(warnings, "retry_base_delay cannot be negative, setting to 0")
		c.RetryBaseDelay = 0
	} else if c.RetryBaseDelay == 0 && *c.MaxRetries > 0 {
		c.RetryBaseDelay = DefaultRetryBaseDelay
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	// OutputDir
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	// MinBodyBytes
	if c.MinBodyBytes < 0 {
		warnings = append(warnings, "min_body_bytes cannot be negative, disabling the short-body check")
		c.MinBodyBytes = 0
	} else if c.MinBodyBytes == 0 {
		c.MinBodyBytes = DefaultMinBodyBytes
	}

	// Proxies: every entry must be an absolute proxy URL
	kept := c.Proxies[:0]
	for _, p := range c.Proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		u, perr := url.Parse(p)
		if perr != nil || u.Scheme == "" || u.Host == "" {
			return warnings, fmt.Errorf("%w: invalid proxy URL %q", utils.ErrConfigValidation, p)
		}
		kept = append(kept, p)
	}
	c.Proxies = kept

	if c.ProxyCheckURL == "" {
		c.ProxyCheckURL = DefaultProxyCheckURL
	}
	if c.ProxyCheckTimeout <= 0 {
		c.ProxyCheckTimeout = DefaultProxyCheckTimeout
	}

	// RequestsPerSecond
	if c.RequestsPerSecond < 0 {
		warnings = append(warnings, "requests_per_second cannot be negative, disabling pacing")
		c.RequestsPerSecond = 0
	}

	// MaxTargets
	if c.MaxTargets < 0 {
		warnings = append(warnings, "max_targets cannot be negative, setting to 0 (unlimited)")
		c.MaxTargets = 0
	}

	// Origin
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	} else if u, perr := url.Parse(c.Origin); perr != nil || u.Scheme == "" || u.Host == "" {
		return warnings, fmt.Errorf("%w: origin %q must be an absolute URL", utils.ErrConfigValidation, c.Origin)
	}
	c.Origin = strings.TrimRight(c.Origin, "/")

	// Session
	if c.Session.Token == "" && (c.Session.Email == "") != (c.Session.Password == "") {
		return warnings, fmt.Errorf("%w: session login needs both email and password", utils.ErrConfigValidation)
	}
	if c.Session.Token == "" && c.Session.Email == "" {
		warnings = append(warnings, "no session configured, only guest pages will return full content")
	}
	if c.Session.LoginURL == "" {
		c.Session.LoginURL = c.Origin + "/checkpoint/lg/login-submit"
	}

	c.validateHTTPClientSettings()

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = max(2, c.ConcurrentRequests)
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
	if h.MaxRedirects <= 0 {
		h.MaxRedirects = 10
	}
}
