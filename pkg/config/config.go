package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is a desktop Chrome UA; the target serves reduced markup to unknown agents
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// AppConfig holds the global application configuration
type AppConfig struct {
	BotName            string           `yaml:"bot_name"`
	ConcurrentRequests int              `yaml:"concurrent_requests"`
	RequestTimeout     time.Duration    `yaml:"request_timeout"`
	MaxRetries         *int             `yaml:"max_retries,omitempty"` // nil = default, 0 = single attempt
	RetryBaseDelay     time.Duration    `yaml:"retry_base_delay"`
	UserAgent          string           `yaml:"user_agent"`
	OutputDir          string           `yaml:"output_dir"`
	Proxies            []string         `yaml:"proxies,omitempty"`
	ProxyCheckURL      string           `yaml:"proxy_check_url,omitempty"`
	ProxyCheckTimeout  time.Duration    `yaml:"proxy_check_timeout,omitempty"`
	MinBodyBytes       int              `yaml:"min_body_bytes"`
	Session            SessionConfig    `yaml:"session,omitempty"`
	StateDir           string           `yaml:"state_dir,omitempty"` // Empty disables the persistent seen store
	RequestsPerSecond  float64          `yaml:"requests_per_second,omitempty"`
	RobotsTxtObey      bool             `yaml:"robotstxt_obey"`
	MaxTargets         int              `yaml:"max_targets,omitempty"` // 0 = unlimited
	Origin             string           `yaml:"origin,omitempty"`
	LogFile            string           `yaml:"log_file,omitempty"`
	MetricsAddr        string           `yaml:"metrics_addr,omitempty"`
	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// SessionConfig selects how the session cookie is obtained: a static token wins over form login
type SessionConfig struct {
	Token    string `yaml:"token,omitempty"`
	Email    string `yaml:"email,omitempty"`
	Password string `yaml:"password,omitempty"`
	LoginURL string `yaml:"login_url,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"`
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"`
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"` // nil=default, true=force, false=disable
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`
	MaxRedirects          int           `yaml:"max_redirects,omitempty"`
}

// Retries returns the effective retry count
func (c *AppConfig) Retries() int {
	if c.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *c.MaxRetries
}

// Load reads a YAML config file. An empty path yields a zero config, to be filled by Validate.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: reading config file '%s': %w", utils.ErrFilesystem, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing config YAML '%s': %w", utils.ErrConfigValidation, path, err)
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from the process environment. Unparsable values are skipped
// and reported as warnings so a bad variable never aborts a run.
//
//	CONCURRENT_REQUESTS    int
//	REQUEST_TIMEOUT        seconds, or a Go duration ("45s")
//	MAX_RETRIES            int
//	RETRY_DELAY_MS         int milliseconds
//	USER_AGENT             string
//	LINKEDIN_SESSION_TOKEN string
//	PROXIES                comma separated proxy URLs
func (c *AppConfig) ApplyEnv(lookup LookupFunc) (warnings []string) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	bad := func(key, val string, err error) {
		warnings = append(warnings, fmt.Sprintf("ignoring %s=%q: %v", key, val, err))
	}

	if v, ok := lookup("CONCURRENT_REQUESTS"); ok {
		if n, err := cast.ToIntE(strings.TrimSpace(v)); err == nil {
			c.ConcurrentRequests = n
		} else {
			bad("CONCURRENT_REQUESTS", v, err)
		}
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		if d, err := parseSecondsOrDuration(v); err == nil {
			c.RequestTimeout = d
		} else {
			bad("REQUEST_TIMEOUT", v, err)
		}
	}
	if v, ok := lookup("MAX_RETRIES"); ok {
		if n, err := cast.ToIntE(strings.TrimSpace(v)); err == nil {
			c.MaxRetries = &n
		} else {
			bad("MAX_RETRIES", v, err)
		}
	}
	if v, ok := lookup("RETRY_DELAY_MS"); ok {
		if ms, err := cast.ToInt64E(strings.TrimSpace(v)); err == nil {
			c.RetryBaseDelay = time.Duration(ms) * time.Millisecond
		} else {
			bad("RETRY_DELAY_MS", v, err)
		}
	}
	if v, ok := lookup("USER_AGENT"); ok && strings.TrimSpace(v) != "" {
		c.UserAgent = strings.TrimSpace(v)
	}
	if v, ok := lookup("LINKEDIN_SESSION_TOKEN"); ok && strings.TrimSpace(v) != "" {
		c.Session.Token = strings.TrimSpace(v)
	}
	if v, ok := lookup("PROXIES"); ok {
		var proxies []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				proxies = append(proxies, p)
			}
		}
		c.Proxies = proxies
	}
	return warnings
}

func parseSecondsOrDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := cast.ToInt64E(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return cast.ToDurationE(v)
}
