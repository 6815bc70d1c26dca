package fetch

import (
	"context"
	"net"
	"net/http"
	"net/url"

	"github.com/Sriram-PR/linkedin-scraper/pkg/config"

	"github.com/sirupsen/logrus"
)

type proxyKey struct{}

// WithProxy returns a context that routes requests made with it through proxyURL
func WithProxy(ctx context.Context, proxyURL string) context.Context {
	return context.WithValue(ctx, proxyKey{}, proxyURL)
}

// proxyFromContext lets one shared transport (and connection pool) serve every proxy
func proxyFromContext(req *http.Request) (*url.URL, error) {
	if p, ok := req.Context().Value(proxyKey{}).(string); ok && p != "" {
		return url.Parse(p)
	}
	return http.ProxyFromEnvironment(req)
}

// NewClient creates the shared HTTP client based on the provided configuration.
func NewClient(cfg *config.AppConfig, log *logrus.Entry) *http.Client {
	h := cfg.HTTPClientSettings
	log.Debug("Initializing HTTP client...")

	dialer := &net.Dialer{
		Timeout:   h.DialerTimeout,
		KeepAlive: h.DialerKeepAlive,
	}

	transport := &http.Transport{
		Proxy:                  proxyFromContext,
		DialContext:            dialer.DialContext,
		ForceAttemptHTTP2:      true,
		MaxIdleConns:           h.MaxIdleConns,
		MaxIdleConnsPerHost:    h.MaxIdleConnsPerHost,
		IdleConnTimeout:        h.IdleConnTimeout,
		TLSHandshakeTimeout:    h.TLSHandshakeTimeout,
		ExpectContinueTimeout:  h.ExpectContinueTimeout,
		MaxResponseHeaderBytes: 1 << 20,
	}
	if h.ForceAttemptHTTP2 != nil {
		transport.ForceAttemptHTTP2 = *h.ForceAttemptHTTP2
	}

	maxRedirects := h.MaxRedirects
	client := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				// Surface the last 3xx so it is classified instead of failing as a transport error
				return http.ErrUseLastResponse
			}
			log.Debugf("Redirecting: %s -> %s (hop %d)", via[len(via)-1].URL, req.URL, len(via))
			return nil
		},
	}
	return client
}
