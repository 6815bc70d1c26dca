package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// RobotsHandler fetches, caches and checks robots.txt per host
type RobotsHandler struct {
	client      *http.Client
	userAgent   string
	robotsCache map[string]*robotstxt.RobotsData // host -> parsed data, nil when unavailable
	mu          sync.Mutex
	log         *logrus.Entry
}

// NewRobotsHandler creates a RobotsHandler
func NewRobotsHandler(client *http.Client, userAgent string, log *logrus.Entry) *RobotsHandler {
	return &RobotsHandler{
		client:      client,
		userAgent:   userAgent,
		robotsCache: make(map[string]*robotstxt.RobotsData),
		log:         log,
	}
}

// Allowed reports whether the configured agent may fetch target.
// Missing or unreadable robots.txt allows everything.
func (rh *RobotsHandler) Allowed(ctx context.Context, target *url.URL) bool {
	data := rh.get(ctx, target)
	if data == nil {
		return true
	}
	return data.TestAgent(target.RequestURI(), rh.userAgent)
}

func (rh *RobotsHandler) get(ctx context.Context, target *url.URL) *robotstxt.RobotsData {
	host := target.Host

	rh.mu.Lock()
	data, found := rh.robotsCache[host]
	rh.mu.Unlock()
	if found {
		return data
	}

	robotsURL := (&url.URL{Scheme: target.Scheme, Host: host, Path: "/robots.txt"}).String()
	robotsLog := rh.log.WithField("robots_url", robotsURL)
	robotsLog.Info("Fetching robots.txt...")

	data = rh.fetch(ctx, robotsURL, robotsLog)

	rh.mu.Lock()
	rh.robotsCache[host] = data
	rh.mu.Unlock()
	return data
}

func (rh *RobotsHandler) fetch(ctx context.Context, robotsURL string, robotsLog *logrus.Entry) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		robotsLog.Errorf("Error creating request: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", rh.userAgent)

	resp, err := rh.client.Do(req)
	if err != nil {
		robotsLog.Warnf("Fetching robots.txt failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		robotsLog.Warnf("Error reading body: %v", err)
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		robotsLog.Warnf("Error parsing robots.txt: %v", err)
		return nil
	}
	return data
}
