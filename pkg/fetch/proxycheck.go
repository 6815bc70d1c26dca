package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const proxyCheckParallelism = 8

// CheckProxies probes every proxy by fetching checkURL through it and returns
// the ones answering 2xx within timeout, in input order.
func CheckProxies(ctx context.Context, client *http.Client, proxies []string, checkURL string, timeout time.Duration, log *logrus.Entry) []string {
	alive := make([]bool, len(proxies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(proxyCheckParallelism)
	for i, proxy := range proxies {
		i, proxy := i, proxy
		g.Go(func() error {
			alive[i] = probeProxy(gctx, client, proxy, checkURL, timeout, log)
			return nil
		})
	}
	_ = g.Wait() // probes never return errors

	var live []string
	for i, ok := range alive {
		if ok {
			live = append(live, proxies[i])
		}
	}
	log.WithFields(logrus.Fields{"total": len(proxies), "live": len(live)}).Info("Proxy check finished")
	return live
}

func probeProxy(ctx context.Context, client *http.Client, proxy, checkURL string, timeout time.Duration, log *logrus.Entry) bool {
	probeLog := log.WithField("proxy", proxy)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(WithProxy(ctx, proxy), http.MethodGet, checkURL, nil)
	if err != nil {
		probeLog.Warnf("Cannot build probe request: %v", err)
		return false
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		probeLog.Warnf("Proxy failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		probeLog.Warnf("Proxy answered status %d", resp.StatusCode)
		return false
	}
	probeLog.WithField("latency", time.Since(start)).Debug("Proxy is alive")
	return true
}
