package fetch

import (
	"strings"
	"sync/atomic"
)

// ProxyPool hands out proxies round-robin. The list is fixed at construction.
type ProxyPool struct {
	proxies []string
	cursor  atomic.Uint64
}

// NewProxyPool builds a pool, dropping blank entries
func NewProxyPool(proxies []string) *ProxyPool {
	p := &ProxyPool{}
	for _, proxy := range proxies {
		if proxy = strings.TrimSpace(proxy); proxy != "" {
			p.proxies = append(p.proxies, proxy)
		}
	}
	return p
}

// Next returns the next proxy in rotation, or false if the pool is empty
func (p *ProxyPool) Next() (string, bool) {
	if p == nil || len(p.proxies) == 0 {
		return "", false
	}
	n := p.cursor.Add(1) - 1
	return p.proxies[n%uint64(len(p.proxies))], true
}

// Len reports the pool size
func (p *ProxyPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Proxies returns a copy of the configured list
func (p *ProxyPool) Proxies() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.proxies...)
}
