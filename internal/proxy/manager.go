package proxy

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// DefaultUserAgents are desktop Chrome user agents picked from when none are
// configured.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// Manager handles the rotation of proxies and user agents across browser
// sessions.
type Manager struct {
	proxies    []string
	userAgents []string
	mu         sync.Mutex
	proxyIndex int
	rnd        *rand.Rand
}

// NewManager builds a manager from configured proxy URLs. Blank entries are
// dropped; with no user agents the defaults are used.
func NewManager(proxies, userAgents []string) *Manager {
	if len(userAgents) == 0 {
		userAgents = DefaultUserAgents
	}
	return &Manager{
		proxies:    compact(proxies),
		userAgents: compact(userAgents),
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetProxy returns a proxy URL from the list, rotating sequentially.
func (m *Manager) GetProxy() string {
	if m == nil || len(m.proxies) == 0 {
		return "" // No proxy
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	proxy := m.proxies[m.proxyIndex]
	m.proxyIndex = (m.proxyIndex + 1) % len(m.proxies)
	return proxy
}

// GetUserAgent returns a random user agent string.
func (m *Manager) GetUserAgent() string {
	if m == nil || len(m.userAgents) == 0 {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userAgents[m.rnd.Intn(len(m.userAgents))]
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
