// Package ratelimit provides a per-client token bucket keyed by remote IP,
// shared by the API and web login surfaces.
package ratelimit

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// client tracks one remote IP's limiter and when it was last used.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter applies a per-client token bucket, keyed by remote IP.
// Stale entries are dropped so the map does not grow without bound.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
}

// New creates a limiter allowing rps requests per second with the given
// burst per client.
func New(rps float64, burst int) *Limiter {
	l := &Limiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
	go l.cleanup()
	return l
}

// Allow reports whether the client behind remoteAddr may proceed.
// remoteAddr is a "host:port" pair; a bare address is used as-is.
func (l *Limiter) Allow(remoteAddr string) bool {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		ip = remoteAddr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

func (l *Limiter) cleanup() {
	for range time.Tick(time.Minute) {
		l.mu.Lock()
		for ip, c := range l.clients {
			if time.Since(c.lastSeen) > 3*time.Minute {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}
