// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"net/http"
	"sync"
	"time"
)

// window counts requests from one client inside a fixed interval.
type window struct {
	mu    sync.Mutex
	hits  int
	until time.Time
}

func (w *window) take(limit int, span time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if now := time.Now(); now.After(w.until) {
		w.hits = 0
		w.until = now.Add(span)
	}
	w.hits++
	return w.hits <= limit
}

// limiter maps client IPs to their windows and evicts stale entries so a
// long-running server does not accumulate one entry per IP forever.
type limiter struct {
	mu      sync.Mutex
	clients map[string]*window
}

func newLimiter() *limiter {
	l := &limiter{clients: make(map[string]*window)}
	go l.sweep()
	return l
}

func (l *limiter) window(ip string) *window {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.clients[ip]
	if !ok {
		w = &window{until: time.Now().Add(time.Minute)}
		l.clients[ip] = w
	}
	return w
}

func (l *limiter) sweep() {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for range tick.C {
		now := time.Now()
		l.mu.Lock()
		for ip, w := range l.clients {
			w.mu.Lock()
			stale := now.After(w.until)
			w.mu.Unlock()
			if stale {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}

var perIP = newLimiter()

// RateLimit caps each client IP at max requests per span, answering 429
// JSON once the window is spent. X-Forwarded-For wins over RemoteAddr so
// the limit survives a reverse proxy.
func RateLimit(max int, span time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				ip = fwd
			}
			if !perIP.window(ip).take(max, span) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"status":429,"message":"Too Many Requests"}`)) //nolint:errcheck
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
