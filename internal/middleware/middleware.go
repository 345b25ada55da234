package middleware

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nubit-transcribe/backend/internal/metrics"
)

func HandleCORS(w http.ResponseWriter, r *http.Request, allowedOrigin string) bool {
	if allowedOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
	}
	w.Header().Set("Vary", "Origin")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

func SecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
}

type RateLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	items  map[string]*rateEntry
}

type rateEntry struct {
	count int
	reset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, window: window, items: map[string]*rateEntry{}}
}

func (rl *RateLimiter) Allow(key string) bool {
	ok, _ := rl.Reserve(key)
	return ok
}

// Reserve counts one request for key. When the window is exhausted it
// reports how long until the window resets.
func (rl *RateLimiter) Reserve(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, ok := rl.items[key]
	if !ok || now.After(entry.reset) {
		rl.items[key] = &rateEntry{count: 1, reset: now.Add(rl.window)}
		rl.sweep(now)
		return true, 0
	}
	if entry.count >= rl.limit {
		return false, entry.reset.Sub(now)
	}
	entry.count++
	return true, 0
}

func (rl *RateLimiter) sweep(now time.Time) {
	if len(rl.items) < 1024 {
		return
	}
	for key, entry := range rl.items {
		if now.After(entry.reset) {
			delete(rl.items, key)
		}
	}
}

// RetryAfter formats a wait as whole seconds, at least one.
func RetryAfter(wait time.Duration) string {
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

// ProxyTrust lists the peers allowed to report the client address through
// X-Forwarded-For. A nil ProxyTrust trusts nobody.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

// NewProxyTrust accepts IP addresses and CIDR ranges.
func NewProxyTrust(entries []string) (*ProxyTrust, error) {
	trust := &ProxyTrust{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			trust.prefixes = append(trust.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		trust.prefixes = append(trust.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return trust, nil
}

func (p *ProxyTrust) trusts(addr netip.Addr) bool {
	if p == nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientKey identifies the caller for rate limiting. Forwarded entries are
// read right to left and only while the hop that added them is trusted.
func (p *ProxyTrust) ClientKey(r *http.Request) string {
	peer := ClientKey(r)
	addr, err := netip.ParseAddr(peer)
	if err != nil || !p.trusts(addr) {
		return peer
	}

	var hops []string
	for _, value := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(value, ",")...)
	}
	client := addr
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		client = hop.Unmap()
		if !p.trusts(client) {
			break
		}
	}
	return client.String()
}

// ClientKey returns the host of the connected peer.
func ClientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// StatusRecorder remembers the status code written through it.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (s *StatusRecorder) WriteHeader(code int) {
	if s.Status == 0 {
		s.Status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *StatusRecorder) Write(b []byte) (int, error) {
	if s.Status == 0 {
		s.Status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *StatusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Hijack lets websocket upgrades pass through the recorder.
func (s *StatusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	if s.Status == 0 {
		s.Status = http.StatusSwitchingProtocols
	}
	return hijacker.Hijack()
}

// Observe logs every request and records it in the HTTP metrics under the
// label returned by route.
func Observe(next http.Handler, logger zerolog.Logger, m *metrics.Metrics, route func(*http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &StatusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.Status == 0 {
			rec.Status = http.StatusOK
		}
		label := route(r)
		elapsed := time.Since(start)
		if m != nil {
			m.HTTPRequests.WithLabelValues(label, strconv.Itoa(rec.Status)).Inc()
			m.HTTPDuration.WithLabelValues(label).Observe(elapsed.Seconds())
		}

		event := logger.Info()
		if rec.Status >= 500 {
			event = logger.Error()
		} else if rec.Status >= 400 {
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("route", label).
			Int("status", rec.Status).
			Dur("duration", elapsed).
			Str("client", ClientKey(r)).
			Msg("request")
	})
}
