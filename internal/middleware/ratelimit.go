package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorIdleTTL = 10 * time.Minute
	sweepInterval  = 5 * time.Minute

	messageTooManyRequests = "Too many requests"
	messageTooManyAttempts = "Too many attempts. Please wait a minute and try again."
)

// visitor holds the two budgets of one client address: page traffic and
// public form submissions.
type visitor struct {
	pages    *rate.Limiter
	forms    *rate.Limiter
	lastSeen time.Time
}

type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int
	now        func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewRateLimitMiddleware budgets requests per minute and client address.
// A non-positive generalRPM leaves page traffic unlimited; form posts are
// always limited.
func NewRateLimitMiddleware(generalRPM int, authRPM int) *RateLimitMiddleware {
	if authRPM <= 0 {
		authRPM = 10
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		now:        time.Now,
		visitors:   map[string]*visitor{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		v := m.visitorFor(extractClientIP(r))

		limiter, message := v.pages, messageTooManyRequests
		if isCredentialSubmission(r) {
			limiter, message = v.forms, messageTooManyAttempts
		}

		if wait, ok := m.take(limiter); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(wait))
			writeError(w, r, http.StatusTooManyRequests, message)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// take spends one token, or reports how many whole seconds remain until
// the next one without spending it.
func (m *RateLimitMiddleware) take(limiter *rate.Limiter) (int, bool) {
	if limiter == nil {
		return 0, true
	}

	now := m.now()
	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return int(time.Minute.Seconds()), false
	}

	delay := reservation.DelayFrom(now)
	if delay <= 0 {
		return 0, true
	}
	reservation.CancelAt(now)

	return max(1, int(math.Ceil(delay.Seconds()))), false
}

func isExempt(r *http.Request) bool {
	path := r.URL.Path
	return path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/static/")
}

// isCredentialSubmission matches the public form posts: sign-in, sign-up
// and both contact forms.
func isCredentialSubmission(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}

	path := strings.TrimSuffix(strings.ToLower(r.URL.Path), "/")
	switch path {
	case "/login", "/registro", "/contacto":
		return true
	}
	return strings.HasPrefix(path, "/cursos/") && strings.HasSuffix(path, "/contacto")
}

func perMinute(rpm int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
}

func (m *RateLimitMiddleware) visitorFor(clientIP string) *visitor {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	if v, ok := m.visitors[clientIP]; ok {
		v.lastSeen = now
		return v
	}

	v := &visitor{forms: perMinute(m.authRPM), lastSeen: now}
	if m.generalRPM > 0 {
		v.pages = perMinute(m.generalRPM)
	}
	m.visitors[clientIP] = v

	return v
}

func (m *RateLimitMiddleware) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now

	cutoff := now.Add(-visitorIdleTTL)
	for ip, v := range m.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(m.visitors, ip)
		}
	}
}

// extractClientIP trusts the first X-Forwarded-For hop, then X-Real-IP,
// then the socket address.
func extractClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	remote := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
		return host
	}
	if remote == "" {
		return "unknown"
	}
	return remote
}
