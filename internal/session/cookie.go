package session

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

const (
	DurableCookieName   = "cp_durable"
	EphemeralCookieName = "cp_session"
)

// CookieOptions configures a cookie-backed tier. Persistent cookies carry a
// Max-Age equal to the codec TTL; the others end with the browser session.
type CookieOptions struct {
	Name       string
	Codec      *Codec
	Persistent bool
	Secure     bool
}

// CookieStorage keeps a tier's items in a single signed cookie. Items are
// read from the incoming request and every change rewrites the outgoing
// Set-Cookie header for that cookie.
type CookieStorage struct {
	opts  CookieOptions
	w     http.ResponseWriter
	mu    sync.Mutex
	items map[string]string
	stale bool
}

func NewCookieStorage(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStorage {
	s := &CookieStorage{opts: opts, w: w, items: map[string]string{}}

	cookie, err := r.Cookie(opts.Name)
	if err != nil || cookie.Value == "" {
		return s
	}

	items, err := opts.Codec.Decode(cookie.Value)
	if err != nil {
		slog.Debug("discarding session cookie", "cookie", opts.Name, "error", err)
		s.stale = true
		return s
	}
	s.items = items

	return s
}

func (s *CookieStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *CookieStorage) Set(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return s.flushLocked()
}

func (s *CookieStorage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok && !s.stale {
		return
	}
	delete(s.items, key)
	if err := s.flushLocked(); err != nil {
		slog.Error("failed to rewrite session cookie", "cookie", s.opts.Name, "error", err)
	}
}

func (s *CookieStorage) flushLocked() error {
	cookie := &http.Cookie{
		Name:     s.opts.Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	if len(s.items) == 0 {
		cookie.MaxAge = -1
	} else {
		value, err := s.opts.Codec.Encode(s.items)
		if err != nil {
			return err
		}
		cookie.Value = value
		if s.opts.Persistent {
			cookie.MaxAge = int(s.opts.Codec.TTL().Seconds())
		}
	}

	replaceCookie(s.w.Header(), cookie)
	s.stale = false

	return nil
}

// replaceCookie drops earlier Set-Cookie lines for the same name so only
// the latest state of the tier reaches the browser.
func replaceCookie(h http.Header, cookie *http.Cookie) {
	prefix := cookie.Name + "="
	existing := h.Values("Set-Cookie")
	kept := make([]string, 0, len(existing)+1)
	for _, line := range existing {
		if !strings.HasPrefix(line, prefix) {
			kept = append(kept, line)
		}
	}
	kept = append(kept, cookie.String())

	h.Del("Set-Cookie")
	for _, line := range kept {
		h.Add("Set-Cookie", line)
	}
}
