package session

import (
	"context"
	"net/http"
)

type contextKey string

const storeContextKey contextKey = "session_store"

func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, store)
}

func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(storeContextKey).(*Store)
	return store, ok && store != nil
}

// TokenFromContext resolves the bearer token of the request-scoped store.
func TokenFromContext(ctx context.Context) (string, bool) {
	store, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return store.Token()
}

// ExpireFromContext drops the request-scoped session after a 401.
func ExpireFromContext(ctx context.Context) {
	if store, ok := FromContext(ctx); ok {
		store.Expire()
	}
}

type Manager struct {
	durable   *Codec
	ephemeral *Codec
	secure    bool
}

func NewManager(durable *Codec, ephemeral *Codec, secure bool) *Manager {
	return &Manager{durable: durable, ephemeral: ephemeral, secure: secure}
}

// Load restores the store for one browser request from its cookies.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Store {
	durable := NewCookieStorage(w, r, CookieOptions{
		Name:       DurableCookieName,
		Codec:      m.durable,
		Persistent: true,
		Secure:     m.secure,
	})
	ephemeral := NewCookieStorage(w, r, CookieOptions{
		Name:   EphemeralCookieName,
		Codec:  m.ephemeral,
		Secure: m.secure,
	})

	return Restore(durable, ephemeral)
}

func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := m.Load(w, r)
		next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), store)))
	})
}
