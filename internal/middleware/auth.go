package middleware

import (
	"log/slog"
	"net/http"

	"course-portal/internal/guard"
	"course-portal/internal/session"
)

// RequireGuard runs g against the request-scoped session before the route
// activates. Denied requests are redirected and never reach next.
func RequireGuard(g guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, _ := session.FromContext(r.Context())

			decision := g(store)
			if !decision.Allowed {
				slog.Debug("navigation denied",
					"path", r.URL.Path,
					"redirect", decision.Redirect,
				)
				http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return RequireGuard(guard.Auth)(next)
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireGuard(guard.All(guard.Auth, guard.Admin))(next)
}
