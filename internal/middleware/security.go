package middleware

import "net/http"

const contentSecurityPolicy = "default-src 'self'; " +
	"img-src 'self' https: data:; " +
	"frame-src https://www.youtube.com; " +
	"style-src 'self' 'unsafe-inline'; " +
	"connect-src 'self' ws: wss:"

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", contentSecurityPolicy)

		next.ServeHTTP(w, r)
	})
}
