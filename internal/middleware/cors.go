package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS guards the read-only JSON endpoints. Page routes are same-origin and
// never mounted behind it.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         3600,
	})

	return handler.Handler
}
