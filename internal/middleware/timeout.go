package middleware

import (
	"net/http"
	"time"
)

const timeoutMessage = "The request took too long. Please try again."

// Timeout bounds page handlers. Long-lived routes such as websocket streams
// must be mounted outside it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutMessage)
	}
}
