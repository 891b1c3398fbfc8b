package pipeline

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	InFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the API client collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portal_api_inflight_requests",
			Help: "Requests to the course API that have not finished yet.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_api_requests_total",
			Help: "Requests sent to the course API by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_api_request_duration_seconds",
			Help:    "Time until the course API answered with headers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if reg != nil {
		reg.MustRegister(m.InFlight, m.requests, m.duration)
	}
	return m
}

func (m *Metrics) Middleware() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			started := time.Now()
			resp, err := next.Do(req)
			m.duration.WithLabelValues(req.Method).Observe(time.Since(started).Seconds())

			code := "error"
			if err == nil && resp != nil {
				code = strconv.Itoa(resp.StatusCode)
			}
			m.requests.WithLabelValues(req.Method, code).Inc()

			return resp, err
		})
	}
}
