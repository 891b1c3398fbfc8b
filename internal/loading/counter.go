// Package loading tracks requests to the external API that are still in
// flight. The loading indicator is visible iff the count is positive.
package loading

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"course-portal/internal/event"
)

type Counter struct {
	mu    sync.Mutex
	count int
	bus   event.Bus
	gauge prometheus.Gauge
}

type Option func(*Counter)

// WithBus publishes an event every time the indicator visibility flips.
func WithBus(bus event.Bus) Option {
	return func(c *Counter) { c.bus = bus }
}

// WithGauge mirrors the count into a Prometheus gauge.
func WithGauge(gauge prometheus.Gauge) Option {
	return func(c *Counter) { c.gauge = gauge }
}

func NewCounter(opts ...Option) *Counter {
	c := &Counter{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Counter) Inc() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.count++
	c.observeLocked(c.count == 1)
}

// Dec never takes the count below zero.
func (c *Counter) Dec() {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasVisible := c.count > 0
	c.count--
	if c.count < 0 {
		c.count = 0
	}
	c.observeLocked(wasVisible && c.count == 0)
}

// Start increments the count and returns a release func that decrements it
// at most once no matter how many times it is called.
func (c *Counter) Start() func() {
	c.Inc()
	var once sync.Once
	return func() {
		once.Do(c.Dec)
	}
}

func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *Counter) Visible() bool {
	return c.Value() > 0
}

// observeLocked runs under c.mu so visibility events leave in order.
// Bus.Publish does not block.
func (c *Counter) observeLocked(flipped bool) {
	if c.gauge != nil {
		c.gauge.Set(float64(c.count))
	}
	if flipped && c.bus != nil {
		c.bus.Publish(event.New(event.TypeLoadingChanged, event.LoadingPayload{
			InFlight: c.count,
			Visible:  c.count > 0,
		}))
	}
}
