package loading

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-portal/internal/event"
)

func TestCounterFloorsAtZero(t *testing.T) {
	t.Parallel()

	c := NewCounter()
	c.Dec()
	require.Equal(t, 0, c.Value())
	require.False(t, c.Visible())

	c.Inc()
	c.Dec()
	c.Dec()
	require.Equal(t, 0, c.Value())

	c.Inc()
	require.Equal(t, 1, c.Value())
	require.True(t, c.Visible())
}

func TestStartReleasesExactlyOnce(t *testing.T) {
	t.Parallel()

	c := NewCounter()
	first := c.Start()
	second := c.Start()
	require.Equal(t, 2, c.Value())

	first()
	first()
	first()
	require.Equal(t, 1, c.Value())

	second()
	require.Equal(t, 0, c.Value())
}

func TestConcurrentInterleavingsMatchOutstandingCount(t *testing.T) {
	t.Parallel()

	c := NewCounter()
	const n = 200

	releases := make(chan func(), n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			releases <- c.Start()
			assert.GreaterOrEqual(t, c.Value(), 0)
		}()
	}
	wg.Wait()
	close(releases)
	require.Equal(t, n, c.Value())

	pending := make([]func(), 0, n)
	for release := range releases {
		pending = append(pending, release)
	}
	rand.Shuffle(len(pending), func(i, j int) { pending[i], pending[j] = pending[j], pending[i] })

	finished := n / 2
	for _, release := range pending[:finished] {
		wg.Add(1)
		go func(r func()) {
			defer wg.Done()
			r()
			r()
		}(release)
	}
	wg.Wait()
	require.Equal(t, n-finished, c.Value())
	require.True(t, c.Visible())

	for _, release := range pending[finished:] {
		release()
	}
	require.Equal(t, 0, c.Value())
	require.False(t, c.Visible())
}

func TestVisibilityFlipsArePublished(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_inflight"})
	c := NewCounter(WithBus(bus), WithGauge(gauge))

	releaseA := c.Start()
	releaseB := c.Start()
	require.Equal(t, float64(2), testutil.ToFloat64(gauge))
	releaseA()
	releaseB()
	c.Dec()

	shown := <-events
	require.Equal(t, event.LoadingPayload{InFlight: 1, Visible: true}, shown.Payload)
	hidden := <-events
	require.Equal(t, event.LoadingPayload{InFlight: 0, Visible: false}, hidden.Payload)

	select {
	case extra := <-events:
		t.Fatalf("unexpected event %+v", extra)
	default:
	}
	require.Equal(t, float64(0), testutil.ToFloat64(gauge))
}
