package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryBus(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	events, unsubscribe := bus.Subscribe()
	require.Equal(t, 1, bus.Subscribers())

	bus.Publish(New(TypeLoadingChanged, LoadingPayload{InFlight: 1, Visible: true}))

	got := <-events
	require.Equal(t, TypeLoadingChanged, got.Type)
	require.NotEmpty(t, got.ID)
	require.Equal(t, LoadingPayload{InFlight: 1, Visible: true}, got.Payload)

	unsubscribe()
	unsubscribe()
	require.Equal(t, 0, bus.Subscribers())

	_, open := <-events
	require.False(t, open)
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	_, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer*2; i++ {
		bus.Publish(New(TypeLoadingChanged, nil))
	}
}

func TestSubscribeFiltersByType(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	expired, unsubscribe := bus.Subscribe(TypeSessionExpired)
	defer unsubscribe()

	bus.Publish(New(TypeLoadingChanged, LoadingPayload{InFlight: 1, Visible: true}))
	bus.Publish(New(TypeSessionExpired, nil))

	got := <-expired
	require.Equal(t, TypeSessionExpired, got.Type)
	require.Empty(t, expired)
}
