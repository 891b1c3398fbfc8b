// Package websocket streams bus events to connected browsers.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"course-portal/internal/event"
)

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	bus        event.Bus
	types      []event.Type
	done       chan struct{}
}

// NewHub forwards events of the given types, or every event when none are
// listed.
func NewHub(bus event.Bus, types ...event.Type) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		bus:        bus,
		types:      types,
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	events, unsubscribe := h.bus.Subscribe(h.types...)
	defer unsubscribe()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case e := <-events:
			message, err := json.Marshal(e)
			if err != nil {
				slog.Error("failed to marshal event", "error", err, "type", e.Type)
				continue
			}

			// Slow clients are dropped rather than stalling the hub.
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}
