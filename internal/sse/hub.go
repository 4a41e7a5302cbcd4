package sse

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/metrics"
)

// ErrHubClosed is returned by Subscribe after Stop
var ErrHubClosed = errors.New(ErrMsgHubClosed)

// Event represents an event sent to stream clients
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SnapshotSource provides the current round state for new subscribers
type SnapshotSource interface {
	Snapshot() domain.RoundSnapshot
}

// Client represents a connected stream client
type Client struct {
	ID           string
	Transport    string
	EventChannel chan Event
	EventFilter  map[string]bool // nil means all events, otherwise only specified types
}

func (c *Client) wants(eventType string) bool {
	return c.EventFilter == nil || c.EventFilter[eventType]
}

// Hub fans round events out to stream clients. Publish never blocks: a client
// whose buffer is full is removed and its channel closed, which ends its
// connection. Each client receives events in publish order.
type Hub struct {
	mu         sync.Mutex
	clients    map[string]*Client
	source     SnapshotSource
	last       *Event
	seq        uint64
	bufferSize int
	closed     bool
}

// NewHub creates a new Hub. bufferSize <= 0 selects DefaultClientBuffer.
func NewHub(source SnapshotSource, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultClientBuffer
	}
	return &Hub{
		clients:    make(map[string]*Client),
		source:     source,
		bufferSize: bufferSize,
	}
}

// SetSource sets the snapshot source used before the first publish
func (h *Hub) SetSource(source SnapshotSource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.source = source
}

// Stop disconnects every client. Further subscriptions fail.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, client := range h.clients {
		h.removeLocked(id, client)
	}
}

// Subscribe registers a client. The current round state is queued before any
// later event, so a late joiner sees the round as it is right now.
func (h *Hub) Subscribe(transport string, eventTypes []string) (*Client, error) {
	// The source takes the engine lock, which may be held while the engine
	// publishes into this hub. Read it before taking the hub lock.
	var initial *domain.RoundSnapshot
	h.mu.Lock()
	source, haveLast := h.source, h.last != nil
	h.mu.Unlock()
	if !haveLast && source != nil {
		snap := source.Snapshot()
		initial = &snap
	}

	client := &Client{
		ID:           uuid.New().String(),
		Transport:    transport,
		EventChannel: make(chan Event, h.bufferSize),
	}

	// Set up event filter if specific types requested
	if len(eventTypes) > 0 {
		client.EventFilter = make(map[string]bool)
		for _, t := range eventTypes {
			client.EventFilter[t] = true
		}
		// Every client gets round state; it is the protocol's baseline
		client.EventFilter[EventTypeRoundState] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	switch {
	case h.last != nil:
		client.EventChannel <- *h.last
	case initial != nil:
		client.EventChannel <- h.nextEventLocked(EventTypeRoundState, *initial, initial.ServerTime)
	}

	h.clients[client.ID] = client
	metrics.StreamSubscribers.WithLabelValues(transport).Inc()
	return client, nil
}

// Unsubscribe removes a client. Calling it more than once is harmless.
func (h *Hub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[clientID]; ok {
		h.removeLocked(clientID, client)
	}
}

// Publish sends a round snapshot to every client and caches it for new ones
func (h *Hub) Publish(snapshot domain.RoundSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	evt := h.nextEventLocked(EventTypeRoundState, snapshot, snapshot.ServerTime)
	h.last = &evt
	h.fanoutLocked(evt)
}

// Broadcast sends a non-state event to all interested clients
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.fanoutLocked(h.nextEventLocked(eventType, payload, time.Now()))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) nextEventLocked(eventType string, payload interface{}, at time.Time) Event {
	h.seq++
	return Event{
		ID:        strconv.FormatUint(h.seq, 10),
		Type:      eventType,
		Timestamp: at.UnixMilli(),
		Payload:   payload,
	}
}

func (h *Hub) fanoutLocked(evt Event) {
	for id, client := range h.clients {
		if !client.wants(evt.Type) {
			continue
		}

		// Non-blocking send
		select {
		case client.EventChannel <- evt:
		default:
			slog.Warn(LogMsgClientDropped,
				"client_id", id,
				"transport", client.Transport,
				"event_id", evt.ID)
			metrics.StreamDropped.Inc()
			h.removeLocked(id, client)
		}
	}
}

func (h *Hub) removeLocked(id string, client *Client) {
	delete(h.clients, id)
	close(client.EventChannel)
	metrics.StreamSubscribers.WithLabelValues(client.Transport).Dec()
}

// FormatSSEMessage formats an event for transmission over SSE
func FormatSSEMessage(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	// SSE format: "id: <id>\nevent: <type>\ndata: <json>\n\n"
	msg := "id: " + event.ID + "\n"
	msg += "event: " + event.Type + "\n"
	msg += "data: " + string(data) + "\n\n"

	return []byte(msg), nil
}
