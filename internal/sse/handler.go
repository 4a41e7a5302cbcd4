package sse

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Handler returns an HTTP handler for SSE connections
func Handler(hub *Hub) http.HandlerFunc {
	return streamHandler(hub, WriteTimeout)
}

// streamHandler bounds every frame write by writeTimeout so a client that
// stops reading cannot pin the handler once the hub has dropped it.
func streamHandler(hub *Hub, writeTimeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Check for flusher support
		if _, ok := w.(http.Flusher); !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}
		rc := http.NewResponseController(w)
		send := func(msg []byte) error {
			return writeFrame(rc, w, msg, writeTimeout)
		}

		// Parse event type filters from query param
		var eventTypes []string
		if filterParam := r.URL.Query().Get("types"); filterParam != "" {
			eventTypes = strings.Split(filterParam, ",")
		}

		client, err := hub.Subscribe(TransportSSE, eventTypes)
		if err != nil {
			slog.Warn(LogMsgSubscribeFailed, "error", err)
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		slog.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"transport", TransportSSE,
			"filters", eventTypes,
			"total_clients", hub.ClientCount())

		// Ensure cleanup on disconnect
		defer func() {
			hub.Unsubscribe(client.ID)
			slog.Info(LogMsgClientDisconnected,
				"client_id", client.ID,
				"total_clients", hub.ClientCount())
		}()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		// Send initial connection event
		connectEvent := Event{
			ID:        "",
			Type:      EventTypeConnected,
			Timestamp: time.Now().UnixMilli(),
			Payload: map[string]interface{}{
				"client_id": client.ID,
				"filters":   eventTypes,
			},
		}
		if msg, err := FormatSSEMessage(connectEvent); err == nil {
			if err := send(msg); err != nil {
				return
			}
		}

		// Keepalive ticker
		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				// Client disconnected
				return

			case event, ok := <-client.EventChannel:
				if !ok {
					// Dropped for falling behind, or the hub is shutting down
					return
				}

				msg, err := FormatSSEMessage(event)
				if err != nil {
					slog.Error(LogMsgWriteError, "error", err)
					continue
				}

				if err := send(msg); err != nil {
					slog.Warn(LogMsgWriteError, "client_id", client.ID, "error", err)
					return
				}

			case <-ticker.C:
				keepalive := Event{
					Type:      EventTypeKeepalive,
					Timestamp: time.Now().UnixMilli(),
				}
				msg, _ := FormatSSEMessage(keepalive)
				if err := send(msg); err != nil {
					return
				}
			}
		}
	}
}

// writeFrame writes and flushes one frame under a write deadline. Writers
// without deadline support (test recorders) are written to without one.
func writeFrame(rc *http.ResponseController, w http.ResponseWriter, msg []byte, timeout time.Duration) error {
	if err := rc.SetWriteDeadline(time.Now().Add(timeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
