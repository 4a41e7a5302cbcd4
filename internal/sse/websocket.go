package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
)

// WebSocketHandler streams the same hub events over a websocket. Each event
// is one JSON text frame. Client frames are ignored.
func WebSocketHandler(hub *Hub, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.Warn(LogMsgAcceptFailed, "error", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "")

		var eventTypes []string
		if filterParam := r.URL.Query().Get("types"); filterParam != "" {
			eventTypes = strings.Split(filterParam, ",")
		}

		client, err := hub.Subscribe(TransportWebSocket, eventTypes)
		if err != nil {
			_ = conn.Close(websocket.StatusTryAgainLater, err.Error())
			return
		}
		slog.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"transport", TransportWebSocket,
			"total_clients", hub.ClientCount())

		defer func() {
			hub.Unsubscribe(client.ID)
			slog.Info(LogMsgClientDisconnected,
				"client_id", client.ID,
				"total_clients", hub.ClientCount())
		}()

		// CloseRead discards client frames and cancels ctx when the peer goes away
		ctx := conn.CloseRead(r.Context())

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-client.EventChannel:
				if !ok {
					_ = conn.Close(websocket.StatusPolicyViolation, "subscriber fell behind")
					return
				}
				if err := writeEvent(ctx, conn, event); err != nil {
					slog.Warn(LogMsgWriteError, "client_id", client.ID, "error", err)
					return
				}

			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(ctx, WriteTimeout)
				err := conn.Ping(pingCtx)
				cancel()
				if err != nil {
					return
				}
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
