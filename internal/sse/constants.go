package sse

import "time"

// Buffer sizes
const (
	// DefaultClientBuffer is the buffer size for each client's event channel.
	// A client that falls this many events behind is disconnected.
	DefaultClientBuffer = 64
)

// Stream connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second

	// WriteTimeout is the timeout for writing to client connections
	WriteTimeout = 10 * time.Second
)

// Transport names used as metric labels
const (
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

// Event types for the stream
const (
	// EventTypeRoundState carries a full round snapshot
	EventTypeRoundState = "round.state"

	// EventTypeRoundCrashed carries the crash summary once per round
	EventTypeRoundCrashed = "round.crashed"

	// EventTypeBetSettled is sent when any bet settles
	EventTypeBetSettled = "bet.settled"

	// EventTypeConnected is the first frame sent on a new SSE connection
	EventTypeConnected = "connected"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "Stream client connected"
	LogMsgClientDisconnected = "Stream client disconnected"
	LogMsgClientDropped      = "Stream client fell behind, disconnecting"
	LogMsgEventBroadcast     = "Broadcasting stream event"
	LogMsgWriteError         = "Failed to write stream event"
	LogMsgSubscribeFailed    = "Failed to subscribe stream client"
	LogMsgAcceptFailed       = "Failed to accept websocket connection"
	LogMsgSubscriberReady    = "Stream subscriber registered for event types"
)

// Error messages
const (
	ErrMsgHubClosed = "stream hub is closed"
)
