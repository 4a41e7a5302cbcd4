package sse

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/testing/leaktest"
)

type staticSource struct {
	snap domain.RoundSnapshot
}

func (s staticSource) Snapshot() domain.RoundSnapshot { return s.snap }

func snapshotAt(status domain.RoundStatus, multiplier float64) domain.RoundSnapshot {
	return domain.RoundSnapshot{
		GameType:   domain.GameTypeCrash,
		Status:     status,
		Multiplier: multiplier,
		ServerTime: time.Now(),
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case evt, ok := <-c.EventChannel:
		require.True(t, ok, "client channel closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_SubscribeSendsSourceSnapshotFirst(t *testing.T) {
	hub := NewHub(staticSource{snap: snapshotAt(domain.RoundStatusWaiting, 1.0)}, 8)
	defer hub.Stop()

	client, err := hub.Subscribe(TransportSSE, nil)
	require.NoError(t, err)

	evt := receive(t, client)
	assert.Equal(t, EventTypeRoundState, evt.Type)
	snap, ok := evt.Payload.(domain.RoundSnapshot)
	require.True(t, ok)
	assert.Equal(t, domain.RoundStatusWaiting, snap.Status)
}

func TestHub_LateJoinerSeesLatestState(t *testing.T) {
	hub := NewHub(staticSource{snap: snapshotAt(domain.RoundStatusWaiting, 1.0)}, 8)
	defer hub.Stop()

	hub.Publish(snapshotAt(domain.RoundStatusRunning, 1.2))
	hub.Publish(snapshotAt(domain.RoundStatusRunning, 1.35))

	client, err := hub.Subscribe(TransportWebSocket, nil)
	require.NoError(t, err)

	snap := receive(t, client).Payload.(domain.RoundSnapshot)
	assert.Equal(t, domain.RoundStatusRunning, snap.Status)
	assert.Equal(t, 1.35, snap.Multiplier)

	hub.Publish(snapshotAt(domain.RoundStatusRunning, 1.5))
	snap = receive(t, client).Payload.(domain.RoundSnapshot)
	assert.Equal(t, 1.5, snap.Multiplier)
}

func TestHub_DeliversInPublishOrder(t *testing.T) {
	hub := NewHub(nil, 32)
	defer hub.Stop()

	client, err := hub.Subscribe(TransportSSE, nil)
	require.NoError(t, err)

	for i := 1; i <= 20; i++ {
		hub.Publish(snapshotAt(domain.RoundStatusRunning, 1+float64(i)/100))
	}

	prev := 1.0
	for i := 1; i <= 20; i++ {
		snap := receive(t, client).Payload.(domain.RoundSnapshot)
		assert.Greater(t, snap.Multiplier, prev)
		prev = snap.Multiplier
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := NewHub(staticSource{snap: snapshotAt(domain.RoundStatusWaiting, 1.0)}, 4)
	defer hub.Stop()

	slow, err := hub.Subscribe(TransportSSE, nil)
	require.NoError(t, err)
	fast, err := hub.Subscribe(TransportSSE, nil)
	require.NoError(t, err)
	receive(t, fast)

	// The slow client never reads; Publish must keep going regardless
	for i := 0; i < 10; i++ {
		hub.Publish(snapshotAt(domain.RoundStatusRunning, 1+float64(i)/10))
		receive(t, fast)
	}

	// The slow client got its buffer's worth and then a closed channel
	received := 0
	for range slow.EventChannel {
		received++
	}
	assert.Equal(t, 4, received)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(nil, 4)
	defer hub.Stop()

	client, err := hub.Subscribe(TransportSSE, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unsubscribe(client.ID)
	hub.Unsubscribe(client.ID)
	hub.Unsubscribe("never-subscribed")
	assert.Equal(t, 0, hub.ClientCount())

	_, ok := <-client.EventChannel
	assert.False(t, ok)

	// Publishing after unsubscribe must not touch the closed channel
	hub.Publish(snapshotAt(domain.RoundStatusRunning, 2))
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(nil, 4)

	client, err := hub.Subscribe(TransportSSE, nil)
	require.NoError(t, err)

	hub.Stop()
	hub.Stop()

	_, ok := <-client.EventChannel
	assert.False(t, ok)

	_, err = hub.Subscribe(TransportSSE, nil)
	assert.ErrorIs(t, err, ErrHubClosed)

	hub.Publish(snapshotAt(domain.RoundStatusRunning, 2))
	hub.Unsubscribe(client.ID)
}

func TestHub_EventFilter(t *testing.T) {
	hub := NewHub(nil, 8)
	defer hub.Stop()

	settledOnly, err := hub.Subscribe(TransportSSE, []string{EventTypeBetSettled})
	require.NoError(t, err)
	all, err := hub.Subscribe(TransportSSE, nil)
	require.NoError(t, err)
	stateOnly, err := hub.Subscribe(TransportSSE, []string{EventTypeRoundState})
	require.NoError(t, err)

	hub.Broadcast(EventTypeBetSettled, domain.BetSettledPayload{BetID: "b1"})
	hub.Publish(snapshotAt(domain.RoundStatusRunning, 1.1))

	assert.Equal(t, EventTypeBetSettled, receive(t, settledOnly).Type)
	assert.Equal(t, EventTypeRoundState, receive(t, settledOnly).Type)

	assert.Equal(t, EventTypeBetSettled, receive(t, all).Type)
	assert.Equal(t, EventTypeRoundState, receive(t, all).Type)

	assert.Equal(t, EventTypeRoundState, receive(t, stateOnly).Type)
	assert.Len(t, stateOnly.EventChannel, 0)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "7", Type: EventTypeRoundState, Timestamp: 1, Payload: map[string]int{"a": 1}})
	require.NoError(t, err)

	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "id: 7\nevent: round.state\ndata: {"))
	assert.True(t, strings.HasSuffix(s, "}\n\n"))
}

func TestHub_StopReleasesStreamGoroutines(t *testing.T) {
	leaktest.VerifyNone(t, func() {
		hub := NewHub(staticSource{snap: snapshotAt(domain.RoundStatusWaiting, 1.0)}, 4)

		var readers sync.WaitGroup
		for i := 0; i < 5; i++ {
			client, err := hub.Subscribe(TransportSSE, nil)
			require.NoError(t, err)
			readers.Add(1)
			go func() {
				defer readers.Done()
				for range client.EventChannel {
				}
			}()
		}

		hub.Publish(snapshotAt(domain.RoundStatusRunning, 1.2))
		hub.Stop()
		readers.Wait()
	})
}
