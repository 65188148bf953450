package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan Message, timeout time.Duration) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for realtime message")
	}
	return Message{}
}

func TestHubReconnectAndOrdering(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	channel := ChannelFor(CollectionCycles, uuid.New())

	clientA := hub.NewClient(uuid.New())
	hub.AddChannel(clientA, channel)

	first := Message{Channel: channel, Event: EventCycleLogged, Data: map[string]any{"seq": 1}}
	second := Message{Channel: channel, Event: EventCycleLogged, Data: map[string]any{"seq": 2}}
	hub.Broadcast(first)
	hub.Broadcast(second)

	gotFirst := recvMessage(t, clientA.Outbound, time.Second)
	gotSecond := recvMessage(t, clientA.Outbound, time.Second)
	if gotFirst.Data.(map[string]any)["seq"] != 1 {
		t.Fatalf("first message out of order: %+v", gotFirst)
	}
	if gotSecond.Data.(map[string]any)["seq"] != 2 {
		t.Fatalf("second message out of order: %+v", gotSecond)
	}

	hub.CloseClient(clientA)
	select {
	case <-clientA.done:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA done signal")
	}
	hub.Broadcast(Message{Channel: channel, Event: EventCycleLogged, Data: map[string]any{"seq": 99}})
	select {
	case msg := <-clientA.Outbound:
		t.Fatalf("clientA received a message after disconnect: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}

	clientB := hub.NewClient(uuid.New())
	hub.AddChannel(clientB, channel)
	reconnect := Message{Channel: channel, Event: EventHealthLogged, Data: map[string]any{"seq": 3}}
	hub.Broadcast(reconnect)
	gotReconnect := recvMessage(t, clientB.Outbound, time.Second)
	if gotReconnect.Event != EventHealthLogged {
		t.Fatalf("reconnect event: want=%s got=%s", EventHealthLogged, gotReconnect.Event)
	}
}

func TestHubCloseClientIdempotent(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	client := hub.NewClient(uuid.New())
	channel := ChannelFor(CollectionCycles, client.UserID)
	hub.AddChannel(client, channel)

	hub.CloseClient(client)
	hub.CloseClient(client)

	// A delivery that raced teardown must not panic on the outbound channel.
	select {
	case client.Outbound <- Message{Channel: channel, Event: EventSnapshot}:
	default:
	}
}

func TestHubScopesMessagesToChannel(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	ownerA := uuid.New()
	ownerB := uuid.New()

	clientA := hub.NewClient(ownerA)
	hub.AddChannel(clientA, ChannelFor(CollectionCycles, ownerA))
	clientB := hub.NewClient(ownerB)
	hub.AddChannel(clientB, ChannelFor(CollectionCycles, ownerB))

	hub.Broadcast(Message{Channel: ChannelFor(CollectionCycles, ownerA), Event: EventCycleLogged})

	recvMessage(t, clientA.Outbound, time.Second)
	select {
	case msg := <-clientB.Outbound:
		t.Fatalf("clientB received a message scoped to another owner: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
