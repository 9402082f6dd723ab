package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

// attach registers a bare client without a socket; tests read frames straight
// off the send buffer.
func attach(t *testing.T, h *Hub, userID string) *Client {
	t.Helper()
	c := newClient(h, nil)
	c.setUserID(userID)
	h.register <- c
	if userID != "" {
		h.subscribe <- subscription{client: c, room: userRoom(userID)}
	}
	return c
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func recvFrame(t *testing.T, c *Client) frame {
	t.Helper()
	select {
	case raw := <-c.send:
		var f frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
		return frame{}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishToUserReachesOnlyThatRoom(t *testing.T) {
	h := startHub(t)
	alice := attach(t, h, "u1")
	bob := attach(t, h, "u2")

	h.PublishToUser("u1", EventNewFollower, NewFollowerPayload{FollowerID: "u2"})

	f := recvFrame(t, alice)
	assert.Equal(t, EventNewFollower, f.Event)
	var payload NewFollowerPayload
	require.NoError(t, json.Unmarshal(f.Data, &payload))
	assert.Equal(t, "u2", payload.FollowerID)

	assertNoFrame(t, bob)
}

func TestConversationRoomExcludesOrigin(t *testing.T) {
	h := startHub(t)
	alice := attach(t, h, "u1")
	bob := attach(t, h, "u2")
	h.subscribe <- subscription{client: alice, room: chatRoom("c1")}
	h.subscribe <- subscription{client: bob, room: chatRoom("c1")}

	h.PublishToConversation("c1", "u1", EventUserTyping, TypingPayload{ChatID: "c1", UserID: "u1"})

	f := recvFrame(t, bob)
	assert.Equal(t, EventUserTyping, f.Event)
	// The typing origin never hears its own signal.
	assertNoFrame(t, alice)
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	h := startHub(t)
	alice := attach(t, h, "u1")
	anon := attach(t, h, "")

	h.Broadcast(EventNewComment, NewCommentPayload{PostID: "p1", CommentCount: 1})

	for _, c := range []*Client{alice, anon} {
		f := recvFrame(t, c)
		assert.Equal(t, EventNewComment, f.Event)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := startHub(t)
	alice := attach(t, h, "u1")
	h.subscribe <- subscription{client: alice, room: chatRoom("c1")}
	h.unsubscribe <- subscription{client: alice, room: chatRoom("c1")}

	h.PublishToConversation("c1", "", EventNewMessage, NewMessagePayload{ChatID: "c1"})
	assertNoFrame(t, alice)
}

func TestUnregisterLeavesRoomsAndClosesSend(t *testing.T) {
	h := startHub(t)
	alice := attach(t, h, "u1")
	h.subscribe <- subscription{client: alice, room: chatRoom("c1")}

	h.unregister <- alice

	select {
	case _, ok := <-alice.send:
		assert.False(t, ok, "send channel closes on unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	// Publishing to the abandoned rooms is a no-op, not a panic.
	h.PublishToUser("u1", EventNewMessage, nil)
	h.PublishToConversation("c1", "", EventNewMessage, nil)
}

func TestSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	h := startHub(t)
	alice := attach(t, h, "u1")

	// Fill the send buffer past capacity; the overflow must be dropped
	// without stalling the fan-out loop.
	for i := 0; i < sendBufferSize+10; i++ {
		h.PublishToUser("u1", EventNewMessage, NewMessagePayload{ChatID: "c1"})
	}

	// A different client still gets its events promptly.
	bob := attach(t, h, "u2")
	h.PublishToUser("u2", EventNewFollower, nil)
	f := recvFrame(t, bob)
	assert.Equal(t, EventNewFollower, f.Event)
	_ = alice
}
