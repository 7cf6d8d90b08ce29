package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientCounter struct {
	n int64
}

func (c *clientCounter) SetWSClients(n int) {
	atomic.StoreInt64(&c.n, int64(n))
}

func dial(t *testing.T, hub *Hub, topic string, initial interface{}) *websocket.Conn {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, topic, initial)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &event))
	return event
}

func TestHubPublishesToTopicOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	counter := &clientCounter{}
	hub := NewHub(counter, nil)
	go hub.Run(ctx)

	first := dial(t, hub, "s1:classrooms", map[string]bool{"loading": false})
	second := dial(t, hub, "s2:classrooms", nil)

	initial := readEvent(t, first)
	assert.Equal(t, "state", initial["type"])

	require.Eventually(t, func() bool { return atomic.LoadInt64(&counter.n) == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("s1:classrooms", map[string]bool{"loading": true})
	event := readEvent(t, first)
	assert.Equal(t, map[string]interface{}{"loading": true}, event["data"])

	require.NoError(t, second.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := second.ReadMessage()
	assert.Error(t, err)
}

func TestHubUnregistersClosedClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	counter := &clientCounter{}
	hub := NewHub(counter, nil)
	go hub.Run(ctx)

	conn := dial(t, hub, "s1:schools", nil)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&counter.n))
}

func TestPublishOnNilHub(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() { hub.Publish("x", nil) })
}

func TestHubReleasesClientsAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn := dial(t, hub, "s1:classrooms", nil)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-stopped
	conn.Close()

	released := make(chan struct{})
	go func() {
		hub.unsubscribe(&Client{topic: "s1:classrooms"})
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("unsubscribe blocked after hub stopped")
	}
}

func TestServeAfterStopReturnsErrHubClosed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	served := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served <- hub.Serve(w, r, "s1:schools", nil)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case err := <-served:
		assert.ErrorIs(t, err, ErrHubClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve blocked after hub stopped")
	}
	assert.Equal(t, 0, hub.Clients())
}
