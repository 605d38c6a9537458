package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/xwplay/internal/dispatch"
)

func receive(t *testing.T, c *client) string {
	t.Helper()
	select {
	case msg := <-c.ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestBroadcasterRegisterUnregister(t *testing.T) {
	b := NewBroadcaster()

	c1 := b.Register("s1")
	c2 := b.Register("s1")
	c3 := b.Register("s2")

	assert.Equal(t, 2, b.ClientCount("s1"))
	assert.Equal(t, 1, b.ClientCount("s2"))

	b.Unregister(c1)
	assert.Equal(t, 1, b.ClientCount("s1"))

	b.Unregister(c2)
	b.Unregister(c3)
	assert.Equal(t, 0, b.ClientCount("s1"))
	assert.Equal(t, 0, b.ClientCount("s2"))
}

func TestBroadcasterDoubleUnregister(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register("s1")
	b.Unregister(c)
	b.Unregister(c) // should not panic
}

func TestRegisterBacklog(t *testing.T) {
	b := NewBroadcaster()
	backlog := make([]string, 40)
	for i := range backlog {
		backlog[i] = "old"
	}
	c := b.Register("s1", backlog...)
	b.Broadcast("s1", "new")

	for range backlog {
		assert.Equal(t, "old", receive(t, c))
	}
	assert.Equal(t, "new", receive(t, c))
	b.Unregister(c)
}

func TestBroadcast(t *testing.T) {
	b := NewBroadcaster()

	c1 := b.Register("s1")
	c2 := b.Register("s1")
	c3 := b.Register("s2")

	b.Broadcast("s1", "hello")

	assert.Equal(t, "hello", receive(t, c1))
	assert.Equal(t, "hello", receive(t, c2))

	// c3 is on s2, should not receive.
	select {
	case <-c3.ch:
		t.Fatal("c3 should not receive s1 message")
	case <-time.After(50 * time.Millisecond):
	}

	b.Unregister(c1)
	b.Unregister(c2)
	b.Unregister(c3)
}

func TestBroadcastDisconnectsSlowClient(t *testing.T) {
	b := NewBroadcaster()
	slow := b.Register("s1")
	other := b.Register("s1")

	for range sseChannelBuffer {
		b.Broadcast("s1", "fill")
	}
	for range sseChannelBuffer {
		receive(t, other)
	}

	// This should not block.
	b.Broadcast("s1", "overflow")

	// The slow client keeps what it had and then sees its stream end.
	for range sseChannelBuffer {
		assert.Equal(t, "fill", receive(t, slow))
	}
	_, open := <-slow.ch
	assert.False(t, open)

	assert.Equal(t, "overflow", receive(t, other))
	assert.Equal(t, 1, b.ClientCount("s1"))

	b.Unregister(slow) // no-op after the disconnect
	b.Unregister(other)
}

func TestDisconnect(t *testing.T) {
	b := NewBroadcaster()
	c1 := b.Register("s1")
	c2 := b.Register("s2")

	b.Disconnect("s1")

	_, open := <-c1.ch
	assert.False(t, open)
	assert.Equal(t, 0, b.ClientCount("s1"))
	assert.Equal(t, 1, b.ClientCount("s2"))

	// Unregistering after a disconnect is a no-op.
	b.Unregister(c1)
	b.Unregister(c2)
}

func TestSinkEncodesDirectives(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register("s1")
	defer b.Unregister(c)

	b.Sink("s1").Emit(dispatch.ShowMessage{Text: "Grid cleared."})

	var got struct {
		Type string `json:"type"`
		Data struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(receive(t, c)), &got))
	assert.Equal(t, "show-message", got.Type)
	assert.Equal(t, "Grid cleared.", got.Data.Text)
}

func TestServeSSE(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register("s1", "first", "second")
	// Closing the channel ends the stream once the backlog is written.
	b.Disconnect("s1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	b.ServeSSE(w, req, c)

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "data: first\n\ndata: second\n\n", w.Body.String())
	assert.Equal(t, 0, b.ClientCount("s1"))
}

func TestBroadcasterConcurrent(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "s1"
			if i%2 == 0 {
				id = "s2"
			}
			c := b.Register(id)
			b.Broadcast(id, "msg")
			b.ClientCount(id)
			b.Unregister(c)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, b.ClientCount("s1"))
	assert.Equal(t, 0, b.ClientCount("s2"))
}
