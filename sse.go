package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bodul/xwplay/internal/dispatch"
	"github.com/bodul/xwplay/internal/puzzle"
)

const (
	// sseChannelBuffer holds a reveal followed by a clear of the largest grid.
	sseChannelBuffer = 2*puzzle.MaxSize*puzzle.MaxSize + 16
	sseHeartbeat     = 30 * time.Second
)

// client represents a single SSE connection.
type client struct {
	ch        chan string
	sessionID string
}

// Broadcaster fans session directives out to SSE clients.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]struct{}),
	}
}

// Register adds a client for a session and returns it. backlog is queued
// ahead of anything broadcast later.
func (b *Broadcaster) Register(sessionID string, backlog ...string) *client {
	c := &client{
		ch:        make(chan string, len(backlog)+sseChannelBuffer),
		sessionID: sessionID,
	}
	for _, msg := range backlog {
		c.ch <- msg
	}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes a client and closes its channel.
func (b *Broadcaster) Unregister(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Disconnect unregisters every client of a session, ending their streams.
func (b *Broadcaster) Disconnect(sessionID string) {
	b.mu.Lock()
	for c := range b.clients {
		if c.sessionID == sessionID {
			delete(b.clients, c)
			close(c.ch)
		}
	}
	b.mu.Unlock()
}

// Close unregisters every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	for c := range b.clients {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Broadcast sends a message to all clients of a session. A client whose
// buffer is full is disconnected rather than left with a gap; it gets the
// full state again when it reconnects.
func (b *Broadcaster) Broadcast(sessionID, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for c := range b.clients {
		if c.sessionID != sessionID {
			continue
		}
		select {
		case c.ch <- data:
		default:
			delete(b.clients, c)
			close(c.ch)
			log.Warn().Str("session", sessionID).Msg("sse client too slow, disconnected")
		}
	}
}

// ClientCount returns the number of connected clients for a session.
func (b *Broadcaster) ClientCount(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for c := range b.clients {
		if c.sessionID == sessionID {
			n++
		}
	}
	return n
}

// Sink returns a directive sink that broadcasts to a session's clients.
func (b *Broadcaster) Sink(sessionID string) dispatch.Sink {
	return dispatch.SinkFunc(func(d dispatch.Directive) {
		data, err := dispatch.MarshalDirective(d)
		if err != nil {
			log.Error().Err(err).Str("directive", d.Type()).Msg("encode directive")
			return
		}
		b.Broadcast(sessionID, string(data))
	})
}

// ServeSSE streams a registered client until the request ends or the client
// is unregistered.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, c *client) {
	defer b.Unregister(c)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
