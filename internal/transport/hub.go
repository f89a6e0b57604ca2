// Package transport carries ot.Record frames between a server process and
// its connected peer over WebSocket, adapted from the teacher's
// internal/editor hub/client pair. Unlike the teacher's hub, which
// broadcast raw text diffs to every client in a document, a document here
// has exactly one client connection (the two-party protocol's non-goal of
// N-party convergence rules out a broadcast-to-many model).
package transport

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"jupiter/internal/logging"
	"jupiter/internal/session"
)

// Frame is the wire message exchanged over the socket.
type Frame struct {
	Type       string     `json:"type"`
	DocumentID string     `json:"documentId,omitempty"`
	Peer       *PeerInfo  `json:"peer,omitempty"`
	Record     *RecordDTO `json:"record,omitempty"`
	Content    string     `json:"content,omitempty"`
	Cursor     *int       `json:"cursor,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// PeerInfo is the JSON-facing view of session.Peer.
type PeerInfo struct {
	SiteID uint32 `json:"siteId"`
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

// Hub owns the set of live document engines and routes connections to
// them, mirroring the teacher's Hub but keyed by document id with at most
// one client socket per document.
type Hub struct {
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	engines map[string]*session.Engine
	clients map[string]*Client // documentID -> client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		engines:    make(map[string]*session.Engine),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's event loop; call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.documentID] = c
			h.mu.Unlock()
			if logging.Log != nil {
				logging.Log.Info("client registered", zap.String("document_id", c.documentID))
			}
		case c := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.clients[c.documentID]; ok && existing == c {
				delete(h.clients, c.documentID)
				close(c.send)
			}
			h.mu.Unlock()
		}
	}
}

// EngineFor returns the engine for documentID, creating one seeded with
// initialContent if it doesn't exist yet.
func (h *Hub) EngineFor(documentID, initialContent string) *session.Engine {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.engines[documentID]; ok {
		return e
	}
	e := session.NewEngine(documentID, initialContent)
	h.engines[documentID] = e
	return e
}

// Engines returns a snapshot of every live document engine, keyed by
// document id, for callers (the autosave loop) that need to sweep all of
// them periodically without holding the hub lock for the whole sweep.
func (h *Hub) Engines() map[string]*session.Engine {
	h.mu.Lock()
	defer h.mu.Unlock()
	snapshot := make(map[string]*session.Engine, len(h.engines))
	for id, e := range h.engines {
		snapshot[id] = e
	}
	return snapshot
}

// Deliver marshals rec as a Frame and pushes it to the client attached to
// documentID, if any.
func (h *Hub) Deliver(documentID string, rec RecordDTO) {
	h.mu.Lock()
	c, ok := h.clients[documentID]
	h.mu.Unlock()
	if !ok {
		return
	}
	frame := Frame{Type: "record", DocumentID: documentID, Record: &rec}
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		h.mu.Lock()
		close(c.send)
		delete(h.clients, documentID)
		h.mu.Unlock()
	}
}

// Shutdown closes every registered connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		close(c.send)
		c.conn.Close()
	}
}
