package transport

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"jupiter/internal/logging"
	"jupiter/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

var newline = []byte{'\n'}
var space = []byte{' '}

// Client is one connected peer's socket, paired with the session.Engine
// for the document it edits. Adapted from the teacher's client.go:
// readPump/writePump keep their shape, but processMessage now decodes
// Frame{record} payloads into ot.Record instead of raw text diffs.
type Client struct {
	documentID string
	conn       *websocket.Conn
	send       chan []byte
	hub        *Hub
	engine     *session.Engine
	peer       session.Peer
}

// NewClient wires a websocket connection to the hub and the document's
// engine, registering the peer in the protocol.
func NewClient(hub *Hub, conn *websocket.Conn, documentID, peerName, initialContent string) (*Client, error) {
	engine := hub.EngineFor(documentID, initialContent)
	peer, _, err := engine.Join(peerName)
	if err != nil {
		return nil, err
	}

	return &Client{
		documentID: documentID,
		conn:       conn,
		send:       make(chan []byte, 256),
		hub:        hub,
		engine:     engine,
		peer:       peer,
	}, nil
}

// ReadPump pumps frames from the socket into the engine's RemoteOp.
func (c *Client) ReadPump() {
	defer func() {
		c.engine.Leave(c.peer.SiteID)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				if logging.Log != nil {
					logging.Log.Warn("websocket read error", zap.Error(err))
				}
			}
			break
		}

		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
		c.processMessage(message)
	}
}

// WritePump pumps outbound frames from the hub to the socket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) processMessage(message []byte) {
	var frame Frame
	if err := json.Unmarshal(message, &frame); err != nil {
		c.sendError("invalid frame")
		return
	}

	switch frame.Type {
	case "record":
		c.handleRecord(frame)
	case "cursor":
		c.handleCursor(frame)
	case "ping":
		return
	default:
		c.sendError("unknown frame type: " + frame.Type)
	}
}

func (c *Client) handleCursor(frame Frame) {
	if frame.Cursor == nil {
		return
	}
	c.engine.UpdateCursor(c.peer.SiteID, *frame.Cursor)
}

func (c *Client) handleRecord(frame Frame) {
	if frame.Record == nil {
		c.sendError("missing record")
		return
	}
	rec, err := DecodeRecord(*frame.Record)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	if err := c.engine.RemoteOp(rec); err != nil {
		if logging.Log != nil {
			logging.Log.Error("remote_op failed", zap.String("document_id", c.documentID), zap.Error(err))
		}
		c.sendError(err.Error())
		return
	}
}

func (c *Client) sendError(msg string) {
	frame := Frame{Type: "error", Error: msg}
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// SendInit pushes the initial snapshot and peer assignment to the client.
func (c *Client) SendInit(content string) {
	frame := Frame{
		Type:       "init",
		DocumentID: c.documentID,
		Content:    content,
		Peer: &PeerInfo{
			SiteID: c.peer.SiteID,
			Name:   c.peer.Name,
			Colour: c.peer.Colour.String(),
		},
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
