// Package session wraps the bare pkg/ot engine with the surrounding
// per-peer identity, colour, metrics and logging a real server needs —
// the same role the teacher's OTManager played for its own position-based
// operations, generalized to the Jupiter site/vector-time model.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jupiter/internal/logging"
	"jupiter/pkg/ot"
)

// Peer identifies one connected participant: their site id (the Jupiter
// protocol's own small integer, only ever 1 or 2 in this two-party
// algorithm), a connection-scoped UUID used by the transport layer to
// track the underlying socket independent of protocol role, display name
// and colour. Display name/colour/ConnID are presentation metadata outside
// the algorithm itself (§1 names "colour value-objects for user identity"
// as in scope for the system, not the engine).
type Peer struct {
	SiteID   uint32
	ConnID   uuid.UUID
	Name     string
	Colour   Colour
	IsClient bool
}

// clientSiteID is the sole client-role site a two-party Engine admits.
// Spec's non-goal of N-party convergence means an Engine pairs exactly one
// client against the server; a second connection must wait or open its own
// document.
const clientSiteID uint32 = 2

// Engine wraps the two-site Jupiter state for one document: the
// server-role site lives here permanently, and at most one client peer may
// be joined to it at a time.
type Engine struct {
	mu sync.Mutex

	DocumentID string
	Created    time.Time
	lastTouch  time.Time
	dirty      bool
	version    int

	server *ot.Site
	doc    *ot.Document

	client  *ot.Site
	peer    *Peer
	cursors *CursorTracker
}

// NewEngine creates the server-role site for documentID, seeded with
// initialContent.
func NewEngine(documentID, initialContent string) *Engine {
	doc := ot.NewDocument(initialContent)
	return &Engine{
		DocumentID: documentID,
		Created:    time.Now(),
		lastTouch:  time.Now(),
		doc:        doc,
		server:     ot.NewSite(doc, 1, false),
		cursors:    NewCursorTracker(),
	}
}

// Join attaches the single client peer to a fresh document snapshot and
// returns its Peer record plus the snapshot to send it. It fails if a
// client is already attached.
func (e *Engine) Join(name string) (Peer, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return Peer{}, "", fmt.Errorf("session: document %s already has a client attached", e.DocumentID)
	}

	clientDoc := ot.NewDocument(e.doc.String())
	e.client = ot.NewSite(clientDoc, clientSiteID, true)

	peer := Peer{SiteID: clientSiteID, ConnID: uuid.New(), Name: name, Colour: NextColour(0, nil), IsClient: true}
	e.peer = &peer

	if logging.Log != nil {
		logging.Log.Info("peer joined",
			zap.String("document_id", e.DocumentID),
			zap.Uint32("site_id", peer.SiteID),
		)
	}
	Get().DocumentsActive.Inc()
	return peer, e.doc.String(), nil
}

// Leave detaches the client peer, freeing the document for a new one.
func (e *Engine) Leave(siteID uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil || e.peer.SiteID != siteID {
		return
	}
	e.cursors.Remove(siteID)
	e.client = nil
	e.peer = nil
	Get().DocumentsActive.Dec()
}

// UpdateCursor records siteID's caret position for presence display.
func (e *Engine) UpdateCursor(siteID uint32, position int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	colour := ""
	if e.peer != nil && e.peer.SiteID == siteID {
		colour = e.peer.Colour.String()
	}
	e.cursors.Update(siteID, colour, position)
}

// OtherCursor returns the peer's cursor as seen from siteID's point of view.
func (e *Engine) OtherCursor(siteID uint32) (Cursor, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.Other(siteID)
}

// LocalOp applies an operation generated by siteID (1 means the server
// itself) and returns the record to send to the other site of the pair.
func (e *Engine) LocalOp(siteID uint32, op ot.Operation) (ot.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	site, err := e.siteFor(siteID)
	if err != nil {
		return ot.Record{}, err
	}

	rec, err := site.LocalOp(op)
	if err != nil {
		Get().PreconditionFails.Inc()
		return ot.Record{}, err
	}
	Get().RecordsExchanged.WithLabelValues("local").Inc()
	Get().OutstandingDepth.WithLabelValues(e.DocumentID).Set(float64(site.OutstandingLen()))
	e.touch()
	return rec, nil
}

// RemoteOp applies rec, produced by rec.FromSite, onto the other site in
// the pair.
func (e *Engine) RemoteOp(rec ot.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	target, err := e.peerSiteOf(rec.FromSite)
	if err != nil {
		return err
	}

	if err := target.RemoteOp(rec); err != nil {
		if errors.Is(err, ot.ErrPrecondition) {
			Get().PreconditionFails.Inc()
		} else {
			Get().ProtocolFails.Inc()
		}
		return fmt.Errorf("session: document %s: %w", e.DocumentID, err)
	}
	Get().RecordsExchanged.WithLabelValues("remote").Inc()
	Get().OutstandingDepth.WithLabelValues(e.DocumentID).Set(float64(target.OutstandingLen()))
	e.touch()
	return nil
}

// peerSiteOf returns the site that should receive a record sent by fromSite.
func (e *Engine) peerSiteOf(fromSite uint32) (*ot.Site, error) {
	switch fromSite {
	case 1:
		if e.client == nil {
			return nil, fmt.Errorf("session: document %s has no attached client", e.DocumentID)
		}
		return e.client, nil
	case clientSiteID:
		return e.server, nil
	default:
		return nil, fmt.Errorf("session: unknown site %d", fromSite)
	}
}

func (e *Engine) siteFor(siteID uint32) (*ot.Site, error) {
	switch siteID {
	case 1:
		return e.server, nil
	case clientSiteID:
		if e.client == nil {
			return nil, fmt.Errorf("session: document %s has no attached client", e.DocumentID)
		}
		return e.client, nil
	default:
		return nil, fmt.Errorf("session: unknown site %d", siteID)
	}
}

// Snapshot returns the server document's current content and whether it
// has unsaved changes since the last MarkSaved.
func (e *Engine) Snapshot() (content string, dirty bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.String(), e.dirty
}

// MarkSaved clears the dirty flag after a successful persistence write.
func (e *Engine) MarkSaved() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = false
}

// Version returns the number of local/remote operations applied so far,
// written to the version column when persisting.
func (e *Engine) Version() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

func (e *Engine) touch() {
	e.lastTouch = time.Now()
	e.dirty = true
	e.version++
}
