package session

import (
	"sync"
	"time"
)

// Cursor is one peer's last-known caret position or selection in a
// document, adapted from the teacher's editor.CursorPosition/SelectionRange
// but collapsed to the single pair a two-party Engine ever has: there is
// never more than one remote cursor to track, since Join admits only one
// client per document.
type Cursor struct {
	SiteID    uint32    `json:"siteId"`
	Position  int       `json:"position"`
	Start     int       `json:"start"`
	End       int       `json:"end"`
	Colour    string    `json:"colour"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CursorTracker records the other side's cursor for presence display. It is
// intentionally outside the pkg/ot algorithm: cursor position never affects
// transform results, only what gets drawn in a UI.
type CursorTracker struct {
	mu      sync.RWMutex
	cursors map[uint32]*Cursor
}

// NewCursorTracker creates an empty tracker.
func NewCursorTracker() *CursorTracker {
	return &CursorTracker{cursors: make(map[uint32]*Cursor)}
}

// Update records siteID's caret position, clearing any selection.
func (t *CursorTracker) Update(siteID uint32, colour string, position int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursors[siteID] = &Cursor{SiteID: siteID, Position: position, Colour: colour, UpdatedAt: time.Now()}
}

// UpdateSelection records siteID's selection range; start == end clears it.
func (t *CursorTracker) UpdateSelection(siteID uint32, colour string, start, end int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.cursors[siteID]
	if !ok {
		c = &Cursor{SiteID: siteID, Colour: colour}
		t.cursors[siteID] = c
	}
	c.Start, c.End = start, end
	c.UpdatedAt = time.Now()
}

// Remove drops siteID's cursor, called on Leave.
func (t *CursorTracker) Remove(siteID uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.cursors, siteID)
}

// Other returns the cursor belonging to any site but excludeSiteID, or false
// if none is tracked — the two-party analogue of the teacher's
// GetAllCursors(excludeClientID) fan-out.
func (t *CursorTracker) Other(excludeSiteID uint32) (Cursor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for id, c := range t.cursors {
		if id != excludeSiteID {
			return *c, true
		}
	}
	return Cursor{}, false
}

// Stale reports whether the tracked cursor for siteID has not moved within
// timeout, mirroring the teacher's CleanupStale sweep.
func (t *CursorTracker) Stale(siteID uint32, timeout time.Duration) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.cursors[siteID]
	if !ok {
		return true
	}
	return time.Since(c.UpdatedAt) > timeout
}
