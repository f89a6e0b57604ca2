package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCursorTrackerUpdateAndOther(t *testing.T) {
	tr := NewCursorTracker()
	tr.Update(1, "#FF0000", 5)

	_, ok := tr.Other(1)
	assert.False(t, ok, "no other peer tracked yet")

	tr.Update(2, "#00FF00", 9)
	other, ok := tr.Other(1)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), other.SiteID)
	assert.Equal(t, 9, other.Position)
}

func TestCursorTrackerUpdateSelectionClears(t *testing.T) {
	tr := NewCursorTracker()
	tr.UpdateSelection(1, "#FF0000", 2, 8)
	c, ok := tr.Other(2)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Start)
	assert.Equal(t, 8, c.End)

	tr.UpdateSelection(1, "#FF0000", 4, 4)
	c, ok = tr.Other(2)
	assert.True(t, ok)
	assert.Equal(t, 4, c.Start)
	assert.Equal(t, 4, c.End)
}

func TestCursorTrackerRemove(t *testing.T) {
	tr := NewCursorTracker()
	tr.Update(1, "#FF0000", 5)
	tr.Remove(1)
	_, ok := tr.Other(2)
	assert.False(t, ok)
}

func TestCursorTrackerStale(t *testing.T) {
	tr := NewCursorTracker()
	assert.True(t, tr.Stale(1, time.Second), "untracked site is considered stale")

	tr.Update(1, "#FF0000", 0)
	assert.False(t, tr.Stale(1, time.Hour))
}
