package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jupiter/pkg/ot"
)

func TestEngineJoinRejectsSecondClient(t *testing.T) {
	e := NewEngine("doc-1", "hello")

	_, content, err := e.Join("alice")
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	_, _, err = e.Join("bob")
	assert.Error(t, err, "a second client must be rejected: two-party protocol only")
}

func TestEngineLeaveFreesDocumentForNewClient(t *testing.T) {
	e := NewEngine("doc-1", "hello")
	peer, _, err := e.Join("alice")
	require.NoError(t, err)

	e.Leave(peer.SiteID)

	_, _, err = e.Join("bob")
	assert.NoError(t, err)
}

func TestEngineLocalAndRemoteOpRoundTrip(t *testing.T) {
	e := NewEngine("doc-1", "hello")
	_, _, err := e.Join("alice")
	require.NoError(t, err)

	rec, err := e.LocalOp(1, ot.NewInsert(5, " world"))
	require.NoError(t, err)

	err = e.RemoteOp(rec)
	require.NoError(t, err)

	content, dirty := e.Snapshot()
	assert.Equal(t, "hello world", content)
	assert.True(t, dirty)

	e.MarkSaved()
	_, dirty = e.Snapshot()
	assert.False(t, dirty)
}

func TestEngineRemoteOpUnknownSite(t *testing.T) {
	e := NewEngine("doc-1", "hello")
	err := e.RemoteOp(ot.Record{FromSite: 99})
	assert.Error(t, err)
}

func TestEngineCursorTracking(t *testing.T) {
	e := NewEngine("doc-1", "hello")
	peer, _, err := e.Join("alice")
	require.NoError(t, err)

	e.UpdateCursor(peer.SiteID, 3)
	c, ok := e.OtherCursor(1)
	require.True(t, ok)
	assert.Equal(t, 3, c.Position)

	e.Leave(peer.SiteID)
	_, ok = e.OtherCursor(1)
	assert.False(t, ok)
}
