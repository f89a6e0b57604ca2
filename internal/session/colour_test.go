package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColourStringRoundTrip(t *testing.T) {
	c := NewColour(0xFF, 0x6B, 0x00)
	assert.Equal(t, "#FF6B00", c.String())

	parsed, err := ParseColour(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}

func TestParseColourWithoutHash(t *testing.T) {
	parsed, err := ParseColour("112233")
	require.NoError(t, err)
	assert.Equal(t, NewColour(0x11, 0x22, 0x33), parsed)
}

func TestParseColourInvalid(t *testing.T) {
	_, err := ParseColour("not-a-colour")
	assert.Error(t, err)
}

func TestSimilar(t *testing.T) {
	a := NewColour(100, 100, 100)
	b := NewColour(105, 100, 100)
	assert.True(t, a.Similar(b))

	c := NewColour(200, 100, 100)
	assert.False(t, a.Similar(c))
}

func TestNextColourSkipsClashes(t *testing.T) {
	inUse := []Colour{palette[0]}
	next := NextColour(0, inUse)
	assert.False(t, next.Similar(palette[0]))
}

func TestNextColourFallsBackWhenAllClash(t *testing.T) {
	next := NextColour(0, palette)
	assert.Equal(t, palette[0], next)
}
