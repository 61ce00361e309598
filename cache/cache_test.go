package cache

import (
	"testing"
	"time"

	"github.com/gwuhaolin/playgo/av"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewMemory(0)
	assert.Zero(t, m.Count())
	_, found := m.Get(1)
	assert.False(t, found)

	m.Add(&av.Frame{Number: 7})
	m.Add(&av.Frame{Number: 8})
	m.Add(nil) // ignored
	assert.Equal(t, 2, m.Count())
	assert.True(t, m.Has(7))

	frame, found := m.Get(7)
	require.True(t, found)
	assert.EqualValues(t, 7, frame.Number)

	m.Remove(7)
	assert.False(t, m.Has(7))

	m.Clear()
	assert.Zero(t, m.Count())
	assert.False(t, m.Has(8))
}

func TestMemoryReplacesSamePosition(t *testing.T) {
	t.Parallel()

	m := NewMemory(0)
	m.Add(&av.Frame{Number: 3, Width: 1})
	m.Add(&av.Frame{Number: 3, Width: 2})

	assert.Equal(t, 1, m.Count())
	frame, found := m.Get(3)
	require.True(t, found)
	assert.Equal(t, 2, frame.Width)
}

func TestMemoryExpiry(t *testing.T) {
	t.Parallel()

	m := NewMemory(20 * time.Millisecond)
	m.Add(&av.Frame{Number: 1})
	assert.True(t, m.Has(1))

	time.Sleep(50 * time.Millisecond)
	assert.False(t, m.Has(1))
}
