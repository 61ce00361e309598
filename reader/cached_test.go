package reader

import (
	"sync"
	"testing"

	"github.com/gwuhaolin/playgo/av"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReader struct {
	av.FrameReader
	mu    sync.Mutex
	calls int
}

func (c *countingReader) GetFrame(position int64) (*av.Frame, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.FrameReader.GetFrame(position)
}

func (c *countingReader) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestCachedServesRepeatsFromStore(t *testing.T) {
	t.Parallel()

	counting := &countingReader{FrameReader: NewGenerator(av.Info{HasVideo: true, VideoLength: 20})}
	c := NewCached(counting, 0)
	require.NoError(t, c.Open())

	first, err := c.GetFrame(5)
	require.NoError(t, err)
	second, err := c.GetFrame(5)
	require.NoError(t, err)

	assert.True(t, first == second, "repeat read must come from the store")
	assert.Equal(t, 1, counting.callCount())
	assert.Equal(t, 1, c.CachedFrames())
}

func TestCachedDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	counting := &countingReader{FrameReader: NewGenerator(av.Info{HasVideo: true, VideoLength: 5})}
	c := NewCached(counting, 0)
	require.NoError(t, c.Open())

	_, err := c.GetFrame(9)
	assert.Equal(t, av.ErrOutOfBounds, err)
	_, err = c.GetFrame(9)
	assert.Equal(t, av.ErrOutOfBounds, err)

	assert.Equal(t, 2, counting.callCount())
	assert.Zero(t, c.CachedFrames())
}

func TestCachedCloseClearsStore(t *testing.T) {
	t.Parallel()

	c := NewCached(NewGenerator(av.Info{HasVideo: true, VideoLength: 20}), 0)
	require.NoError(t, c.Open())

	_, err := c.GetFrame(2)
	require.NoError(t, err)
	assert.Equal(t, 1, c.CachedFrames())

	require.NoError(t, c.Close())
	assert.False(t, c.IsOpen())
	assert.Zero(t, c.CachedFrames())

	_, err = c.GetFrame(2)
	assert.Equal(t, av.ErrReaderClosed, err)
}
