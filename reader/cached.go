package reader

import (
	"time"

	"github.com/gwuhaolin/playgo/av"
	"github.com/gwuhaolin/playgo/cache"
)

// Cached is a read-through frame cache over any FrameReader. The sync loop
// and the pre-cache driver share one Cached instance, so frames warmed by
// the prefetcher are served back to the loop without another decode.
type Cached struct {
	inner av.FrameReader
	store *cache.Memory
}

func NewCached(inner av.FrameReader, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		store: cache.NewMemory(ttl),
	}
}

func (c *Cached) Open() error {
	return c.inner.Open()
}

// Close drops every cached frame before closing the wrapped reader.
func (c *Cached) Close() error {
	c.store.Clear()
	return c.inner.Close()
}

func (c *Cached) IsOpen() bool {
	return c.inner.IsOpen()
}

func (c *Cached) Info() av.Info {
	return c.inner.Info()
}

func (c *Cached) GetFrame(position int64) (*av.Frame, error) {
	if frame, found := c.store.Get(position); found {
		return frame, nil
	}
	frame, err := c.inner.GetFrame(position)
	if err != nil {
		return nil, err
	}
	c.store.Add(frame)
	return frame, nil
}

// CachedFrames reports how many frames are currently warm.
func (c *Cached) CachedFrames() int {
	return c.store.Count()
}
