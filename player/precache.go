package player

import (
	"sync/atomic"
	"time"

	"github.com/gwuhaolin/playgo/av"
)

// DefaultCacheAhead is the prefetch window in frames, one second of video
// at the default rate.
const DefaultCacheAhead = 25

// VideoCache is the pre-cache driver. It watches the playhead and keeps a
// window of upcoming frames warm by pulling them through the shared
// reader, in the direction of travel, so the sync loop's own GetFrame is a
// cache hit. Eviction belongs to the frame store, not to this driver.
type VideoCache struct {
	position int64 // atomic
	speed    int64 // atomic
	warmed   int64 // atomic

	av.Runner
	reader   av.FrameReader
	ahead    int64
	interval time.Duration
}

func NewVideoCache(reader av.FrameReader, frameDuration time.Duration, ahead int64) *VideoCache {
	if frameDuration <= 0 {
		frameDuration = 40 * time.Millisecond
	}
	if ahead <= 0 {
		ahead = DefaultCacheAhead
	}
	return &VideoCache{
		speed:    1,
		reader:   reader,
		ahead:    ahead,
		interval: frameDuration / 2,
	}
}

func (c *VideoCache) Start() bool {
	return c.Runner.Start(c.run)
}

func (c *VideoCache) SetCurrentPosition(position int64) {
	atomic.StoreInt64(&c.position, position)
}

func (c *VideoCache) CurrentPosition() int64 {
	return atomic.LoadInt64(&c.position)
}

func (c *VideoCache) SetSpeed(speed int64) {
	atomic.StoreInt64(&c.speed, speed)
}

// Warmed reports how many frames have been pulled through the reader.
func (c *VideoCache) Warmed() int64 {
	return atomic.LoadInt64(&c.warmed)
}

func (c *VideoCache) run(quit <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var lastPosition int64 = -1
	var lastSpeed int64

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			position := atomic.LoadInt64(&c.position)
			speed := atomic.LoadInt64(&c.speed)
			if position == lastPosition && speed == lastSpeed {
				continue
			}
			lastPosition, lastSpeed = position, speed
			c.warm(position, speed)
		}
	}
}

// warm fetches the window after position, walking backwards under reverse
// playback. The walk stops at either edge of the source.
func (c *VideoCache) warm(position, speed int64) {
	if c.reader == nil {
		return
	}
	step := int64(1)
	if speed < 0 {
		step = -1
	}
	for i := int64(1); i <= c.ahead; i++ {
		next := position + i*step
		if next < 1 {
			return
		}
		if _, err := c.reader.GetFrame(next); err != nil {
			return
		}
		atomic.AddInt64(&c.warmed, 1)
	}
}
