package player

import (
	"sync/atomic"

	"github.com/gwuhaolin/playgo/av"
)

// VideoPlayback is the video output driver. Frames arrive through a single
// slot: a new frame replaces one the renderer has not picked up yet, so the
// sync loop never blocks behind a slow paint and the renderer always sees
// the newest frame. Render is meant for a single producer.
type VideoPlayback struct {
	painted int64 // atomic

	av.Runner
	renderer av.Renderer
	slot     chan *av.Frame
}

func NewVideoPlayback(renderer av.Renderer) *VideoPlayback {
	return &VideoPlayback{
		renderer: renderer,
		slot:     make(chan *av.Frame, 1),
	}
}

func (v *VideoPlayback) Start() bool {
	return v.Runner.Start(v.run)
}

// Render hands a frame to the display goroutine without blocking. A nil
// frame is legal and simply not painted.
func (v *VideoPlayback) Render(frame *av.Frame) {
	for {
		select {
		case v.slot <- frame:
			return
		default:
		}
		select {
		case <-v.slot:
		default:
		}
	}
}

func (v *VideoPlayback) run(quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case frame := <-v.slot:
			if frame == nil || v.renderer == nil {
				continue
			}
			v.renderer.Paint(frame)
			atomic.AddInt64(&v.painted, 1)
		}
	}
}

// Painted reports how many frames have reached the renderer.
func (v *VideoPlayback) Painted() int64 {
	return atomic.LoadInt64(&v.painted)
}
