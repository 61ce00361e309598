package player

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"

	"github.com/gwuhaolin/playgo/av"
	"github.com/gwuhaolin/playgo/utils/pool"

	log "github.com/sirupsen/logrus"
)

// AudioPlayback is the audio output driver. A ticker at the source frame
// rate advances the playhead by the current speed on every tick, which
// makes the playhead the real-time audio clock the sync loop measures
// drift against. With a sink attached it also pulls the frame under the
// playhead and writes the samples out.
type AudioPlayback struct {
	position int64 // atomic
	speed    int64 // atomic

	av.Runner
	reader   av.FrameReader
	sink     av.AudioSink
	buf      *pool.Pool
	interval time.Duration
}

func NewAudioPlayback(reader av.FrameReader, frameDuration time.Duration) *AudioPlayback {
	if frameDuration <= 0 {
		frameDuration = 40 * time.Millisecond
	}
	return &AudioPlayback{
		speed:    1,
		reader:   reader,
		buf:      pool.NewPool(),
		interval: frameDuration,
	}
}

// Attach routes decoded samples to sink. Call before Start.
func (a *AudioPlayback) Attach(sink av.AudioSink) {
	a.sink = sink
}

func (a *AudioPlayback) Start() bool {
	return a.Runner.Start(a.run)
}

func (a *AudioPlayback) Seek(position int64) {
	atomic.StoreInt64(&a.position, position)
}

func (a *AudioPlayback) CurrentPosition() int64 {
	return atomic.LoadInt64(&a.position)
}

func (a *AudioPlayback) SetSpeed(speed int64) {
	atomic.StoreInt64(&a.speed, speed)
}

func (a *AudioPlayback) run(quit <-chan struct{}) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			speed := atomic.LoadInt64(&a.speed)
			if speed == 0 {
				continue
			}
			a.play(atomic.AddInt64(&a.position, speed))
		}
	}
}

// play pushes the samples under the playhead to the sink, staging the
// float32 data through the byte pool so a tick does not allocate. Fetch
// errors are dropped; the clock keeps ticking regardless.
func (a *AudioPlayback) play(position int64) {
	if a.sink == nil || a.reader == nil {
		return
	}
	frame, err := a.reader.GetFrame(position)
	if err != nil || len(frame.Audio) == 0 {
		return
	}
	b := a.buf.Get(4 * len(frame.Audio))
	for i, s := range frame.Audio {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(s))
	}
	if err := a.sink.WriteAudio(b); err != nil {
		log.Warning("audio sink: ", err)
	}
}
