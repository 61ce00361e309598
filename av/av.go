package av

import (
	"fmt"
	"time"
)

// Common speed multipliers. Any other integer is a legal speed as well;
// extreme values simply degrade sync quality.
const (
	SPEED_PAUSED  = 0
	SPEED_NORMAL  = 1
	SPEED_REVERSE = -1
)

var (
	// ErrReaderClosed is returned by a FrameReader that has been closed
	// or was never opened.
	ErrReaderClosed = fmt.Errorf("reader closed")

	// ErrOutOfBounds is returned for positions past the end of the source.
	ErrOutOfBounds = fmt.Errorf("frame position out of bounds")
)

// Frame is one decoded picture together with the audio samples that play
// during it. Pixels hold a single luma plane of Width*Height bytes; Audio
// holds interleaved float32 samples for every channel. Frames are owned by
// the reader/cache layer and must be treated as read-only by consumers.
type Frame struct {
	Number   int64
	Width    int
	Height   int
	Pixels   []byte
	Audio    []float32
	Channels int
}

// Info describes a media source. FPS and VideoLength are fixed for the
// lifetime of an open reader.
type Info struct {
	Path        string
	HasAudio    bool
	HasVideo    bool
	FPS         float64
	VideoLength int64
	Width       int
	Height      int
	SampleRate  int
	Channels    int
}

// FrameDuration is the wall-clock budget of one frame at the source frame
// rate, zero when the rate is unknown.
func (info Info) FrameDuration() time.Duration {
	if info.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / info.FPS)
}

func (info Info) String() string {
	return fmt.Sprintf("<path: %s, fps: %.2f, frames: %d, audio: %v, video: %v>",
		info.Path, info.FPS, info.VideoLength, info.HasAudio, info.HasVideo)
}

// FrameReader produces frames by absolute 1-based position. Implementations
// must be safe for concurrent GetFrame calls: the sync loop, the audio
// driver and the pre-cache driver all pull from the same instance.
type FrameReader interface {
	Open() error
	Close() error
	IsOpen() bool
	GetFrame(position int64) (*Frame, error)
	Info() Info
}

// Renderer is the pixel output path. Paint runs on the video driver's
// goroutine, one frame per display cycle.
type Renderer interface {
	Paint(frame *Frame)
}

// AudioSink consumes interleaved little-endian float32 sample bytes.
type AudioSink interface {
	WriteAudio(b []byte) error
}

// Driver is a peer component backed by a single goroutine of its own.
type Driver interface {
	Start() bool
	Stop(timeout time.Duration) bool
	IsRunning() bool
}

// AudioDriver plays the audio stream and reports its playhead, which the
// sync loop compares against the video position to measure drift.
type AudioDriver interface {
	Driver
	Seek(position int64)
	CurrentPosition() int64
	SetSpeed(speed int64)
}

// VideoDriver accepts frames for display. Render must not block the caller;
// a frame handed over while the previous one is still pending replaces it.
type VideoDriver interface {
	Driver
	Render(frame *Frame)
}

// CacheDriver prefetches frames around the playhead.
type CacheDriver interface {
	Driver
	SetCurrentPosition(position int64)
	CurrentPosition() int64
	SetSpeed(speed int64)
}
