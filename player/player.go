package player

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gwuhaolin/playgo/av"

	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxSleep bounds a single sync iteration's sleep. Drift spikes
// during teardown races would otherwise park the loop for a long time.
const DefaultMaxSleep = 3 * time.Second

// ErrInvalidPosition is returned by Play when the playhead has been moved
// to a negative position.
var ErrInvalidPosition = fmt.Errorf("invalid playback position")

// Player keeps the video stream on wall-clock cadence while three peer
// drivers (audio output, video output, frame pre-cache) run on their own
// goroutines. There is no lock on the hot path: the loop owns the video
// position, the audio driver owns its playhead, and the drift between the
// two is folded back into the loop's sleep budget every iteration.
type Player struct {
	videoPosition int64 // atomic
	speed         int64 // atomic

	id       string
	reader   av.FrameReader
	info     av.Info
	audio    av.AudioDriver
	video    av.VideoDriver
	precache av.CacheDriver
	maxSleep time.Duration

	// owned by the loop goroutine
	lastVideoPosition int64
	frame             *av.Frame

	loop av.Runner
}

// NewPlayer wires a player to the built-in drivers: an audio clock pacing
// itself at the source frame rate, a single-slot video output feeding
// renderer, and a prefetcher warming frames around the playhead.
func NewPlayer(reader av.FrameReader, renderer av.Renderer) *Player {
	var frameDuration time.Duration
	if reader != nil {
		frameDuration = reader.Info().FrameDuration()
	}
	return NewPlayerWithDrivers(reader,
		NewAudioPlayback(reader, frameDuration),
		NewVideoPlayback(renderer),
		NewVideoCache(reader, frameDuration, DefaultCacheAhead))
}

// NewPlayerWithDrivers wires a player to caller-supplied drivers. All three
// must be non-nil.
func NewPlayerWithDrivers(reader av.FrameReader, audio av.AudioDriver, video av.VideoDriver, precache av.CacheDriver) *Player {
	p := &Player{
		videoPosition:     1,
		speed:             1,
		id:                uuid.NewV4().String(),
		reader:            reader,
		audio:             audio,
		video:             video,
		precache:          precache,
		maxSleep:          DefaultMaxSleep,
		lastVideoPosition: 1,
	}
	if reader != nil {
		p.info = reader.Info()
	}
	return p
}

// Play force-stops any prior playback and starts the sync loop. It fails
// only when the playhead sits at a negative position.
func (p *Player) Play() error {
	if atomic.LoadInt64(&p.videoPosition) < 0 {
		return ErrInvalidPosition
	}
	p.Stop()
	p.loop.Start(p.run)
	return nil
}

// Stop winds down the drivers and then the loop itself, each bounded by the
// sleep ceiling. Drivers whose media type the source does not carry were
// never started and are left alone. Safe to call repeatedly, and before
// Play.
func (p *Player) Stop() {
	if p.audio.IsRunning() && p.info.HasAudio {
		p.audio.Stop(p.maxSleep)
	}
	if p.precache.IsRunning() && p.info.HasVideo {
		p.precache.Stop(p.maxSleep)
	}
	if p.video.IsRunning() && p.info.HasVideo {
		p.video.Stop(p.maxSleep)
	}
	if p.loop.IsRunning() {
		p.loop.Stop(p.maxSleep)
	}
}

// Seek moves the playhead and relocates the audio driver and the
// prefetcher with it. The value is stored as given; Play rejects negative
// positions.
func (p *Player) Seek(position int64) {
	atomic.StoreInt64(&p.videoPosition, position)
	p.audio.Seek(position)
	p.precache.SetCurrentPosition(position)
}

// SetSpeed changes the per-iteration position increment. 0 pauses,
// negative values play backwards. The audio driver and the prefetcher
// follow along.
func (p *Player) SetSpeed(speed int64) {
	atomic.StoreInt64(&p.speed, speed)
	p.audio.SetSpeed(speed)
	p.precache.SetSpeed(speed)
}

// Pause holds the current frame until the speed changes again.
func (p *Player) Pause() {
	p.SetSpeed(av.SPEED_PAUSED)
}

func (p *Player) Position() int64 {
	return atomic.LoadInt64(&p.videoPosition)
}

func (p *Player) Speed() int64 {
	return atomic.LoadInt64(&p.speed)
}

func (p *Player) IsPlaying() bool {
	return p.loop.IsRunning()
}

// SetMaxSleep overrides the per-iteration sleep ceiling. Call before Play.
func (p *Player) SetMaxSleep(d time.Duration) {
	if d > 0 {
		p.maxSleep = d
	}
}

// run is the sync loop. One iteration fetches a frame, hands it to the
// video driver, measures how far the audio playhead has drifted from the
// video position and sleeps off the remainder of the frame's time budget.
// The stop signal is honored only between iterations.
func (p *Player) run(quit <-chan struct{}) {
	if p.reader == nil {
		return
	}
	frameDuration := p.info.FrameDuration()
	if frameDuration <= 0 {
		log.WithField("player", p.id).Warning("unknown frame rate, not starting")
		return
	}

	if p.info.HasAudio {
		p.audio.Start()
	}
	if p.info.HasVideo {
		p.precache.Start()
		p.video.Start()
	}

	for {
		select {
		case <-quit:
			return
		default:
		}

		started := time.Now()

		p.frame = p.nextFrame()

		position := atomic.LoadInt64(&p.videoPosition)
		speed := atomic.LoadInt64(&p.speed)

		// Paused, or ran past the end: hold for one frame and check again.
		if (speed == 0 && position == p.lastVideoPosition) || position > p.info.VideoLength {
			atomic.StoreInt64(&p.speed, 0)
			time.Sleep(frameDuration)
			continue
		}

		p.video.Render(p.frame)
		p.lastVideoPosition = position

		// Off normal speed there is no continuous audio stream to follow,
		// so the audio playhead is dragged along instead.
		var drift, audioPosition int64
		if p.info.HasAudio && p.info.HasVideo {
			if speed != 1 {
				p.audio.Seek(position)
			}
			audioPosition = p.audio.CurrentPosition()
			drift = position - audioPosition
		}

		renderTime := time.Since(started)
		sleepTime, jump := adjustSleep(frameDuration-renderTime, drift, frameDuration)
		if jump > 0 {
			atomic.AddInt64(&p.videoPosition, jump)
		}

		log.WithFields(log.Fields{
			"player":           p.id,
			"video_frame_diff": drift,
			"video_position":   position,
			"audio_position":   audioPosition,
			"speed":            speed,
			"render_time":      renderTime.Milliseconds(),
			"sleep_time":       sleepTime.Milliseconds(),
		}).Debug("determine sleep")

		if sleepTime > 0 && sleepTime < p.maxSleep {
			time.Sleep(sleepTime)
		}
	}
}

// nextFrame advances the playhead by the current speed and fetches the
// frame there, reusing the previous frame during a paused hold. A closed
// or exhausted reader yields no frame, and the loop idles on that.
func (p *Player) nextFrame() *av.Frame {
	position := atomic.LoadInt64(&p.videoPosition)
	speed := atomic.LoadInt64(&p.speed)

	if next := position + speed; next >= 1 && next <= p.info.VideoLength {
		position = next
		atomic.StoreInt64(&p.videoPosition, position)
	}

	if p.frame != nil && p.frame.Number == position && position == p.lastVideoPosition {
		return p.frame
	}

	p.precache.SetCurrentPosition(position)

	frame, err := p.reader.GetFrame(position)
	if err != nil {
		switch err {
		case av.ErrReaderClosed, av.ErrOutOfBounds:
			// nothing to display this iteration
		default:
			log.WithField("player", p.id).Warning("get frame: ", err)
		}
		return nil
	}
	return frame
}

// adjustSleep folds the audio/video drift into the sleep budget. Video
// ahead of audio holds the frame on screen longer so audio can catch up.
// Video more than ten frames behind cannot be fixed by sleeping less, so
// half the gap is skipped instead and the budget drops to zero. The
// returned jump is the number of frames to skip forward.
func adjustSleep(base time.Duration, drift int64, frameDuration time.Duration) (time.Duration, int64) {
	if drift > 0 {
		return base + time.Duration(drift)*frameDuration, 0
	}
	if drift < -10 {
		return 0, -drift / 2
	}
	return base, 0
}
