package reader

import (
	"math"
	"sync/atomic"

	"github.com/gwuhaolin/playgo/av"
)

const (
	defaultFPS        = 25.0
	defaultLength     = 250
	defaultWidth      = 320
	defaultHeight     = 180
	defaultSampleRate = 44100
	defaultChannels   = 2

	toneHz    = 440.0
	amplitude = 0.25
)

// Generator is a synthetic frame source: a moving gradient for video and a
// phase-continuous 440 Hz tone for audio. Every frame is a pure function of
// its position, which makes the source deterministic and safe for
// concurrent readers.
type Generator struct {
	opened int32
	info   av.Info
}

// NewGenerator returns a source over the given description. Zero-valued
// dimension fields fall back to defaults; HasAudio and HasVideo are taken
// as given.
func NewGenerator(info av.Info) *Generator {
	if info.FPS <= 0 {
		info.FPS = defaultFPS
	}
	if info.VideoLength <= 0 {
		info.VideoLength = defaultLength
	}
	if info.Width <= 0 {
		info.Width = defaultWidth
	}
	if info.Height <= 0 {
		info.Height = defaultHeight
	}
	if info.SampleRate <= 0 {
		info.SampleRate = defaultSampleRate
	}
	if info.Channels <= 0 {
		info.Channels = defaultChannels
	}
	if info.Path == "" {
		info.Path = "generator://tone"
	}
	return &Generator{info: info}
}

func (g *Generator) Open() error {
	atomic.StoreInt32(&g.opened, 1)
	return nil
}

func (g *Generator) Close() error {
	atomic.StoreInt32(&g.opened, 0)
	return nil
}

func (g *Generator) IsOpen() bool {
	return atomic.LoadInt32(&g.opened) == 1
}

func (g *Generator) Info() av.Info {
	return g.info
}

// GetFrame synthesizes the frame at position. Positions below the first
// frame snap to it; positions past the end fail with ErrOutOfBounds.
func (g *Generator) GetFrame(position int64) (*av.Frame, error) {
	if !g.IsOpen() {
		return nil, av.ErrReaderClosed
	}
	if position < 1 {
		position = 1
	}
	if position > g.info.VideoLength {
		return nil, av.ErrOutOfBounds
	}

	frame := &av.Frame{
		Number:   position,
		Width:    g.info.Width,
		Height:   g.info.Height,
		Channels: g.info.Channels,
	}
	if g.info.HasVideo {
		frame.Pixels = g.renderPixels(position)
	}
	if g.info.HasAudio {
		frame.Audio = g.renderTone(position)
	}
	return frame, nil
}

// renderPixels draws a luma gradient that slides one pixel per frame.
func (g *Generator) renderPixels(position int64) []byte {
	shift := int(position % 256)
	pixels := make([]byte, g.info.Width*g.info.Height)
	for y := 0; y < g.info.Height; y++ {
		row := y * g.info.Width
		for x := 0; x < g.info.Width; x++ {
			pixels[row+x] = byte((x + y + shift) % 256)
		}
	}
	return pixels
}

// renderTone produces the frame's slice of a continuous sine so that
// consecutive frames splice without a phase click.
func (g *Generator) renderTone(position int64) []float32 {
	perFrame := int(float64(g.info.SampleRate) / g.info.FPS)
	start := (position - 1) * int64(perFrame)
	samples := make([]float32, perFrame*g.info.Channels)
	for i := 0; i < perFrame; i++ {
		t := float64(start+int64(i)) / float64(g.info.SampleRate)
		s := float32(amplitude * math.Sin(2*math.Pi*toneHz*t))
		for c := 0; c < g.info.Channels; c++ {
			samples[i*g.info.Channels+c] = s
		}
	}
	return samples
}
