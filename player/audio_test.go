package player

import (
	"encoding/binary"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/gwuhaolin/playgo/av"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	writes [][]byte
}

func (s *recordingSink) WriteAudio(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(b))
	copy(cp, b)
	s.writes = append(s.writes, cp)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

func (s *recordingSink) first() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[0]
}

func TestAudioPlaybackClock(t *testing.T) {
	a := NewAudioPlayback(nil, 5*time.Millisecond)
	require.True(t, a.Start())
	require.Eventually(t, func() bool { return a.CurrentPosition() >= 5 }, time.Second, time.Millisecond)
	require.True(t, a.Stop(time.Second))

	// the clock halts with the goroutine
	position := a.CurrentPosition()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, position, a.CurrentPosition())
}

func TestAudioPlaybackSeekAndSpeed(t *testing.T) {
	a := NewAudioPlayback(nil, 5*time.Millisecond)
	a.SetSpeed(av.SPEED_PAUSED)
	require.True(t, a.Start())
	defer a.Stop(time.Second)

	a.Seek(200)
	time.Sleep(40 * time.Millisecond)
	assert.EqualValues(t, 200, a.CurrentPosition()) // paused ticks do not move the playhead

	a.SetSpeed(av.SPEED_REVERSE)
	require.Eventually(t, func() bool { return a.CurrentPosition() < 200 }, time.Second, time.Millisecond)
}

func TestAudioPlaybackFeedsSink(t *testing.T) {
	rdr := newFakeReader(av.Info{HasAudio: true, FPS: 200, VideoLength: 1000})
	rdr.tone = []float32{0.5, -0.25}
	sink := &recordingSink{}

	a := NewAudioPlayback(rdr, 5*time.Millisecond)
	a.Attach(sink)
	require.True(t, a.Start())
	require.Eventually(t, func() bool { return sink.count() > 0 }, time.Second, time.Millisecond)
	a.Stop(time.Second)

	// two samples, four little-endian bytes each
	b := sink.first()
	require.Len(t, b, 8)
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])))
	assert.Equal(t, float32(-0.25), math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])))
}

func TestAudioPlaybackSkipsSilentFrames(t *testing.T) {
	rdr := newFakeReader(av.Info{HasAudio: true, FPS: 200, VideoLength: 1000})
	sink := &recordingSink{}

	a := NewAudioPlayback(rdr, 5*time.Millisecond)
	a.Attach(sink)
	require.True(t, a.Start())
	require.Eventually(t, func() bool { return a.CurrentPosition() >= 3 }, time.Second, time.Millisecond)
	a.Stop(time.Second)

	assert.Zero(t, sink.count())
	assert.NotZero(t, rdr.callCount())
}
