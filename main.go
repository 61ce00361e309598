package main

import (
	"fmt"
	"os"
	"os/signal"
	"path"
	"runtime"
	"syscall"
	"time"

	"github.com/gwuhaolin/playgo/av"
	"github.com/gwuhaolin/playgo/configure"
	"github.com/gwuhaolin/playgo/player"
	"github.com/gwuhaolin/playgo/reader"

	log "github.com/sirupsen/logrus"
)

var VERSION = "master"

// consoleRenderer is the demo's pixel path: it reports progress instead of
// painting.
type consoleRenderer struct{}

func (consoleRenderer) Paint(frame *av.Frame) {
	if frame.Number%25 == 0 {
		log.Infof("frame %d (%dx%d)", frame.Number, frame.Width, frame.Height)
	}
}

// discardSink swallows the audio byte stream.
type discardSink struct{}

func (discardSink) WriteAudio(b []byte) error {
	return nil
}

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := path.Base(f.File)
			return fmt.Sprintf("%s()", f.Function), fmt.Sprintf(" %s:%d", filename, f.Line)
		},
	})
}

// startPlayer assembles the player over src: audio clock with a discard
// sink, console video output, prefetcher sized from config, and the resume
// position restored when one is on record.
func startPlayer(src av.FrameReader) *player.Player {
	info := src.Info()
	frameDuration := info.FrameDuration()

	audio := player.NewAudioPlayback(src, frameDuration)
	audio.Attach(discardSink{})
	video := player.NewVideoPlayback(consoleRenderer{})
	precache := player.NewVideoCache(src, frameDuration, configure.Config.GetInt64("cache_ahead"))

	p := player.NewPlayerWithDrivers(src, audio, video, precache)
	p.SetMaxSleep(configure.MaxSleep())

	if position, err := configure.Positions.Get(info.Path); err != nil {
		log.Warning("resume: ", err)
	} else if position > 1 && position < info.VideoLength {
		log.Infof("resuming %s at frame %d", info.Path, position)
		p.Seek(position)
	}
	return p
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Error("playgo panic: ", r)
			time.Sleep(1 * time.Second)
		}
	}()

	log.Infof(`
     ____  _                  ____
    |  _ \| |  __ _ _   _    / ___| ___
    | |_) | | / _' | | | |  | |  _ / _ \
    |  __/| || (_| | |_| |  | |_| | (_) |
    |_|   |_| \__,_|\__, |   \____|\___/
                    |___/   version: %s
	`, VERSION)

	src := reader.NewCached(reader.NewGenerator(configure.SourceInfo()), configure.FrameTTL())
	if err := src.Open(); err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	info := src.Info()
	p := startPlayer(src)
	if err := p.Play(); err != nil {
		log.Fatal(err)
	}
	log.Info("playing ", info)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// The sync loop parks itself at speed 0 once the source is exhausted.
	ended := make(chan struct{})
	go func() {
		defer close(ended)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if p.Speed() == 0 && p.Position() >= info.VideoLength {
				return
			}
		}
	}()

	select {
	case <-quit:
		log.Info("interrupted")
	case <-ended:
		log.Info("end of source")
	}

	p.Stop()
	if err := configure.Positions.Set(info.Path, p.Position()); err != nil {
		log.Warning("resume: ", err)
	}
	log.Infof("stopped at frame %d", p.Position())
}
