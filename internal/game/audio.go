package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// soundtrack plays an optional looping track and exposes its loudness.
type soundtrack struct {
	currentFile *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	tap         *levelTap

	initDone bool
	paused   bool
}

var errUnsupportedAudio = errors.New("unsupported audio file type")

func decodeAudio(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %s", errUnsupportedAudio, filepath.Ext(path))
}

// load replaces the current track with path and starts it looping.
func (s *soundtrack) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening track: %w", err)
	}

	streamer, format, err := decodeAudio(path, f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decoding track: %w", err)
	}

	// streamer -> loop -> tap -> ctrl
	tap := newLevelTap(beep.Loop(-1, streamer), levelRingSize)
	ctrl := &beep.Ctrl{Streamer: tap}

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !s.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("initializing speaker: %w", err)
		}
		s.initDone = true
	case s.format.SampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("initializing speaker: %w", err)
		}
	default:
		speaker.Clear()
	}
	s.closeFiles()

	s.currentFile = f
	s.streamer = streamer
	s.format = format
	s.ctrl = ctrl
	s.tap = tap
	s.paused = false

	speaker.Play(ctrl)
	return nil
}

func (s *soundtrack) togglePause() {
	if s.ctrl == nil {
		return
	}
	speaker.Lock()
	s.paused = !s.paused
	s.ctrl.Paused = s.paused
	speaker.Unlock()
}

// level returns the smoothed loudness, 0 when silent or paused.
func (s *soundtrack) level() float64 {
	if s.tap == nil || s.paused {
		return 0
	}
	return s.tap.level(levelWindow)
}

func (s *soundtrack) playing() bool {
	return s.ctrl != nil && !s.paused
}

func (s *soundtrack) close() {
	if s.initDone {
		speaker.Clear()
	}
	s.closeFiles()
	s.ctrl = nil
	s.tap = nil
}

func (s *soundtrack) closeFiles() {
	if s.streamer != nil {
		_ = s.streamer.Close()
		s.streamer = nil
	}
	if s.currentFile != nil {
		_ = s.currentFile.Close()
		s.currentFile = nil
	}
}
