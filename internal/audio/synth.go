// Package audio plays the race's cues as short procedurally generated
// tones through oto.
package audio

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/oto/v2"

	"github.com/vovakirdan/tui-derby/internal/race"
)

// maxVoices limits simultaneous players so hoof beats do not pile up.
const maxVoices = 6

// Synth implements race.AudioCue. Every cue is rendered once up front;
// Play only starts a player on a goroutine and returns.
type Synth struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
	cues   map[race.Cue][]byte
	voices atomic.Int32
	muted  atomic.Bool
}

// New opens the audio device. oto allows one context per process, so call
// it once and share the Synth.
func New(volume float64) (*Synth, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("audio: cannot open device: %w", err)
	}
	s := &Synth{
		ctx:    ctx,
		ready:  ready,
		volume: min(max(volume, 0), 1),
		cues:   make(map[race.Cue][]byte),
	}
	for c := race.CueStrike; c <= race.CueHoof; c++ {
		s.cues[c] = Samples(c)
	}
	return s, nil
}

// Open returns a Synth, or a silent race.NopAudio when no device is
// available. The failure is logged, not returned.
func Open(volume float64, logger *log.Logger) race.AudioCue {
	s, err := New(volume)
	if err != nil {
		if logger != nil {
			logger.Warn("Audio disabled", "error", err)
		}
		return race.NopAudio{}
	}
	return s
}

// Play implements race.AudioCue. Cues are dropped while the device is
// still starting, while muted, or when every voice is busy.
func (s *Synth) Play(c race.Cue) {
	if s.muted.Load() {
		return
	}
	select {
	case <-s.ready:
	default:
		return
	}
	data := s.cues[c]
	if len(data) == 0 {
		return
	}
	if s.voices.Add(1) > maxVoices {
		s.voices.Add(-1)
		return
	}

	go func() {
		defer s.voices.Add(-1)
		player := s.ctx.NewPlayer(bytes.NewReader(data))
		player.SetVolume(s.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

// SetMuted silences or restores playback.
func (s *Synth) SetMuted(m bool) {
	s.muted.Store(m)
}

// Muted reports whether playback is silenced.
func (s *Synth) Muted() bool {
	return s.muted.Load()
}
