package audio

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/status"
)

const (
	// DefaultSampleRate is the device output rate
	DefaultSampleRate = beep.SampleRate(44100)
	// DefaultVolume is the master gain in beep's logarithmic scale, 0 is unity
	DefaultVolume = -1.0

	resampleQuality = 3
)

// Player mixes game clips and one music track into a single output stream
// It is usable without a device: the stream can be pulled directly
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	master *effects.Volume
	music  *beep.Ctrl
	rate   beep.SampleRate
	logger *slog.Logger

	// lock guards streamer mutation against the device callback
	lock   func()
	unlock func()

	muted  atomic.Bool
	played *atomic.Int64
}

// PlayerOpt configures a Player
type PlayerOpt func(*Player)

// WithSampleRate sets the output rate clips are resampled to
func WithSampleRate(sr beep.SampleRate) PlayerOpt {
	return func(p *Player) {
		if sr > 0 {
			p.rate = sr
		}
	}
}

// WithVolume sets the master gain
func WithVolume(v float64) PlayerOpt {
	return func(p *Player) {
		p.master.Volume = v
	}
}

// WithMuted starts the player muted
func WithMuted(muted bool) PlayerOpt {
	return func(p *Player) {
		p.muted.Store(muted)
	}
}

// WithPlayerLogger sets the player logger
func WithPlayerLogger(l *slog.Logger) PlayerOpt {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPlayerMetrics counts played clips in reg
func WithPlayerMetrics(reg *status.Registry) PlayerOpt {
	return func(p *Player) {
		p.played = status.Or(reg).Ints.Get(status.SoundsPlayed)
	}
}

// NewPlayer creates a player with an empty mixer
func NewPlayer(opts ...PlayerOpt) *Player {
	mixer := &beep.Mixer{}
	p := &Player{
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2, Volume: DefaultVolume},
		rate:   DefaultSampleRate,
		logger: slog.Default(),
		lock:   func() {},
		unlock: func() {},
		played: new(atomic.Int64),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.master.Silent = p.muted.Load()
	return p
}

// Streamer is the master output, the device pulls from it
func (p *Player) Streamer() beep.Streamer {
	return p.master
}

// SampleRate returns the output rate
func (p *Player) SampleRate() beep.SampleRate {
	return p.rate
}

// Play mixes a one-shot clip at the given playback rate
func (p *Player) Play(clip *asset.Clip, rate float64) {
	if clip == nil || clip.Buffer == nil || clip.Buffer.Len() == 0 {
		return
	}
	s := p.prepare(clip, rate, false)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lock()
	p.mixer.Add(s)
	p.unlock()
	p.played.Add(1)
}

// PlayMusic replaces the current music track
func (p *Player) PlayMusic(clip *asset.Clip, rate float64) {
	if clip == nil || clip.Buffer == nil || clip.Buffer.Len() == 0 {
		return
	}
	ctrl := &beep.Ctrl{Streamer: p.prepare(clip, rate, clip.Looped)}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lock()
	if p.music != nil {
		p.music.Streamer = nil
	}
	p.music = ctrl
	p.mixer.Add(ctrl)
	p.unlock()
}

// StopAll silences every clip and the music track
func (p *Player) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lock()
	if p.music != nil {
		p.music.Streamer = nil
		p.music = nil
	}
	p.mixer.Clear()
	p.unlock()
}

// ToggleMute flips the mute state and returns the new value
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	muted := !p.muted.Load()
	p.muted.Store(muted)
	p.lock()
	p.master.Silent = muted
	p.unlock()
	p.logger.Debug("mute toggled", "muted", muted)
	return muted
}

// IsMuted reports the mute state
func (p *Player) IsMuted() bool {
	return p.muted.Load()
}

// Active returns the number of streamers in the mixer
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lock()
	defer p.unlock()
	return p.mixer.Len()
}

// prepare resamples clip to the output rate scaled by the playback rate
func (p *Player) prepare(clip *asset.Clip, rate float64, looped bool) beep.Streamer {
	if rate <= 0 {
		rate = 1
	}
	var s beep.Streamer = clip.Buffer.Streamer(0, clip.Buffer.Len())
	if looped {
		s = beep.Loop(-1, clip.Buffer.Streamer(0, clip.Buffer.Len()))
	}
	ratio := rate * float64(clip.Format().SampleRate) / float64(p.rate)
	if ratio == 1 {
		return s
	}
	return beep.ResampleRatio(resampleQuality, ratio, s)
}
