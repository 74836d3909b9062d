package audio

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// DefaultBufferLatency is the device buffer size
const DefaultBufferLatency = 100 * time.Millisecond

// Device abstracts the output device so the service can degrade to silence
type Device interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Clear()
}

// speakerDevice is the beep speaker, process-global
type speakerDevice struct{}

func (speakerDevice) Init(sr beep.SampleRate, n int) error { return speaker.Init(sr, n) }
func (speakerDevice) Play(s beep.Streamer)                 { speaker.Play(s) }
func (speakerDevice) Lock()                                { speaker.Lock() }
func (speakerDevice) Unlock()                              { speaker.Unlock() }
func (speakerDevice) Clear()                               { speaker.Clear() }

// Service owns the player and the output device
// Handles graceful degradation when no audio backend is available
type Service struct {
	player   *Player
	device   Device
	logger   *slog.Logger
	disabled atomic.Bool
	started  atomic.Bool
}

// ServiceOpt configures a Service
type ServiceOpt func(*Service)

// WithDevice replaces the speaker
func WithDevice(d Device) ServiceOpt {
	return func(s *Service) {
		s.device = d
	}
}

// WithLogger sets the service logger
func WithLogger(l *slog.Logger) ServiceOpt {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates an audio service around player
func NewService(player *Player, opts ...ServiceOpt) *Service {
	s := &Service{
		player: player,
		device: speakerDevice{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// Device failure disables output, the player keeps accepting clips
func (s *Service) Init() error {
	sr := s.player.SampleRate()
	if err := s.device.Init(sr, sr.N(DefaultBufferLatency)); err != nil {
		s.logger.Warn("audio device unavailable, running silent", "error", err)
		s.disabled.Store(true)
		return nil
	}
	s.player.mu.Lock()
	s.player.lock = s.device.Lock
	s.player.unlock = s.device.Unlock
	s.player.mu.Unlock()
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	if s.disabled.Load() || !s.started.CompareAndSwap(false, true) {
		return nil
	}
	s.device.Play(s.player.Streamer())
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.player.StopAll()
	if s.started.CompareAndSwap(true, false) {
		s.device.Clear()
	}
	return nil
}

// Player returns the mixer facade
func (s *Service) Player() *Player {
	return s.player
}

// IsDisabled reports whether no device could be opened
func (s *Service) IsDisabled() bool {
	return s.disabled.Load()
}
