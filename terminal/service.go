package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/weegames/input"
)

// Service owns the screen and feeds device events to a collector
type Service struct {
	screen   *Screen
	sink     *input.Collector
	logger   *slog.Logger
	onAction func(Action)

	mu      sync.Mutex
	inited  bool
	running bool
	doneCh  chan struct{}
}

// ServiceOpt configures a Service
type ServiceOpt func(*Service)

// WithActionHandler receives shell actions other than quit
func WithActionHandler(fn func(Action)) ServiceOpt {
	return func(s *Service) {
		s.onAction = fn
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

// NewService creates a terminal service over screen, pushing input into sink
func NewService(screen *Screen, sink *input.Collector, opts ...ServiceOpt) *Service {
	s := &Service{
		screen:   screen,
		sink:     sink,
		logger:   slog.Default(),
		onAction: func(Action) {},
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements service.Service
func (s *Service) Name() string {
	return "terminal"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (s *Service) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inited {
		return nil
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	s.screen.EnableMouse()
	s.screen.HideCursor()
	s.screen.Clear()
	s.inited = true
	return nil
}

// Start implements service.Service, launching the input poller
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || !s.inited {
		return nil
	}
	s.running = true
	go s.pollLoop()
	return nil
}

// pollLoop forwards events until the screen is finalized
func (s *Service) pollLoop() {
	defer close(s.doneCh)
	defer func() {
		if r := recover(); r != nil {
			s.screen.Fini()
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mTERMINAL POLL CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		events, action := Translate(ev)
		for _, e := range events {
			s.sink.Push(e)
		}
		switch action {
		case ActionRedraw:
			s.screen.Sync()
		case ActionToggleMute:
			s.onAction(action)
		case ActionQuit:
			s.logger.Debug("quit key received")
		}
	}
}

// Stop implements service.Service, restoring the terminal
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.inited {
		s.mu.Unlock()
		return nil
	}
	s.inited = false
	running := s.running
	s.running = false
	s.mu.Unlock()

	s.screen.Fini()
	if running {
		<-s.doneCh
	}
	return nil
}

// Screen returns the wrapped screen
func (s *Service) Screen() *Screen {
	return s.screen
}
