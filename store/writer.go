package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lixenwraith/weegames/session"
)

// ErrQueueFull is returned when the writer cannot accept another record
var ErrQueueFull = errors.New("record queue full")

// DefaultQueueSize bounds records waiting for the database
const DefaultQueueSize = 64

// Writer moves inserts off the frame loop onto one goroutine
// It implements session.Recorder and service.Service
type Writer struct {
	store  *Store
	size   int
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	queue   chan session.Record
	done    chan struct{}
}

// NewWriter creates a writer with a queue of size records
func NewWriter(s *Store, size int, logger *slog.Logger) *Writer {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		store:  s,
		size:   size,
		logger: logger,
	}
}

// Name implements service.Service
func (w *Writer) Name() string {
	return "store"
}

// Dependencies implements service.Service
func (w *Writer) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (w *Writer) Init() error {
	return nil
}

// Start implements service.Service, each start gets a fresh queue
func (w *Writer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	w.running = true
	w.queue = make(chan session.Record, w.size)
	w.done = make(chan struct{})
	go w.loop(w.queue, w.done)
	return nil
}

// Stop drains queued records, then closes the store
func (w *Writer) Stop() error {
	w.mu.Lock()
	if w.running {
		w.running = false
		close(w.queue)
		<-w.done
	}
	w.mu.Unlock()
	return w.store.Close()
}

// Record implements session.Recorder without blocking
// Before Start the record is written synchronously
func (w *Writer) Record(ctx context.Context, rec session.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return w.store.Record(ctx, rec)
	}
	select {
	case w.queue <- rec:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *Writer) loop(queue <-chan session.Record, done chan<- struct{}) {
	defer close(done)
	for rec := range queue {
		if err := w.store.Record(context.Background(), rec); err != nil {
			w.logger.Error("persist outcome", "game", rec.GameID, "run", rec.RunID, "error", err)
		}
	}
}
