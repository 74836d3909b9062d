package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/game"
)

// Record is one completed run as emitted to a Recorder
type Record struct {
	RunID    uuid.UUID
	PlayList string
	Index    int // Position in the play-list, from zero
	GameID   game.ID
	Outcome  game.Outcome
	Duration time.Duration // Time spent in Playing
	Progress Progress      // Run state after this outcome was applied
	At       time.Time
}

// Recorder receives every completed outcome exactly once
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// RecorderFunc adapts a function to Recorder
type RecorderFunc func(ctx context.Context, rec Record) error

// Record implements Recorder
func (f RecorderFunc) Record(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// Sounder is the audio collaborator; calls must not block the frame
type Sounder interface {
	Play(clip *asset.Clip, rate float64)
	PlayMusic(clip *asset.Clip, rate float64)
	StopAll()
}

type nopSounder struct{}

func (nopSounder) Play(*asset.Clip, float64)      {}
func (nopSounder) PlayMusic(*asset.Clip, float64) {}
func (nopSounder) StopAll()                       {}
