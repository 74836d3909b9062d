package game

import (
	"time"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/render"
)

// ID is a game's immutable slug
type ID string

// Kind groups games for play-list scheduling
type Kind uint8

const (
	KindMinigame Kind = iota
	KindBoss
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindMinigame:
		return "minigame"
	case KindBoss:
		return "boss"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// DefaultLength is the time budget of a minigame when none is declared
const DefaultLength = 4 * time.Second

// Info describes a game to the registry and controller
type Info struct {
	ID        ID
	Title     string
	IntroText string
	Kind      Kind
	// Length is the default time budget, zero means unbounded
	Length time.Duration
	// WinOnTimeout counts a timeout as a win, for survival games
	WinOnTimeout bool
}

// State is the per-activation value a module owns
// The controller stores it and hands it back, it never looks inside
type State any

// Assets is the read-only view of one activation's resources
type Assets interface {
	Get(name string) (any, bool)
	Sprite(name string) *asset.Sprite
	Clip(name string) *asset.Clip
	Font(name string) *asset.Font
}

// Setup is passed to Init once per activation
type Setup struct {
	Assets     Assets
	Seed       uint64
	Difficulty int // 1..3, grows with the number of games played
}

// Module is the contract every minigame implements
type Module interface {
	Info() Info
	Manifest() asset.Manifest
	// Init builds fresh state; called exactly once per activation
	Init(setup Setup) (State, error)
	// Update advances the game by dt, which may be zero or large
	Update(state State, in input.Snapshot, dt time.Duration) UpdateResult
	// Draw renders state and must not mutate it
	Draw(state State, frame render.Frame)
	// Outcome reports the terminal result once the game has one
	Outcome(state State) (Outcome, bool)
}

// Factory creates a fresh module instance per activation
type Factory func() Module
