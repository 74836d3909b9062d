package session

import "github.com/lixenwraith/weegames/game"

const (
	MaxLives           = 4
	InitialRate        = 1.0
	RateIncrease       = 0.1
	MaxRate            = 2.0
	SpeedUpEvery       = 5
	DifficultyTwoFrom  = 20
	DifficultyThreeAt  = 40
	DefaultDifficulty  = 1
	rateRoundingFactor = 1e6
)

// Progress tracks a run's score, lives and pacing across games
type Progress struct {
	Score        int // Games completed
	Lives        int
	MaxLives     int
	Difficulty   int
	PlaybackRate float64
	BossRate     float64
	LastWon      bool
	LifeGained   bool
}

// NewProgress starts a run with lives, or MaxLives when lives is zero
func NewProgress(lives int) Progress {
	if lives <= 0 {
		lives = MaxLives
	}
	return Progress{
		Lives:        lives,
		MaxLives:     max(lives, MaxLives),
		Difficulty:   DefaultDifficulty,
		PlaybackRate: InitialRate,
		BossRate:     InitialRate,
	}
}

// Apply folds one finished game into the run
func (p *Progress) Apply(won bool, kind game.Kind) {
	p.Score++
	if p.Score%SpeedUpEvery == 0 {
		p.PlaybackRate = roundRate(p.PlaybackRate + RateIncrease)
	}
	switch {
	case p.Score >= DifficultyThreeAt:
		p.Difficulty = 3
	case p.Score >= DifficultyTwoFrom:
		p.Difficulty = 2
	}
	p.PlaybackRate = min(p.PlaybackRate, MaxRate)

	boss := kind == game.KindBoss
	if boss {
		p.BossRate = min(roundRate(p.BossRate+RateIncrease), MaxRate)
	}
	if !won && p.Lives > 0 {
		p.Lives--
	}
	p.LifeGained = boss && won && p.Lives < p.MaxLives
	if p.LifeGained {
		p.Lives++
	}
	p.LastWon = won
}

// RateFor returns the playback rate for a game kind
func (p Progress) RateFor(kind game.Kind) float64 {
	if kind == game.KindBoss {
		return p.BossRate
	}
	return p.PlaybackRate
}

// Over reports whether the run has no lives left
func (p Progress) Over() bool {
	return p.Lives <= 0
}

// roundRate keeps repeated 0.1 steps from drifting
func roundRate(r float64) float64 {
	return float64(int64(r*rateRoundingFactor+0.5)) / rateRoundingFactor
}
