package game

import (
	"fmt"
	"strings"
)

// Result classifies how a run ended
type Result uint8

const (
	Won Result = iota + 1
	Lost
	Quit
	TimedOut
)

var resultNames = map[Result]string{
	Won:      "won",
	Lost:     "lost",
	Quit:     "quit",
	TimedOut: "timed_out",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("result(%d)", uint8(r))
}

// Valid reports whether r is one of the defined results
func (r Result) Valid() bool {
	_, ok := resultNames[r]
	return ok
}

// ParseResult resolves a result from its name
func ParseResult(s string) (Result, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range resultNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown result %q", s)
}

// Outcome is the terminal result of one run, produced exactly once
type Outcome struct {
	Result   Result
	Score    int
	HasScore bool
}

// WonWith returns a winning outcome carrying a score
func WonWith(score int) Outcome {
	return Outcome{Result: Won, Score: score, HasScore: true}
}

// Of returns an outcome without a score
func Of(r Result) Outcome {
	return Outcome{Result: r}
}

func (o Outcome) String() string {
	if o.HasScore {
		return fmt.Sprintf("%s{%d}", o.Result, o.Score)
	}
	return o.Result.String()
}

// UpdateResult is what a module returns from each Update
// Done is the only way a module signals completion
type UpdateResult struct {
	Done    bool
	Outcome Outcome
	Sounds  []string // Logical clip names to play this frame
}

// Continue keeps the game running
func Continue(sounds ...string) UpdateResult {
	return UpdateResult{Sounds: sounds}
}

// Finish ends the game with o
func Finish(o Outcome, sounds ...string) UpdateResult {
	return UpdateResult{Done: true, Outcome: o, Sounds: sounds}
}

// Win ends the game as won with score
func Win(score int, sounds ...string) UpdateResult {
	return Finish(WonWith(score), sounds...)
}

// Lose ends the game as lost
func Lose(sounds ...string) UpdateResult {
	return Finish(Of(Lost), sounds...)
}
