package registry

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/lixenwraith/weegames/game"
)

// ShuffleWindow is how many upcoming picks a shuffled endless queue holds
// A game just played goes back to the pool, so it cannot repeat within the window
const ShuffleWindow = 5

// DefaultBossEvery is the boss cadence of the default endless play-list
const DefaultBossEvery = 15

// PlayList is an ordered request for games
type PlayList struct {
	Name    string // Grouping key for high scores
	Games   []game.ID
	Shuffle bool
	// TimeLimit overrides each game's own length when positive
	TimeLimit time.Duration
	Seed      uint64
	Lives     int
	// Endless cycles the games until lives run out
	Endless bool
	// BossEvery draws a boss game every n games in endless mode
	BossEvery int
}

// Validate checks the play-list against reg
func (p PlayList) Validate(reg *Registry) error {
	if len(p.Games) == 0 {
		return ErrEmptyPlaylist
	}

	var unknown []string
	for _, id := range p.Games {
		if _, ok := reg.Info(id); !ok {
			unknown = append(unknown, string(id))
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownGame, strings.Join(unknown, ", "))
	}

	el := errors.NewErrorList()
	if p.TimeLimit < 0 {
		el.Add(fmt.Errorf("time limit must not be negative: %s", p.TimeLimit))
	}
	if p.Lives < 0 {
		el.Add(fmt.Errorf("lives must not be negative: %d", p.Lives))
	}
	if p.BossEvery < 0 {
		el.Add(fmt.Errorf("boss interval must not be negative: %d", p.BossEvery))
	}
	return el.Err()
}

// Queue hands out the play-list's games one at a time
type Queue struct {
	rng     *rand.Rand
	endless bool
	shuffle bool
	every   int

	fixed  []game.ID // finite play-lists, in play order
	pool   []game.ID // endless: games not in the window
	window []game.ID
	bosses []game.ID
	cursor int
	drawn  int
	done   bool
}

// NewQueue builds a queue; pl must already be validated against reg
func NewQueue(reg *Registry, pl PlayList) *Queue {
	q := &Queue{
		rng:     rand.New(rand.NewPCG(pl.Seed, pl.Seed^0x9e3779b97f4a7c15)),
		endless: pl.Endless,
		shuffle: pl.Shuffle,
		every:   pl.BossEvery,
	}

	if !pl.Endless {
		q.fixed = append([]game.ID(nil), pl.Games...)
		if pl.Shuffle {
			q.rng.Shuffle(len(q.fixed), func(i, j int) {
				q.fixed[i], q.fixed[j] = q.fixed[j], q.fixed[i]
			})
		}
		return q
	}

	seen := make(map[game.ID]bool, len(pl.Games))
	for _, id := range pl.Games {
		if seen[id] {
			continue
		}
		seen[id] = true
		if info, _ := reg.Info(id); info.Kind == game.KindBoss && pl.BossEvery > 0 {
			q.bosses = append(q.bosses, id)
		} else {
			q.pool = append(q.pool, id)
		}
	}
	if len(q.pool) == 0 {
		// Only bosses listed: they become the regular pool
		q.pool, q.bosses = q.bosses, nil
	}
	return q
}

// Next returns the next game, false once the queue is exhausted or stopped
func (q *Queue) Next() (game.ID, bool) {
	if q.done {
		return "", false
	}

	if !q.endless {
		if q.cursor >= len(q.fixed) {
			q.done = true
			return "", false
		}
		id := q.fixed[q.cursor]
		q.cursor++
		q.drawn++
		return id, true
	}

	q.drawn++
	if q.every > 0 && len(q.bosses) > 0 && q.drawn%q.every == 0 {
		return q.bosses[q.rng.IntN(len(q.bosses))], true
	}
	if !q.shuffle {
		id := q.pool[q.cursor%len(q.pool)]
		q.cursor++
		return id, true
	}

	for len(q.pool) > 0 && len(q.window) < ShuffleWindow {
		i := q.rng.IntN(len(q.pool))
		q.window = append(q.window, q.pool[i])
		q.pool = append(q.pool[:i], q.pool[i+1:]...)
	}
	id := q.window[0]
	q.window = q.window[1:]
	q.pool = append(q.pool, id)
	return id, true
}

// HasNext reports whether Next would return a game
func (q *Queue) HasNext() bool {
	if q.done {
		return false
	}
	return q.endless || q.cursor < len(q.fixed)
}

// Drawn returns how many games have been handed out
func (q *Queue) Drawn() int {
	return q.drawn
}

// Stop ends the queue; later Next calls return false
func (q *Queue) Stop() {
	q.done = true
}
