// Package manifest is the single place built-in games and play-lists are declared
package manifest

import (
	"fmt"
	"time"

	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/games"
	"github.com/lixenwraith/weegames/registry"
)

// DefaultPlayListName names the play-list used when none is configured
const DefaultPlayListName = "all"

// RegisterGames adds every built-in game to reg
func RegisterGames(reg *registry.Registry) error {
	for _, f := range games.All() {
		if err := reg.Register(f); err != nil {
			return fmt.Errorf("register built-in game: %w", err)
		}
	}
	return nil
}

// DefaultPlayList plays every registered minigame once in catalogue order,
// then the boss games
func DefaultPlayList(reg *registry.Registry) registry.PlayList {
	ids := reg.ByKind(game.KindMinigame)
	ids = append(ids, reg.ByKind(game.KindBoss)...)
	return registry.PlayList{
		Name:  DefaultPlayListName,
		Games: ids,
	}
}

// EndlessPlayList cycles every registered game until lives run out,
// with a boss game every bossEvery games
func EndlessPlayList(reg *registry.Registry, seed uint64, bossEvery int) registry.PlayList {
	if bossEvery <= 0 {
		bossEvery = registry.DefaultBossEvery
	}
	ids := reg.ByKind(game.KindMinigame)
	ids = append(ids, reg.ByKind(game.KindBoss)...)
	return registry.PlayList{
		Name:      "endless",
		Games:     ids,
		Shuffle:   true,
		Seed:      seed,
		Endless:   true,
		BossEvery: bossEvery,
	}
}

// PracticePlayList repeats one game with a fixed time budget
func PracticePlayList(id game.ID, rounds int, limit time.Duration) registry.PlayList {
	ids := make([]game.ID, max(rounds, 1))
	for i := range ids {
		ids[i] = id
	}
	return registry.PlayList{
		Name:      "practice:" + string(id),
		Games:     ids,
		TimeLimit: limit,
	}
}
