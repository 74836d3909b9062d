// Package config resolves runtime settings from .env, environment and flags
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	goerrors "github.com/pixil98/go-errors"

	"github.com/lixenwraith/weegames/engine"
	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/registry"
	"github.com/lixenwraith/weegames/session"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "WEE_"

// Config is the full runtime configuration
type Config struct {
	// Play-list
	Games     []string      `env:"GAMES" envSeparator:","`
	PlayList  string        `env:"PLAYLIST" envDefault:"all"`
	Shuffle   bool          `env:"SHUFFLE"`
	Endless   bool          `env:"ENDLESS"`
	Seed      uint64        `env:"SEED"`
	Lives     int           `env:"LIVES" envDefault:"4"`
	TimeLimit time.Duration `env:"TIME_LIMIT"`
	BossEvery int           `env:"BOSS_EVERY" envDefault:"15"`

	// Loop and controller
	FrameInterval   time.Duration `env:"FRAME_INTERVAL" envDefault:"16ms"`
	ResolveDuration time.Duration `env:"RESOLVE_DURATION" envDefault:"1500ms"`
	IntroDuration   time.Duration `env:"INTRO_DURATION" envDefault:"1s"`
	LoadTimeout     time.Duration `env:"LOAD_TIMEOUT" envDefault:"10s"`
	AsyncLoad       bool          `env:"ASYNC_LOAD" envDefault:"true"`

	// Assets
	AssetRetries int  `env:"ASSET_RETRIES" envDefault:"2"`
	EvictOnSweep bool `env:"EVICT_ON_SWEEP"`

	// Audio
	Muted  bool    `env:"MUTED"`
	Volume float64 `env:"VOLUME" envDefault:"-1"`

	// Persistence, empty disables the outcome store
	DBPath string `env:"DB_PATH"`

	// Diagnostics
	Debug  bool   `env:"DEBUG"`
	LogDir string `env:"LOG_DIR" envDefault:"logs"`
}

// Load reads envFile when present, then the environment, then args
// Later sources override earlier ones
func Load(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fset := flag.NewFlagSet("weegames", flag.ContinueOnError)
	cfg.bind(fset)
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// bind registers flags defaulting to the values already in cfg
func (c *Config) bind(fset *flag.FlagSet) {
	fset.Func("games", "comma separated game ids to play in order", func(s string) error {
		c.Games = splitList(s)
		return nil
	})
	fset.StringVar(&c.PlayList, "playlist", c.PlayList, "play-list name used for records and high scores")
	fset.BoolVar(&c.Shuffle, "shuffle", c.Shuffle, "shuffle the play-list")
	fset.BoolVar(&c.Endless, "endless", c.Endless, "cycle games until lives run out")
	fset.Uint64Var(&c.Seed, "seed", c.Seed, "shuffle and game seed, 0 picks one")
	fset.IntVar(&c.Lives, "lives", c.Lives, "starting lives")
	fset.DurationVar(&c.TimeLimit, "time-limit", c.TimeLimit, "per-game time budget, overrides each game's own")
	fset.IntVar(&c.BossEvery, "boss-every", c.BossEvery, "endless mode: a boss game every N games")
	fset.DurationVar(&c.FrameInterval, "frame", c.FrameInterval, "frame interval")
	fset.DurationVar(&c.LoadTimeout, "load-timeout", c.LoadTimeout, "abandon a game whose assets take longer")
	fset.BoolVar(&c.Muted, "mute", c.Muted, "start with audio muted")
	fset.StringVar(&c.DBPath, "db", c.DBPath, "sqlite outcome store path")
	fset.BoolVar(&c.Debug, "debug", c.Debug, "write a debug log under the log directory")
	fset.StringVar(&c.LogDir, "log-dir", c.LogDir, "log directory")
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	el := goerrors.NewErrorList()
	if c.Lives < 0 {
		el.Add(fmt.Errorf("lives must not be negative: %d", c.Lives))
	}
	if c.TimeLimit < 0 {
		el.Add(fmt.Errorf("time limit must not be negative: %s", c.TimeLimit))
	}
	if c.BossEvery < 0 {
		el.Add(fmt.Errorf("boss interval must not be negative: %d", c.BossEvery))
	}
	if c.FrameInterval <= 0 {
		el.Add(fmt.Errorf("frame interval must be positive: %s", c.FrameInterval))
	}
	if c.ResolveDuration < 0 || c.IntroDuration < 0 || c.LoadTimeout < 0 {
		el.Add(fmt.Errorf("controller durations must not be negative"))
	}
	if c.AssetRetries < 0 {
		el.Add(fmt.Errorf("asset retries must not be negative: %d", c.AssetRetries))
	}
	if strings.TrimSpace(c.PlayList) == "" {
		el.Add(fmt.Errorf("play-list name is required"))
	}
	return el.Err()
}

// PlayListFrom builds the play-list from configured ids, falling back to base
func (c Config) PlayListFrom(base registry.PlayList) registry.PlayList {
	pl := base
	if len(c.Games) > 0 {
		pl.Games = make([]game.ID, len(c.Games))
		for i, id := range c.Games {
			pl.Games[i] = game.ID(id)
		}
		pl.Name = c.PlayList
	}
	pl.Shuffle = pl.Shuffle || c.Shuffle
	pl.Endless = pl.Endless || c.Endless
	if c.Seed != 0 {
		pl.Seed = c.Seed
	}
	if c.Lives > 0 {
		pl.Lives = c.Lives
	}
	if c.TimeLimit > 0 {
		pl.TimeLimit = c.TimeLimit
	}
	if pl.Endless && pl.BossEvery == 0 {
		pl.BossEvery = c.BossEvery
	}
	return pl
}

// Engine returns the loop settings
func (c Config) Engine() engine.Config {
	return engine.Config{
		FrameInterval: c.FrameInterval,
		Session: session.Config{
			ResolveDuration: c.ResolveDuration,
			IntroDuration:   c.IntroDuration,
			LoadTimeout:     c.LoadTimeout,
			AsyncLoad:       c.AsyncLoad,
		},
		AssetRetries: c.AssetRetries,
		EvictOnSweep: c.EvictOnSweep,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
