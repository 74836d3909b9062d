package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/lixenwraith/weegames/config"
	"github.com/lixenwraith/weegames/engine"
	"github.com/lixenwraith/weegames/manifest"
	"github.com/lixenwraith/weegames/registry"
	"github.com/lixenwraith/weegames/session"
	"github.com/lixenwraith/weegames/status"
)

func TestRun_StartupErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		expCode int
		expErr  string
	}{
		{name: "help", args: []string{"-h"}, expCode: exitOK},
		{name: "bad flag value", args: []string{"-lives", "x"}, expCode: exitStartup, expErr: "invalid value"},
		{name: "invalid config", args: []string{"-lives", "-1"}, expCode: exitStartup, expErr: "lives must not be negative"},
		{name: "unknown game", args: []string{"-games", "pop,nope"}, expCode: exitStartup, expErr: "unknown game"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			testutil.AssertEqual(t, "code", code, tt.expCode)
			if tt.expErr != "" {
				testutil.AssertEqual(t, "stderr", strings.Contains(stderr.String(), tt.expErr), true)
			}
		})
	}
}

func TestBasePlayList(t *testing.T) {
	reg := registry.New()
	_ = manifest.RegisterGames(reg)

	pl := basePlayList(config.Config{}, reg)
	testutil.AssertEqual(t, "default", pl.Name, manifest.DefaultPlayListName)

	pl = basePlayList(config.Config{Endless: true, BossEvery: 4}, reg)
	testutil.AssertEqual(t, "endless", pl.Endless, true)
	testutil.AssertEqual(t, "boss every", pl.BossEvery, 4)
}

func TestPrintOutcomes(t *testing.T) {
	var buf bytes.Buffer
	metrics := status.NewRegistry()
	printOutcomes(&buf, metrics)
	testutil.AssertEqual(t, "nothing played", buf.String(), "")

	metrics.Ints.Get(status.OutcomePrefix + "won").Add(3)
	metrics.Ints.Get(status.OutcomePrefix + "lost").Add(1)
	metrics.Ints.Get(status.FramesTotal).Add(90)
	printOutcomes(&buf, metrics)
	testutil.AssertEqual(t, "sorted results", buf.String(), "  lost 1, won 3\n")
}

func TestPrintSummary(t *testing.T) {
	progress := session.Progress{Score: 7, Lives: 2, PlaybackRate: 1.2}
	tests := []struct {
		name string
		res  engine.Result
		exp  string
	}{
		{
			name: "quit",
			res:  engine.Result{Quit: true, Progress: progress},
			exp:  "all: quit, score 7, lives 2, speed 1.2x\n",
		},
		{
			name: "completed",
			res:  engine.Result{Completed: true, Progress: progress},
			exp:  "all: completed, score 7, lives 2, speed 1.2x\n",
		},
		{
			name: "cancelled by signal",
			res:  engine.Result{Progress: progress},
			exp:  "all: interrupted, score 7, lives 2, speed 1.2x\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			printSummary(&buf, registry.PlayList{Name: "all"}, tc.res)
			testutil.AssertEqual(t, "summary", buf.String(), tc.exp)
		})
	}
}
