package audio

import (
	"errors"
	"testing"

	"github.com/gopxl/beep"
	"github.com/pixil98/go-testutil"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/status"
)

type constStreamer struct {
	v float64
}

func (c constStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{c.v, c.v}
	}
	return len(samples), true
}

func (c constStreamer) Err() error { return nil }

func testClip(n int, looped bool) *asset.Clip {
	buf := beep.NewBuffer(beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2})
	buf.Append(beep.Take(n, constStreamer{v: 0.5}))
	return &asset.Clip{Buffer: buf, Looped: looped}
}

func pull(p *Player, n int) [][2]float64 {
	out := make([][2]float64, n)
	p.Streamer().Stream(out)
	return out
}

type fakeDevice struct {
	initErr error
	played  int
	cleared int
	locks   int
}

func (d *fakeDevice) Init(beep.SampleRate, int) error { return d.initErr }
func (d *fakeDevice) Play(beep.Streamer)              { d.played++ }
func (d *fakeDevice) Lock()                           { d.locks++ }
func (d *fakeDevice) Unlock()                         {}
func (d *fakeDevice) Clear()                          { d.cleared++ }

func TestPlayer_PlayMixesClip(t *testing.T) {
	reg := status.NewRegistry()
	p := NewPlayer(WithVolume(0), WithPlayerMetrics(reg))

	p.Play(testClip(64, false), 1)
	testutil.AssertEqual(t, "active", p.Active(), 1)
	testutil.AssertEqual(t, "played metric", reg.Ints.Get(status.SoundsPlayed).Load(), int64(1))

	out := pull(p, 32)
	testutil.AssertEqual(t, "left sample", out[0][0] > 0.4, true)
	testutil.AssertEqual(t, "right sample", out[0][1] > 0.4, true)
}

func TestPlayer_IgnoresEmptyClips(t *testing.T) {
	p := NewPlayer()
	p.Play(nil, 1)
	p.Play(&asset.Clip{}, 1)
	p.PlayMusic(nil, 1)
	testutil.AssertEqual(t, "active", p.Active(), 0)
}

func TestPlayer_Mute(t *testing.T) {
	p := NewPlayer(WithVolume(0))
	p.Play(testClip(64, false), 1)

	testutil.AssertEqual(t, "muted", p.ToggleMute(), true)
	testutil.AssertEqual(t, "is muted", p.IsMuted(), true)
	out := pull(p, 16)
	testutil.AssertEqual(t, "silent sample", out[0][0], 0.0)

	testutil.AssertEqual(t, "unmuted", p.ToggleMute(), false)
	out = pull(p, 16)
	testutil.AssertEqual(t, "audible sample", out[0][0] > 0.4, true)
}

func TestPlayer_StartsMuted(t *testing.T) {
	p := NewPlayer(WithMuted(true), WithVolume(0))
	p.Play(testClip(64, false), 1)
	out := pull(p, 8)
	testutil.AssertEqual(t, "silent sample", out[0][0], 0.0)
}

func TestPlayer_MusicReplacesAndStops(t *testing.T) {
	p := NewPlayer(WithVolume(0))

	p.PlayMusic(testClip(16, true), 1)
	p.PlayMusic(testClip(16, true), 1.5)
	testutil.AssertEqual(t, "both added", p.Active(), 2)

	// the replaced track drains on the next pull, the looped one keeps playing
	pull(p, 64)
	testutil.AssertEqual(t, "one left", p.Active(), 1)

	p.StopAll()
	testutil.AssertEqual(t, "stopped", p.Active(), 0)
	out := pull(p, 8)
	testutil.AssertEqual(t, "silent", out[0][0], 0.0)
}

func TestPlayer_ClipDrains(t *testing.T) {
	p := NewPlayer()
	p.Play(testClip(8, false), 2)
	pull(p, 64)
	testutil.AssertEqual(t, "drained", p.Active(), 0)
}

func TestService_Lifecycle(t *testing.T) {
	dev := &fakeDevice{}
	svc := NewService(NewPlayer(), WithDevice(dev))

	testutil.AssertEqual(t, "name", svc.Name(), "audio")
	testutil.AssertEqual(t, "init", svc.Init(), nil)
	testutil.AssertEqual(t, "start", svc.Start(), nil)
	testutil.AssertEqual(t, "start again", svc.Start(), nil)
	testutil.AssertEqual(t, "played once", dev.played, 1)

	svc.Player().Play(testClip(8, false), 1)
	testutil.AssertEqual(t, "device locked", dev.locks > 0, true)

	testutil.AssertEqual(t, "stop", svc.Stop(), nil)
	testutil.AssertEqual(t, "cleared", dev.cleared, 1)
	testutil.AssertEqual(t, "player emptied", svc.Player().Active(), 0)
}

func TestService_DegradesWithoutDevice(t *testing.T) {
	dev := &fakeDevice{initErr: errors.New("no backend")}
	svc := NewService(NewPlayer(), WithDevice(dev))

	testutil.AssertEqual(t, "init", svc.Init(), nil)
	testutil.AssertEqual(t, "disabled", svc.IsDisabled(), true)
	testutil.AssertEqual(t, "start", svc.Start(), nil)
	testutil.AssertEqual(t, "never played", dev.played, 0)

	svc.Player().Play(testClip(8, false), 1)
	testutil.AssertEqual(t, "still mixes", svc.Player().Active(), 1)
	testutil.AssertEqual(t, "stop", svc.Stop(), nil)
	testutil.AssertEqual(t, "not cleared", dev.cleared, 0)
}
