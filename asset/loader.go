package asset

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

// Loader decodes the resource behind a manifest entry
// Implementations must be safe to call from a preload goroutine
type Loader interface {
	Load(ctx context.Context, e Entry) (any, error)
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(ctx context.Context, e Entry) (any, error)

// Load implements Loader
func (f LoaderFunc) Load(ctx context.Context, e Entry) (any, error) {
	return f(ctx, e)
}

const (
	toneScheme    = "tone:"
	silenceScheme = "silence:"

	// DefaultSampleRate is used for synthesized clips
	DefaultSampleRate = beep.SampleRate(44100)
	maxSpriteWidth    = 80
)

// FSLoader reads resources from a file system laid out per kind:
// images/, audio/ and fonts/
type FSLoader struct {
	FS         fs.FS
	SampleRate beep.SampleRate
}

// NewFSLoader creates a loader rooted at fsys
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{FS: fsys, SampleRate: DefaultSampleRate}
}

// Load implements Loader
func (l *FSLoader) Load(ctx context.Context, e Entry) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch e.Kind {
	case KindImage:
		return l.loadImage(e)
	case KindAudioClip, KindMusicTrack:
		return l.loadAudio(e)
	case KindFont:
		return l.loadFont(e)
	default:
		return nil, fmt.Errorf("unsupported kind %s", e.Kind)
	}
}

func (l *FSLoader) loadImage(e Entry) (*Sprite, error) {
	p := path.Join("images", e.Source)
	if strings.EqualFold(path.Ext(p), ".txt") {
		data, err := fs.ReadFile(l.FS, p)
		if err != nil {
			return nil, err
		}
		return ParseSprite(string(data)), nil
	}

	f, err := l.FS.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return SpriteFromImage(img, maxSpriteWidth), nil
}

func (l *FSLoader) loadAudio(e Entry) (*Clip, error) {
	switch {
	case strings.HasPrefix(e.Source, toneScheme):
		buf, err := synthesizeTone(l.sampleRate(), strings.TrimPrefix(e.Source, toneScheme))
		if err != nil {
			return nil, err
		}
		return &Clip{Buffer: buf, Looped: e.Looped}, nil
	case strings.HasPrefix(e.Source, silenceScheme):
		d, err := time.ParseDuration(strings.TrimPrefix(e.Source, silenceScheme))
		if err != nil {
			return nil, fmt.Errorf("silence duration: %w", err)
		}
		sr := l.sampleRate()
		buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
		buf.Append(beep.Silence(sr.N(d)))
		return &Clip{Buffer: buf, Looped: e.Looped}, nil
	}

	f, err := l.FS.Open(path.Join("audio", e.Source))
	if err != nil {
		return nil, err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("stream wav: %w", err)
	}
	return &Clip{Buffer: buf, Looped: e.Looped}, nil
}

func (l *FSLoader) loadFont(e Entry) (*Font, error) {
	data, err := fs.ReadFile(l.FS, path.Join("fonts", e.Source))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("font %q is empty", e.Source)
	}
	return &Font{Face: data, Size: e.Size}, nil
}

func (l *FSLoader) sampleRate() beep.SampleRate {
	if l.SampleRate == 0 {
		return DefaultSampleRate
	}
	return l.SampleRate
}

// synthesizeTone renders "<hz>:<duration>" as a sine tone buffer
func synthesizeTone(sr beep.SampleRate, src string) (*beep.Buffer, error) {
	parts := strings.Split(src, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("tone %q: want <hz>:<duration>", src)
	}
	freq, err := strconv.ParseFloat(parts[0], 64)
	if err != nil || freq <= 0 {
		return nil, fmt.Errorf("tone %q: bad frequency", src)
	}
	d, err := time.ParseDuration(parts[1])
	if err != nil || d <= 0 {
		return nil, fmt.Errorf("tone %q: bad duration", src)
	}

	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("tone %q: %w", src, err)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buf.Append(beep.Take(sr.N(d), sine))
	return buf, nil
}
