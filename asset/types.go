package asset

import (
	"fmt"
	"strings"
)

// Kind is the resource class of a manifest entry
type Kind uint8

const (
	KindImage Kind = iota + 1
	KindAudioClip
	KindMusicTrack
	KindFont
)

var kindNames = map[Kind]string{
	KindImage:      "image",
	KindAudioClip:  "audio-clip",
	KindMusicTrack: "music-track",
	KindFont:       "font",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsAudio returns true for clip and music kinds
func (k Kind) IsAudio() bool {
	return k == KindAudioClip || k == KindMusicTrack
}

// ParseKind resolves a kind from its name
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown asset kind %q", s)
}

// Entry declares one resource a game needs
type Entry struct {
	Name   string // Logical name used by the game
	Kind   Kind
	Source string // Locator resolved by the Loader
	Looped bool   // Music tracks only
	Size   int    // Fonts only, point size
}

// key identifies the underlying resource; entries with the same key share it
type key struct {
	kind   Kind
	source string
}

func (e Entry) key() key {
	return key{kind: e.Kind, source: e.Source}
}

// Handle is an opaque reference into the Cache
// A handle stays valid while the resource's reference count is above zero
type Handle struct {
	name string
	key  key
	gen  uint64
}

// Name returns the logical name the handle was acquired under
func (h Handle) Name() string {
	return h.name
}

// Kind returns the resource kind
func (h Handle) Kind() Kind {
	return h.key.kind
}

// IsZero reports whether h was never acquired
func (h Handle) IsZero() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%s(%s:%s#%d)", h.name, h.key.kind, h.key.source, h.gen)
}
