package asset

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Manifest is the ordered list of resources a game declares
type Manifest []Entry

// Lookup finds an entry by logical name
func (m Manifest) Lookup(name string) (Entry, bool) {
	for _, e := range m {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns logical names in declaration order
func (m Manifest) Names() []string {
	names := make([]string, len(m))
	for i, e := range m {
		names[i] = e.Name
	}
	return names
}

// Validate reports every problem in the manifest at once
func (m Manifest) Validate() error {
	el := errors.NewErrorList()
	seen := make(map[string]bool, len(m))

	for i, e := range m {
		if e.Name == "" {
			el.Add(fmt.Errorf("entry %d: name is required", i))
		} else if seen[e.Name] {
			el.Add(fmt.Errorf("entry %q: duplicate name", e.Name))
		}
		seen[e.Name] = true

		if _, ok := kindNames[e.Kind]; !ok {
			el.Add(fmt.Errorf("entry %q: unknown kind %d", e.Name, e.Kind))
		}
		if e.Source == "" {
			el.Add(fmt.Errorf("entry %q: source is required", e.Name))
		}
		if e.Looped && e.Kind != KindMusicTrack {
			el.Add(fmt.Errorf("entry %q: only music tracks loop", e.Name))
		}
		if e.Kind == KindFont && e.Size <= 0 {
			el.Add(fmt.Errorf("entry %q: font size must be positive", e.Name))
		}
	}

	return el.Err()
}

// ImageEntry declares an image entry
func ImageEntry(name, source string) Entry {
	return Entry{Name: name, Kind: KindImage, Source: source}
}

// ClipEntry declares a short sound effect
func ClipEntry(name, source string) Entry {
	return Entry{Name: name, Kind: KindAudioClip, Source: source}
}

// MusicEntry declares a music track
func MusicEntry(name, source string, looped bool) Entry {
	return Entry{Name: name, Kind: KindMusicTrack, Source: source, Looped: looped}
}

// FontEntry declares a font at a point size
func FontEntry(name, source string, size int) Entry {
	return Entry{Name: name, Kind: KindFont, Source: source, Size: size}
}
