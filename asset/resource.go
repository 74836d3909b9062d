package asset

import (
	"image"
	"image/color"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gopxl/beep"
)

// Sprite is an image resource rasterized to terminal glyphs
type Sprite struct {
	Lines []string
}

// Size returns the sprite's width and height in cells
func (s *Sprite) Size() (int, int) {
	w := 0
	for _, l := range s.Lines {
		if n := utf8.RuneCountInString(l); n > w {
			w = n
		}
	}
	return w, len(s.Lines)
}

// ParseSprite builds a sprite from text art, trailing blank lines dropped
func ParseSprite(text string) *Sprite {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return &Sprite{Lines: lines}
}

// Luminance ramp from empty to full coverage
var glyphRamp = []rune(" .:-=+*#%@")

// SpriteFromImage rasterizes img into at most maxWidth columns
// Terminal cells are about twice as tall as wide, so two pixel rows map to one line
func SpriteFromImage(img image.Image, maxWidth int) *Sprite {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return &Sprite{}
	}

	outW := srcW
	if maxWidth > 0 && outW > maxWidth {
		outW = maxWidth
	}
	scale := float64(srcW) / float64(outW)
	outH := int(float64(srcH) / (scale * 2))
	if outH < 1 {
		outH = 1
	}

	lines := make([]string, outH)
	row := make([]rune, outW)
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			px := b.Min.X + int(float64(x)*scale)
			py := b.Min.Y + int(float64(y)*scale*2)
			row[x] = glyphFor(img.At(px, py))
		}
		lines[y] = strings.TrimRight(string(row), " ")
	}
	return &Sprite{Lines: lines}
}

func glyphFor(c color.Color) rune {
	_, _, _, a := c.RGBA()
	if a == 0 {
		return ' '
	}
	g := color.GrayModel.Convert(c).(color.Gray)
	// Dark pixels are drawn dense, light ones sparse
	coverage := 255 - int(g.Y)
	idx := coverage * (len(glyphRamp) - 1) / 255
	return glyphRamp[idx]
}

// Clip is a decoded audio resource held fully in memory
type Clip struct {
	Buffer *beep.Buffer
	Looped bool
}

// Format returns the clip's native sample format
func (c *Clip) Format() beep.Format {
	return c.Buffer.Format()
}

// Duration returns the clip's play length at its native rate
func (c *Clip) Duration() time.Duration {
	return c.Buffer.Format().SampleRate.D(c.Buffer.Len())
}

// Font is raw font face data at a point size
type Font struct {
	Face []byte
	Size int
}
