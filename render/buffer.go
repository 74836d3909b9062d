package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Cell is one character position in a Buffer
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Buffer is an in-memory Frame used for headless runs and tests
type Buffer struct {
	width  int
	height int
	cells  []Cell
}

// NewBuffer creates a blank buffer of the given size
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	b.Fill(' ', tcell.StyleDefault)
	return b
}

// Size implements Frame
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// SetContent implements Frame
func (b *Buffer) SetContent(x, y int, r rune, style tcell.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Style: style}
}

// Fill implements Frame
func (b *Buffer) Fill(r rune, style tcell.Style) {
	for i := range b.cells {
		b.cells[i] = Cell{Rune: r, Style: style}
	}
}

// Resize reallocates the buffer, content is cleared
func (b *Buffer) Resize(width, height int) {
	*b = *NewBuffer(width, height)
}

// Cell returns the cell at x,y
func (b *Buffer) Cell(x, y int) (Cell, bool) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{}, false
	}
	return b.cells[y*b.width+x], true
}

// Line returns row y as a string with trailing spaces trimmed
func (b *Buffer) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		sb.WriteRune(b.cells[y*b.width+x].Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// String renders the whole buffer, one line per row
func (b *Buffer) String() string {
	lines := make([]string, b.height)
	for y := range lines {
		lines[y] = b.Line(y)
	}
	return strings.Join(lines, "\n")
}

// Contains reports whether text appears on any row
func (b *Buffer) Contains(text string) bool {
	for y := 0; y < b.height; y++ {
		if strings.Contains(b.Line(y), text) {
			return true
		}
	}
	return false
}
