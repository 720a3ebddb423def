// Package screen draws the menu screens on a 160x128 panel.
package screen

import (
	"image/color"

	"c201/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	Width  = 160
	Height = 128
)

var (
	Black   = color.RGBA{A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 255, A: 255}
	Green   = color.RGBA{G: 255, A: 255}
	Blue    = color.RGBA{B: 255, A: 255}
	Cyan    = color.RGBA{G: 255, B: 255, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, A: 255}
	Magenta = color.RGBA{R: 255, B: 255, A: 255}
)

// Surface is the drawing capability the screens need.
//
// Text places the top-left corner of the first glyph at (x, y) and scales
// glyphs by an integer size.
type Surface interface {
	FillScreen(c color.RGBA)
	FillRect(x, y, w, h int16, c color.RGBA)
	HLine(x, y, w int16, c color.RGBA)
	Text(x, y int16, size uint8, c color.RGBA, s string)
	Flush() error
}

// fontAscent is the distance from the cell top to the baseline at size 1.
const fontAscent = 7

var defaultFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// TFT renders onto a hal.Display with tinyfont.
type TFT struct {
	d    hal.Display
	font tinyfont.Fonter
}

func NewTFT(d hal.Display) *TFT {
	return &TFT{d: d, font: defaultFont}
}

func (t *TFT) FillScreen(c color.RGBA) {
	w, h := t.d.Size()
	_ = t.d.FillRectangle(0, 0, w, h, c)
}

func (t *TFT) FillRect(x, y, w, h int16, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	_ = t.d.FillRectangle(x, y, w, h, c)
}

func (t *TFT) HLine(x, y, w int16, c color.RGBA) {
	t.FillRect(x, y, w, 1, c)
}

func (t *TFT) Text(x, y int16, size uint8, c color.RGBA, s string) {
	if size <= 1 {
		tinyfont.WriteLine(t.d, t.font, x, y+fontAscent, s, c)
		return
	}
	sd := scaledDisplay{d: t.d, x: x, y: y, size: int16(size)}
	tinyfont.WriteLine(sd, t.font, 0, fontAscent, s, c)
}

func (t *TFT) Flush() error { return t.d.Display() }

// scaledDisplay magnifies every pixel into a size x size block anchored at
// (x, y).
type scaledDisplay struct {
	d    hal.Display
	x, y int16
	size int16
}

func (s scaledDisplay) Size() (x, y int16) {
	w, h := s.d.Size()
	return (w - s.x) / s.size, (h - s.y) / s.size
}

func (s scaledDisplay) SetPixel(x, y int16, c color.RGBA) {
	_ = s.d.FillRectangle(s.x+x*s.size, s.y+y*s.size, s.size, s.size, c)
}

func (s scaledDisplay) Display() error { return nil }
