// Package rgb drives the eight pixel strip: blink patterns, the hue cycle
// and solid fills.
package rgb

import (
	"fmt"
	"image/color"
	"time"

	"c201/hal"
)

const (
	// Brightness is the global strip brightness.
	Brightness = 50

	// BlinkInterval is the blink half-period.
	BlinkInterval = 500 * time.Millisecond

	// HueStep is added to the gradient hue on every render.
	HueStep = 256
)

var (
	Off    = color.RGBA{A: 255}
	Red    = color.RGBA{R: 255, A: 255}
	Green  = color.RGBA{G: 255, A: 255}
	Blue   = color.RGBA{B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, A: 255}
)

// Pattern selects what the RGB Offline screen shows.
type Pattern uint8

const (
	PatternRed Pattern = iota
	PatternGreen
	PatternBlue
	PatternGradient

	PatternCount
)

func (p Pattern) String() string {
	switch p {
	case PatternRed:
		return "Red"
	case PatternGreen:
		return "Green"
	case PatternBlue:
		return "Blue"
	case PatternGradient:
		return "Gradient"
	default:
		return fmt.Sprintf("Pattern(%d)", uint8(p))
	}
}

// Subtitle is the one-line description shown under the pattern name.
func (p Pattern) Subtitle() string {
	switch p {
	case PatternRed:
		return "3 LEDs Blink"
	case PatternGreen:
		return "6 LEDs Blink"
	case PatternBlue:
		return "8 LEDs Blink"
	case PatternGradient:
		return "RGB Cycle"
	default:
		return ""
	}
}

// Next returns the following pattern, wrapping after Gradient.
func (p Pattern) Next() Pattern { return (p + 1) % PatternCount }

// Prev returns the preceding pattern, wrapping before Red.
func (p Pattern) Prev() Pattern { return (p + PatternCount - 1) % PatternCount }

func (p Pattern) blink() (c color.RGBA, n int, ok bool) {
	switch p {
	case PatternRed:
		return Red, 3, true
	case PatternGreen:
		return Green, 6, true
	case PatternBlue:
		return Blue, 8, true
	}
	return color.RGBA{}, 0, false
}

// LoadColor maps a host load percentage to its band color.
func LoadColor(load int) color.RGBA {
	switch {
	case load <= 50:
		return Green
	case load < 85:
		return Yellow
	default:
		return Red
	}
}

// Engine owns the strip. Blink phase and hue survive pattern switches.
type Engine struct {
	strip hal.Strip
	buf   []color.RGBA

	lastBlink time.Duration
	blinkOn   bool
	hue       uint16
}

// NewEngine sets the global brightness and returns an engine for strip.
func NewEngine(strip hal.Strip) *Engine {
	strip.SetBrightness(Brightness)
	return &Engine{
		strip: strip,
		buf:   make([]color.RGBA, strip.Len()),
	}
}

// Render draws one frame of p.
func (e *Engine) Render(p Pattern, now time.Duration) error {
	if c, n, ok := p.blink(); ok {
		if now-e.lastBlink > BlinkInterval {
			e.lastBlink = now
			e.blinkOn = !e.blinkOn
		}
		for i := range e.buf {
			if i < n && e.blinkOn {
				e.buf[i] = c
			} else {
				e.buf[i] = Off
			}
		}
		return e.show()
	}

	n := uint32(len(e.buf))
	for i := range e.buf {
		h := uint16(uint32(e.hue) + uint32(i)*65536/n)
		e.buf[i] = Gamma(HSV(h, 255, 255))
	}
	e.hue += HueStep
	return e.show()
}

// Fill sets every pixel to c.
func (e *Engine) Fill(c color.RGBA) error {
	for i := range e.buf {
		e.buf[i] = c
	}
	return e.show()
}

// Clear turns every pixel off.
func (e *Engine) Clear() error { return e.Fill(Off) }

// Hue returns the current gradient hue.
func (e *Engine) Hue() uint16 { return e.hue }

// BlinkOn reports the current blink phase.
func (e *Engine) BlinkOn() bool { return e.blinkOn }

func (e *Engine) show() error {
	if err := e.strip.WriteColors(e.buf); err != nil {
		return fmt.Errorf("rgb: write strip: %w", err)
	}
	return nil
}
