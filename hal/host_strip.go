//go:build !tinygo

package hal

import (
	"image/color"
	"sync"
)

type hostStrip struct {
	mu         sync.Mutex
	pixels     []color.RGBA
	brightness uint8
	writes     uint64
}

func newHostStrip(n int) *hostStrip {
	return &hostStrip{pixels: make([]color.RGBA, n), brightness: 255}
}

func (s *hostStrip) Len() int { return len(s.pixels) }

func (s *hostStrip) SetBrightness(b uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness = b
}

func (s *hostStrip) WriteColors(buf []color.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pixels {
		var c color.RGBA
		if i < len(buf) {
			c = scaleBrightness(buf[i], s.brightness)
		}
		s.pixels[i] = c
	}
	s.writes++
	return nil
}

// snapshot copies the colors currently shown on the strip.
func (s *hostStrip) snapshot(dst []color.RGBA) []color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(dst[:0], s.pixels...)
}
