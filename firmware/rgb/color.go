package rgb

import (
	"image/color"
	"math"
)

var gammaTable [256]uint8

func init() {
	for i := range gammaTable {
		gammaTable[i] = uint8(math.Pow(float64(i)/255, 2.6)*255 + 0.5)
	}
}

// Gamma8 applies the 2.6 gamma curve used for WS2812 output.
func Gamma8(v uint8) uint8 { return gammaTable[v] }

// Gamma applies Gamma8 to each channel.
func Gamma(c color.RGBA) color.RGBA {
	return color.RGBA{R: Gamma8(c.R), G: Gamma8(c.G), B: Gamma8(c.B), A: c.A}
}

// HSV converts a 16 bit hue (one full turn is 65536) to RGB.
//
// The hue circle is split into six 255-step ramps, so red, yellow, green,
// cyan, blue and magenta sit at multiples of 65536/6.
func HSV(hue uint16, sat, val uint8) color.RGBA {
	h := (uint32(hue)*1530 + 32768) / 65536

	var r, g, b uint32
	switch {
	case h < 255:
		r, g, b = 255, h, 0
	case h < 510:
		r, g, b = 510-h, 255, 0
	case h < 765:
		r, g, b = 0, 255, h-510
	case h < 1020:
		r, g, b = 0, 1020-h, 255
	case h < 1275:
		r, g, b = h-1020, 0, 255
	case h < 1530:
		r, g, b = 255, 0, 1530-h
	default:
		r, g, b = 255, 0, 0
	}

	v1 := 1 + uint32(val)
	s1 := 1 + uint32(sat)
	s2 := 255 - uint32(sat)
	ch := func(x uint32) uint8 {
		return uint8((((x * s1) >> 8) + s2) * v1 >> 8)
	}
	return color.RGBA{R: ch(r), G: ch(g), B: ch(b), A: 255}
}
