package hal

import (
	"errors"
	"image/color"
	"time"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// Display is the panel the menu is drawn on.
//
// It is satisfied by *st7735.Device and by the host framebuffer.
type Display interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// Strip is an addressable RGB LED strip.
type Strip interface {
	Len() int
	SetBrightness(b uint8)
	WriteColors(buf []color.RGBA) error
}

// Serial is a polled byte stream.
//
// Buffered reports how many bytes can be read without blocking.
type Serial interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// EEPROM provides byte-addressed non-volatile storage.
type EEPROM interface {
	SizeBytes() uint32
	ReadByteAt(addr uint32) (byte, error)
	WriteByteAt(addr uint32, b byte) error
}

// Time provides a base tick stream.
//
// One tick is one millisecond since boot.
type Time interface {
	Ticks() <-chan uint64
}

// Timer runs a callback periodically outside the foreground loop.
//
// The callback must not block; it plays the role of an interrupt handler.
type Timer interface {
	StartPeriodic(period time.Duration, fn func()) error
	Stop()
}

// Button identifies one of the four front-panel keys.
type Button uint8

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonEnter
	ButtonReturn

	ButtonCount
)

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonEnter:
		return "enter"
	case ButtonReturn:
		return "return"
	default:
		return "unknown"
	}
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Button(b Button) GPIOPin
	Display() Display
	Strip() Strip
	Serial() Serial
	EEPROM() EEPROM
	Time() Time
	Timer() Timer
}
