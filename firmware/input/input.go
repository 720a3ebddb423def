// Package input turns four active-low button lines into debounced key events.
package input

import (
	"fmt"
	"time"

	"c201/hal"
)

// DefaultWindow is the minimum spacing between accepted events.
const DefaultWindow = 200 * time.Millisecond

// Source polls the buttons and gates them through one shared debounce window.
//
// The gate is level-triggered: a held button fires again once the window has
// elapsed.
type Source struct {
	pins   [hal.ButtonCount]hal.GPIOPin
	window time.Duration

	last     time.Duration
	accepted bool
}

// New configures every pin as a pulled-up input.
func New(pins [hal.ButtonCount]hal.GPIOPin, window time.Duration) (*Source, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	for b, p := range pins {
		if p == nil {
			return nil, fmt.Errorf("input: button %s: no pin", hal.Button(b))
		}
		if err := p.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
			return nil, fmt.Errorf("input: button %s: %w", hal.Button(b), err)
		}
	}
	return &Source{pins: pins, window: window}, nil
}

// FromHAL collects the four button pins of h.
func FromHAL(h hal.HAL, window time.Duration) (*Source, error) {
	var pins [hal.ButtonCount]hal.GPIOPin
	for b := hal.Button(0); b < hal.ButtonCount; b++ {
		pins[b] = h.Button(b)
	}
	return New(pins, window)
}

// Poll returns at most one accepted event. Buttons are checked in the order
// Up, Down, Enter, Return.
func (s *Source) Poll(now time.Duration) (hal.Button, bool) {
	if s.accepted && now-s.last < s.window {
		return 0, false
	}
	for b := hal.Button(0); b < hal.ButtonCount; b++ {
		if !s.pressed(b) {
			continue
		}
		s.last = now
		s.accepted = true
		return b, true
	}
	return 0, false
}

func (s *Source) pressed(b hal.Button) bool {
	level, err := s.pins[b].Read()
	return err == nil && !level
}
