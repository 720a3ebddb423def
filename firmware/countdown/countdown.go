// Package countdown implements the ten second countdown and its finish
// animation.
//
// Tick is called from the periodic timer callback; everything else is called
// from the foreground loop. The only state they share is held in atomics.
package countdown

import (
	"image/color"
	"sync/atomic"
	"time"
)

const (
	// StartSeconds is the value the countdown resets to.
	StartSeconds = 10

	// FinishSteps is the number of on/off toggles of the finish animation.
	FinishSteps = 6
	// FinishInterval is the time between finish animation toggles.
	FinishInterval = 300 * time.Millisecond
)

// Highlight is the finish animation color.
var Highlight = color.RGBA{R: 255, G: 105, B: 180, A: 255}

// Frame is what the strip should show after an Update.
type Frame uint8

const (
	FrameNone Frame = iota // leave the strip alone
	FrameOn                // all pixels Highlight
	FrameOff               // all pixels off
)

// Status is the part of the counter state the screen depends on.
type Status struct {
	Remaining int
	Paused    bool
	Finished  bool
}

type Counter struct {
	remaining atomic.Int32
	running   atomic.Bool
	paused    atomic.Bool

	finished   bool
	animating  bool
	animStep   int
	lastToggle time.Duration
}

// Tick is the 1 Hz callback. It never blocks.
func (c *Counter) Tick() {
	if !c.running.Load() || c.paused.Load() {
		return
	}
	for {
		cur := c.remaining.Load()
		if cur <= 0 {
			return
		}
		if c.remaining.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// Reset loads StartSeconds and starts counting.
func (c *Counter) Reset() {
	c.running.Store(false)
	c.paused.Store(false)
	c.remaining.Store(StartSeconds)
	c.finished = false
	c.animating = false
	c.animStep = 0
	c.running.Store(true)
}

// Stop halts counting and any finish animation.
func (c *Counter) Stop() {
	c.running.Store(false)
	c.animating = false
}

// TogglePause flips the paused flag and returns the new value.
func (c *Counter) TogglePause() bool {
	for {
		p := c.paused.Load()
		if c.paused.CompareAndSwap(p, !p) {
			return !p
		}
	}
}

func (c *Counter) Remaining() int  { return int(c.remaining.Load()) }
func (c *Counter) Running() bool   { return c.running.Load() }
func (c *Counter) Paused() bool    { return c.paused.Load() }
func (c *Counter) Finished() bool  { return c.finished }
func (c *Counter) Animating() bool { return c.animating }

// Status returns the displayed state.
func (c *Counter) Status() Status {
	return Status{
		Remaining: c.Remaining(),
		Paused:    c.Paused(),
		Finished:  c.finished,
	}
}

// Update runs the foreground part of the countdown. It reports whether the
// countdown finished during this call and which frame the strip should show.
func (c *Counter) Update(now time.Duration) (finishedNow bool, frame Frame) {
	if c.running.Load() && c.remaining.Load() == 0 {
		c.running.Store(false)
		c.finished = true
		c.animating = true
		c.animStep = 0
		c.lastToggle = now
		finishedNow = true
	}

	if !c.animating || now-c.lastToggle < FinishInterval {
		return finishedNow, FrameNone
	}
	c.lastToggle = now
	frame = FrameOff
	if c.animStep%2 == 0 {
		frame = FrameOn
	}
	c.animStep++
	if c.animStep >= FinishSteps {
		c.animating = false
		frame = FrameOn
	}
	return finishedNow, frame
}

// Clock formats seconds as "00:MM:SS".
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	m, s := seconds/60, seconds%60
	return "00:" + two(m) + ":" + two(s)
}

func two(n int) string {
	n %= 100
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
