package controller

import (
	"log/slog"

	"c201/firmware/countdown"
	"c201/firmware/rgb"
	"c201/firmware/screen"
)

// handler is one screen of the menu. Every screen handles every key.
type handler interface {
	open(c *Controller)
	up(c *Controller)
	down(c *Controller)
	enter(c *Controller)
	back(c *Controller)
	update(c *Controller)
}

type (
	mainScreen      struct{}
	bleScreen       struct{}
	rgbScreen       struct{}
	countdownScreen struct{}
	eepromScreen    struct{}
)

func (c *Controller) handlerFor(m MenuState) handler {
	switch m {
	case ConnectBLE:
		return bleScreen{}
	case RGBOffline:
		return rgbScreen{}
	case Countdown:
		return countdownScreen{}
	case EEPROM:
		return eepromScreen{}
	default:
		return mainScreen{}
	}
}

func (mainScreen) open(c *Controller) {
	c.redraw(func(s screen.Surface) { screen.MainMenu(s, c.Cursor) })
}

func (m mainScreen) up(c *Controller) {
	c.Cursor = (c.Cursor + len(cursorTargets) - 1) % len(cursorTargets)
	m.open(c)
}

func (m mainScreen) down(c *Controller) {
	c.Cursor = (c.Cursor + 1) % len(cursorTargets)
	m.open(c)
}

func (mainScreen) enter(c *Controller) { c.switchTo(cursorTargets[c.Cursor]) }
func (mainScreen) back(*Controller)    {}
func (mainScreen) update(*Controller)  {}

func (bleScreen) open(c *Controller) {
	c.redraw(func(s screen.Surface) { screen.BLE(s, c.Connected) })
}

func (bleScreen) up(*Controller)       {}
func (bleScreen) down(*Controller)     {}
func (bleScreen) enter(*Controller)    {}
func (bleScreen) back(c *Controller)   { c.exit() }
func (bleScreen) update(c *Controller) { c.checkLiveness() }

func (rgbScreen) open(c *Controller) {
	c.Pattern = rgb.PatternRed
	c.rgbDrawn = false
}

func (rgbScreen) up(c *Controller)   { c.Pattern = c.Pattern.Prev() }
func (rgbScreen) down(c *Controller) { c.Pattern = c.Pattern.Next() }
func (rgbScreen) enter(*Controller)  {}
func (rgbScreen) back(c *Controller) { c.exit() }

func (rgbScreen) update(c *Controller) {
	if !c.rgbDrawn || c.rgbPattern != c.Pattern {
		c.rgbDrawn = true
		c.rgbPattern = c.Pattern
		p := c.Pattern
		c.redraw(func(s screen.Surface) { screen.RGB(s, p.String(), p.Subtitle()) })
	}
	if err := c.leds.Render(c.Pattern, c.now); err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "strip", slog.Any("err", err))
	}
}

func (countdownScreen) open(c *Controller) {
	c.Countdown.Reset()
	c.cdDrawn = false
}

func (countdownScreen) up(*Controller)   {}
func (countdownScreen) down(*Controller) {}

func (countdownScreen) enter(c *Controller) {
	paused := c.Countdown.TogglePause()
	c.log.LogAttrs(c.ctx, slog.LevelDebug, "countdown", slog.Bool("paused", paused))
}

func (countdownScreen) back(c *Controller) { c.exit() }

func (countdownScreen) update(c *Controller) {
	finished, frame := c.Countdown.Update(c.now)
	if finished {
		c.log.LogAttrs(c.ctx, slog.LevelInfo, "countdown finished")
	}

	st := c.Countdown.Status()
	if !c.cdDrawn || st != c.cdStatus {
		c.cdDrawn = true
		c.cdStatus = st
		c.redraw(func(s screen.Surface) {
			screen.Countdown(s, countdown.Clock(st.Remaining), st.Paused)
			if st.Finished {
				screen.Finish(s)
			}
		})
	}

	var err error
	switch frame {
	case countdown.FrameOn:
		err = c.leds.Fill(countdown.Highlight)
	case countdown.FrameOff:
		err = c.leds.Clear()
	}
	if err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "strip", slog.Any("err", err))
	}
}

func (eepromScreen) open(c *Controller) { c.drawEEPROM() }
func (eepromScreen) up(*Controller)     {}
func (eepromScreen) down(*Controller)   {}
func (eepromScreen) enter(*Controller)  {}
func (eepromScreen) back(c *Controller) { c.exit() }
func (eepromScreen) update(*Controller) {}

func (c *Controller) drawEEPROM() {
	v, ok := c.Store.Value()
	c.redraw(func(s screen.Surface) { screen.EEPROM(s, v, ok) })
}

// switchTo opens a submenu.
func (c *Controller) switchTo(m MenuState) {
	c.log.LogAttrs(c.ctx, slog.LevelInfo, "screen", slog.String("from", c.Menu.String()), slog.String("to", m.String()))
	c.Menu = m
	c.handlerFor(m).open(c)
}

// exit leaves a submenu for the root menu, stopping the countdown and
// clearing the strip.
func (c *Controller) exit() {
	c.Countdown.Stop()
	if err := c.leds.Clear(); err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "strip", slog.Any("err", err))
	}
	c.switchTo(Main)
}
