// Package controller runs the menu, the link protocol and the countdown on
// top of the hal devices.
//
// All methods except Tick run on the foreground loop. Tick is the 1 Hz timer
// callback and touches only the countdown atomics.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"c201/firmware/command"
	"c201/firmware/countdown"
	"c201/firmware/input"
	"c201/firmware/kernel"
	"c201/firmware/rgb"
	"c201/firmware/screen"
	"c201/firmware/store"
	"c201/hal"
)

const (
	DefaultBootHold    = 2 * time.Second
	DefaultLinkTimeout = 5000 * time.Millisecond
	IndicatorInterval  = 500 * time.Millisecond
)

// Config tunes the controller. Zero values select the defaults, except
// BootHold where a negative value skips the boot banner hold.
type Config struct {
	Station     int
	BootHold    time.Duration
	LinkTimeout time.Duration
	Debounce    time.Duration
	Logger      *slog.Logger
}

// Devices are the hal capabilities the controller drives.
type Devices struct {
	Surface   screen.Surface
	Strip     hal.Strip
	Serial    hal.Serial
	EEPROM    hal.EEPROM
	Indicator hal.LED
	Buttons   [hal.ButtonCount]hal.GPIOPin
}

// DevicesFromHAL collects the controller devices from h.
func DevicesFromHAL(h hal.HAL) Devices {
	d := Devices{
		Strip:     h.Strip(),
		Serial:    h.Serial(),
		EEPROM:    h.EEPROM(),
		Indicator: h.LED(),
	}
	if disp := h.Display(); disp != nil {
		d.Surface = screen.NewTFT(disp)
	}
	for b := hal.Button(0); b < hal.ButtonCount; b++ {
		d.Buttons[b] = h.Button(b)
	}
	return d
}

var nolog = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.Level(127),
}))

type Controller struct {
	State

	cfg Config
	log *slog.Logger
	ctx context.Context

	surf   screen.Surface
	leds   *rgb.Engine
	keys   *input.Source
	serial hal.Serial
	ind    hal.LED
	reader command.Reader

	now time.Duration

	booting   bool
	bootDrawn bool
	bootStart time.Duration

	ledOn   bool
	ledLast time.Duration

	rgbDrawn   bool
	rgbPattern rgb.Pattern
	cdDrawn    bool
	cdStatus   countdown.Status

	dirty bool
}

// New wires the controller and loads the persisted value.
func New(dev Devices, cfg Config) (*Controller, error) {
	if dev.Surface == nil {
		return nil, errors.New("controller: no display")
	}
	if dev.Strip == nil {
		return nil, errors.New("controller: no LED strip")
	}
	if cfg.BootHold == 0 {
		cfg.BootHold = DefaultBootHold
	}
	if cfg.LinkTimeout <= 0 {
		cfg.LinkTimeout = DefaultLinkTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = nolog
	}

	keys, err := input.New(dev.Buttons, cfg.Debounce)
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	c := &Controller{
		cfg:     cfg,
		log:     cfg.Logger,
		ctx:     context.Background(),
		surf:    dev.Surface,
		leds:    rgb.NewEngine(dev.Strip),
		keys:    keys,
		serial:  dev.Serial,
		ind:     dev.Indicator,
		booting: true,
	}
	c.Store = store.New(dev.EEPROM)
	if err := c.Store.Load(); err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "eeprom load", slog.Any("err", err))
	}
	v, ok := c.Store.Value()
	c.log.LogAttrs(c.ctx, slog.LevelInfo, "boot",
		slog.String("bt_name", AdvertiseName(cfg.Station)),
		slog.Int("stored", int(v)),
		slog.Bool("valid", ok),
	)
	if err := c.leds.Clear(); err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "strip", slog.Any("err", err))
	}
	return c, nil
}

// Tick is the 1 Hz timer callback.
func (c *Controller) Tick() { c.Countdown.Tick() }

// Booting reports whether the boot banner is still held.
func (c *Controller) Booting() bool { return c.booting }

// Tasks returns the loop tasks in the order they must run: indicator, input,
// link, screen.
func (c *Controller) Tasks() []kernel.Task {
	return []kernel.Task{
		indicatorTask{c},
		inputTask{c},
		linkTask{c},
		screenTask{c},
	}
}

type (
	indicatorTask struct{ c *Controller }
	inputTask     struct{ c *Controller }
	linkTask      struct{ c *Controller }
	screenTask    struct{ c *Controller }
)

func (t indicatorTask) Step(ctx *kernel.Context) {
	c := t.c
	c.now = ctx.Now()
	if c.ind == nil || c.now-c.ledLast <= IndicatorInterval {
		return
	}
	c.ledLast = c.now
	c.ledOn = !c.ledOn
	if c.ledOn {
		c.ind.High()
	} else {
		c.ind.Low()
	}
}

func (t inputTask) Step(ctx *kernel.Context) {
	c := t.c
	c.now = ctx.Now()
	if c.booting {
		return
	}
	b, ok := c.keys.Poll(c.now)
	if !ok {
		return
	}
	c.log.LogAttrs(c.ctx, slog.LevelDebug, "key", slog.String("button", b.String()), slog.String("screen", c.Menu.String()))
	h := c.handlerFor(c.Menu)
	switch b {
	case hal.ButtonUp:
		h.up(c)
	case hal.ButtonDown:
		h.down(c)
	case hal.ButtonEnter:
		h.enter(c)
	case hal.ButtonReturn:
		h.back(c)
	}
}

func (t linkTask) Step(ctx *kernel.Context) {
	c := t.c
	c.now = ctx.Now()
	if c.booting || c.serial == nil {
		return
	}
	c.pollLink()
}

func (t screenTask) Step(ctx *kernel.Context) {
	c := t.c
	c.now = ctx.Now()
	if c.booting {
		c.stepBoot()
	} else {
		c.handlerFor(c.Menu).update(c)
	}
	if c.dirty {
		c.dirty = false
		if err := c.surf.Flush(); err != nil {
			c.log.LogAttrs(c.ctx, slog.LevelWarn, "display", slog.Any("err", err))
		}
	}
}

func (c *Controller) stepBoot() {
	if !c.bootDrawn {
		c.bootDrawn = true
		c.bootStart = c.now
		c.redraw(screen.Boot)
	}
	if c.cfg.BootHold > 0 && c.now-c.bootStart < c.cfg.BootHold {
		return
	}
	c.booting = false
	c.Menu = Main
	mainScreen{}.open(c)
}

func (c *Controller) redraw(fn func(screen.Surface)) {
	fn(c.surf)
	c.dirty = true
}
