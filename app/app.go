// Package app wires the hal devices, the controller tasks and the kernel
// into a running system.
package app

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"c201/firmware/controller"
	"c201/firmware/kernel"
	"c201/hal"
	"c201/internal/buildinfo"
)

// TickPeriod is the countdown timer period.
const TickPeriod = time.Second

type Config struct {
	Station  int
	LogLevel slog.Level
	// LogOutput receives log records; nil writes through the hal logger.
	LogOutput io.Writer
	// BootHold overrides the boot banner hold; negative skips it.
	BootHold time.Duration
}

type system struct {
	k   *kernel.Kernel
	c   *controller.Controller
	log *slog.Logger
}

// New initializes and starts the system with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{Station: 1})
}

// Run starts the system and runs the foreground loop forever (TinyGo/native
// entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, Config{Station: 1})
}

// NewWithConfig starts the system and returns its loop step. The step runs
// one pass over every task.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s, err := newSystem(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return s.step
}

func RunWithConfig(h hal.HAL, cfg Config) {
	step := NewWithConfig(h, cfg)
	for {
		if err := step(); err != nil {
			if l := h.Logger(); l != nil {
				l.WriteLineString("c201: " + err.Error())
			}
			select {}
		}
		runtime.Gosched()
	}
}

func newLogger(h hal.HAL, cfg Config) *slog.Logger {
	w := cfg.LogOutput
	if w == nil {
		w = hal.LogWriter(h.Logger())
	}
	var level slog.LevelVar
	level.Set(cfg.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: &level,
	}))
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	ctx := context.Background()
	log := newLogger(h, cfg)
	log.LogAttrs(ctx, slog.LevelInfo, "start", slog.String("build", buildinfo.Short()))

	dev := controller.DevicesFromHAL(h)
	c, err := controller.New(dev, controller.Config{
		Station:  cfg.Station,
		BootHold: cfg.BootHold,
		Logger:   log,
	})
	if err != nil {
		log.LogAttrs(ctx, slog.LevelError, "controller", slog.Any("err", err))
		return nil, err
	}

	k := kernel.New()
	installPanicHandler(k, dev.Surface, log)
	for _, t := range c.Tasks() {
		k.AddTask(t)
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for ms := range ch {
					k.TickTo(ms)
				}
			}()
		}
	}

	if tm := h.Timer(); tm != nil {
		if err := tm.StartPeriodic(TickPeriod, c.Tick); err != nil {
			log.LogAttrs(ctx, slog.LevelError, "timer", slog.Any("err", err))
			return nil, err
		}
	}

	return &system{k: k, c: c, log: log}, nil
}

func (s *system) step() error {
	s.k.Step()
	return nil
}
