package controller

import (
	"errors"
	"log/slog"

	"c201/firmware/command"
	"c201/firmware/rgb"
	"c201/firmware/screen"
)

var _ command.Handler = (*Controller)(nil)

// pollLink drains the bytes the serial port has buffered.
func (c *Controller) pollLink() {
	if c.serial.Buffered() <= 0 {
		return
	}
	c.LastActivity = c.now
	c.setConnected(true)

	for c.serial.Buffered() > 0 {
		b, err := c.serial.ReadByte()
		if err != nil {
			c.log.LogAttrs(c.ctx, slog.LevelWarn, "link read", slog.Any("err", err))
			return
		}
		line, ok, err := c.reader.Push(b)
		if errors.Is(err, command.ErrOverflow) {
			c.log.LogAttrs(c.ctx, slog.LevelWarn, "link", slog.Any("err", err))
			c.reply(command.ReplyERR)
			continue
		}
		if !ok {
			continue
		}
		c.log.LogAttrs(c.ctx, slog.LevelInfo, "rx", slog.String("line", line))
		command.Parse(line).Apply(c)
	}
}

func (c *Controller) reply(s string) {
	if _, err := c.serial.Write([]byte(s + command.Terminator)); err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "link write", slog.Any("err", err))
	}
}

// setConnected updates the link flag and the BLE status line when it flips.
func (c *Controller) setConnected(on bool) {
	if c.Connected == on {
		return
	}
	c.Connected = on
	c.log.LogAttrs(c.ctx, slog.LevelInfo, "link", slog.Bool("connected", on))
	if c.Menu == ConnectBLE {
		c.drawStatus()
	}
}

func (c *Controller) drawStatus() {
	on := c.Connected
	c.redraw(func(s screen.Surface) { screen.BLEStatus(s, on) })
}

// checkLiveness drops a connection that has been silent too long.
func (c *Controller) checkLiveness() {
	if !c.Connected || c.now-c.LastActivity <= c.cfg.LinkTimeout {
		return
	}
	c.log.LogAttrs(c.ctx, slog.LevelInfo, "link timeout", slog.Duration("idle", c.now-c.LastActivity))
	c.setConnected(false)
	c.clearStrip()
}

func (c *Controller) clearStrip() {
	if err := c.leds.Clear(); err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "strip", slog.Any("err", err))
	}
}

func (c *Controller) Write(cmd command.Write) {
	if cmd.Err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "write", slog.Any("err", cmd.Err))
		c.reply(command.ReplyERR)
		return
	}
	if err := c.Store.Set(cmd.Value); err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "write", slog.Any("err", err))
		c.reply(command.ReplyERR)
		return
	}
	c.log.LogAttrs(c.ctx, slog.LevelInfo, "write", slog.Int("value", cmd.Value))
	c.reply(command.ReplyACK)
	if c.Menu == EEPROM {
		c.drawEEPROM()
	}
}

func (c *Controller) Load(cmd command.Load) {
	c.log.LogAttrs(c.ctx, slog.LevelInfo, "load", slog.Int("value", cmd.Value))
	if err := c.leds.Fill(rgb.LoadColor(cmd.Value)); err != nil {
		c.log.LogAttrs(c.ctx, slog.LevelWarn, "strip", slog.Any("err", err))
	}
	c.reply(command.ReplyACK)
}

func (c *Controller) Ping() {
	c.setConnected(true)
	c.reply(command.ReplyACK)
}

func (c *Controller) Connect() {
	c.setConnected(true)
	c.reply(command.ReplyACK)
	if c.Menu == ConnectBLE {
		c.drawStatus()
	}
}

func (c *Controller) Disconnect() {
	c.Connected = false
	c.log.LogAttrs(c.ctx, slog.LevelInfo, "link", slog.Bool("connected", false))
	c.reply(command.ReplyACK)
	if c.Menu == ConnectBLE {
		c.drawStatus()
	}
	c.clearStrip()
}

func (c *Controller) Unknown(cmd command.Unknown) {
	c.log.LogAttrs(c.ctx, slog.LevelDebug, "ignored", slog.String("line", cmd.Line))
}
