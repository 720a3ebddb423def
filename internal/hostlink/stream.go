package hostlink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// Heartbeat sends PING every interval until ctx ends. A PING keeps the
// controller's link alive; a missing reply is logged, not fatal.
func (c *Client) Heartbeat(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		reply, err := c.Send(ctx, "PING")
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.LogAttrs(ctx, slog.LevelWarn, "heartbeat", slog.Any("err", err))
		} else {
			c.log.LogAttrs(ctx, slog.LevelInfo, "heartbeat", slog.String("reply", reply))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Sampler returns a load percentage. It may block to measure.
type Sampler func(ctx context.Context) (float64, error)

// CPUSampler measures total CPU usage over interval.
func CPUSampler(interval time.Duration) Sampler {
	return func(ctx context.Context) (float64, error) {
		pct, err := cpu.PercentWithContext(ctx, interval, false)
		if err != nil {
			return 0, err
		}
		if len(pct) == 0 {
			return 0, fmt.Errorf("hostlink: no cpu sample")
		}
		return pct[0], nil
	}
}

// Monitor streams LOAD lines from sample until ctx ends or count lines were
// sent. A zero count runs forever.
func (c *Client) Monitor(ctx context.Context, sample Sampler, count int) error {
	for sent := 0; count == 0 || sent < count; sent++ {
		pct, err := sample(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("hostlink: sample: %w", err)
		}
		line := LoadLine(pct)
		reply, err := c.Send(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.LogAttrs(ctx, slog.LevelWarn, "monitor", slog.Any("err", err))
			continue
		}
		c.log.LogAttrs(ctx, slog.LevelInfo, "monitor", slog.String("sent", line), slog.String("reply", reply))
	}
	return nil
}

// LoadLine formats a percentage as a LOAD command, clamped to 0..100.
func LoadLine(pct float64) string {
	v := int(pct + 0.5)
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return fmt.Sprintf("LOAD %d", v)
}
