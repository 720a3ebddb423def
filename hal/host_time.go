//go:build !tinygo

package hal

import "time"

// hostTime publishes milliseconds elapsed since the first step. Ticks are
// produced from wall-clock time whenever the runner steps, so a slow frame
// yields a burst of ticks rather than a drift.
type hostTime struct {
	ch    chan uint64
	start time.Time
	last  uint64
	now   func() time.Time
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step() {
	now := t.now()
	if t.start.IsZero() {
		t.start = now
	}
	ms := uint64(now.Sub(t.start) / time.Millisecond)
	if ms == t.last && ms != 0 {
		return
	}
	t.last = ms

	// Only the latest value matters; replace a stale one.
	select {
	case t.ch <- ms:
	default:
		select {
		case <-t.ch:
		default:
		}
		select {
		case t.ch <- ms:
		default:
		}
	}
}
