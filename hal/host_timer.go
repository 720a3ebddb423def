//go:build !tinygo

package hal

import (
	"errors"
	"sync"
	"time"
)

// hostTimer emulates a free-running hardware timer with an overflow interrupt.
type hostTimer struct {
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func (t *hostTimer) StartPeriodic(period time.Duration, fn func()) error {
	if period <= 0 {
		return errors.New("timer: period must be positive")
	}
	if fn == nil {
		return errors.New("timer: nil callback")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return errors.New("timer: already running")
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop = stop
	t.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return nil
}

func (t *hostTimer) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}
