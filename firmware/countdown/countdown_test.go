package countdown

import (
	"sync"
	"testing"
	"time"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestTickCountsDownToZero(t *testing.T) {
	var c Counter
	c.Reset()
	for i := 0; i < 15; i++ {
		c.Tick()
	}
	if got := c.Remaining(); got != 0 {
		t.Fatalf("Remaining=%d", got)
	}
}

func TestTickIgnoredWhenPausedOrStopped(t *testing.T) {
	var c Counter
	c.Tick()
	if got := c.Remaining(); got != 0 {
		t.Fatalf("idle Remaining=%d", got)
	}

	c.Reset()
	c.Tick()
	if !c.TogglePause() {
		t.Fatal("expected paused")
	}
	c.Tick()
	c.Tick()
	if got := c.Remaining(); got != 9 {
		t.Fatalf("Remaining=%d after pause, want 9", got)
	}
	if c.TogglePause() {
		t.Fatal("expected resumed")
	}
	c.Tick()
	if got := c.Remaining(); got != 8 {
		t.Fatalf("Remaining=%d after resume, want 8", got)
	}

	c.Stop()
	c.Tick()
	if got := c.Remaining(); got != 8 {
		t.Fatalf("Remaining=%d after stop, want 8", got)
	}
}

func TestConcurrentTicksNeverUnderflow(t *testing.T) {
	var c Counter
	c.Reset()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c.Tick()
			}
		}()
	}
	wg.Wait()
	if got := c.Remaining(); got != 0 {
		t.Fatalf("Remaining=%d", got)
	}
}

func TestFinishAnimation(t *testing.T) {
	var c Counter
	c.Reset()
	for i := 0; i < StartSeconds; i++ {
		c.Tick()
	}

	finished, frame := c.Update(ms(10000))
	if !finished || frame != FrameNone {
		t.Fatalf("Update=%v,%v", finished, frame)
	}
	if c.Running() || !c.Finished() || !c.Animating() {
		t.Fatalf("running=%v finished=%v animating=%v", c.Running(), c.Finished(), c.Animating())
	}

	if _, frame := c.Update(ms(10299)); frame != FrameNone {
		t.Fatalf("toggle before 300ms: %v", frame)
	}

	want := []Frame{FrameOn, FrameOff, FrameOn, FrameOff, FrameOn, FrameOn}
	now := 10000
	for i, w := range want {
		now += 300
		finished, frame := c.Update(ms(now))
		if finished {
			t.Fatalf("step %d: finished reported twice", i)
		}
		if frame != w {
			t.Fatalf("step %d: frame=%v, want %v", i, frame, w)
		}
	}
	if c.Animating() {
		t.Fatal("animation should stop after 6 steps")
	}
	if _, frame := c.Update(ms(now + 1000)); frame != FrameNone {
		t.Fatalf("frame after animation=%v", frame)
	}
}

func TestResetClearsFinish(t *testing.T) {
	var c Counter
	c.Reset()
	for i := 0; i < StartSeconds; i++ {
		c.Tick()
	}
	c.Update(0)
	c.Reset()

	st := c.Status()
	if st != (Status{Remaining: StartSeconds}) {
		t.Fatalf("Status=%+v", st)
	}
	if !c.Running() || c.Animating() {
		t.Fatal("expected a fresh running countdown")
	}
}

func TestStopHaltsAnimation(t *testing.T) {
	var c Counter
	c.Reset()
	for i := 0; i < StartSeconds; i++ {
		c.Tick()
	}
	c.Update(0)
	c.Stop()
	if _, frame := c.Update(ms(5000)); frame != FrameNone {
		t.Fatalf("frame after stop=%v", frame)
	}
}

func TestClock(t *testing.T) {
	for _, tc := range []struct {
		in   int
		want string
	}{
		{10, "00:00:10"},
		{0, "00:00:00"},
		{9, "00:00:09"},
		{75, "00:01:15"},
		{-3, "00:00:00"},
	} {
		if got := Clock(tc.in); got != tc.want {
			t.Fatalf("Clock(%d)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
