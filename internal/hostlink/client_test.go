package hostlink

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"c201/firmware/command"
)

// replier answers parsed lines the way the firmware link does.
type replier struct{ out *[]byte }

func (r replier) reply(s string) { *r.out = append(*r.out, s+command.Terminator...) }

func (r replier) Write(cmd command.Write) {
	if cmd.Err != nil {
		r.reply(command.ReplyERR)
		return
	}
	r.reply(command.ReplyACK)
}
func (r replier) Load(command.Load)       { r.reply(command.ReplyACK) }
func (r replier) Ping()                   { r.reply(command.ReplyACK) }
func (r replier) Connect()                { r.reply(command.ReplyACK) }
func (r replier) Disconnect()             { r.reply(command.ReplyACK) }
func (r replier) Unknown(command.Unknown) {}

// fakePort is a controller on the other end of the wire.
type fakePort struct {
	mu     sync.Mutex
	reader command.Reader
	out    []byte
	lines  []string
	closed bool
	mute   bool
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := replier{out: &f.out}
	for _, b := range p {
		line, ok, err := f.reader.Push(b)
		if err != nil {
			r.reply(command.ReplyERR)
			continue
		}
		if !ok {
			continue
		}
		f.lines = append(f.lines, line)
		if !f.mute {
			command.Parse(line).Apply(r)
		}
	}
	return len(p), nil
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	n := copy(p, f.out)
	f.out = f.out[n:]
	f.mu.Unlock()
	if n == 0 {
		time.Sleep(time.Millisecond)
	}
	return n, nil
}

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePort) SetReadTimeout(time.Duration) error { return nil }

func (f *fakePort) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}

func TestSend(t *testing.T) {
	p := &fakePort{}
	c := New(p, nil)
	got, err := c.Send(context.Background(), "PING")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got != "ACK" {
		t.Fatalf("reply=%q, want ACK", got)
	}
	got, err = c.Send(context.Background(), "WRITE 256\r\n")
	if err != nil || got != "ERR" {
		t.Fatalf("reply=%q err=%v, want ERR", got, err)
	}
	if err := c.Close(); err != nil || !p.closed {
		t.Fatalf("Close err=%v closed=%v", err, p.closed)
	}
}

func TestSendNoReply(t *testing.T) {
	p := &fakePort{mute: true}
	c := New(p, nil)
	c.SetTimeout(30 * time.Millisecond)
	_, err := c.Send(context.Background(), "PING")
	if !errors.Is(err, ErrNoReply) {
		t.Fatalf("err=%v, want ErrNoReply", err)
	}
}

func TestSendCanceled(t *testing.T) {
	p := &fakePort{mute: true}
	c := New(p, nil)
	c.SetTimeout(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Send(ctx, "PING")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v, want deadline exceeded", err)
	}
}

func TestSendRejectsLongLine(t *testing.T) {
	c := New(&fakePort{}, nil)
	if err := c.Write(strings.Repeat("A", 64)); !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("err=%v, want ErrLineTooLong", err)
	}
}

func TestSelfTest(t *testing.T) {
	p := &fakePort{}
	c := New(p, nil)
	results := c.Run(context.Background(), SelfTest)
	if len(results) != len(SelfTest) {
		t.Fatalf("results=%d, want %d", len(results), len(SelfTest))
	}
	if n := Failed(results); n != 0 {
		t.Fatalf("failed=%d:\n%s", n, Report(results))
	}
	report := Report(results)
	if !strings.Contains(report, "8/8 passed") || !strings.Contains(report, "WRITE 300") {
		t.Fatalf("report:\n%s", report)
	}
}

func TestSelfTestReportsMismatch(t *testing.T) {
	c := New(&fakePort{}, nil)
	results := c.Run(context.Background(), []Step{{"WRITE 300", "ACK"}})
	if Failed(results) != 1 {
		t.Fatalf("mismatch passed: %+v", results)
	}
	report := Report(results)
	if !strings.Contains(report, `got "ERR", want "ACK"`) || !strings.Contains(report, "1/1 failed") {
		t.Fatalf("report:\n%s", report)
	}
}

func TestMonitor(t *testing.T) {
	p := &fakePort{}
	c := New(p, nil)
	samples := []float64{12.4, 72.6, 150}
	i := 0
	sample := func(context.Context) (float64, error) {
		v := samples[i]
		i++
		return v, nil
	}
	if err := c.Monitor(context.Background(), sample, len(samples)); err != nil {
		t.Fatalf("Monitor: %v", err)
	}
	want := []string{"LOAD 12", "LOAD 73", "LOAD 100"}
	got := p.sent()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("sent=%q, want %q", got, want)
	}
}

func TestMonitorSampleError(t *testing.T) {
	c := New(&fakePort{}, nil)
	boom := errors.New("boom")
	err := c.Monitor(context.Background(), func(context.Context) (float64, error) { return 0, boom }, 1)
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want boom", err)
	}
}

func TestHeartbeat(t *testing.T) {
	p := &fakePort{}
	c := New(p, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	err := c.Heartbeat(ctx, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v", err)
	}
	sent := p.sent()
	if len(sent) < 2 {
		t.Fatalf("sent=%q, want at least two pings", sent)
	}
	for _, l := range sent {
		if l != "PING" {
			t.Fatalf("sent %q", l)
		}
	}
}

func TestLoadLine(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{-3, "LOAD 0"},
		{0, "LOAD 0"},
		{49.5, "LOAD 50"},
		{84.4, "LOAD 84"},
		{100.2, "LOAD 100"},
	}
	for _, tt := range tests {
		if got := LoadLine(tt.pct); got != tt.want {
			t.Errorf("LoadLine(%v)=%q, want %q", tt.pct, got, tt.want)
		}
	}
}
