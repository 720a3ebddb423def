package controller

import (
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"

	"c201/firmware/countdown"
	"c201/firmware/kernel"
	"c201/firmware/rgb"
	"c201/hal"
)

type fakeSurface struct {
	texts   []string
	flushes int
}

func (s *fakeSurface) FillScreen(color.RGBA)                           { s.texts = nil }
func (s *fakeSurface) FillRect(int16, int16, int16, int16, color.RGBA) {}
func (s *fakeSurface) HLine(int16, int16, int16, color.RGBA)           {}
func (s *fakeSurface) Text(_, _ int16, _ uint8, _ color.RGBA, t string) {
	s.texts = append(s.texts, t)
}
func (s *fakeSurface) Flush() error { s.flushes++; return nil }

func (s *fakeSurface) has(t string) bool {
	for _, x := range s.texts {
		if x == t {
			return true
		}
	}
	return false
}

// last returns whichever of candidates was drawn most recently.
func (s *fakeSurface) last(candidates ...string) string {
	for i := len(s.texts) - 1; i >= 0; i-- {
		for _, c := range candidates {
			if s.texts[i] == c {
				return c
			}
		}
	}
	return ""
}

type fakeStrip struct {
	pixels []color.RGBA
}

func (s *fakeStrip) Len() int            { return 8 }
func (s *fakeStrip) SetBrightness(uint8) {}
func (s *fakeStrip) WriteColors(buf []color.RGBA) error {
	s.pixels = append(s.pixels[:0], buf...)
	return nil
}

func (s *fakeStrip) all(c color.RGBA) bool {
	if len(s.pixels) != 8 {
		return false
	}
	for _, p := range s.pixels {
		if p != c {
			return false
		}
	}
	return true
}

func (s *fakeStrip) lit() int {
	var n int
	for _, p := range s.pixels {
		if p.R != 0 || p.G != 0 || p.B != 0 {
			n++
		}
	}
	return n
}

type fakeSerial struct {
	rx []byte
	tx strings.Builder
}

func (s *fakeSerial) Buffered() int { return len(s.rx) }
func (s *fakeSerial) ReadByte() (byte, error) {
	if len(s.rx) == 0 {
		return 0, errors.New("empty")
	}
	b := s.rx[0]
	s.rx = s.rx[1:]
	return b, nil
}
func (s *fakeSerial) Write(p []byte) (int, error) { return s.tx.Write(p) }

type fakeEEPROM struct {
	cell   byte
	failWr bool
}

func (e *fakeEEPROM) SizeBytes() uint32               { return 1 }
func (e *fakeEEPROM) ReadByteAt(uint32) (byte, error) { return e.cell, nil }
func (e *fakeEEPROM) WriteByteAt(_ uint32, b byte) error {
	if e.failWr {
		return errors.New("write failed")
	}
	e.cell = b
	return nil
}

type fakeLED struct{ on bool }

func (l *fakeLED) High() { l.on = true }
func (l *fakeLED) Low()  { l.on = false }

type fakePin struct{ pressed bool }

func (p *fakePin) Name() string                               { return "key" }
func (p *fakePin) Caps() hal.GPIOCaps                         { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *fakePin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }
func (p *fakePin) Read() (bool, error)                        { return !p.pressed, nil }
func (p *fakePin) Write(bool) error                           { return hal.ErrNotImplemented }

type harness struct {
	t     *testing.T
	k     *kernel.Kernel
	c     *Controller
	surf  *fakeSurface
	strip *fakeStrip
	ser   *fakeSerial
	ee    *fakeEEPROM
	led   *fakeLED
	pins  [hal.ButtonCount]*fakePin
	now   uint64
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		k:     kernel.New(),
		surf:  &fakeSurface{},
		strip: &fakeStrip{},
		ser:   &fakeSerial{},
		ee:    &fakeEEPROM{cell: 7},
		led:   &fakeLED{},
	}
	dev := Devices{
		Surface:   h.surf,
		Strip:     h.strip,
		Serial:    h.ser,
		EEPROM:    h.ee,
		Indicator: h.led,
	}
	for b := range h.pins {
		h.pins[b] = &fakePin{}
		dev.Buttons[b] = h.pins[b]
	}
	if cfg.BootHold == 0 {
		cfg.BootHold = -1
	}
	c, err := New(dev, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.c = c
	for _, task := range c.Tasks() {
		h.k.AddTask(task)
	}
	h.step(1)
	return h
}

func (h *harness) step(ms int) {
	h.now += uint64(ms)
	h.k.TickTo(h.now)
	h.k.Step()
}

func (h *harness) press(b hal.Button) {
	h.pins[b].pressed = true
	h.step(250)
	h.pins[b].pressed = false
	h.step(1)
}

func (h *harness) send(s string) {
	h.ser.rx = append(h.ser.rx, s...)
	h.step(1)
}

func (h *harness) replies() []string {
	out := strings.Split(h.ser.tx.String(), "\r\n")
	h.ser.tx.Reset()
	return out[:len(out)-1]
}

func (h *harness) open(m MenuState) {
	h.t.Helper()
	for h.c.Cursor != int(m)-1 {
		h.press(hal.ButtonDown)
	}
	h.press(hal.ButtonEnter)
	if h.c.Menu != m {
		h.t.Fatalf("Menu=%v, want %v", h.c.Menu, m)
	}
}

func TestBootHoldsBanner(t *testing.T) {
	h := newHarness(t, Config{BootHold: 2 * time.Second})
	if !h.c.Booting() || !h.surf.has("TCIVS") || !h.surf.has("C201") {
		t.Fatalf("booting=%v texts=%q", h.c.Booting(), h.surf.texts)
	}

	h.pins[hal.ButtonEnter].pressed = true
	h.step(1000)
	if h.c.Menu != Main || !h.surf.has("TCIVS") {
		t.Fatal("input handled during boot")
	}
	h.pins[hal.ButtonEnter].pressed = false

	h.step(1000)
	if h.c.Booting() {
		t.Fatal("still booting after 2s")
	}
	if !h.surf.has("MENU") || !h.surf.has("1.Connect to BLE") {
		t.Fatalf("texts=%q", h.surf.texts)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	h := newHarness(t, Config{})
	for p := 0; p < 4; p++ {
		for h.c.Cursor != p {
			h.press(hal.ButtonDown)
		}
		h.press(hal.ButtonUp)
		h.press(hal.ButtonDown)
		if h.c.Cursor != p {
			t.Fatalf("Up,Down from %d ended at %d", p, h.c.Cursor)
		}
		h.press(hal.ButtonDown)
		h.press(hal.ButtonUp)
		if h.c.Cursor != p {
			t.Fatalf("Down,Up from %d ended at %d", p, h.c.Cursor)
		}
	}
	h.press(hal.ButtonReturn)
	if h.c.Menu != Main || h.c.InSubmenu() {
		t.Fatal("Return on the root menu must be ignored")
	}
}

func TestEnterMapsCursor(t *testing.T) {
	for _, m := range []MenuState{ConnectBLE, RGBOffline, Countdown, EEPROM} {
		h := newHarness(t, Config{})
		h.open(m)
		if !h.c.InSubmenu() {
			t.Fatalf("%v: submenu flag not set", m)
		}
		h.press(hal.ButtonReturn)
		if h.c.Menu != Main || h.c.InSubmenu() {
			t.Fatalf("%v: Return did not reach the root menu", m)
		}
		if !h.surf.has("MENU") {
			t.Fatalf("%v: root menu not redrawn", m)
		}
	}
}

func TestCountdownRunsToFinish(t *testing.T) {
	h := newHarness(t, Config{})
	h.open(Countdown)
	if !h.surf.has("00:00:10") || !h.surf.has("RUNNING") {
		t.Fatalf("texts=%q", h.surf.texts)
	}

	prev := h.c.Countdown.Remaining()
	for i := 0; i < 15; i++ {
		h.c.Tick()
		h.step(1)
		got := h.c.Countdown.Remaining()
		if got > prev || got < 0 || got > countdown.StartSeconds {
			t.Fatalf("tick %d: remaining %d after %d", i, got, prev)
		}
		if i == 9 && got != 0 {
			t.Fatalf("remaining=%d after 10 ticks", got)
		}
		prev = got
	}
	if !h.surf.has("00:00:00") || !h.surf.has("FINISH!") {
		t.Fatalf("texts=%q", h.surf.texts)
	}

	for i := 0; i < countdown.FinishSteps; i++ {
		h.step(300)
	}
	if !h.strip.all(countdown.Highlight) {
		t.Fatalf("strip=%v, want highlight", h.strip.pixels)
	}

	h.press(hal.ButtonReturn)
	if h.strip.lit() != 0 {
		t.Fatal("Return did not clear the strip")
	}
}

func TestCountdownPauseFreezes(t *testing.T) {
	h := newHarness(t, Config{})
	h.open(Countdown)
	h.c.Tick()
	h.c.Tick()
	h.step(1)

	h.press(hal.ButtonEnter)
	if !h.c.Countdown.Paused() || h.surf.last("PAUSED", "RUNNING") != "PAUSED" {
		t.Fatal("Enter did not pause")
	}
	for i := 0; i < 5; i++ {
		h.c.Tick()
	}
	h.step(1)
	if got := h.c.Countdown.Remaining(); got != 8 {
		t.Fatalf("remaining=%d while paused, want 8", got)
	}

	h.press(hal.ButtonEnter)
	h.c.Tick()
	h.step(1)
	if got := h.c.Countdown.Remaining(); got != 7 {
		t.Fatalf("remaining=%d after resume, want 7", got)
	}
	if !h.surf.has("00:00:07") || h.surf.last("PAUSED", "RUNNING") != "RUNNING" {
		t.Fatalf("texts=%q", h.surf.texts)
	}
}

func TestReturnStopsCountdown(t *testing.T) {
	h := newHarness(t, Config{})
	h.open(Countdown)
	h.press(hal.ButtonReturn)
	h.c.Tick()
	if got := h.c.Countdown.Remaining(); got != countdown.StartSeconds {
		t.Fatalf("countdown kept running after Return: %d", got)
	}
}

func TestWriteAndEEPROMScreen(t *testing.T) {
	h := newHarness(t, Config{})
	h.send("WRITE 200\n")
	if got := h.replies(); len(got) != 1 || got[0] != "ACK" {
		t.Fatalf("replies=%q", got)
	}
	if h.ee.cell != 200 {
		t.Fatalf("cell=%d", h.ee.cell)
	}

	h.open(EEPROM)
	if !h.surf.has("200") {
		t.Fatalf("texts=%q", h.surf.texts)
	}

	h.send("WRITE 300\r")
	if got := h.replies(); len(got) != 1 || got[0] != "ERR" {
		t.Fatalf("replies=%q", got)
	}
	if v, ok := h.c.Store.Value(); v != 200 || !ok || h.ee.cell != 200 {
		t.Fatalf("value=%d,%v cell=%d", v, ok, h.ee.cell)
	}

	h.send("WRITE 42\n")
	h.replies()
	if !h.surf.has("42") || h.surf.has("200") {
		t.Fatalf("EEPROM screen not redrawn: %q", h.surf.texts)
	}
}

func TestWriteFailureRepliesERR(t *testing.T) {
	h := newHarness(t, Config{})
	h.ee.failWr = true
	h.send("WRITE 1\n")
	if got := h.replies(); len(got) != 1 || got[0] != "ERR" {
		t.Fatalf("replies=%q", got)
	}
}

func TestEEPROMScreenShowsLoadedValue(t *testing.T) {
	h := newHarness(t, Config{})
	h.open(EEPROM)
	if !h.surf.has("7") || !h.surf.has("(Decimal Value)") {
		t.Fatalf("texts=%q", h.surf.texts)
	}
}

func TestLoadBands(t *testing.T) {
	h := newHarness(t, Config{})
	for _, tc := range []struct {
		line string
		want color.RGBA
	}{
		{"LOAD 30", rgb.Green},
		{"LOAD 70", rgb.Yellow},
		{"LOAD 95", rgb.Red},
		{"LOAD junk", rgb.Green},
	} {
		h.send(tc.line + "\n")
		if got := h.replies(); len(got) != 1 || got[0] != "ACK" {
			t.Fatalf("%s: replies=%q", tc.line, got)
		}
		if !h.strip.all(tc.want) {
			t.Fatalf("%s: strip=%v", tc.line, h.strip.pixels)
		}
	}
}

func TestOverlongLine(t *testing.T) {
	h := newHarness(t, Config{})
	h.send(strings.Repeat("A", 70))
	if got := h.replies(); len(got) != 1 || got[0] != "ERR" {
		t.Fatalf("replies=%q", got)
	}
	if h.c.reader.Len() != 0 {
		t.Fatalf("buffer holds %d bytes", h.c.reader.Len())
	}
	h.send("\nPING\n")
	if got := h.replies(); len(got) != 1 || got[0] != "ACK" {
		t.Fatalf("replies after overflow=%q", got)
	}
}

func TestUnknownLineIgnored(t *testing.T) {
	h := newHarness(t, Config{})
	h.send("FOO\n")
	before := h.c.State.Menu
	if got := h.replies(); len(got) != 0 {
		t.Fatalf("replies=%q", got)
	}
	if h.c.Menu != before || h.c.reader.Len() != 0 {
		t.Fatal("unknown line changed state")
	}
	if v, ok := h.c.Store.Value(); v != 7 || !ok {
		t.Fatalf("value=%d,%v", v, ok)
	}
	h.send("PING\n")
	if got := h.replies(); len(got) != 1 || got[0] != "ACK" {
		t.Fatalf("replies=%q", got)
	}
}

func TestLinkStatusAndTimeout(t *testing.T) {
	h := newHarness(t, Config{})
	h.open(ConnectBLE)
	if h.surf.last("Connected", "Disconnect") != "Disconnect" {
		t.Fatalf("texts=%q", h.surf.texts)
	}

	h.send("x")
	if !h.c.Connected || h.surf.last("Connected", "Disconnect") != "Connected" {
		t.Fatal("any byte should mark the link connected")
	}
	h.send("\nLOAD 90\n")
	h.replies()

	h.step(5000)
	if !h.c.Connected {
		t.Fatal("dropped at exactly 5000ms")
	}
	h.step(1)
	if h.c.Connected {
		t.Fatal("still connected after 5001ms of silence")
	}
	if h.surf.last("Connected", "Disconnect") != "Disconnect" {
		t.Fatalf("texts=%q", h.surf.texts)
	}
	if h.strip.lit() != 0 {
		t.Fatal("timeout did not clear the strip")
	}
}

func TestTimeoutOnlyOnBLEScreen(t *testing.T) {
	h := newHarness(t, Config{})
	h.send("PING\n")
	h.step(10000)
	if !h.c.Connected {
		t.Fatal("timeout evaluated outside the BLE screen")
	}
}

func TestConnectDisconnect(t *testing.T) {
	h := newHarness(t, Config{})
	h.open(ConnectBLE)
	h.send("CONNECT\n")
	h.send("LOAD 60\n")
	h.send("DISCONNECT\n")
	if got := strings.Join(h.replies(), ","); got != "ACK,ACK,ACK" {
		t.Fatalf("replies=%s", got)
	}
	if h.c.Connected {
		t.Fatal("DISCONNECT left the link connected")
	}
	if h.surf.last("Connected", "Disconnect") != "Disconnect" {
		t.Fatalf("texts=%q", h.surf.texts)
	}
	if h.strip.lit() != 0 {
		t.Fatal("DISCONNECT did not clear the strip")
	}
}

func TestRGBSequence(t *testing.T) {
	h := newHarness(t, Config{})
	h.open(RGBOffline)
	if h.c.Pattern != rgb.PatternRed || !h.surf.has("Red") || !h.surf.has("3 LEDs Blink") {
		t.Fatalf("pattern=%v texts=%q", h.c.Pattern, h.surf.texts)
	}

	lit := map[int]bool{}
	for i := 0; i < 4; i++ {
		h.step(300)
		lit[h.strip.lit()] = true
	}
	if !lit[3] || !lit[0] {
		t.Fatalf("red pattern did not blink 3 LEDs: %v", lit)
	}

	for i := 0; i < 3; i++ {
		h.press(hal.ButtonDown)
	}
	if h.c.Pattern != rgb.PatternGradient || !h.surf.has("Gradient") {
		t.Fatalf("pattern=%v texts=%q", h.c.Pattern, h.surf.texts)
	}
	h.step(1)
	if h.strip.lit() != 8 {
		t.Fatalf("gradient lit=%d", h.strip.lit())
	}

	h.press(hal.ButtonReturn)
	if h.c.Menu != Main || h.strip.lit() != 0 {
		t.Fatalf("menu=%v lit=%d", h.c.Menu, h.strip.lit())
	}

	h.open(RGBOffline)
	if h.c.Pattern != rgb.PatternRed || !h.surf.has("Red") {
		t.Fatal("re-entering did not reset the pattern")
	}
}

func TestIgnoredKeysInSubmenus(t *testing.T) {
	h := newHarness(t, Config{})
	h.open(EEPROM)
	h.press(hal.ButtonUp)
	h.press(hal.ButtonEnter)
	if h.c.Menu != EEPROM || h.c.Cursor != 3 {
		t.Fatalf("menu=%v cursor=%d", h.c.Menu, h.c.Cursor)
	}
}

func TestIndicatorBlinks(t *testing.T) {
	h := newHarness(t, Config{})
	h.step(499)
	if h.led.on {
		t.Fatal("toggled at 500ms")
	}
	h.step(1)
	if !h.led.on {
		t.Fatal("not toggled after 500ms")
	}
	h.step(501)
	if h.led.on {
		t.Fatal("not toggled off")
	}
}

func TestAdvertiseName(t *testing.T) {
	for _, tc := range []struct {
		station int
		want    string
	}{
		{1, "ODD-01-0001"},
		{2, "EVEN-02-0010"},
		{13, "ODD-13-1101"},
		{20, "EVEN-20-0100"},
	} {
		if got := AdvertiseName(tc.station); got != tc.want {
			t.Fatalf("AdvertiseName(%d)=%q, want %q", tc.station, got, tc.want)
		}
	}
}

func TestNewRequiresDevices(t *testing.T) {
	if _, err := New(Devices{}, Config{}); err == nil {
		t.Fatal("expected error without a display")
	}
}
