package screen

import (
	"image/color"
	"strings"
	"testing"
)

type textOp struct {
	x, y int16
	size uint8
	c    color.RGBA
	s    string
}

type rectOp struct {
	x, y, w, h int16
	c          color.RGBA
}

// recorder is a Surface that keeps every call.
type recorder struct {
	fills   []color.RGBA
	rects   []rectOp
	texts   []textOp
	flushes int
}

func (r *recorder) FillScreen(c color.RGBA) {
	r.fills = append(r.fills, c)
	r.texts = nil
	r.rects = nil
}
func (r *recorder) FillRect(x, y, w, h int16, c color.RGBA) {
	r.rects = append(r.rects, rectOp{x, y, w, h, c})
}
func (r *recorder) HLine(x, y, w int16, c color.RGBA) { r.FillRect(x, y, w, 1, c) }
func (r *recorder) Text(x, y int16, size uint8, c color.RGBA, s string) {
	r.texts = append(r.texts, textOp{x, y, size, c, s})
}
func (r *recorder) Flush() error { r.flushes++; return nil }

func (r *recorder) find(s string) (textOp, bool) {
	for _, t := range r.texts {
		if t.s == s {
			return t, true
		}
	}
	return textOp{}, false
}

func TestMainMenuHighlightsCursor(t *testing.T) {
	for cursor := 0; cursor < 4; cursor++ {
		var r recorder
		MainMenu(&r, cursor)

		var hl []rectOp
		for _, op := range r.rects {
			if op.c == Blue {
				hl = append(hl, op)
			}
		}
		if len(hl) != 1 {
			t.Fatalf("cursor %d: %d highlight rects", cursor, len(hl))
		}
		if want := int16(22 + cursor*20); hl[0].y != want || hl[0].w != Width || hl[0].h != 18 {
			t.Fatalf("cursor %d: highlight=%+v", cursor, hl[0])
		}
		arrow, ok := r.find(">")
		if !ok || arrow.y != int16(25+cursor*20) {
			t.Fatalf("cursor %d: arrow=%+v ok=%v", cursor, arrow, ok)
		}
		for _, item := range MenuItems {
			if _, ok := r.find(item); !ok {
				t.Fatalf("missing item %q", item)
			}
		}
	}
}

func TestBLEStatusLabels(t *testing.T) {
	var r recorder
	BLE(&r, true)
	if op, ok := r.find("Connected"); !ok || op.c != Green || op.size != 2 {
		t.Fatalf("connected label=%+v ok=%v", op, ok)
	}

	r = recorder{}
	BLEStatus(&r, false)
	if len(r.fills) != 0 {
		t.Fatal("status redraw must not clear the screen")
	}
	if len(r.rects) != 1 || r.rects[0] != (rectOp{20, 40, 120, 20, Black}) {
		t.Fatalf("status clear=%+v", r.rects)
	}
	if op, ok := r.find("Disconnect"); !ok || op.c != Red {
		t.Fatalf("disconnect label=%+v ok=%v", op, ok)
	}
}

func TestEEPROMScreen(t *testing.T) {
	var r recorder
	EEPROM(&r, 200, true)
	if op, ok := r.find("200"); !ok || op.c != Green || op.size != 3 {
		t.Fatalf("value=%+v ok=%v", op, ok)
	}
	if _, ok := r.find("(Decimal Value)"); !ok {
		t.Fatal("missing decimal hint")
	}

	r = recorder{}
	EEPROM(&r, 0, false)
	if op, ok := r.find("ERR"); !ok || op.c != Red {
		t.Fatalf("error label=%+v ok=%v", op, ok)
	}
	if _, ok := r.find("Error: EEPROM"); !ok {
		t.Fatal("missing error hint")
	}
}

func TestCountdownAndFinish(t *testing.T) {
	var r recorder
	Countdown(&r, "00:00:10", false)
	if _, ok := r.find("00:00:10"); !ok {
		t.Fatal("missing clock")
	}
	if _, ok := r.find("RUNNING"); !ok {
		t.Fatal("missing RUNNING")
	}
	Countdown(&r, "00:00:07", true)
	if op, ok := r.find("PAUSED"); !ok || op.c != Yellow {
		t.Fatalf("paused=%+v ok=%v", op, ok)
	}
	Finish(&r)
	if op, ok := r.find("FINISH!"); !ok || op.c != Magenta || op.size != 2 {
		t.Fatalf("finish=%+v ok=%v", op, ok)
	}
}

func TestPanicWrapsAndClips(t *testing.T) {
	var r recorder
	long := strings.Repeat("x", panicCols*2+3)
	lines := []string{"panic:", long}
	for i := 0; i < 20; i++ {
		lines = append(lines, "frame")
	}
	Panic(&r, lines)

	if r.fills[0] != White {
		t.Fatalf("background=%v", r.fills[0])
	}
	if len(r.texts) != Height/panicLineHeight {
		t.Fatalf("rows=%d", len(r.texts))
	}
	if got := r.texts[1].s; len(got) != panicCols {
		t.Fatalf("first wrapped row has %d chars", len(got))
	}
	if got := r.texts[3].s; got != "xxx" {
		t.Fatalf("wrap tail=%q", got)
	}
}

// pixelDisplay is a hal.Display backed by a map.
type pixelDisplay struct {
	w, h   int16
	px     map[[2]int16]color.RGBA
	frames int
}

func newPixelDisplay() *pixelDisplay {
	return &pixelDisplay{w: Width, h: Height, px: map[[2]int16]color.RGBA{}}
}

func (d *pixelDisplay) Size() (int16, int16) { return d.w, d.h }
func (d *pixelDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return
	}
	d.px[[2]int16{x, y}] = c
}
func (d *pixelDisplay) Display() error { d.frames++; return nil }
func (d *pixelDisplay) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			d.SetPixel(xx, yy, c)
		}
	}
	return nil
}

func (d *pixelDisplay) count(c color.RGBA) (n int, minY, maxY int16) {
	minY, maxY = d.h, -1
	for p, v := range d.px {
		if v != c {
			continue
		}
		n++
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
	}
	return n, minY, maxY
}

func TestTFTTextScales(t *testing.T) {
	d1 := newPixelDisplay()
	NewTFT(d1).Text(10, 10, 1, White, "C201")
	n1, _, _ := d1.count(White)
	if n1 == 0 {
		t.Fatal("size 1 text drew nothing")
	}

	d2 := newPixelDisplay()
	NewTFT(d2).Text(10, 10, 2, White, "C201")
	n2, _, _ := d2.count(White)
	if n2 != 4*n1 {
		t.Fatalf("size 2 pixels=%d, want %d", n2, 4*n1)
	}
}

func TestTFTFillAndFlush(t *testing.T) {
	d := newPixelDisplay()
	tft := NewTFT(d)
	tft.FillScreen(Blue)
	if n, _, _ := d.count(Blue); n != Width*Height {
		t.Fatalf("filled %d pixels", n)
	}
	tft.HLine(0, 17, Width, White)
	if n, y0, y1 := d.count(White); n != Width || y0 != 17 || y1 != 17 {
		t.Fatalf("hline n=%d y=%d..%d", n, y0, y1)
	}
	if err := tft.Flush(); err != nil || d.frames != 1 {
		t.Fatalf("Flush err=%v frames=%d", err, d.frames)
	}
}
