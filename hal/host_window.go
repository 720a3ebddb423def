//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"c201/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowStripRow   = 24
	windowLEDSpacing = 18
	windowLEDRadius  = 6
)

var (
	windowLEDOff      = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
	windowIndicatorOn = color.RGBA{R: 0xFF, G: 0x20, B: 0x20, A: 0xFF}
)

// WindowConfig controls the desktop simulator window.
type WindowConfig struct {
	Scale int
	TPS   int
	Host  HostOptions
}

// RunWindow starts a desktop window that shows the panel, the LED strip and
// the indicator, and maps the keyboard onto the four buttons.
// It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}

	h, err := newHostHAL(cfg.Host)
	if err != nil {
		return err
	}
	defer h.close()

	step := newApp(h)

	g := &hostGame{h: h, step: step, kbd: newHostKeyboard(h.buttons)}
	ebiten.SetWindowTitle("C201 (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, (h.fb.height+windowStripRow)*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	kbd     *hostKeyboard
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	leds    []color.RGBA
	step    func() error
}

func (g *hostGame) Update() error {
	g.kbd.poll()
	g.h.t.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)

	g.leds = g.h.strip.snapshot(g.leds)
	cy := float32(fb.height + windowStripRow/2)
	for i, c := range g.leds {
		if c.R == 0 && c.G == 0 && c.B == 0 {
			c = windowLEDOff
		}
		cx := float32(windowLEDSpacing/2 + i*windowLEDSpacing)
		vector.DrawFilledCircle(screen, cx, cy, windowLEDRadius, c, true)
	}

	ind := windowLEDOff
	if g.h.led.isOn() {
		ind = windowIndicatorOn
	}
	vector.DrawFilledCircle(screen, float32(fb.width-6), cy, 3, ind, true)

	if g.kbd.help {
		ebitenutil.DebugPrintAt(screen, "arrows/enter/esc", 2, 2)
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height + windowStripRow
}
