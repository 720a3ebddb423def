//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hostKeyboard maps held keys onto the active-low button lines.
type hostKeyboard struct {
	buttons [ButtonCount]*buttonPin
	help    bool
}

func newHostKeyboard(buttons [ButtonCount]*buttonPin) *hostKeyboard {
	return &hostKeyboard{buttons: buttons}
}

var hostKeyMap = [ButtonCount][]ebiten.Key{
	ButtonUp:     {ebiten.KeyArrowUp, ebiten.KeyW},
	ButtonDown:   {ebiten.KeyArrowDown, ebiten.KeyS},
	ButtonEnter:  {ebiten.KeyEnter, ebiten.KeySpace},
	ButtonReturn: {ebiten.KeyEscape, ebiten.KeyBackspace},
}

func (k *hostKeyboard) poll() {
	for b, keys := range hostKeyMap {
		pressed := false
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				pressed = true
				break
			}
		}
		if p := k.buttons[b]; p != nil {
			p.set(pressed)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		k.help = !k.help
	}
}
