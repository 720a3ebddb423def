package controller

import (
	"fmt"
	"time"

	"c201/firmware/countdown"
	"c201/firmware/rgb"
	"c201/firmware/store"
)

// MenuState is the screen currently shown.
type MenuState uint8

const (
	Main MenuState = iota
	ConnectBLE
	RGBOffline
	Countdown
	EEPROM

	menuStateCount
)

func (m MenuState) String() string {
	switch m {
	case Main:
		return "main"
	case ConnectBLE:
		return "ble"
	case RGBOffline:
		return "rgb"
	case Countdown:
		return "countdown"
	case EEPROM:
		return "eeprom"
	default:
		return fmt.Sprintf("MenuState(%d)", uint8(m))
	}
}

// cursorTargets maps the root menu cursor to the screen it opens.
var cursorTargets = [4]MenuState{ConnectBLE, RGBOffline, Countdown, EEPROM}

// State is everything the menu, the link and the countdown share.
type State struct {
	Menu    MenuState
	Cursor  int
	Pattern rgb.Pattern

	Connected    bool
	LastActivity time.Duration

	Countdown countdown.Counter
	Store     *store.Store
}

// InSubmenu reports whether a screen other than the root menu is open.
func (s *State) InSubmenu() bool { return s.Menu != Main }

// AdvertiseName is the Bluetooth name of a station: ODD or EVEN by parity,
// the two digit station number and its low four bits in binary.
func AdvertiseName(station int) string {
	parity := "EVEN"
	if station%2 == 1 {
		parity = "ODD"
	}
	return fmt.Sprintf("%s-%02d-%04b", parity, station%100, station&0xF)
}
