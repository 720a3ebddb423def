package screen

import (
	"strconv"
	"strings"
)

// MenuItems are the root menu entries in cursor order.
var MenuItems = [4]string{
	"1.Connect to BLE",
	"2.RGB Offline",
	"3.CountDown",
	"4.EEPROM",
}

func title(s Surface, x int16, text string) {
	s.FillScreen(Black)
	s.Text(x, 5, 1, Cyan, text)
	s.HLine(0, 17, Width, White)
}

// Boot draws the power-on banner.
func Boot(s Surface) {
	s.FillScreen(Black)
	s.Text(25, 35, 3, White, "TCIVS")
	s.Text(40, 70, 2, White, "C201")
}

// MainMenu draws the root menu with the cursor row highlighted.
func MainMenu(s Surface, cursor int) {
	title(s, 55, "MENU")
	for i, item := range MenuItems {
		y := int16(i * 20)
		if i == cursor {
			s.FillRect(0, 22+y, Width, 18, Blue)
			s.Text(5, 25+y, 1, White, ">")
		}
		s.Text(15, 25+y, 1, White, item)
	}
}

// BLE draws the link screen.
func BLE(s Surface, connected bool) {
	title(s, 25, "Connect to BLE")
	BLEStatus(s, connected)
	s.Text(5, 70, 1, White, "PC send command:")
	s.Text(5, 82, 1, White, "CONNECT or PING")
	s.Text(5, 94, 1, White, "or any data...")
	s.Text(5, 112, 1, White, "Return:Exit")
}

// BLEStatus redraws only the connection label of the link screen.
func BLEStatus(s Surface, connected bool) {
	s.FillRect(20, 40, 120, 20, Black)
	if connected {
		s.Text(20, 40, 2, Green, "Connected")
		return
	}
	s.Text(20, 40, 2, Red, "Disconnect")
}

// RGB draws the pattern screen.
func RGB(s Surface, name, subtitle string) {
	title(s, 35, "RGB Offline")
	s.Text(10, 40, 2, White, name)
	s.Text(10, 65, 1, White, subtitle)
	s.Text(5, 100, 1, Yellow, "Up/Down:Change Mode")
	s.Text(5, 112, 1, Yellow, "Return:Exit")
}

// Countdown draws the countdown screen.
func Countdown(s Surface, clock string, paused bool) {
	s.FillScreen(Black)
	s.Text(40, 5, 1, White, "CountDown")
	s.Text(20, 35, 3, White, clock)
	if paused {
		s.Text(50, 75, 1, Yellow, "PAUSED")
	} else {
		s.Text(50, 75, 1, Green, "RUNNING")
	}
	s.Text(5, 100, 1, Cyan, "Enter:Pause/Resume")
	s.Text(5, 112, 1, Cyan, "Return:Exit")
}

// Finish replaces the countdown status line with the finish label.
func Finish(s Surface) {
	s.FillRect(0, 75, Width, 20, Black)
	s.Text(30, 75, 2, Magenta, "FINISH!")
}

// EEPROM draws the stored value screen.
func EEPROM(s Surface, value uint8, valid bool) {
	title(s, 50, "EEPROM")
	s.Text(10, 30, 1, White, "Stored Value:")
	if valid {
		s.Text(40, 55, 3, Green, strconv.Itoa(int(value)))
		s.Text(10, 90, 1, Yellow, "(Decimal Value)")
	} else {
		s.Text(40, 55, 3, Red, "ERR")
		s.Text(10, 90, 1, Red, "Error: EEPROM")
	}
	s.Text(5, 112, 1, Cyan, "Return:Exit")
}

// panicLineHeight is the row pitch of the panic screen at size 1.
const panicLineHeight = 10

// panicCols is how many size 1 glyphs fit across the panel.
const panicCols = Width / 6

// Panic fills the panel with a crash report, wrapping long lines and
// dropping whatever does not fit.
func Panic(s Surface, lines []string) {
	s.FillScreen(White)
	y := int16(0)
	for _, line := range lines {
		for {
			if y+panicLineHeight > Height {
				return
			}
			chunk := line
			if len(chunk) > panicCols {
				chunk = chunk[:panicCols]
			}
			s.Text(0, y, 1, Black, chunk)
			y += panicLineHeight
			line = strings.TrimLeft(line[len(chunk):], " \t")
			if line == "" {
				break
			}
		}
	}
}
