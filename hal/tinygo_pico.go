//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"machine"

	"tinygo.org/x/drivers/st7735"
)

const picoStripLen = 8

type tinyGoHAL struct {
	logger  *uartLogger
	led     *pinLED
	buttons [ButtonCount]GPIOPin
	disp    Display
	strip   *ws2812Strip
	serial  *uartSerial
	eeprom  EEPROM
	t       *tinyGoTime
	timer   *tinyGoTimer
}

// New returns the Pico board HAL.
//
// Link:    UART0 on GP0 (TX) / GP1 (RX), 9600 8N1.
// Log:     USB CDC (machine.Serial).
// Panel:   ST7735 160x128 on SPI0 (SCK GP18, SDO GP19, CS GP17, DC GP20, RST GP21, BL GP22).
// Strip:   8x WS2812 on GP6.
// Buttons: GP2 up, GP3 down, GP4 enter, GP5 return; active low.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 9600,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	h := &tinyGoHAL{
		logger: &uartLogger{out: machine.Serial},
		led:    &pinLED{pin: ledPin},
		disp:   newPicoDisplay(),
		strip:  newWS2812Strip(machine.GP6, picoStripLen),
		serial: &uartSerial{uart: uart},
		eeprom: newRP2EEPROM(),
		t:      newTinyGoTime(),
		timer:  &tinyGoTimer{},
	}

	keys := [ButtonCount]machine.Pin{
		ButtonUp:     machine.GP2,
		ButtonDown:   machine.GP3,
		ButtonEnter:  machine.GP4,
		ButtonReturn: machine.GP5,
	}
	for b, pin := range keys {
		p := &gpioPin{name: "KEY_" + Button(b).String(), pin: pin}
		_ = p.Configure(GPIOModeInput, GPIOPullUp)
		h.buttons[b] = p
	}
	return h
}

func newPicoDisplay() Display {
	machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 16000000,
		SCK:       machine.GP18,
		SDO:       machine.GP19,
	})
	d := st7735.New(machine.SPI0, machine.GP21, machine.GP20, machine.GP17, machine.GP22)
	d.Configure(st7735.Config{
		Width:    128,
		Height:   160,
		Rotation: st7735.ROTATION_90,
		Model:    st7735.GREENTAB,
	})
	d.EnableBacklight(true)
	return &d
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) Display() Display { return h.disp }
func (h *tinyGoHAL) Strip() Strip     { return h.strip }
func (h *tinyGoHAL) Serial() Serial   { return h.serial }
func (h *tinyGoHAL) EEPROM() EEPROM   { return h.eeprom }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) Timer() Timer     { return h.timer }

func (h *tinyGoHAL) Button(b Button) GPIOPin {
	if b >= ButtonCount {
		return nil
	}
	return h.buttons[b]
}
