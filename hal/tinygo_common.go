//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"
	"runtime/interrupt"
	"sync"
	"time"

	"tinygo.org/x/drivers/ws2812"
)

type tinyGoTime struct {
	ch    chan uint64
	start time.Time
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 1), start: time.Now()}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for now := range ticker.C {
			ms := uint64(now.Sub(t.start) / time.Millisecond)
			select {
			case t.ch <- ms:
			default:
				// The consumer only needs the latest value.
				select {
				case <-t.ch:
				default:
				}
				select {
				case t.ch <- ms:
				default:
				}
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

// tinyGoTimer drives the periodic callback from a goroutine ticker.
type tinyGoTimer struct {
	mu   sync.Mutex
	stop chan struct{}
}

func (t *tinyGoTimer) StartPeriodic(period time.Duration, fn func()) error {
	if period <= 0 || fn == nil {
		return ErrNotImplemented
	}
	t.Stop()

	stop := make(chan struct{})
	t.mu.Lock()
	t.stop = stop
	t.mu.Unlock()

	go func() {
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

func (t *tinyGoTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

type byteWriter interface {
	WriteByte(c byte) error
}

type uartLogger struct {
	out byteWriter
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.out.WriteByte(s[i])
	}
	l.out.WriteByte('\r')
	l.out.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.out.WriteByte(b[i])
	}
	l.out.WriteByte('\r')
	l.out.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

type uartSerial struct {
	uart *machine.UART
}

func (s *uartSerial) Buffered() int {
	if s.uart == nil {
		return 0
	}
	return s.uart.Buffered()
}

func (s *uartSerial) ReadByte() (byte, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.ReadByte()
}

func (s *uartSerial) Write(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.Write(p)
}

// gpioPin adapts a machine.Pin to GPIOPin.
type gpioPin struct {
	name string
	pin  machine.Pin
	mode GPIOMode
}

func (p *gpioPin) Name() string { return p.name }

func (p *gpioPin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *gpioPin) Configure(mode GPIOMode, pull GPIOPull) error {
	var m machine.PinMode
	switch mode {
	case GPIOModeOutput:
		m = machine.PinOutput
	case GPIOModeInput:
		switch pull {
		case GPIOPullUp:
			m = machine.PinInputPullup
		case GPIOPullDown:
			m = machine.PinInputPulldown
		default:
			m = machine.PinInput
		}
	default:
		return ErrNotImplemented
	}
	p.pin.Configure(machine.PinConfig{Mode: m})
	p.mode = mode
	return nil
}

func (p *gpioPin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *gpioPin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return ErrNotImplemented
	}
	p.pin.Set(level)
	return nil
}

// ws2812Strip scales colors by the global brightness before sending.
type ws2812Strip struct {
	dev        ws2812.Device
	n          int
	brightness uint8
	buf        []color.RGBA
}

func newWS2812Strip(pin machine.Pin, n int) *ws2812Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &ws2812Strip{
		dev:        ws2812.New(pin),
		n:          n,
		brightness: 255,
		buf:        make([]color.RGBA, n),
	}
}

func (s *ws2812Strip) Len() int              { return s.n }
func (s *ws2812Strip) SetBrightness(b uint8) { s.brightness = b }

func (s *ws2812Strip) WriteColors(buf []color.RGBA) error {
	for i := range s.buf {
		var c color.RGBA
		if i < len(buf) {
			c = scaleBrightness(buf[i], s.brightness)
		}
		s.buf[i] = c
	}
	state := interrupt.Disable()
	err := s.dev.WriteColors(s.buf)
	interrupt.Restore(state)
	return err
}
