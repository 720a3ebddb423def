//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostPanelWidth  = 160
	hostPanelHeight = 128
	hostStripLen    = 8
)

// HostOptions selects the host backends.
type HostOptions struct {
	// EEPROMPath is the backing file of the persistent store.
	EEPROMPath string
	// SerialPort is a serial device name; empty uses stdin/stdout.
	SerialPort string
	SerialBaud int
	// Log receives log lines; nil means stderr.
	Log io.Writer
}

type hostHAL struct {
	logger  *hostLogger
	led     *hostLED
	buttons [ButtonCount]*buttonPin
	fb      *hostFramebuffer
	strip   *hostStrip
	serial  *hostSerial
	eeprom  *hostEEPROM
	t       *hostTime
	timer   *hostTimer
}

// New returns a host HAL implementation with default options.
func New() HAL {
	h, err := NewHost(HostOptions{})
	if err != nil {
		panic(err)
	}
	return h
}

// NewHost returns a host HAL implementation.
func NewHost(opts HostOptions) (HAL, error) {
	h, err := newHostHAL(opts)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func newHostHAL(opts HostOptions) (*hostHAL, error) {
	logw := opts.Log
	if logw == nil {
		logw = os.Stderr
	}
	logger := &hostLogger{w: logw}

	var ser *hostSerial
	if opts.SerialPort != "" {
		var err error
		ser, err = openHostSerialPort(opts.SerialPort, opts.SerialBaud)
		if err != nil {
			return nil, err
		}
	} else {
		ser = newHostSerial(os.Stdin, os.Stdout)
	}

	h := &hostHAL{
		logger: logger,
		led:    &hostLED{},
		fb:     newHostFramebuffer(hostPanelWidth, hostPanelHeight),
		strip:  newHostStrip(hostStripLen),
		serial: ser,
		eeprom: newHostEEPROM(opts.EEPROMPath),
		t:      newHostTime(),
		timer:  &hostTimer{},
	}
	for b := Button(0); b < ButtonCount; b++ {
		h.buttons[b] = newButtonPin(b)
	}
	return h, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) Display() Display { return h.fb }
func (h *hostHAL) Strip() Strip     { return h.strip }
func (h *hostHAL) Serial() Serial   { return h.serial }
func (h *hostHAL) EEPROM() EEPROM   { return h.eeprom }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Timer() Timer     { return h.timer }

func (h *hostHAL) Button(b Button) GPIOPin {
	if b >= ButtonCount {
		return nil
	}
	return h.buttons[b]
}

func (h *hostHAL) close() {
	h.timer.Stop()
	_ = h.serial.Close()
	_ = h.eeprom.Close()
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu sync.Mutex
	on bool
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
}

func (l *hostLED) isOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
