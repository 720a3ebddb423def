//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
)

const hostSerialRxCap = 4096

// hostSerial turns a blocking reader into a polled UART: a pump goroutine
// fills an RX buffer that the foreground drains with ReadByte.
type hostSerial struct {
	mu      sync.Mutex
	rx      []byte
	dropped uint64
	rxErr   error

	wmu sync.Mutex
	w   io.Writer
	c   io.Closer
}

func newHostSerial(r io.Reader, w io.Writer) *hostSerial {
	s := &hostSerial{w: w}
	if r != nil {
		go s.pump(r)
	}
	return s
}

// openHostSerialPort opens a real serial device, e.g. a USB-UART wired to
// an HC-05 module.
func openHostSerialPort(name string, baud int) (*hostSerial, error) {
	if baud <= 0 {
		baud = 9600
	}
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", name, err)
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("serial port %q read timeout: %w", name, err)
	}
	s := newHostSerial(port, port)
	s.c = port
	return s, nil
}

func (s *hostSerial) pump(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			s.push(buf[:n])
		}
		if err != nil {
			s.mu.Lock()
			s.rxErr = err
			s.mu.Unlock()
			return
		}
	}
}

func (s *hostSerial) push(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := hostSerialRxCap - len(s.rx)
	if room < len(p) {
		s.dropped += uint64(len(p) - room)
		p = p[:room]
	}
	s.rx = append(s.rx, p...)
}

func (s *hostSerial) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rx)
}

func (s *hostSerial) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rx) == 0 {
		if s.rxErr != nil {
			return 0, s.rxErr
		}
		return 0, io.ErrNoProgress
	}
	b := s.rx[0]
	s.rx = s.rx[1:]
	return b, nil
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotImplemented
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.w.Write(p)
}

func (s *hostSerial) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}
