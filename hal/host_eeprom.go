//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

const (
	hostEEPROMDefaultPath      = "c201.eeprom"
	hostEEPROMDefaultSizeBytes = 1024
	hostEEPROMErased           = 0xFF
)

// hostEEPROM is a file-backed byte store. A fresh image reads back erased
// (0xFF) cells, like a new ATmega EEPROM.
type hostEEPROM struct {
	mu   sync.Mutex
	f    *os.File
	size uint32
}

func newHostEEPROM(path string) *hostEEPROM {
	if path == "" {
		path = os.Getenv("C201_EEPROM_PATH")
	}
	if path == "" {
		path = hostEEPROMDefaultPath
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return &hostEEPROM{f: nil}
	}

	size := uint32(hostEEPROMDefaultSizeBytes)
	if st, err := f.Stat(); err == nil && st.Size() > 0 {
		if st.Size() > int64(^uint32(0)) {
			_ = f.Close()
			return &hostEEPROM{f: nil}
		}
		size = uint32(st.Size())
	} else {
		erased := make([]byte, size)
		for i := range erased {
			erased[i] = hostEEPROMErased
		}
		if _, err := f.WriteAt(erased, 0); err != nil {
			_ = f.Close()
			return &hostEEPROM{f: nil}
		}
	}

	return &hostEEPROM{f: f, size: size}
}

func (e *hostEEPROM) SizeBytes() uint32 { return e.size }

func (e *hostEEPROM) ReadByteAt(addr uint32) (byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.f == nil {
		return 0, ErrNotImplemented
	}
	if addr >= e.size {
		return 0, fmt.Errorf("eeprom read at %d: %w", addr, os.ErrInvalid)
	}
	var b [1]byte
	if _, err := e.f.ReadAt(b[:], int64(addr)); err != nil {
		return 0, fmt.Errorf("eeprom read at %d: %w", addr, err)
	}
	return b[0], nil
}

func (e *hostEEPROM) WriteByteAt(addr uint32, b byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.f == nil {
		return ErrNotImplemented
	}
	if addr >= e.size {
		return fmt.Errorf("eeprom write at %d: %w", addr, os.ErrInvalid)
	}
	if _, err := e.f.WriteAt([]byte{b}, int64(addr)); err != nil {
		return fmt.Errorf("eeprom write at %d: %w", addr, err)
	}
	return e.f.Sync()
}

func (e *hostEEPROM) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.f == nil {
		return nil
	}
	err := e.f.Close()
	e.f = nil
	return err
}
