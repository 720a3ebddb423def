//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
)

const rp2EEPROMSize = 256

// rp2EEPROM emulates a small EEPROM in the last erase block of flash.
//
// The block is cached in RAM; every write erases and rewrites it.
type rp2EEPROM struct {
	off    int64
	block  []byte
	loaded bool
}

func newRP2EEPROM() *rp2EEPROM {
	bs := machine.Flash.EraseBlockSize()
	size := machine.Flash.Size()
	if bs <= 0 || size < bs {
		return &rp2EEPROM{}
	}
	return &rp2EEPROM{
		off:   size - bs,
		block: make([]byte, bs),
	}
}

func (e *rp2EEPROM) SizeBytes() uint32 {
	if e.block == nil {
		return 0
	}
	return rp2EEPROMSize
}

func (e *rp2EEPROM) load() error {
	if e.loaded {
		return nil
	}
	if e.block == nil {
		return ErrNotImplemented
	}
	if _, err := machine.Flash.ReadAt(e.block, e.off); err != nil {
		return fmt.Errorf("eeprom read block at %d: %w", e.off, err)
	}
	e.loaded = true
	return nil
}

func (e *rp2EEPROM) ReadByteAt(addr uint32) (byte, error) {
	if addr >= e.SizeBytes() {
		return 0, fmt.Errorf("eeprom read at %d: %w", addr, ErrNotImplemented)
	}
	if err := e.load(); err != nil {
		return 0, err
	}
	return e.block[addr], nil
}

func (e *rp2EEPROM) WriteByteAt(addr uint32, b byte) error {
	if addr >= e.SizeBytes() {
		return fmt.Errorf("eeprom write at %d: %w", addr, ErrNotImplemented)
	}
	if err := e.load(); err != nil {
		return err
	}
	if e.block[addr] == b {
		return nil
	}
	e.block[addr] = b

	bs := int64(len(e.block))
	if err := machine.Flash.EraseBlocks(e.off/bs, 1); err != nil {
		e.loaded = false
		return fmt.Errorf("eeprom erase: %w", err)
	}
	if _, err := machine.Flash.WriteAt(e.block, e.off); err != nil {
		e.loaded = false
		return fmt.Errorf("eeprom write block at %d: %w", e.off, err)
	}
	return nil
}
