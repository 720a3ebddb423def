// Package store keeps the single persisted byte.
package store

import (
	"errors"
	"fmt"

	"c201/hal"
)

// Addr is the EEPROM cell holding the value.
const Addr = 0

// ErrOutOfRange is returned by Set for values that do not fit a byte.
var ErrOutOfRange = errors.New("store: value out of range")

// Store caches the persisted value and whether it is trustworthy.
type Store struct {
	dev   hal.EEPROM
	value uint8
	valid bool
}

func New(dev hal.EEPROM) *Store {
	return &Store{dev: dev}
}

// Load reads the cell. A read failure leaves (0, invalid).
func (s *Store) Load() error {
	if s.dev == nil {
		s.value, s.valid = 0, false
		return hal.ErrNotImplemented
	}
	b, err := s.dev.ReadByteAt(Addr)
	if err != nil {
		s.value, s.valid = 0, false
		return fmt.Errorf("store: load: %w", err)
	}
	s.value, s.valid = b, true
	return nil
}

// Set persists v. Out of range values keep the previous value and mark the
// store invalid.
func (s *Store) Set(v int) error {
	if v < 0 || v > 255 {
		s.valid = false
		return fmt.Errorf("%w: %d", ErrOutOfRange, v)
	}
	if s.dev == nil {
		return hal.ErrNotImplemented
	}
	if err := s.dev.WriteByteAt(Addr, uint8(v)); err != nil {
		return fmt.Errorf("store: set %d: %w", v, err)
	}
	s.value, s.valid = uint8(v), true
	return nil
}

// Value returns the cached value and whether it is valid.
func (s *Store) Value() (uint8, bool) { return s.value, s.valid }
