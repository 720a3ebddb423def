//go:build !tinygo && !cgo

package hal

import "errors"

// WindowConfig controls the desktop simulator window.
type WindowConfig struct {
	Scale int
	TPS   int
	Host  HostOptions
}

func RunWindow(_ func(h HAL) func() error, _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
