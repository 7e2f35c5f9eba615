//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/vintage-radio/internal/logic"
)

// RealIO is not available on non-Linux platforms.
type RealIO struct{}

// NewRealIO returns an error on non-Linux platforms.
func NewRealIO(chipName string, pins Pins) (*RealIO, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (io *RealIO) Read() (logic.Controls, error) {
	return logic.Controls{}, errors.New("gpio: not supported")
}

// Write is not implemented on non-Linux platforms.
func (io *RealIO) Write(out Output, on bool) error {
	return errors.New("gpio: not supported")
}

// Blink is not implemented on non-Linux platforms.
func (io *RealIO) Blink(out Output, done <-chan struct{}) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (io *RealIO) Close() error {
	return nil
}
