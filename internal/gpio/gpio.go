// Package gpio provides digital I/O for the radio controls with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"fmt"
	"time"

	"github.com/sweeney/vintage-radio/internal/logic"
)

// Reader samples the physical controls.
type Reader interface {
	// Read returns the logical state of the power switch and rotary lines.
	// Inputs are active-low: a switch closed to ground reads as true.
	Read() (logic.Controls, error)

	// Close releases GPIO resources.
	Close() error
}

// Output identifies a driven line.
type Output int

const (
	DialLight Output = iota // lamp behind the radio dial
	AmpRelay                // relay enabling the class-D amplifier
)

func (o Output) String() string {
	switch o {
	case DialLight:
		return "light"
	case AmpRelay:
		return "amp"
	default:
		return fmt.Sprintf("output(%d)", int(o))
	}
}

// Writer drives the outputs.
type Writer interface {
	// Write sets an output on (true) or off (false).
	Write(out Output, on bool) error

	// Blink toggles an output until done is closed, then leaves it off.
	// A nil done blinks forever.
	Blink(out Output, done <-chan struct{}) error

	// Close releases GPIO resources.
	Close() error
}

// BlinkInterval is the on and off duration of the error blink.
const BlinkInterval = time.Second

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// Pins holds the BCM line offsets for every control.
type Pins struct {
	Power  int
	Rotary [logic.RotaryLines]int
	Light  int
	Amp    int
}

// DefaultPins is the stock wiring (BCM numbering).
var DefaultPins = Pins{
	Power:  5,
	Rotary: [logic.RotaryLines]int{25, 12, 26},
	Light:  6,
	Amp:    16,
}

// Validate checks that no line is used twice.
func (p Pins) Validate() error {
	seen := make(map[int]string)
	check := func(name string, line int) error {
		if line < 0 {
			return fmt.Errorf("pin %s: invalid line %d", name, line)
		}
		if other, ok := seen[line]; ok {
			return fmt.Errorf("pin %s: line %d already used by %s", name, line, other)
		}
		seen[line] = name
		return nil
	}

	if err := check("power", p.Power); err != nil {
		return err
	}
	for i, line := range p.Rotary {
		if err := check(fmt.Sprintf("rotary%d", i+1), line); err != nil {
			return err
		}
	}
	if err := check("light", p.Light); err != nil {
		return err
	}
	return check("amp", p.Amp)
}
