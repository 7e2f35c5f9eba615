//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/vintage-radio/internal/logic"
)

const consumer = "vintage-radio"

// RealIO reads controls and drives outputs on actual hardware using the
// Linux GPIO character device.
type RealIO struct {
	chip   *gpiocdev.Chip
	power  *gpiocdev.Line
	rotary [logic.RotaryLines]*gpiocdev.Line
	light  *gpiocdev.Line
	amp    *gpiocdev.Line
}

// NewRealIO requests all lines on the given chip. Inputs get pull-ups,
// outputs start low so the amp and dial light are off.
func NewRealIO(chipName string, pins Pins) (*RealIO, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	io := &RealIO{chip: chip}

	io.power, err = chip.RequestLine(pins.Power, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer(consumer))
	if err != nil {
		io.Close()
		return nil, fmt.Errorf("request power pin %d: %w", pins.Power, err)
	}

	for i, offset := range pins.Rotary {
		io.rotary[i], err = chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer(consumer))
		if err != nil {
			io.Close()
			return nil, fmt.Errorf("request rotary%d pin %d: %w", i+1, offset, err)
		}
	}

	io.light, err = chip.RequestLine(pins.Light, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		io.Close()
		return nil, fmt.Errorf("request light pin %d: %w", pins.Light, err)
	}

	io.amp, err = chip.RequestLine(pins.Amp, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		io.Close()
		return nil, fmt.Errorf("request amp pin %d: %w", pins.Amp, err)
	}

	return io, nil
}

// Read returns the logical control states.
// Inverts raw GPIO: the pull-up holds an open switch at 1, a closed switch reads 0.
func (io *RealIO) Read() (logic.Controls, error) {
	var c logic.Controls

	raw, err := io.power.Value()
	if err != nil {
		return c, fmt.Errorf("read power pin: %w", err)
	}
	c.Power = raw == 0

	for i, line := range io.rotary {
		raw, err := line.Value()
		if err != nil {
			return logic.Controls{}, fmt.Errorf("read rotary%d pin: %w", i+1, err)
		}
		c.Rotary[i] = raw == 0
	}

	return c, nil
}

func (io *RealIO) line(out Output) (*gpiocdev.Line, error) {
	switch out {
	case DialLight:
		return io.light, nil
	case AmpRelay:
		return io.amp, nil
	default:
		return nil, fmt.Errorf("unknown output %v", out)
	}
}

// Write drives an output high (on) or low (off).
func (io *RealIO) Write(out Output, on bool) error {
	line, err := io.line(out)
	if err != nil {
		return err
	}
	val := 0
	if on {
		val = 1
	}
	if err := line.SetValue(val); err != nil {
		return fmt.Errorf("set %v: %w", out, err)
	}
	return nil
}

// Blink toggles the output every BlinkInterval until done is closed.
func (io *RealIO) Blink(out Output, done <-chan struct{}) error {
	ticker := time.NewTicker(BlinkInterval)
	defer ticker.Stop()

	on := true
	if err := io.Write(out, on); err != nil {
		return err
	}
	for {
		select {
		case <-done:
			return io.Write(out, false)
		case <-ticker.C:
			on = !on
			if err := io.Write(out, on); err != nil {
				return err
			}
		}
	}
}

// Close drives the outputs low and releases every line.
// Inputs are left as pulled-up inputs, matching their state while running.
func (io *RealIO) Close() error {
	var errs []error

	for _, out := range []struct {
		name string
		line *gpiocdev.Line
	}{{"amp", io.amp}, {"light", io.light}} {
		if out.line == nil {
			continue
		}
		if err := out.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("reset %s pin: %w", out.name, err))
		}
		if err := out.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", out.name, err))
		}
	}

	inputs := append([]*gpiocdev.Line{io.power}, io.rotary[:]...)
	for _, line := range inputs {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close input pin: %w", err))
		}
	}

	if io.chip != nil {
		if err := io.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
