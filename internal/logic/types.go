// Package logic contains the pure control logic for the radio: rotary decoding
// and snapshot-to-snapshot edge detection.
// This package has NO external dependencies (no GPIO, LMS, MQTT, OS, or time.Sleep).
package logic

// NoPreset is the preset index returned for rotary positions that are not in
// the decode table.
const NoPreset = 0

// RotaryLines is the number of rotary switch outputs.
const RotaryLines = 3

// Controls is a single sample of the physical controls.
type Controls struct {
	Power  bool              // true = switch on
	Rotary [RotaryLines]bool // rotary outputs, index 0 is the least significant bit
}

// RotaryValue returns the rotary lines as a binary value (0..7).
func (c Controls) RotaryValue() int {
	return rotaryValue(c.Rotary)
}

// Edges reports which controls changed between two consecutive samples.
type Edges struct {
	Power  bool
	Rotary bool
}

// Any reports whether any control changed.
func (e Edges) Any() bool {
	return e.Power || e.Rotary
}

func rotaryValue(bits [RotaryLines]bool) int {
	v := 0
	for i, b := range bits {
		if b {
			v |= 1 << i
		}
	}
	return v
}
