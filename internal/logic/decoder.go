package logic

import (
	"fmt"
	"sort"
)

// DecodeTable maps a rotary bit pattern (0..7) to a preset index.
// Patterns missing from the table decode to NoPreset.
type DecodeTable map[int]int

// DefaultDecodeTable matches the stock four-position selector.
// The rest position (no line active) has no preset.
var DefaultDecodeTable = DecodeTable{
	1: 1,
	2: 2,
	4: 3,
	6: 4,
}

// MaxRotaryValue is the highest value three rotary lines can encode.
const MaxRotaryValue = 1<<RotaryLines - 1

// Decode returns the preset index for the given rotary lines.
func (t DecodeTable) Decode(bits [RotaryLines]bool) int {
	if p, ok := t[rotaryValue(bits)]; ok {
		return p
	}
	return NoPreset
}

// Validate checks that every key is a valid bit pattern and every value is a
// preset index in 1..maxPreset.
func (t DecodeTable) Validate(maxPreset int) error {
	if len(t) == 0 {
		return fmt.Errorf("decode table is empty")
	}
	for _, k := range t.Patterns() {
		if k < 0 || k > MaxRotaryValue {
			return fmt.Errorf("decode table: pattern %d out of range 0..%d", k, MaxRotaryValue)
		}
		p := t[k]
		if p < 1 || p > maxPreset {
			return fmt.Errorf("decode table: pattern %d maps to preset %d, want 1..%d", k, p, maxPreset)
		}
	}
	return nil
}

// Patterns returns the table keys in ascending order.
func (t DecodeTable) Patterns() []int {
	keys := make([]int, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Clone returns an independent copy of the table.
func (t DecodeTable) Clone() DecodeTable {
	c := make(DecodeTable, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}
