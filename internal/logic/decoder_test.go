package logic

import "testing"

func bits(v int) [RotaryLines]bool {
	return [RotaryLines]bool{v&1 != 0, v&2 != 0, v&4 != 0}
}

func TestRotaryValue(t *testing.T) {
	for v := 0; v <= MaxRotaryValue; v++ {
		c := Controls{Rotary: bits(v)}
		if got := c.RotaryValue(); got != v {
			t.Errorf("RotaryValue(%v): got %d, want %d", c.Rotary, got, v)
		}
	}
}

func TestDecodeDefaultTableAllCombinations(t *testing.T) {
	want := map[int]int{
		0: NoPreset,
		1: 1,
		2: 2,
		3: NoPreset,
		4: 3,
		5: NoPreset,
		6: 4,
		7: NoPreset,
	}
	for v := 0; v <= MaxRotaryValue; v++ {
		got := DefaultDecodeTable.Decode(bits(v))
		if got != want[v] {
			t.Errorf("Decode(%03b): got %d, want %d", v, got, want[v])
		}
		if got < 0 || got > 4 {
			t.Errorf("Decode(%03b): %d outside 0..4", v, got)
		}
	}
}

func TestDecodeRestPositionHasNoPreset(t *testing.T) {
	if got := DefaultDecodeTable.Decode([RotaryLines]bool{}); got != NoPreset {
		t.Errorf("rest position: got %d, want %d", got, NoPreset)
	}
}

func TestDecodeCustomTable(t *testing.T) {
	table := DecodeTable{0: 1, 7: 2}

	if got := table.Decode(bits(0)); got != 1 {
		t.Errorf("Decode(000): got %d, want 1", got)
	}
	if got := table.Decode(bits(7)); got != 2 {
		t.Errorf("Decode(111): got %d, want 2", got)
	}
	if got := table.Decode(bits(1)); got != NoPreset {
		t.Errorf("Decode(001): got %d, want NoPreset", got)
	}
}

func TestDecodeNilTable(t *testing.T) {
	var table DecodeTable
	for v := 0; v <= MaxRotaryValue; v++ {
		if got := table.Decode(bits(v)); got != NoPreset {
			t.Errorf("nil table Decode(%03b): got %d, want NoPreset", v, got)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   DecodeTable
		max     int
		wantErr bool
	}{
		{"default", DefaultDecodeTable, 4, false},
		{"empty", DecodeTable{}, 4, true},
		{"pattern too high", DecodeTable{8: 1}, 4, true},
		{"negative pattern", DecodeTable{-1: 1}, 4, true},
		{"preset zero", DecodeTable{1: 0}, 4, true},
		{"preset above max", DecodeTable{1: 5}, 4, true},
		{"rest position mapped", DecodeTable{0: 1}, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate(tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestPatternsSorted(t *testing.T) {
	got := DefaultDecodeTable.Patterns()
	want := []int{1, 2, 4, 6}
	if len(got) != len(want) {
		t.Fatalf("Patterns: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Patterns[%d]: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := DefaultDecodeTable.Clone()
	c[1] = 4
	if DefaultDecodeTable[1] != 1 {
		t.Error("Clone shares storage with the original table")
	}
}
