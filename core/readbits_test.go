package core

import "testing"

func TestReadBitsValidation(t *testing.T) {
	mem := setupTestChip(t, testChipOpts{})

	tests := []struct {
		addr, start, num uint16
		msg              string
	}{
		{0x02C1, 0, 1, "The address must be even."},
		{0x02C0, 16, 1, "The start bit must be <= 15."},
		{0x02C0, 0, 0, "The number of bits must be > 0."},
		{0x02C0, 10, 7, "start bit + num bits <= 16."},
		{0x02C0, 15, 0xFFFF, "start bit + num bits <= 16."},
	}
	for _, tt := range tests {
		_, err := ReadBits(tt.addr, tt.start, tt.num)
		expectValueError(t, err, tt.msg)
	}
	if mem.Writes() != 0 {
		t.Errorf("ReadBits must never write, got %d", mem.Writes())
	}
}

func TestReadBitsExtract(t *testing.T) {
	mem := setupTestChip(t, testChipOpts{})
	mem.Poke(0x0100, 0xA5F0)

	tests := []struct {
		start, num uint16
		want       uint16
	}{
		{0, 16, 0xA5F0},
		{4, 4, 0x0F},
		{0, 4, 0x0}, // The field is shifted by the start bit, not the width
		{8, 8, 0xA5},
		{15, 1, 1},
		{12, 3, 0x2},
	}
	for _, tt := range tests {
		got, err := ReadBits(0x0100, tt.start, tt.num)
		if err != nil {
			t.Errorf("ReadBits(%d, %d): %v", tt.start, tt.num, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadBits(%d, %d) = 0x%X, expected 0x%X", tt.start, tt.num, got, tt.want)
		}
	}
}

func TestReadBitsDiagnostic(t *testing.T) {
	mem := setupTestChip(t, testChipOpts{})
	mem.Poke(testTRISA, 0x001F)

	var lines []string
	SetDiagnosticWriter(func(s string) { lines = append(lines, s) })

	if _, err := ReadBits(testTRISA, 0, 5); err != nil {
		t.Fatal(err)
	}
	want := "Value at 0x02C0, bit(s) 0 to 4 = 0x1F."
	if len(lines) != 1 || lines[0] != want {
		t.Errorf("Expected %q, got %q", want, lines)
	}
}
