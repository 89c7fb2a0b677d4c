package core

import (
	"testing"

	"pic24io/protocol"
)

// Register layout of the test chip, loosely based on a 28-pin PIC24F
const (
	testTRISA   = 0x02C0
	testTRISB   = 0x02C8
	testODCA    = 0x02C6
	testODCB    = testODCA + (testTRISB - testTRISA)
	testCNPU1   = 0x0068
	testCNPU2   = 0x006A
	testCNPD1   = 0x0054
	testCNPD2   = 0x0056
	testAD1PCFG = 0x032C
	testAD1PCFH = 0x032A
	testAD2PCFG = 0x036C
	testRPINR18 = 0x06A4
	testRPINR20 = 0x06A8
	testRPOR0   = 0x06C0
	testRPOR2   = 0x06C4
)

type testChipOpts struct {
	pullDowns bool
	dualADC   bool
	remap     bool
}

// newTestChip builds two ports: A0-A4 exist, port B is complete.
//
//	A0 AN0/CN2   A1 AN1/CN3   A2 CN30   A3 (none)   A4 CN0
//	B0-B3 AN2-AN5/CN4-CN7   B4 AN20/CN1   B5 CN27   B6-B15 no channels
//
// Only port B has open-drain ability.
func newTestChip(opts testChipOpts) *Chip {
	ancn := make([]AnCn, 2*PinsPerPort)
	for i := range ancn {
		ancn[i] = NoAnCn
	}
	set := func(port, pin uint16, an, cn uint8) {
		ancn[port*PinsPerPort+pin] = AnCn{AN: an, CN: cn}
	}
	set(0, 0, 0, 2)
	set(0, 1, 1, 3)
	set(0, 2, UndefPin, 30)
	set(0, 4, UndefPin, 0)
	set(1, 0, 2, 4)
	set(1, 1, 3, 5)
	set(1, 2, 4, 6)
	set(1, 3, 5, 7)
	set(1, 4, 20, 1)
	set(1, 5, UndefPin, 27)

	c := &Chip{
		Name:             "TEST24",
		NumPorts:         2,
		PinPresent:       []uint16{0x001F, 0xFFFF},
		OpenDrainPresent: []uint16{0x0000, 0xFFFF},
		AnCn:             ancn,
		TRISA:            testTRISA,
		TRISB:            testTRISB,
		ODCA:             testODCA,
		CNPU1:            testCNPU1,
		AD1PCFG:          []uint16{testAD1PCFG, testAD1PCFH},
	}
	if opts.pullDowns {
		c.CNPD1 = testCNPD1
	}
	if opts.dualADC {
		c.AD2PCFG = []uint16{testAD2PCFG}
	}
	if opts.remap {
		var outs []RemapOutput
		for rp := 0; rp < 16; rp++ {
			outs = append(outs, RemapOutput{
				Slot:       uint8(rp),
				RemapField: RemapField{Name: "RP", Addr: testRPOR0 + 2*uint16(rp/2), Shift: uint8(8 * (rp % 2)), Width: 5},
			})
		}
		c.Remap = &RemapTable{
			FirstPort:  1,
			NumPorts:   1,
			Remappable: 0x0000FFFF,
			InputNull:  0x1F,
			OutputNull: 0,
			Inputs: []RemapField{
				{Name: "U1RXR", Addr: testRPINR18, Shift: 0, Width: 5},
				{Name: "U1CTSR", Addr: testRPINR18, Shift: 8, Width: 5},
				{Name: "SDI1R", Addr: testRPINR20, Shift: 0, Width: 5},
				{Name: "SCK1R", Addr: testRPINR20, Shift: 8, Width: 5},
			},
			Outputs: outs,
		}
	}
	return c
}

// setupTestChip installs a fresh register space and chip, and clears the
// command tables.
func setupTestChip(t *testing.T, opts testChipOpts) *MemoryRegisters {
	t.Helper()
	mem := NewMemoryRegisters()
	SetRegisterFile(mem)
	c := newTestChip(opts)
	if err := c.Validate(); err != nil {
		t.Fatalf("test chip invalid: %v", err)
	}
	SetChip(c)
	ResetCommands()
	SetGlobalTransport(nil)
	SetDiagnosticWriter(func(string) {})
	return mem
}

// expectPanic runs fn and checks that it panics with an AssertionError
func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected an assertion panic")
		}
		if _, ok := r.(AssertionError); !ok {
			t.Fatalf("Expected AssertionError, got %T: %v", r, r)
		}
	}()
	fn()
}

// expectValueError checks err is a ValueError with the given message
func expectValueError(t *testing.T, err error, msg string) {
	t.Helper()
	if !IsValueError(err) {
		t.Fatalf("Expected ValueError %q, got %v", msg, err)
	}
	if err.Error() != msg {
		t.Errorf("Expected message %q, got %q", msg, err.Error())
	}
}

// captureTransport wires a transport whose output accumulates in the
// returned buffer, and returns a function decoding it into blocks.
func captureTransport(t *testing.T) func() []protocol.Message {
	t.Helper()
	out := protocol.NewScratchOutput()
	SetGlobalTransport(protocol.NewTransport(out, HandleCommand))
	return func() []protocol.Message {
		var msgs []protocol.Message
		data := out.Result()
		for len(data) > 0 {
			msg, n, status := protocol.ScanMessage(data)
			if status != protocol.ScanBlock {
				t.Fatalf("Bad block in output: %X", data)
			}
			msgs = append(msgs, msg)
			data = data[n:]
		}
		out.Reset()
		return msgs
	}
}
