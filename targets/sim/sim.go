//go:build !tinygo

// Package sim runs the pin-configuration firmware on the host against a
// simulated register space. A Sim is an io.ReadWriteCloser speaking the
// same wire protocol as the serial port of a real board.
package sim

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"pic24io/core"
	"pic24io/protocol"
	"pic24io/targets/chips"
)

var ErrUnknownChip = errors.New("unknown chip")

// Sim is one simulated board. The firmware core keeps global state, so only
// one Sim may be open per process.
type Sim struct {
	Chip *core.Chip
	Regs *core.MemoryRegisters

	mu        sync.Mutex
	rx        *protocol.RxBuffer
	out       *protocol.ScratchOutput
	transport *protocol.Transport

	// MCU to host stream
	txMu   sync.Mutex
	txCond *sync.Cond
	tx     bytes.Buffer
	closed bool
}

// Options adjusts a simulated board
type Options struct {
	// Debug, when set, enables firmware debug output to this function
	Debug func(string)
}

// Open starts a simulator for the named chip variant
func Open(name string, opts Options) (*Sim, error) {
	c, ok := chips.Lookup(name)
	if !ok {
		return nil, ErrUnknownChip
	}
	return New(c, opts)
}

// New starts a simulator for the chip
func New(c *core.Chip, opts Options) (*Sim, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s := &Sim{
		Chip: c,
		Regs: core.NewMemoryRegisters(),
		rx:   protocol.NewRxBuffer(256),
		out:  protocol.NewScratchOutput(),
	}
	s.txCond = sync.NewCond(&s.txMu)
	s.powerOnReset()

	core.SetRegisterFile(s.Regs)
	core.SetChip(c)
	core.ResetCommands()
	core.InitCoreCommands()
	core.InitPinCommands()

	core.SetDiagnosticWriter(core.SendDiagnostic)
	if opts.Debug != nil {
		core.SetDebugWriter(opts.Debug)
		core.SetDebugEnabled(true)
	} else {
		core.SetDebugEnabled(false)
	}

	s.transport = protocol.NewTransport(s.out, core.HandleCommand)
	s.transport.SetFlushCallback(s.flush)
	s.transport.SetResetCallback(func() {
		core.DebugPrintln("[sim] host restarted session")
	})
	core.SetGlobalTransport(s.transport)

	return s, nil
}

// powerOnReset loads the reset values that matter for pin configuration:
// every pin is an input, every analog-capable pin is analog, every remapped
// input reads from nothing.
func (s *Sim) powerOnReset() {
	c := s.Chip
	stride := c.TRISB - c.TRISA
	for port := uint16(0); port < c.NumPorts; port++ {
		s.Regs.Poke(c.TRISA+port*stride, c.PinPresent[port])
	}
	if c.Remap != nil {
		for _, f := range c.Remap.Inputs {
			mask := uint16(1)<<f.Width - 1
			word := s.Regs.Read16(f.Addr) &^ (mask << f.Shift)
			word |= (c.Remap.InputNull & mask) << f.Shift
			s.Regs.Poke(f.Addr, word)
		}
	}
}

// Write feeds host bytes to the firmware. Responses become readable from
// Read once the firmware has processed a complete block.
func (s *Sim) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return 0, io.ErrClosedPipe
	}

	written := 0
	for written < len(p) {
		n := s.rx.Append(p[written:])
		written += n
		s.transport.Receive(s.rx)
		if n == 0 && s.rx.Free() == 0 {
			// Nothing in the buffer forms a block; drop it and resync
			s.rx.Reset()
		}
	}
	return written, nil
}

// Read returns bytes sent by the firmware, blocking until some are queued
func (s *Sim) Read(p []byte) (int, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	for s.tx.Len() == 0 && !s.closed {
		s.txCond.Wait()
	}
	if s.closed {
		return 0, io.EOF
	}
	return s.tx.Read(p)
}

// Close stops the simulator. Blocked and later reads return io.EOF.
func (s *Sim) Close() error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.closed = true
	s.txCond.Broadcast()
	return nil
}

func (s *Sim) isClosed() bool {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.closed
}

// flush queues firmware output for the reader
func (s *Sim) flush() {
	data := s.out.Result()
	if len(data) == 0 {
		return
	}

	s.txMu.Lock()
	s.tx.Write(data)
	s.txMu.Unlock()
	s.txCond.Broadcast()

	s.out.Reset()
}
