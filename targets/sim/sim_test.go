//go:build !tinygo

package sim

import (
	"context"
	"io"
	"testing"
	"time"

	"pic24io/core"
	"pic24io/protocol"
)

func TestOpenUnknownChip(t *testing.T) {
	if _, err := Open("PIC16F84", Options{}); err != ErrUnknownChip {
		t.Errorf("Expected ErrUnknownChip, got %v", err)
	}
}

func TestPowerOnReset(t *testing.T) {
	s, err := Open("PIC24FJ64GB002", Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if got := s.Regs.Read16(s.Chip.TRISB); got != 0xFFDF {
		t.Errorf("Expected TRISB reset to present pins, got 0x%04X", got)
	}
	if got := s.Regs.Read16(0x06A4); got != 0x3F3F {
		t.Errorf("Expected RPINR18 inputs unmapped, got 0x%04X", got)
	}
	if s.Regs.Writes() != 0 {
		t.Errorf("Reset values must not count as writes, got %d", s.Regs.Writes())
	}
}

func TestSimRoundTrip(t *testing.T) {
	s, err := Open("PIC24HJ32GP202", Options{})
	if err != nil {
		t.Fatal(err)
	}

	host := protocol.NewHostTransport(s)
	defer host.Close()

	readBits, ok := core.GetGlobalRegistry().GetCommandByName("read_bits")
	if !ok {
		t.Fatal("read_bits not registered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err = host.SendCommand(ctx, readBits.ID, func(o protocol.OutputBuffer) {
		protocol.EncodeVLQUint(o, uint32(s.Chip.TRISA))
		protocol.EncodeVLQUint(o, 0)
		protocol.EncodeVLQUint(o, 5)
	})
	if err != nil {
		t.Fatalf("SendCommand: %v", err)
	}

	// The diagnostic line arrives as a response ahead of the result
	resp, err := host.ReceiveResponse(ctx)
	if err != nil {
		t.Fatalf("ReceiveResponse: %v", err)
	}
	data := resp.Payload
	id, _ := protocol.DecodeVLQUint(&data)
	line, _ := protocol.DecodeVLQString(&data)
	diagOut, _ := core.GetGlobalRegistry().GetCommandByName("diag_output")
	if uint16(id) != diagOut.ID || line != "Value at 0x02C0, bit(s) 0 to 4 = 0x1F." {
		t.Errorf("Expected diag_output line, got id %d %q", id, line)
	}

	resp, err = host.ReceiveResponse(ctx)
	if err != nil {
		t.Fatalf("ReceiveResponse: %v", err)
	}
	data = resp.Payload
	id, _ = protocol.DecodeVLQUint(&data)
	addr, _ := protocol.DecodeVLQUint(&data)
	value, _ := protocol.DecodeVLQUint(&data)
	result, _ := core.GetGlobalRegistry().GetCommandByName("read_bits_result")
	if uint16(id) != result.ID || addr != uint32(s.Chip.TRISA) || value != 0x1F {
		t.Errorf("Expected read_bits_result TRISA=0x1F, got id %d 0x%X=0x%X", id, addr, value)
	}
}

func TestCloseUnblocksRead(t *testing.T) {
	s, err := Open("dsPIC33FJ256GP710", Options{})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 8)
		_, err := s.Read(buf)
		done <- err
	}()

	s.Close()
	select {
	case err := <-done:
		if err != io.EOF {
			t.Errorf("Expected io.EOF, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Read not unblocked by Close")
	}

	if _, err := s.Write([]byte{1}); err != io.ErrClosedPipe {
		t.Errorf("Expected ErrClosedPipe after Close, got %v", err)
	}
}
