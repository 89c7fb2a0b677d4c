package protocol

import (
	"bytes"
	"errors"
	"testing"
)

type recordedCmd struct {
	id   uint16
	args []byte
}

// newTestTransport returns an MCU transport that records dispatched commands
// and collects everything it writes.
func newTestTransport(fail map[uint16]bool) (*Transport, *ScratchOutput, *[]recordedCmd, *bytes.Buffer) {
	out := NewScratchOutput()
	var wire bytes.Buffer
	var cmds []recordedCmd

	tr := NewTransport(out, func(cmdID uint16, data *[]byte) error {
		arg, err := DecodeVLQUint(data)
		if err != nil {
			return err
		}
		cmds = append(cmds, recordedCmd{id: cmdID, args: []byte{byte(arg)}})
		if fail[cmdID] {
			return errors.New("failed")
		}
		return nil
	})
	tr.SetFlushCallback(func() {
		wire.Write(out.Result())
		out.Reset()
	})
	return tr, out, &cmds, &wire
}

func commandBlock(seq uint8, cmds ...[2]uint32) []byte {
	out := NewScratchOutput()
	EncodeMessage(out, seq, func(o OutputBuffer) {
		for _, c := range cmds {
			EncodeVLQUint(o, c[0])
			EncodeVLQUint(o, c[1])
		}
	})
	return append([]byte(nil), out.Result()...)
}

func TestTransportDispatchAndAck(t *testing.T) {
	tr, _, cmds, wire := newTestTransport(nil)

	tr.Receive(NewSliceInputBuffer(commandBlock(MessageDest, [2]uint32{3, 7}, [2]uint32{4, 8})))

	if len(*cmds) != 2 || (*cmds)[0].id != 3 || (*cmds)[1].id != 4 {
		t.Fatalf("Expected commands 3 and 4, got %v", *cmds)
	}

	ack, err := DecodeMessage(wire.Bytes())
	if err != nil {
		t.Fatalf("Expected a single ACK block, got %X (%v)", wire.Bytes(), err)
	}
	if !ack.IsAck() || ack.Sequence != 0x11 {
		t.Errorf("Expected ACK with seq 0x11, got seq 0x%X payload %v", ack.Sequence, ack.Payload)
	}
}

func TestTransportStopsBlockOnError(t *testing.T) {
	tr, _, cmds, _ := newTestTransport(map[uint16]bool{3: true})

	tr.Receive(NewSliceInputBuffer(commandBlock(MessageDest, [2]uint32{3, 1}, [2]uint32{4, 2})))

	if len(*cmds) != 1 {
		t.Errorf("Expected the block to stop after the failing command, got %v", *cmds)
	}
}

func TestTransportRepeatedBlockNotExecuted(t *testing.T) {
	tr, _, cmds, wire := newTestTransport(nil)

	tr.Receive(NewSliceInputBuffer(commandBlock(MessageDest, [2]uint32{5, 1})))
	next := commandBlock(0x11, [2]uint32{5, 2})
	tr.Receive(NewSliceInputBuffer(next))
	if len(*cmds) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(*cmds))
	}

	wire.Reset()
	tr.Receive(NewSliceInputBuffer(next))
	if len(*cmds) != 2 {
		t.Errorf("Repeated block executed again")
	}
	nak, err := DecodeMessage(wire.Bytes())
	if err != nil || nak.Sequence != 0x12 {
		t.Errorf("Expected NAK carrying 0x12, got %X (%v)", wire.Bytes(), err)
	}
}

func TestTransportHostRestart(t *testing.T) {
	tr, _, cmds, _ := newTestTransport(nil)
	resets := 0
	tr.SetResetCallback(func() { resets++ })

	tr.Receive(NewSliceInputBuffer(commandBlock(MessageDest, [2]uint32{5, 1})))
	tr.Receive(NewSliceInputBuffer(commandBlock(MessageDest, [2]uint32{5, 2})))

	if len(*cmds) != 2 || resets != 1 {
		t.Errorf("Expected restart to re-execute seq 0x10, got %d cmds %d resets", len(*cmds), resets)
	}
}

func TestTransportPartialInput(t *testing.T) {
	tr, _, cmds, _ := newTestTransport(nil)
	block := commandBlock(MessageDest, [2]uint32{6, 1})

	rx := NewRxBuffer(64)
	rx.Append(block[:4])
	tr.Receive(rx)
	if len(*cmds) != 0 || rx.Available() != 4 {
		t.Fatalf("Partial block should stay buffered, got %d cmds, %d bytes", len(*cmds), rx.Available())
	}

	rx.Append(block[4:])
	tr.Receive(rx)
	if len(*cmds) != 1 || rx.Available() != 0 {
		t.Errorf("Expected block to complete, got %d cmds, %d bytes left", len(*cmds), rx.Available())
	}
}

func TestTransportResyncAfterGarbage(t *testing.T) {
	tr, _, cmds, _ := newTestTransport(nil)

	garbage := []byte{0x01, 0x02, 0x03, MessageValueSync}
	input := append(garbage, commandBlock(MessageDest, [2]uint32{9, 1})...)
	tr.Receive(NewSliceInputBuffer(input))

	if len(*cmds) != 1 || (*cmds)[0].id != 9 {
		t.Errorf("Expected command 9 after resync, got %v", *cmds)
	}
}

func TestTransportSendCommand(t *testing.T) {
	tr, out, _, _ := newTestTransport(nil)

	tr.SendCommand(2, func(o OutputBuffer) { EncodeVLQUint(o, 42) })

	msg, err := DecodeMessage(out.Result())
	if err != nil {
		t.Fatalf("Expected one block, got %v", err)
	}
	data := msg.Payload
	id, _ := DecodeVLQUint(&data)
	arg, _ := DecodeVLQUint(&data)
	if id != 2 || arg != 42 || msg.Sequence != MessageDest {
		t.Errorf("Expected cmd 2 arg 42 seq 0x10, got %d %d 0x%X", id, arg, msg.Sequence)
	}
}
