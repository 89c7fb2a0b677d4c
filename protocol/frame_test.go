package protocol

import (
	"bytes"
	"testing"
)

func encodeBlock(seq uint8, payload ...byte) []byte {
	out := NewScratchOutput()
	var body func(OutputBuffer)
	if len(payload) > 0 {
		body = func(o OutputBuffer) { o.Output(payload) }
	}
	EncodeMessage(out, seq, body)
	return append([]byte(nil), out.Result()...)
}

func TestEncodeAck(t *testing.T) {
	got := encodeBlock(MessageDest)
	want := []byte{5, MessageDest, 0x9E, 0x81, MessageValueSync}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected %X, got %X", want, got)
	}
}

func TestScanMessage(t *testing.T) {
	block := encodeBlock(0x13, 0x01, 0x02)

	msg, n, status := ScanMessage(block)
	if status != ScanBlock {
		t.Fatalf("Expected ScanBlock, got %d", status)
	}
	if n != len(block) || msg.Length != 7 || msg.Sequence != 0x13 {
		t.Errorf("Unexpected block: n=%d len=%d seq=%X", n, msg.Length, msg.Sequence)
	}
	if !bytes.Equal(msg.Payload, []byte{0x01, 0x02}) {
		t.Errorf("Expected payload [1 2], got %v", msg.Payload)
	}
	if msg.IsAck() {
		t.Error("Block with payload reported as ACK")
	}
}

func TestScanMessageStatuses(t *testing.T) {
	block := encodeBlock(MessageDest, 0x05)

	if _, _, s := ScanMessage(block[:3]); s != ScanNeedMore {
		t.Errorf("Truncated block: expected ScanNeedMore, got %d", s)
	}
	if _, n, s := ScanMessage([]byte{MessageValueSync, 1}); s != ScanSync || n != 1 {
		t.Errorf("Leading sync: expected ScanSync/1, got %d/%d", s, n)
	}

	corrupt := append([]byte(nil), block...)
	corrupt[2] ^= 0xFF
	if _, _, s := ScanMessage(corrupt); s != ScanInvalid {
		t.Errorf("Bad CRC: expected ScanInvalid, got %d", s)
	}

	badSeq := append([]byte(nil), block...)
	badSeq[MessagePositionSeq] = 0x20
	if _, _, s := ScanMessage(badSeq); s != ScanInvalid {
		t.Errorf("Bad sequence: expected ScanInvalid, got %d", s)
	}

	if _, _, s := ScanMessage([]byte{MessageLengthMax + 1, MessageDest, 0, 0, 0}); s != ScanInvalid {
		t.Errorf("Oversized length: expected ScanInvalid, got %d", s)
	}
}

func TestSkipToSync(t *testing.T) {
	if n, found := SkipToSync([]byte{1, 2, MessageValueSync, 4}); !found || n != 3 {
		t.Errorf("Expected 3/true, got %d/%v", n, found)
	}
	if n, found := SkipToSync([]byte{1, 2}); found || n != 2 {
		t.Errorf("Expected 2/false, got %d/%v", n, found)
	}
}

func TestDecodeMessage(t *testing.T) {
	block := encodeBlock(0x1F, 0x07)
	if _, err := DecodeMessage(block); err != nil {
		t.Errorf("Expected valid block, got %v", err)
	}
	if _, err := DecodeMessage(append(block, 0)); err != ErrBadBlock {
		t.Errorf("Trailing data: expected ErrBadBlock, got %v", err)
	}
}

func TestNextSequenceWraps(t *testing.T) {
	if NextSequence(0x1F) != MessageDest {
		t.Errorf("Expected wrap to 0x10, got 0x%X", NextSequence(0x1F))
	}
	if NextSequence(0x14) != 0x15 {
		t.Errorf("Expected 0x15, got 0x%X", NextSequence(0x14))
	}
}
