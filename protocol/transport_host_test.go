//go:build !tinygo

package protocol

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

// runPeer serves an MCU transport on conn. Command 7 answers with command 8
// carrying twice its argument.
func runPeer(conn net.Conn) {
	out := NewScratchOutput()
	var tr *Transport
	tr = NewTransport(out, func(cmdID uint16, data *[]byte) error {
		v, err := DecodeVLQUint(data)
		if err != nil {
			return err
		}
		if cmdID == 7 {
			tr.SendCommand(8, func(o OutputBuffer) { EncodeVLQUint(o, v*2) })
		}
		return nil
	})
	tr.SetFlushCallback(func() {
		conn.Write(out.Result())
		out.Reset()
	})

	rx := NewRxBuffer(256)
	buf := make([]byte, 64)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		rx.Append(buf[:n])
		tr.Receive(rx)
	}
}

func TestHostTransportRoundTrip(t *testing.T) {
	hostEnd, mcuEnd := net.Pipe()
	go runPeer(mcuEnd)
	host := NewHostTransport(hostEnd)
	defer host.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := host.SendCommand(ctx, 7, func(o OutputBuffer) { EncodeVLQUint(o, 21) })
	if err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}
	if host.CurrentSequence() != 0x11 {
		t.Errorf("Expected sequence 0x11 after ACK, got 0x%X", host.CurrentSequence())
	}

	resp, err := host.ReceiveResponse(ctx)
	if err != nil {
		t.Fatalf("ReceiveResponse failed: %v", err)
	}
	data := resp.Payload
	id, _ := DecodeVLQUint(&data)
	v, _ := DecodeVLQUint(&data)
	if id != 8 || v != 42 {
		t.Errorf("Expected response 8 with 42, got %d with %d", id, v)
	}
}

func TestHostTransportSequenceWraps(t *testing.T) {
	hostEnd, mcuEnd := net.Pipe()
	go runPeer(mcuEnd)
	host := NewHostTransport(hostEnd)
	defer host.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := 0; i < 20; i++ {
		if err := host.SendCommand(ctx, 3, func(o OutputBuffer) { EncodeVLQUint(o, uint32(i)) }); err != nil {
			t.Fatalf("Block %d: %v", i, err)
		}
	}
	if host.CurrentSequence() != 0x14 {
		t.Errorf("Expected sequence 0x14 after 20 blocks, got 0x%X", host.CurrentSequence())
	}
}

func TestHostTransportAckTimeout(t *testing.T) {
	hostEnd, mcuEnd := net.Pipe()
	defer mcuEnd.Close()
	go func() {
		// Swallow everything, never answer
		buf := make([]byte, 64)
		for {
			if _, err := mcuEnd.Read(buf); err != nil {
				return
			}
		}
	}()
	host := NewHostTransport(hostEnd)
	defer host.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := host.SendCommand(ctx, 1, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestHostTransportClose(t *testing.T) {
	hostEnd, mcuEnd := net.Pipe()
	defer mcuEnd.Close()
	host := NewHostTransport(hostEnd)

	if err := host.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := host.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}

	_, err := host.ReceiveResponse(context.Background())
	if !errors.Is(err, ErrTransportClosed) {
		t.Errorf("Expected ErrTransportClosed, got %v", err)
	}
}

func TestHostTransportMessageTooLong(t *testing.T) {
	hostEnd, mcuEnd := net.Pipe()
	defer mcuEnd.Close()
	host := NewHostTransport(hostEnd)
	defer host.Close()

	err := host.SendCommand(context.Background(), 1, func(o OutputBuffer) {
		o.Output(make([]byte, MessageLengthMax))
	})
	if err == nil {
		t.Error("Expected oversized block to be rejected")
	}
}
