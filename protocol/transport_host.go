//go:build !tinygo

package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrTransportClosed = errors.New("transport closed")
	ErrNak             = errors.New("block not acknowledged")
)

// DefaultAckTimeout bounds SendCommand when the caller's context has no deadline
const DefaultAckTimeout = 2 * time.Second

// HostTransport is the host side of the protocol: it sends command blocks,
// waits for their ACK and queues response blocks for the caller.
type HostTransport struct {
	port io.ReadWriteCloser

	currentSeq     uint32 // atomic; sequence of the next block we send
	isSynchronized uint32 // atomic bool

	inputBuffer *RxBuffer
	scratch     *ScratchOutput

	ackChan      chan Message
	responseChan chan Message

	writeMutex sync.Mutex
	closeOnce  sync.Once
	stopChan   chan struct{}
	doneChan   chan struct{}
}

// NewHostTransport creates a host transport and starts its reader
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:           port,
		currentSeq:     MessageDest,
		isSynchronized: 1,
		inputBuffer:    NewRxBuffer(512),
		scratch:        NewScratchOutput(),
		ackChan:        make(chan Message, 4),
		responseChan:   make(chan Message, 16),
		stopChan:       make(chan struct{}),
		doneChan:       make(chan struct{}),
	}

	go t.readLoop()

	return t
}

// SendCommand sends one command block and waits for the MCU to acknowledge it
func (t *HostTransport) SendCommand(ctx context.Context, cmdID uint16, args func(output OutputBuffer)) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultAckTimeout)
		defer cancel()
	}

	msg, err := t.buildCommandMessage(cmdID, args)
	if err != nil {
		return fmt.Errorf("failed to build command: %w", err)
	}

	if err := t.writeMessage(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := t.waitForAck(ctx); err != nil {
		return fmt.Errorf("waiting for ACK: %w", err)
	}

	return nil
}

func (t *HostTransport) buildCommandMessage(cmdID uint16, args func(output OutputBuffer)) ([]byte, error) {
	t.writeMutex.Lock()
	defer t.writeMutex.Unlock()

	t.scratch.Reset()
	seq := uint8(atomic.LoadUint32(&t.currentSeq))
	EncodeMessage(t.scratch, seq, func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(cmdID))
		if args != nil {
			args(output)
		}
	})

	msg := t.scratch.Result()
	if len(msg) > MessageLengthMax {
		return nil, fmt.Errorf("message too long: %d bytes (max %d)", len(msg), MessageLengthMax)
	}

	msgCopy := make([]byte, len(msg))
	copy(msgCopy, msg)
	return msgCopy, nil
}

func (t *HostTransport) writeMessage(msg []byte) error {
	t.writeMutex.Lock()
	defer t.writeMutex.Unlock()

	n, err := t.port.Write(msg)
	if err != nil {
		return err
	}
	if n != len(msg) {
		return fmt.Errorf("incomplete write: %d/%d bytes", n, len(msg))
	}
	return nil
}

// waitForAck consumes ACK blocks until one carries the sequence following the
// block just sent. An ACK repeating the current sequence is a NAK.
func (t *HostTransport) waitForAck(ctx context.Context) error {
	sent := uint8(atomic.LoadUint32(&t.currentSeq))
	want := NextSequence(sent)

	for {
		select {
		case ack := <-t.ackChan:
			switch ack.Sequence {
			case want:
				atomic.StoreUint32(&t.currentSeq, uint32(want))
				return nil
			case sent:
				return ErrNak
			}
			// Stale ACK from an earlier exchange; keep waiting

		case <-ctx.Done():
			return ctx.Err()

		case <-t.stopChan:
			return ErrTransportClosed
		}
	}
}

// ReceiveResponse returns the next queued response block
func (t *HostTransport) ReceiveResponse(ctx context.Context) (Message, error) {
	select {
	case resp := <-t.responseChan:
		return resp, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case <-t.stopChan:
		return Message{}, ErrTransportClosed
	}
}

func (t *HostTransport) readLoop() {
	defer close(t.doneChan)

	buffer := make([]byte, 128)

	for {
		select {
		case <-t.stopChan:
			return
		default:
		}

		n, err := t.port.Read(buffer)
		if n > 0 {
			if t.inputBuffer.Free() < n {
				// Overrun: drop what we have and resynchronize on the next block
				t.inputBuffer.Reset()
				t.setSynchronized(false)
			}
			t.inputBuffer.Append(buffer[:n])
			t.processMessages()
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (t *HostTransport) processMessages() {
	data := t.inputBuffer.Data()

	for len(data) > 0 {
		if !t.getSynchronized() {
			skip, found := SkipToSync(data)
			data = data[skip:]
			if found {
				t.setSynchronized(true)
			}
			continue
		}

		msg, n, status := ScanMessage(data)
		if status == ScanNeedMore {
			break
		}
		if status == ScanInvalid {
			t.setSynchronized(false)
			continue
		}
		data = data[n:]
		if status == ScanSync {
			continue
		}

		// Payload aliases the receive buffer, which is compacted below
		payload := make([]byte, len(msg.Payload))
		copy(payload, msg.Payload)
		msg.Payload = payload
		t.dispatchMessage(msg)
	}

	t.inputBuffer.Pop(t.inputBuffer.Available() - len(data))
}

func (t *HostTransport) dispatchMessage(msg Message) {
	if msg.IsAck() {
		select {
		case t.ackChan <- msg:
		default:
		}
		return
	}

	// Keep the newest responses when the caller falls behind
	select {
	case t.responseChan <- msg:
	default:
		select {
		case <-t.responseChan:
		default:
		}
		t.responseChan <- msg
	}
}

// Close stops the reader and closes the port
func (t *HostTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stopChan)
		if t.port != nil {
			err = t.port.Close()
		}
		<-t.doneChan
	})
	return err
}

// Reset drops queued blocks and restarts the sequence at MessageDest
func (t *HostTransport) Reset() {
	atomic.StoreUint32(&t.isSynchronized, 1)
	atomic.StoreUint32(&t.currentSeq, MessageDest)

	for len(t.ackChan) > 0 {
		<-t.ackChan
	}
	for len(t.responseChan) > 0 {
		<-t.responseChan
	}
}

func (t *HostTransport) getSynchronized() bool {
	return atomic.LoadUint32(&t.isSynchronized) != 0
}

func (t *HostTransport) setSynchronized(val bool) {
	if val {
		atomic.StoreUint32(&t.isSynchronized, 1)
	} else {
		atomic.StoreUint32(&t.isSynchronized, 0)
	}
}

// CurrentSequence returns the sequence of the next block to send
func (t *HostTransport) CurrentSequence() uint8 {
	return uint8(atomic.LoadUint32(&t.currentSeq))
}
