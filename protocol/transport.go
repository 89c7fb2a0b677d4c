package protocol

import "sync/atomic"

// CommandHandler is a function type for handling decoded commands
type CommandHandler func(cmdID uint16, data *[]byte) error

// Transport is the MCU side of the protocol: it validates incoming blocks,
// dispatches their commands in order and answers every block with an ACK/NAK.
type Transport struct {
	isSynchronized uint32 // atomic bool
	nextSequence   uint32 // atomic; expected sequence from host (0x10-0x1F)

	output        OutputBuffer
	handler       CommandHandler
	resetCallback func() // Called when host reset is detected
	flushCallback func() // Called to push pending output to the wire
}

// NewTransport creates a new Transport instance
func NewTransport(output OutputBuffer, handler CommandHandler) *Transport {
	return &Transport{
		isSynchronized: 1,
		nextSequence:   MessageDest,
		output:         output,
		handler:        handler,
	}
}

// Receive processes incoming data from the input buffer
func (t *Transport) Receive(input InputBuffer) {
	data := input.Data()

	for len(data) > 0 {
		if !t.getSynchronized() {
			skip, found := SkipToSync(data)
			data = data[skip:]
			if found {
				t.setSynchronized(true)
				t.encodeAckNak()
			}
			continue
		}

		msg, n, status := ScanMessage(data)
		switch status {
		case ScanNeedMore:
			t.consume(input, data)
			return
		case ScanSync:
			data = data[n:]
			continue
		case ScanInvalid:
			t.setSynchronized(false)
			continue
		}
		data = data[n:]

		// Sequence back at MessageDest while we expect something else
		// means the host restarted its session.
		expectedSeq := uint8(atomic.LoadUint32(&t.nextSequence))
		if msg.Sequence == MessageDest && expectedSeq != MessageDest {
			atomic.StoreUint32(&t.nextSequence, MessageDest)
			expectedSeq = MessageDest
			if t.resetCallback != nil {
				t.resetCallback()
			}
		}

		// A repeated or out-of-order block is not executed; the ACK below
		// then acts as a NAK carrying the sequence we still expect.
		if msg.Sequence == expectedSeq {
			atomic.StoreUint32(&t.nextSequence, uint32(NextSequence(msg.Sequence)))
			t.parseFrame(msg.Payload)
		}
		t.encodeAckNak()
	}

	t.consume(input, data)
}

func (t *Transport) consume(input InputBuffer, rest []byte) {
	if consumed := input.Available() - len(rest); consumed > 0 {
		input.Pop(consumed)
	}
}

// parseFrame dispatches each command in the block. A handler error ends the
// block: commands after a failed one are not executed.
func (t *Transport) parseFrame(frame []byte) {
	for len(frame) > 0 {
		cmdID, err := DecodeVLQUint(&frame)
		if err != nil {
			t.setSynchronized(false)
			return
		}
		if t.handler == nil {
			return
		}
		if err := t.handler(uint16(cmdID), &frame); err != nil {
			return
		}
	}
}

// encodeAckNak emits an empty block carrying the next expected sequence and
// flushes, so that responses queued by the handlers precede or accompany it.
func (t *Transport) encodeAckNak() {
	EncodeMessage(t.output, uint8(atomic.LoadUint32(&t.nextSequence)), nil)
	if t.flushCallback != nil {
		t.flushCallback()
	}
}

// SendCommand encodes a response block: command ID then arguments
func (t *Transport) SendCommand(cmdID uint16, args func(output OutputBuffer)) {
	seq := uint8(atomic.LoadUint32(&t.nextSequence))
	EncodeMessage(t.output, seq, func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(cmdID))
		if args != nil {
			args(output)
		}
	})
}

// Reset returns the transport to its power-on state
func (t *Transport) Reset() {
	atomic.StoreUint32(&t.isSynchronized, 1)
	atomic.StoreUint32(&t.nextSequence, MessageDest)
	if t.resetCallback != nil {
		t.resetCallback()
	}
}

// SetResetCallback sets a callback to be called when host reset is detected
func (t *Transport) SetResetCallback(callback func()) {
	t.resetCallback = callback
}

// SetFlushCallback sets a callback used to push output after every ACK
func (t *Transport) SetFlushCallback(callback func()) {
	t.flushCallback = callback
}

func (t *Transport) getSynchronized() bool {
	return atomic.LoadUint32(&t.isSynchronized) != 0
}

func (t *Transport) setSynchronized(val bool) {
	if val {
		atomic.StoreUint32(&t.isSynchronized, 1)
	} else {
		atomic.StoreUint32(&t.isSynchronized, 0)
	}
}
