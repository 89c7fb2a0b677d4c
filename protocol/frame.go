package protocol

// ScanStatus classifies the head of a receive buffer
type ScanStatus uint8

const (
	ScanNeedMore ScanStatus = iota // Not enough bytes for a full block yet
	ScanSync                       // A stray sync byte; drop it
	ScanBlock                      // A complete, CRC-valid block
	ScanInvalid                    // Framing or CRC error; resynchronize
)

// ScanMessage inspects the head of data. For ScanBlock it returns the decoded
// block and its length; for ScanSync the consumed length is 1. The returned
// payload aliases data.
func ScanMessage(data []byte) (Message, int, ScanStatus) {
	if len(data) == 0 {
		return Message{}, 0, ScanNeedMore
	}
	if data[0] == MessageValueSync {
		return Message{}, 1, ScanSync
	}
	if len(data) < MessageLengthMin {
		return Message{}, 0, ScanNeedMore
	}

	msgLen := int(data[MessagePositionLen])
	if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
		return Message{}, 0, ScanInvalid
	}
	seq := data[MessagePositionSeq]
	if seq&^MessageSeqMask != MessageDest {
		return Message{}, 0, ScanInvalid
	}
	if len(data) < msgLen {
		return Message{}, 0, ScanNeedMore
	}
	if data[msgLen-MessageTrailerSync] != MessageValueSync {
		return Message{}, 0, ScanInvalid
	}

	frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
		uint16(data[msgLen-MessageTrailerCRC+1])
	if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
		return Message{}, 0, ScanInvalid
	}

	return Message{
		Length:   uint8(msgLen),
		Sequence: seq,
		Payload:  data[MessageHeaderSize : msgLen-MessageTrailerSize],
		CRC:      frameCRC,
	}, msgLen, ScanBlock
}

// SkipToSync returns how many bytes to drop so that data starts just after the
// next sync byte, and whether a sync byte was found at all.
func SkipToSync(data []byte) (int, bool) {
	for i, b := range data {
		if b == MessageValueSync {
			return i + 1, true
		}
	}
	return len(data), false
}

// EncodeMessage writes one complete block with the given sequence byte.
// body may be nil, which produces an ACK/NAK block.
func EncodeMessage(output OutputBuffer, seq uint8, body func(output OutputBuffer)) {
	cursor := output.CurPosition()

	// Length is patched once the body size is known
	output.Output([]byte{0, seq})
	if body != nil {
		body(output)
	}

	msgLen := len(output.DataSince(cursor)) + MessageTrailerSize
	output.Update(cursor, uint8(msgLen))

	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{
		uint8(crc >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})
}

// DecodeMessage decodes data that must hold exactly one valid block
func DecodeMessage(data []byte) (Message, error) {
	msg, n, status := ScanMessage(data)
	if status != ScanBlock || n != len(data) {
		return Message{}, ErrBadBlock
	}
	return msg, nil
}
