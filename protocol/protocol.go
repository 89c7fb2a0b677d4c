// Package protocol implements the framed command protocol spoken between the
// pin-configuration firmware and its host.
//
// A message block is: length, sequence, VLQ payload, CRC16 (big endian), sync.
// The payload is a sequence of commands, each a VLQ command ID followed by its
// VLQ-encoded arguments.
package protocol

// Version is the protocol/firmware version reported in the dictionary.
const Version = "0.3.0"

const (
	MessageMax         = 256 // Scratch output size (several blocks per flush)
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
	MessageSeqMask     = 0x0F
)

// Message is one decoded message block.
type Message struct {
	Length   uint8
	Sequence uint8
	Payload  []byte // Block contents without header and trailer
	CRC      uint16
}

// IsAck reports whether the block carries no commands (ACK/NAK).
func (m *Message) IsAck() bool {
	return len(m.Payload) == 0
}

// NextSequence returns the sequence byte following seq, wrapping within the
// 0x10-0x1F destination range.
func NextSequence(seq uint8) uint8 {
	return ((seq + 1) & MessageSeqMask) | MessageDest
}
