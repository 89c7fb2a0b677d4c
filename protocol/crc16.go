package protocol

// crcInit is the CRC16 seed (CRC-16/MCRF4XX, as used by Klipper framing)
const crcInit = 0xFFFF

// crc16Update folds one byte into a running checksum
func crc16Update(crc uint16, b byte) uint16 {
	b ^= byte(crc)
	b ^= b << 4
	w := uint16(b)
	return (w<<8 | crc>>8) ^ (w >> 4) ^ (w << 3)
}

// CRC16 returns the checksum over data, sent big-endian before the sync byte
func CRC16(data []byte) uint16 {
	crc := uint16(crcInit)
	for _, b := range data {
		crc = crc16Update(crc, b)
	}
	return crc
}
