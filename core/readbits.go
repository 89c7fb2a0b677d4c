package core

// ReadBits extracts numBits bits starting at startBit from the word at an
// even address, and writes a line describing the result to the diagnostic
// stream.
func ReadBits(addr uint16, startBit, numBits uint16) (uint16, error) {
	if addr&1 != 0 {
		return 0, valueError("The address must be even.")
	}
	if startBit > 15 {
		return 0, valueError("The start bit must be <= 15.")
	}
	if numBits == 0 {
		return 0, valueError("The number of bits must be > 0.")
	}
	if uint32(startBit)+uint32(numBits) > 16 {
		return 0, valueError("start bit + num bits <= 16.")
	}

	mask := uint16(uint32(1)<<numBits - 1)
	value := (MustRegisters().Read16(addr) >> startBit) & mask

	DiagPrintln("Value at 0x" + hex(uint32(addr), 4) +
		", bit(s) " + itoa(int(startBit)) + " to " + itoa(int(startBit+numBits-1)) +
		" = 0x" + hex(uint32(value), 2) + ".")

	return value, nil
}
