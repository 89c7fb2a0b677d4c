package core

// GetBit returns bit (0-15) of a 16-bit field
func GetBit(field uint16, bit uint16) bool {
	assert(bit < 16, "bit index out of range")
	return field&(1<<bit) != 0
}

// SetBit sets or clears bit (0-15) of *field with one read-modify-write
func SetBit(field *uint16, bit uint16, val bool) {
	assert(bit < 16, "bit index out of range")
	if val {
		*field |= 1 << bit
	} else {
		*field &^= 1 << bit
	}
}

// setRegBit performs a live read-modify-write of one register bit with
// interrupts masked
func setRegBit(addr uint16, bit uint16, val bool) {
	regs := MustRegisters()
	state := disableInterrupts()
	defer restoreInterrupts(state)

	v := regs.Read16(addr)
	SetBit(&v, bit, val)
	regs.Write16(addr, v)
}

// getRegBit reads one register bit
func getRegBit(addr uint16, bit uint16) bool {
	return GetBit(MustRegisters().Read16(addr), bit)
}

// setExtendedRegBit addresses bit n of a register group spanning consecutive
// words from base (word n/16, bit n%16), e.g. CNPU1:CNPU2 or AD1PCFGL:AD1PCFGH.
func setExtendedRegBit(base uint16, n uint8, val bool) {
	setRegBit(base+2*uint16(n/16), uint16(n%16), val)
}

func getExtendedRegBit(base uint16, n uint8) bool {
	return getRegBit(base+2*uint16(n/16), uint16(n%16))
}

// setChannelBit sets bit n of a register group given as an explicit word
// list. Channels beyond the list are not implemented by that converter and
// are skipped.
func setChannelBit(words []uint16, n uint8, val bool) {
	if int(n/16) >= len(words) {
		return
	}
	setRegBit(words[n/16], uint16(n%16), val)
}

// getExtendedBit is the in-memory form used for capability bitmaps wider than
// one word.
func getExtendedBit(bitmap uint32, n uint16) bool {
	if n >= 32 {
		return false
	}
	return bitmap&(1<<n) != 0
}
