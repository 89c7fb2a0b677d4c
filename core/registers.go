package core

// RegisterFile is the abstract view of the special function register space
// that core code uses. Addresses are byte addresses of 16-bit words and must
// be even. Implementations must not cache: every call reaches the hardware.
type RegisterFile interface {
	// Read16 returns the current value of the word at addr
	Read16(addr uint16) uint16

	// Write16 stores value into the word at addr
	Write16(addr uint16, value uint16)
}

// Global singleton used by core code.
var registerFile RegisterFile

// SetRegisterFile is called by target-specific code to register its backend.
func SetRegisterFile(r RegisterFile) {
	registerFile = r
}

// MustRegisters returns the configured register file or panics if missing.
func MustRegisters() RegisterFile {
	if registerFile == nil {
		panic("register file not configured")
	}
	return registerFile
}
