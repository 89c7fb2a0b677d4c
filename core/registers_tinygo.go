//go:build tinygo

package core

import (
	"runtime/volatile"
	"unsafe"
)

// VolatileRegisters accesses the SFR space directly through volatile loads and
// stores.
type VolatileRegisters struct{}

func (VolatileRegisters) reg(addr uint16) *volatile.Register16 {
	assert(addr&1 == 0, "odd register address")
	return (*volatile.Register16)(unsafe.Pointer(uintptr(addr)))
}

func (r VolatileRegisters) Read16(addr uint16) uint16 {
	return r.reg(addr).Get()
}

func (r VolatileRegisters) Write16(addr uint16, value uint16) {
	r.reg(addr).Set(value)
}
