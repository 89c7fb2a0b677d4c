//go:build !tinygo

package core

// irqState stands in for the interrupt mask on the host, where register
// updates are already serialized by the register file.
type irqState uintptr

func disableInterrupts() irqState {
	return 0
}

func restoreInterrupts(irqState) {}
