package core

// ioPortControlOffset is the byte distance between the same control register
// of two successive ports (TRISB - TRISA). Only known once a chip is chosen.
var ioPortControlOffset uint16

// InitIOConst computes the port stride from the installed chip
func InitIOConst() {
	c := MustChip()
	ioPortControlOffset = c.TRISB - c.TRISA
}

// PortRegister locates one register family (TRISx, ODCx) for any port
type PortRegister struct {
	Base uint16 // Address of the port A register
}

// Addr returns the address of this register for the given port
func (r PortRegister) Addr(port uint16) uint16 {
	assert(ioPortControlOffset != 0, "port stride not initialized")
	return r.Base + port*ioPortControlOffset
}

func trisRegister() PortRegister {
	return PortRegister{Base: MustChip().TRISA}
}

func odcRegister() PortRegister {
	return PortRegister{Base: MustChip().ODCA}
}
