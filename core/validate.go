package core

// digitalPinInBounds rejects ports beyond the chip and pins above 15
func digitalPinInBounds(port, pin uint16) bool {
	return port < MustChip().NumPorts && pin < PinsPerPort
}

// PinExists reports whether the digital I/O pin exists on this chip.
// Out-of-range ports and pins simply return false.
func PinExists(port, pin uint16) bool {
	if !digitalPinInBounds(port, pin) {
		return false
	}
	return GetBit(MustChip().PinPresent[port], pin)
}

// OpenDrainExists reports whether the pin exists and has open-drain ability
func OpenDrainExists(port, pin uint16) bool {
	if !PinExists(port, pin) {
		return false
	}
	return GetBit(MustChip().OpenDrainPresent[port], pin)
}

// Pin capability flags reported by PinCaps
const (
	CapExists    = 1 << 0
	CapOpenDrain = 1 << 1
	CapAnalog    = 1 << 2
	CapPullUp    = 1 << 3
	CapPullDown  = 1 << 4
	CapRemap     = 1 << 5
)

// Caps is the capability map entry of one pin
type Caps struct {
	Flags uint8
	AN    uint8
	CN    uint8
	RP    uint8
}

// PinCaps summarizes what a pin can do. A missing pin has zero flags and
// undefined channels.
func PinCaps(port, pin uint16) Caps {
	caps := Caps{AN: UndefPin, CN: UndefPin, RP: UndefPin}
	if !PinExists(port, pin) {
		return caps
	}
	c := MustChip()
	ac := c.anCn(port, pin)
	caps.Flags |= CapExists
	caps.AN = ac.AN
	caps.CN = ac.CN
	if OpenDrainExists(port, pin) {
		caps.Flags |= CapOpenDrain
	}
	if ac.AN != UndefPin {
		caps.Flags |= CapAnalog
	}
	if ac.CN != UndefPin {
		caps.Flags |= CapPullUp
		if c.HasPullDowns() {
			caps.Flags |= CapPullDown
		}
	}
	if c.Remap != nil {
		if rp, ok := c.Remap.Slot(port, pin); ok {
			caps.Flags |= CapRemap
			caps.RP = rp
		}
	}
	return caps
}
