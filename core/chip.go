package core

import "errors"

// UndefPin marks a pin without an analog (AN) or change-notification (CN)
// channel in an AnCn entry.
const UndefPin = 0xFF

// PinsPerPort is the width of every I/O port
const PinsPerPort = 16

// AnCn gives the analog input and change-notification channel wired to a pin.
// The CN channel also selects the pin's pull-up/pull-down bits.
type AnCn struct {
	AN uint8
	CN uint8
}

// NoAnCn is the entry for a pin with neither channel
var NoAnCn = AnCn{AN: UndefPin, CN: UndefPin}

// RemapField is a bit field inside a peripheral pin select register
type RemapField struct {
	Name  string // Datasheet field name, e.g. "U1RXR"
	Addr  uint16
	Shift uint8
	Width uint8
}

func (f RemapField) mask() uint16 {
	return uint16(1)<<f.Width - 1
}

func (f RemapField) get() uint16 {
	return (MustRegisters().Read16(f.Addr) >> f.Shift) & f.mask()
}

func (f RemapField) set(v uint16) {
	regs := MustRegisters()
	state := disableInterrupts()
	defer restoreInterrupts(state)

	word := regs.Read16(f.Addr)
	word &^= f.mask() << f.Shift
	word |= (v & f.mask()) << f.Shift
	regs.Write16(f.Addr, word)
}

// RemapOutput is the output function selector of one remappable (RPn) pin
type RemapOutput struct {
	Slot uint8
	RemapField
}

// RemapTable describes the peripheral pin select fabric of a chip variant.
// Remap slot n (RPn) maps to port FirstPort + n/16, pin n%16.
type RemapTable struct {
	FirstPort  uint16
	NumPorts   uint16
	Remappable uint32 // Bit n set when RPn exists

	InputNull  uint16 // Input selector value meaning "no pin"
	OutputNull uint16 // Output selector value meaning "no function"

	Inputs  []RemapField  // Peripheral input selectors (RPINRx fields)
	Outputs []RemapOutput // Pin output selectors (RPORx fields)
}

// Slot returns the RP slot of a port/pin and whether that slot is remappable
func (t *RemapTable) Slot(port, pin uint16) (uint8, bool) {
	if port < t.FirstPort || port >= t.FirstPort+t.NumPorts || pin >= PinsPerPort {
		return UndefPin, false
	}
	rp := (port-t.FirstPort)*PinsPerPort + pin
	if !getExtendedBit(t.Remappable, rp) {
		return UndefPin, false
	}
	return uint8(rp), true
}

// Chip is the capability map and register layout of one chip variant.
// Values are built once per variant and never mutated.
type Chip struct {
	Name     string
	NumPorts uint16

	PinPresent       []uint16 // Per port, bit set when the pin exists
	OpenDrainPresent []uint16 // Per port, bit set when the pin has an ODC bit
	AnCn             []AnCn   // Indexed port*16 + pin

	// Register addresses. TRISB is only used to derive the port stride.
	TRISA uint16
	TRISB uint16
	ODCA  uint16
	CNPU1 uint16 // CNPU2 etc. follow at +2
	CNPD1 uint16 // Zero on variants without pull-downs

	// Analog port configuration words, one per 16 AN channels
	// (AD1PCFGL, AD1PCFGH). AD2PCFG is empty on single-ADC variants and may
	// cover fewer channels than AD1PCFG.
	AD1PCFG []uint16
	AD2PCFG []uint16

	Remap *RemapTable // Nil on variants without peripheral pin select
}

// HasPullDowns reports whether the variant has CN pull-down resistors
func (c *Chip) HasPullDowns() bool {
	return c.CNPD1 != 0
}

// HasDualADC reports whether analog configuration is mirrored to a second ADC
func (c *Chip) HasDualADC() bool {
	return len(c.AD2PCFG) > 0
}

// HasRemap reports whether the variant has remappable pins
func (c *Chip) HasRemap() bool {
	return c.Remap != nil
}

func (c *Chip) anCn(port, pin uint16) AnCn {
	return c.AnCn[port*PinsPerPort+pin]
}

var (
	ErrChipShape    = errors.New("chip tables do not match port count")
	ErrChipRegister = errors.New("chip register address missing or odd")
	ErrChipStride   = errors.New("chip port registers are not ascending")
	ErrChipChannel  = errors.New("chip analog channel has no configuration word")
)

// Validate checks the structural consistency of the tables
func (c *Chip) Validate() error {
	n := int(c.NumPorts)
	if n == 0 || len(c.PinPresent) != n || len(c.OpenDrainPresent) != n ||
		len(c.AnCn) != n*PinsPerPort {
		return ErrChipShape
	}
	if len(c.AD1PCFG) == 0 {
		return ErrChipRegister
	}
	required := append([]uint16{c.TRISA, c.TRISB, c.ODCA, c.CNPU1}, c.AD1PCFG...)
	for _, addr := range append(required, c.AD2PCFG...) {
		if addr == 0 || addr&1 != 0 {
			return ErrChipRegister
		}
	}
	if c.CNPD1&1 != 0 {
		return ErrChipRegister
	}
	for _, ac := range c.AnCn {
		if ac.AN != UndefPin && int(ac.AN) >= PinsPerPort*len(c.AD1PCFG) {
			return ErrChipChannel
		}
	}
	if c.TRISB <= c.TRISA {
		return ErrChipStride
	}
	if c.Remap != nil {
		for _, f := range c.Remap.Inputs {
			if f.Addr == 0 || f.Addr&1 != 0 {
				return ErrChipRegister
			}
		}
		for _, f := range c.Remap.Outputs {
			if f.Addr == 0 || f.Addr&1 != 0 {
				return ErrChipRegister
			}
		}
	}
	return nil
}

// PinNames lists every existing pin as "RA0", "RB5", ...
func (c *Chip) PinNames() []string {
	var names []string
	for port := uint16(0); port < c.NumPorts; port++ {
		for pin := uint16(0); pin < PinsPerPort; pin++ {
			if GetBit(c.PinPresent[port], pin) {
				names = append(names, "R"+pinName(port, pin))
			}
		}
	}
	return names
}

// Global singleton: the chip variant this image is built for.
var activeChip *Chip

// SetChip installs the chip variant and derives the port register stride.
func SetChip(c *Chip) {
	activeChip = c
	InitIOConst()
}

// MustChip returns the installed chip or panics if missing.
func MustChip() *Chip {
	if activeChip == nil {
		panic("chip not configured")
	}
	return activeChip
}
