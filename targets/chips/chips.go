// Package chips holds the capability maps of the supported PIC24 and dsPIC33
// variants. Tables are representative of the datasheet pinouts; a new
// variant is added by writing its Chip value and listing it in variants.
package chips

import (
	"sort"
	"strconv"

	"pic24io/core"
)

var variants = map[string]*core.Chip{
	PIC24HJ32GP202.Name:    PIC24HJ32GP202,
	PIC24FJ64GB002.Name:    PIC24FJ64GB002,
	DSPIC33FJ256GP710.Name: DSPIC33FJ256GP710,
}

// Lookup returns the chip variant by name
func Lookup(name string) (*core.Chip, bool) {
	c, ok := variants[name]
	return c, ok
}

// Names lists the known variants in sorted order
func Names() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Port indices
const (
	portA = iota
	portB
	portC
	portD
	portE
	portF
	portG
)

// ch places the AN/CN channels of one pin; an or cn may be core.UndefPin
type ch struct {
	port, pin uint16
	an, cn    uint8
}

// anCnTable expands sparse channel entries into the full port*16+pin table
func anCnTable(ports uint16, entries ...ch) []core.AnCn {
	t := make([]core.AnCn, int(ports)*core.PinsPerPort)
	for i := range t {
		t[i] = core.NoAnCn
	}
	for _, e := range entries {
		t[e.port*core.PinsPerPort+e.pin] = core.AnCn{AN: e.an, CN: e.cn}
	}
	return t
}

// rpOutputs lays out RPORx registers: two slots per word starting at base,
// the even slot in the low byte.
func rpOutputs(base uint16, slots int, width uint8) []core.RemapOutput {
	outs := make([]core.RemapOutput, 0, slots)
	for rp := 0; rp < slots; rp++ {
		outs = append(outs, core.RemapOutput{
			Slot: uint8(rp),
			RemapField: core.RemapField{
				Name:  "RP" + strconv.Itoa(rp) + "R",
				Addr:  base + 2*uint16(rp/2),
				Shift: uint8(8 * (rp % 2)),
				Width: width,
			},
		})
	}
	return outs
}

const u = core.UndefPin
