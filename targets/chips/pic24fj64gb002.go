package chips

import "pic24io/core"

// PIC24FJ64GB002 is the 28-pin USB PIC24F: RB5 is taken by VUSB, CN
// pull-downs exist and remap selectors are 6 bits wide.
var PIC24FJ64GB002 = &core.Chip{
	Name:     "PIC24FJ64GB002",
	NumPorts: 2,

	PinPresent:       []uint16{0x001F, 0xFFDF},
	OpenDrainPresent: []uint16{0x001F, 0xFFDF},
	AnCn: anCnTable(2,
		ch{portA, 0, 0, 2},
		ch{portA, 1, 1, 3},
		ch{portA, 2, u, 30},
		ch{portA, 3, u, 29},
		ch{portA, 4, u, 0},
		ch{portB, 0, 2, 4},
		ch{portB, 1, 3, 5},
		ch{portB, 2, 4, 6},
		ch{portB, 3, 5, 7},
		ch{portB, 4, u, 1},
		ch{portB, 6, u, 24},
		ch{portB, 7, u, 23},
		ch{portB, 8, u, 22},
		ch{portB, 9, u, 21},
		ch{portB, 10, u, 16},
		ch{portB, 11, u, 15},
		ch{portB, 12, 12, 14},
		ch{portB, 13, 11, 13},
		ch{portB, 14, 10, 12},
		ch{portB, 15, 9, 11},
	),

	TRISA:   0x02C0,
	TRISB:   0x02C8,
	ODCA:    0x02C6,
	CNPU1:   0x0068,
	CNPD1:   0x0054,
	AD1PCFG: []uint16{0x032C},

	Remap: &core.RemapTable{
		FirstPort:  portB,
		NumPorts:   1,
		Remappable: 0x0000FFDF,
		InputNull:  0x3F,
		OutputNull: 0,
		Inputs: []core.RemapField{
			{Name: "U1RXR", Addr: 0x06A4, Shift: 0, Width: 6},
			{Name: "U1CTSR", Addr: 0x06A4, Shift: 8, Width: 6},
			{Name: "U2RXR", Addr: 0x06A6, Shift: 0, Width: 6},
			{Name: "U2CTSR", Addr: 0x06A6, Shift: 8, Width: 6},
			{Name: "SDI1R", Addr: 0x06A8, Shift: 0, Width: 6},
			{Name: "SCK1R", Addr: 0x06A8, Shift: 8, Width: 6},
			{Name: "SS1R", Addr: 0x06AA, Shift: 0, Width: 6},
			{Name: "SDI2R", Addr: 0x06AC, Shift: 0, Width: 6},
			{Name: "SCK2R", Addr: 0x06AC, Shift: 8, Width: 6},
			{Name: "SS2R", Addr: 0x06AE, Shift: 0, Width: 6},
		},
		Outputs: rpOutputs(0x06C0, 16, 6),
	},
}
