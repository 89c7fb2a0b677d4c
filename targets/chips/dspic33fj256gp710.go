package chips

import "pic24io/core"

// DSPIC33FJ256GP710 is the 100-pin dsPIC33F: ports A-G, two ADCs sharing
// AN0-AN15, AN16-AN31 on ADC1 only, no pull-downs and no pin remapping.
// Port registers are six bytes apart (no ODC in the port block); the
// open-drain registers live in their own block from 0x06C0.
var DSPIC33FJ256GP710 = &core.Chip{
	Name:     "dsPIC33FJ256GP710",
	NumPorts: 7,

	PinPresent: []uint16{
		0xF6FF, // RA0-7, RA9-10, RA12-15
		0xFFFF,
		0xF01E, // RC1-4, RC12-15
		0xFFFF,
		0x03FF,
		0x31FF,
		0xF3CF,
	},
	OpenDrainPresent: []uint16{
		0x0000,
		0x0000,
		0x0000,
		0xFFFF,
		0x0000,
		0x31FF,
		0xF3CF,
	},
	AnCn: anCnTable(7,
		ch{portA, 6, 22, 22},
		ch{portA, 7, 23, 23},
		ch{portA, 12, 20, u},
		ch{portA, 13, 21, u},
		ch{portB, 0, 0, 2},
		ch{portB, 1, 1, 3},
		ch{portB, 2, 2, 4},
		ch{portB, 3, 3, 5},
		ch{portB, 4, 4, 6},
		ch{portB, 5, 5, 7},
		ch{portB, 6, 6, u},
		ch{portB, 7, 7, u},
		ch{portB, 8, 8, u},
		ch{portB, 9, 9, u},
		ch{portB, 10, 10, u},
		ch{portB, 11, 11, u},
		ch{portB, 12, 12, u},
		ch{portB, 13, 13, u},
		ch{portB, 14, 14, u},
		ch{portB, 15, 15, 12},
		ch{portC, 1, 16, u},
		ch{portC, 2, 17, u},
		ch{portC, 3, 18, u},
		ch{portC, 4, 19, u},
		ch{portC, 13, u, 1},
		ch{portC, 14, u, 0},
		ch{portD, 4, u, 13},
		ch{portD, 5, u, 14},
		ch{portD, 6, u, 15},
		ch{portD, 7, u, 16},
		ch{portD, 13, u, 19},
		ch{portD, 14, u, 20},
		ch{portD, 15, u, 21},
		ch{portE, 0, 24, u},
		ch{portE, 1, 25, u},
		ch{portE, 2, 26, u},
		ch{portE, 3, 27, u},
		ch{portE, 4, 28, u},
		ch{portE, 5, 29, u},
		ch{portE, 6, 30, u},
		ch{portE, 7, 31, u},
		ch{portF, 4, u, 17},
		ch{portF, 5, u, 18},
		ch{portG, 6, u, 8},
		ch{portG, 7, u, 9},
		ch{portG, 8, u, 10},
		ch{portG, 9, u, 11},
	),

	TRISA: 0x02C0,
	TRISB: 0x02C6,
	ODCA:  0x06C0,
	CNPU1: 0x0068,

	// AD1PCFGH precedes AD1PCFGL in the data space
	AD1PCFG: []uint16{0x032C, 0x032A},
	AD2PCFG: []uint16{0x036C},
}
