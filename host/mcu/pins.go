package mcu

import (
	"context"

	"pic24io/core"
	"pic24io/protocol"
)

// PinConfig is one plain digital I/O configuration request
type PinConfig struct {
	Port, Pin     uint16
	IsInput       bool
	IsOpenDrain   bool
	PullDirection int16 // <0 pull-down, 0 none, >0 pull-up
}

// PinCaps is the firmware's capability map entry for one pin
type PinCaps struct {
	Port, Pin uint16
	Flags     uint8
	AN, CN    uint8 // core.UndefPin when absent
	RP        uint8
}

func (c PinCaps) Exists() bool    { return c.Flags&core.CapExists != 0 }
func (c PinCaps) OpenDrain() bool { return c.Flags&core.CapOpenDrain != 0 }
func (c PinCaps) Analog() bool    { return c.Flags&core.CapAnalog != 0 }
func (c PinCaps) PullUp() bool    { return c.Flags&core.CapPullUp != 0 }
func (c PinCaps) PullDown() bool  { return c.Flags&core.CapPullDown != 0 }
func (c PinCaps) Remap() bool     { return c.Flags&core.CapRemap != 0 }

// ReadBits reads numBits bits starting at startBit of the word at addr
func (m *MCU) ReadBits(ctx context.Context, addr, startBit, numBits uint16) (uint16, error) {
	payload, err := m.call(ctx, "read_bits", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(addr))
		protocol.EncodeVLQUint(output, uint32(startBit))
		protocol.EncodeVLQUint(output, uint32(numBits))
	}, "read_bits_result")
	if err != nil {
		return 0, err
	}
	if _, err := protocol.DecodeVLQUint(&payload); err != nil {
		return 0, err
	}
	value, err := protocol.DecodeVLQUint(&payload)
	return uint16(value), err
}

// ConfigDigitalPin configures a pin as plain digital I/O
func (m *MCU) ConfigDigitalPin(ctx context.Context, cfg PinConfig) error {
	_, err := m.call(ctx, "config_digital_pin", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(cfg.Port))
		protocol.EncodeVLQUint(output, uint32(cfg.Pin))
		protocol.EncodeVLQUint(output, boolArg(cfg.IsInput))
		protocol.EncodeVLQUint(output, boolArg(cfg.IsOpenDrain))
		protocol.EncodeVLQInt(output, int32(cfg.PullDirection))
	}, "config_digital_pin_done")
	return err
}

// QueryPinCaps asks the firmware what a pin can do
func (m *MCU) QueryPinCaps(ctx context.Context, port, pin uint16) (PinCaps, error) {
	payload, err := m.call(ctx, "query_pin_caps", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(port))
		protocol.EncodeVLQUint(output, uint32(pin))
	}, "pin_caps")
	if err != nil {
		return PinCaps{}, err
	}

	var vals [6]uint32
	for i := range vals {
		if vals[i], err = protocol.DecodeVLQUint(&payload); err != nil {
			return PinCaps{}, err
		}
	}
	return PinCaps{
		Port:  uint16(vals[0]),
		Pin:   uint16(vals[1]),
		Flags: uint8(vals[2]),
		AN:    uint8(vals[3]),
		CN:    uint8(vals[4]),
		RP:    uint8(vals[5]),
	}, nil
}

// GetConfig returns the chip variant and port count of the firmware
func (m *MCU) GetConfig(ctx context.Context) (string, uint16, error) {
	payload, err := m.call(ctx, "get_config", nil, "config")
	if err != nil {
		return "", 0, err
	}
	chip, err := protocol.DecodeVLQString(&payload)
	if err != nil {
		return "", 0, err
	}
	ports, err := protocol.DecodeVLQUint(&payload)
	return chip, uint16(ports), err
}

func boolArg(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
