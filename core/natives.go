package core

import "pic24io/protocol"

// InitPinCommands registers the native pin primitives and publishes the
// installed chip's capabilities in the dictionary.
func InitPinCommands() {
	RegisterCommand("read_bits", "addr=%hu start_bit=%hu num_bits=%hu", handleReadBits)
	RegisterResponse("read_bits_result", "addr=%hu value=%hu")

	RegisterCommand("config_digital_pin",
		"port=%hu pin=%hu is_input=%c is_open_drain=%c pull_dir=%hi",
		handleConfigDigitalPin)
	RegisterResponse("config_digital_pin_done", "port=%hu pin=%hu")

	RegisterCommand("query_pin_caps", "port=%hu pin=%hu", handleQueryPinCaps)
	RegisterResponse("pin_caps", "port=%hu pin=%hu flags=%c an=%c cn=%c rp=%c")

	c := MustChip()
	RegisterConstant("MCU", c.Name)
	RegisterConstant("NUM_PORTS", c.NumPorts)
	RegisterConstant("HAS_PULL_DOWNS", c.HasPullDowns())
	RegisterConstant("HAS_REMAP", c.HasRemap())
	RegisterConstant("HAS_DUAL_ADC", c.HasDualADC())
	RegisterEnumeration("pin", c.PinNames())
}

// handleReadBits implements read_bits addr start_bit num_bits
func handleReadBits(data *[]byte) error {
	args, err := DecodeArgs(data, 3)
	if err != nil {
		return err
	}
	addr, err := args.Uint16(0)
	if err != nil {
		return err
	}
	startBit, err := args.Uint16(1)
	if err != nil {
		return err
	}
	numBits, err := args.Uint16(2)
	if err != nil {
		return err
	}

	value, err := ReadBits(addr, startBit, numBits)
	if err != nil {
		return err
	}

	SendResponse("read_bits_result", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(addr))
		protocol.EncodeVLQUint(output, uint32(value))
	})
	return nil
}

// handleConfigDigitalPin implements
// config_digital_pin port pin is_input is_open_drain pull_dir
func handleConfigDigitalPin(data *[]byte) error {
	args, err := DecodeArgs(data, 5)
	if err != nil {
		return err
	}

	var cfg DigitalPinConfig
	if cfg.Port, err = args.Uint16(0); err != nil {
		return err
	}
	if cfg.Pin, err = args.Uint16(1); err != nil {
		return err
	}
	if cfg.IsInput, err = args.Bool(2); err != nil {
		return err
	}
	if cfg.IsOpenDrain, err = args.Bool(3); err != nil {
		return err
	}
	if cfg.PullDirection, err = args.Int16(4); err != nil {
		return err
	}

	if err := ConfigDigitalPin(cfg); err != nil {
		return err
	}

	SendResponse("config_digital_pin_done", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(cfg.Port))
		protocol.EncodeVLQUint(output, uint32(cfg.Pin))
	})
	return nil
}

// handleQueryPinCaps reports the capability map entry of one pin
func handleQueryPinCaps(data *[]byte) error {
	args, err := DecodeArgs(data, 2)
	if err != nil {
		return err
	}
	port, err := args.Uint16(0)
	if err != nil {
		return err
	}
	pin, err := args.Uint16(1)
	if err != nil {
		return err
	}

	caps := PinCaps(port, pin)
	SendResponse("pin_caps", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(port))
		protocol.EncodeVLQUint(output, uint32(pin))
		protocol.EncodeVLQUint(output, uint32(caps.Flags))
		protocol.EncodeVLQUint(output, uint32(caps.AN))
		protocol.EncodeVLQUint(output, uint32(caps.CN))
		protocol.EncodeVLQUint(output, uint32(caps.RP))
	})
	return nil
}
