package core

// DigitalPinConfig is one complete plain digital I/O configuration
type DigitalPinConfig struct {
	Port          uint16 // 0 = A, 1 = B, ...
	Pin           uint16 // 0-15
	IsInput       bool
	IsOpenDrain   bool
	PullDirection int16 // <0 pull-down, 0 none, >0 pull-up
}

func invalidPin(port, pin uint16) error {
	return valueError("Invalid pin " + pinName(port, pin) + ".")
}

// SetPinIsInput selects input (TRIS bit set) or output for the pin
func SetPinIsInput(port, pin uint16, isInput bool) error {
	if !PinExists(port, pin) {
		return invalidPin(port, pin)
	}
	setRegBit(trisRegister().Addr(port), pin, isInput)
	return nil
}

// SetPinIsDigital selects digital or analog mode.
//
//	                   | analog          | digital
//	has AN channel     | clear PCFG bit  | set PCFG bit
//	no AN channel      | error           | nothing to do
func SetPinIsDigital(port, pin uint16, isDigital bool) error {
	if !PinExists(port, pin) {
		return invalidPin(port, pin)
	}

	c := MustChip()
	an := c.anCn(port, pin).AN
	if an == UndefPin {
		if !isDigital {
			return valueError("Pin " + pinName(port, pin) + " does not support analog functionality.")
		}
		return nil
	}

	// Dual-converter parts share channel numbering, so both must agree
	setChannelBit(c.AD1PCFG, an, isDigital)
	setChannelBit(c.AD2PCFG, an, isDigital)
	return nil
}

// SetPinIsOpenDrain selects open-drain or push-pull output.
//
//	                   | open-drain      | push-pull
//	has ODC bit        | set ODC bit     | clear ODC bit
//	no ODC bit         | error           | nothing to do
func SetPinIsOpenDrain(port, pin uint16, isOpenDrain bool) error {
	if !PinExists(port, pin) {
		return invalidPin(port, pin)
	}

	if !OpenDrainExists(port, pin) {
		if isOpenDrain {
			return valueError("The pin " + pinName(port, pin) + " has no open-drain ability.")
		}
		return nil
	}

	setRegBit(odcRegister().Addr(port), pin, isOpenDrain)
	return nil
}

// SetPinPullDirection enables the pull-up (dir > 0), the pull-down (dir < 0)
// or neither (dir == 0). Pulls are wired through the pin's CN channel.
// Every check is made before the first register write.
func SetPinPullDirection(port, pin uint16, dir int16) error {
	if !PinExists(port, pin) {
		return invalidPin(port, pin)
	}

	c := MustChip()
	cn := c.anCn(port, pin).CN

	switch {
	case dir == 0:
		// Without a CN channel there is no pull bit to clear
		if cn != UndefPin {
			setExtendedRegBit(c.CNPU1, cn, false)
			if c.HasPullDowns() {
				setExtendedRegBit(c.CNPD1, cn, false)
			}
		}

	case dir > 0:
		if cn == UndefPin {
			return valueError("Pull-ups do not exist on " + pinName(port, pin) + ".")
		}
		setExtendedRegBit(c.CNPU1, cn, true)
		if c.HasPullDowns() {
			setExtendedRegBit(c.CNPD1, cn, false)
		}

	default:
		if !c.HasPullDowns() {
			return valueError("Pull-downs do not exist on this chip.")
		}
		if cn == UndefPin {
			return valueError("Pull-downs do not exist on " + pinName(port, pin) + ".")
		}
		setExtendedRegBit(c.CNPD1, cn, true)
		setExtendedRegBit(c.CNPU1, cn, false)
	}

	return nil
}

// ConfigDigitalPin makes the pin a plain digital I/O with the requested
// direction, drive and pull, then frees it from any remapped peripheral.
// The first failing step ends the sequence; earlier writes stay applied.
func ConfigDigitalPin(cfg DigitalPinConfig) error {
	if err := SetPinIsDigital(cfg.Port, cfg.Pin, true); err != nil {
		return err
	}
	if err := SetPinIsInput(cfg.Port, cfg.Pin, cfg.IsInput); err != nil {
		return err
	}
	if err := SetPinIsOpenDrain(cfg.Port, cfg.Pin, cfg.IsOpenDrain); err != nil {
		return err
	}
	if err := SetPinPullDirection(cfg.Port, cfg.Pin, cfg.PullDirection); err != nil {
		return err
	}
	return UnmapPin(cfg.Port, cfg.Pin)
}
