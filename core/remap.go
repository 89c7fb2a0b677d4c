package core

// UnmapPin detaches every remappable peripheral from the pin: inputs that
// currently read from its RP slot are pointed at InputNull, and the slot's
// output function is set to OutputNull. Pins outside the remappable set, and
// chips without peripheral pin select, need nothing done.
func UnmapPin(port, pin uint16) error {
	c := MustChip()
	if c.Remap == nil {
		return nil
	}

	rp, ok := c.Remap.Slot(port, pin)
	if !ok {
		return nil
	}

	for _, f := range c.Remap.Inputs {
		if f.get() == uint16(rp) {
			f.set(c.Remap.InputNull)
		}
	}

	for _, out := range c.Remap.Outputs {
		if out.Slot == rp {
			out.set(c.Remap.OutputNull)
		}
	}

	return nil
}

// MapPeripheralInput routes the named peripheral input to the pin's RP slot.
// It is the inverse of UnmapPin and exists for bring-up and tests.
func MapPeripheralInput(name string, port, pin uint16) error {
	c := MustChip()
	if c.Remap == nil {
		return valueError("Chip " + c.Name + " has no remappable pins.")
	}
	rp, ok := c.Remap.Slot(port, pin)
	if !ok {
		return valueError("Pin " + pinName(port, pin) + " is not remappable.")
	}
	for _, f := range c.Remap.Inputs {
		if f.Name == name {
			f.set(uint16(rp))
			return nil
		}
	}
	return valueError("Unknown peripheral input " + name + ".")
}

// MapPeripheralOutput selects output function fn on the pin's RP slot
func MapPeripheralOutput(fn uint16, port, pin uint16) error {
	c := MustChip()
	if c.Remap == nil {
		return valueError("Chip " + c.Name + " has no remappable pins.")
	}
	rp, ok := c.Remap.Slot(port, pin)
	if !ok {
		return valueError("Pin " + pinName(port, pin) + " is not remappable.")
	}
	for _, out := range c.Remap.Outputs {
		if out.Slot == rp {
			out.set(fn)
			return nil
		}
	}
	return valueError("Pin " + pinName(port, pin) + " has no output selector.")
}
