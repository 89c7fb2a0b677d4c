// Package pinspec translates between user-facing pin vocabulary ("RB5",
// "pull=up") and the port/pin numbers and pull directions of the firmware.
package pinspec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"

	"pic24io/host/mcu"
)

var (
	ErrBadPinName = errors.New("bad pin name")
	ErrBadPull    = errors.New("bad pull")
)

// Pin functions reported by Functions
const (
	FuncDigitalInput  pin.Func = "Digital Input"
	FuncDigitalOutput pin.Func = "Digital Output"
	FuncOpenDrain     pin.Func = "Open Drain"
	FuncAnalogInput   pin.Func = "Analog Input"
	FuncPullUp        pin.Func = "Pull-Up"
	FuncPullDown      pin.Func = "Pull-Down"
	FuncRemappable    pin.Func = "Remappable"
)

// ParsePin accepts "RB5", "B5" or "rb5" and returns port and pin numbers.
// Existence is for the firmware to decide.
func ParsePin(name string) (port, p uint16, err error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	if len(s) >= 3 && s[0] == 'R' && s[1] >= 'A' && s[1] <= 'Z' {
		s = s[1:]
	}
	if len(s) < 2 || s[0] < 'A' || s[0] > 'Z' {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadPinName, name)
	}
	n, err := strconv.ParseUint(s[1:], 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadPinName, name)
	}
	return uint16(s[0] - 'A'), uint16(n), nil
}

// FormatPin renders port and pin numbers as "RB5"
func FormatPin(port, p uint16) string {
	if port > 25 {
		return fmt.Sprintf("R?%d.%d", port, p)
	}
	return fmt.Sprintf("R%c%d", 'A'+rune(port), p)
}

// ParsePull accepts up, down, float or none
func ParsePull(s string) (gpio.Pull, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "pullup":
		return gpio.PullUp, nil
	case "down", "pulldown":
		return gpio.PullDown, nil
	case "float", "none", "":
		return gpio.Float, nil
	}
	return gpio.PullNoChange, fmt.Errorf("%w: %q", ErrBadPull, s)
}

// PullDirection converts a pull to the firmware's signed pull direction
func PullDirection(p gpio.Pull) (int16, error) {
	switch p {
	case gpio.PullUp:
		return 1, nil
	case gpio.PullDown:
		return -1, nil
	case gpio.Float:
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrBadPull, p)
}

// Functions lists what a pin can be used for
func Functions(caps mcu.PinCaps) []pin.Func {
	if !caps.Exists() {
		return nil
	}
	funcs := []pin.Func{FuncDigitalInput, FuncDigitalOutput}
	if caps.OpenDrain() {
		funcs = append(funcs, FuncOpenDrain)
	}
	if caps.Analog() {
		funcs = append(funcs, FuncAnalogInput)
	}
	if caps.PullUp() {
		funcs = append(funcs, FuncPullUp)
	}
	if caps.PullDown() {
		funcs = append(funcs, FuncPullDown)
	}
	if caps.Remap() {
		funcs = append(funcs, FuncRemappable)
	}
	return funcs
}

// Describe renders a capability entry on one line, e.g.
// "RB2: Digital Input, Digital Output, Analog Input (AN4), Pull-Up (CN6)"
func Describe(caps mcu.PinCaps) string {
	name := FormatPin(caps.Port, caps.Pin)
	funcs := Functions(caps)
	if len(funcs) == 0 {
		return name + ": does not exist"
	}
	parts := make([]string, 0, len(funcs))
	for _, f := range funcs {
		s := string(f)
		switch f {
		case FuncAnalogInput:
			s += fmt.Sprintf(" (AN%d)", caps.AN)
		case FuncPullUp, FuncPullDown:
			s += fmt.Sprintf(" (CN%d)", caps.CN)
		case FuncRemappable:
			s += fmt.Sprintf(" (RP%d)", caps.RP)
		}
		parts = append(parts, s)
	}
	return name + ": " + strings.Join(parts, ", ")
}
