// Package serial opens the serial link to a pin-configuration board.
package serial

import (
	"io"
)

// Port is a serial link. Besides the native implementation, tests and the
// simulator supply their own.
type Port interface {
	io.ReadWriteCloser

	// Flush pushes any buffered output to the device
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; the firmware UART runs at 250000
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud matches the firmware's UART configuration
const DefaultBaud = 250000

// DefaultConfig returns the configuration the firmware expects
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}
