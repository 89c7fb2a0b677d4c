package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// diagPrintln carries output that is part of a command's observable
	// behaviour (read_bits), independent of debugEnabled
	diagPrintln DebugWriter = func(s string) {}
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDiagnosticWriter sets where diagnostic lines go
func SetDiagnosticWriter(writer DebugWriter) {
	diagPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DiagPrintln writes a diagnostic line
func DiagPrintln(msg string) {
	if diagPrintln != nil {
		diagPrintln(msg)
	}
}
