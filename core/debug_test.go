package core

import "testing"

func TestDebugPrintlnGated(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})
	defer SetDebugEnabled(false)

	SetDebugEnabled(false)
	DebugPrintln("hidden")
	if IsDebugEnabled() || len(lines) != 0 {
		t.Errorf("Debug output while disabled: %q", lines)
	}

	SetDebugEnabled(true)
	DebugPrintln("shown")
	if !IsDebugEnabled() || len(lines) != 1 || lines[0] != "shown" {
		t.Errorf("Expected one debug line, got %q", lines)
	}
}

func TestDiagPrintlnIgnoresDebugGate(t *testing.T) {
	var lines []string
	SetDiagnosticWriter(func(s string) { lines = append(lines, s) })
	defer SetDiagnosticWriter(func(string) {})
	SetDebugEnabled(false)

	DiagPrintln("always")
	if len(lines) != 1 || lines[0] != "always" {
		t.Errorf("Expected diagnostic line, got %q", lines)
	}
}
