//go:build tinygo

// Command mcu is the pin-configuration firmware. The chip variant is chosen
// at build time with a tag (pic24fj64gb002, dspic33fj256gp710; the default
// is the PIC24HJ32GP202).
package main

import (
	"machine"
	"time"

	"pic24io/core"
	"pic24io/protocol"
)

var (
	uart = machine.Serial

	inputBuffer  *protocol.RxBuffer
	outputBuffer *protocol.ScratchOutput
	transport    *protocol.Transport

	msgerrors uint32
)

func main() {
	uart.Configure(machine.UARTConfig{BaudRate: 250000})

	core.SetRegisterFile(core.VolatileRegisters{})
	core.SetChip(chip)
	// Raw text would corrupt the framed stream, so diagnostics are responses
	core.SetDiagnosticWriter(core.SendDiagnostic)

	core.InitCoreCommands()
	core.InitPinCommands()

	inputBuffer = protocol.NewRxBuffer(256)
	outputBuffer = protocol.NewScratchOutput()

	transport = protocol.NewTransport(outputBuffer, core.HandleCommand)
	transport.SetResetCallback(func() {
		inputBuffer.Reset()
		outputBuffer.Reset()
	})
	transport.SetFlushCallback(writeUART)
	core.SetGlobalTransport(transport)

	for {
		readUART()
		if inputBuffer.Available() > 0 {
			transport.Receive(inputBuffer)
		}
		if inputBuffer.Free() == 0 {
			// A full buffer without a complete block is garbage
			msgerrors++
			inputBuffer.Reset()
		}
		writeUART()
		time.Sleep(10 * time.Microsecond)
	}
}

// readUART moves received bytes into the input buffer
func readUART() {
	for uart.Buffered() > 0 && inputBuffer.Free() > 0 {
		b, err := uart.ReadByte()
		if err != nil {
			msgerrors++
			return
		}
		inputBuffer.Append([]byte{b})
	}
}

func writeUART() {
	result := outputBuffer.Result()
	if len(result) == 0 {
		return
	}
	if _, err := uart.Write(result); err != nil {
		msgerrors++
	}
	outputBuffer.Reset()
}
