package core

import "pic24io/protocol"

// InitCoreCommands registers the protocol bootstrap commands.
// IMPORTANT: identify_response and identify must be IDs 0 and 1; the host
// uses them before it has a dictionary.
func InitCoreCommands() {
	RegisterResponse("identify_response", "offset=%u data=%*s")       // ID 0
	RegisterCommand("identify", "offset=%u count=%c", handleIdentify) // ID 1

	RegisterCommand("get_config", "", handleGetConfig)
	RegisterResponse("config", "chip=%*s ports=%hu")

	RegisterResponse("value_error", "msg=%*s")
	RegisterResponse("type_error", "msg=%*s")
	RegisterResponse("diag_output", "msg=%*s")

	RegisterConstant("PROTOCOL_VERSION", protocol.Version)
}

// handleIdentify returns chunks of the data dictionary
func handleIdentify(data *[]byte) error {
	args, err := DecodeArgs(data, 2)
	if err != nil {
		return err
	}
	offset := args.Uint32(0)
	count, err := args.Uint8(1)
	if err != nil {
		return err
	}

	chunk := globalDictionary.GetChunk(globalRegistry, offset, count)

	SendResponse("identify_response", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, offset)
		protocol.EncodeVLQBytes(output, chunk)
	})
	return nil
}

// handleGetConfig reports the chip variant this image drives
func handleGetConfig(data *[]byte) error {
	c := MustChip()
	SendResponse("config", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQString(output, c.Name)
		protocol.EncodeVLQUint(output, uint32(c.NumPorts))
	})
	return nil
}

// HandleCommand is the transport's command handler: it dispatches the
// command and reports a failure to the host as value_error or type_error.
// The returned error stops the rest of the block.
func HandleCommand(cmdID uint16, data *[]byte) error {
	err := DispatchCommand(cmdID, data)
	if err != nil {
		reportError(err)
	}
	return err
}

func reportError(err error) {
	name := "value_error"
	if IsTypeError(err) {
		name = "type_error"
	}
	msg := err.Error()
	DebugPrintln("[native] " + name + ": " + msg)
	SendResponse(name, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQString(output, msg)
	})
}

// SendDiagnostic is the diagnostic writer for boards whose only link is the
// command stream: the line travels as a diag_output response.
func SendDiagnostic(line string) {
	SendResponse("diag_output", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQString(output, line)
	})
}

// Global transport for sending responses (set by main)
var globalTransport *protocol.Transport

// SetGlobalTransport sets the global transport for sending responses
func SetGlobalTransport(transport *protocol.Transport) {
	globalTransport = transport
}

// SendResponse sends a response message using the global transport
func SendResponse(responseName string, args func(output protocol.OutputBuffer)) {
	if globalTransport == nil {
		return
	}
	cmd, ok := globalRegistry.GetCommandByName(responseName)
	if !ok {
		// All responses are registered at init; a miss is a firmware bug
		panic("Response not registered: " + responseName)
	}
	globalTransport.SendCommand(cmd.ID, args)
}
