// Package mcu is the host-side client of the pin-configuration firmware.
package mcu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"

	"pic24io/host/serial"
	"pic24io/protocol"
)

// Bootstrap IDs, usable before the dictionary is known
const (
	identifyResponseID = 0
	identifyID         = 1
)

// identifyChunk is the dictionary chunk size requested per identify
const identifyChunk = 40

var (
	ErrNoDictionary    = errors.New("dictionary not loaded")
	ErrUnknownCommand  = errors.New("command not in dictionary")
	ErrUnexpectedReply = errors.New("unexpected response")
)

// RemoteError is a value_error or type_error reported by the firmware
type RemoteError struct {
	Kind string // "value_error" or "type_error"
	Msg  string
}

func (e *RemoteError) Error() string {
	return e.Kind + ": " + e.Msg
}

// IsValueError reports whether err is a firmware value_error
func IsValueError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == "value_error"
}

// IsTypeError reports whether err is a firmware type_error
func IsTypeError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == "type_error"
}

// MCU is a connection to one board
type MCU struct {
	// Timeout bounds each command when the caller's context has none
	Timeout time.Duration

	// Verbose logs dictionary retrieval and skipped responses
	Verbose bool

	// Diagnostic receives diag_output lines (read_bits). Nil logs them.
	Diagnostic func(line string)

	port      io.ReadWriteCloser
	transport *protocol.HostTransport

	mu             sync.Mutex // One command in flight at a time
	dictionary     *Dictionary
	dictionaryData []byte
}

// Connect opens the serial device and attaches a client to it
func Connect(device string) (*MCU, error) {
	return ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a serial port with a custom configuration
func ConnectWithConfig(cfg *serial.Config) (*MCU, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("flush serial port: %w", err)
	}
	return ConnectPort(port), nil
}

// ConnectPort attaches a client to an already open link, e.g. a simulator
func ConnectPort(port io.ReadWriteCloser) *MCU {
	return &MCU{
		Timeout:   protocol.DefaultAckTimeout,
		port:      port,
		transport: protocol.NewHostTransport(port),
	}
}

// Close flushes the port when it supports it, then stops the transport,
// which closes the port.
func (m *MCU) Close() error {
	var err error
	if f, ok := m.port.(interface{ Flush() error }); ok {
		err = multierr.Append(err, f.Flush())
	}
	return multierr.Append(err, m.transport.Close())
}

func (m *MCU) diagnostic(line string) {
	if m.Diagnostic != nil {
		m.Diagnostic(line)
		return
	}
	log.Printf("mcu: %s", line)
}

func (m *MCU) logf(format string, args ...interface{}) {
	if m.Verbose {
		log.Printf(format, args...)
	}
}

func (m *MCU) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || m.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.Timeout)
}

// RetrieveDictionary downloads and parses the firmware dictionary
func (m *MCU) RetrieveDictionary(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var buf bytes.Buffer
	for {
		chunk, err := m.identify(ctx, uint32(buf.Len()))
		if err != nil {
			return fmt.Errorf("dictionary chunk at offset %d: %w", buf.Len(), err)
		}
		buf.Write(chunk)
		if len(chunk) < identifyChunk {
			break
		}
	}
	m.logf("dictionary retrieved: %d bytes", buf.Len())

	dict, err := ParseDictionary(buf.Bytes())
	if err != nil {
		return err
	}
	m.dictionaryData = buf.Bytes()
	m.dictionary = dict
	return nil
}

func (m *MCU) identify(ctx context.Context, offset uint32) ([]byte, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	err := m.transport.SendCommand(ctx, identifyID, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, offset)
		protocol.EncodeVLQUint(output, identifyChunk)
	})
	if err != nil {
		return nil, err
	}

	for {
		resp, err := m.transport.ReceiveResponse(ctx)
		if err != nil {
			return nil, err
		}
		payload := resp.Payload
		id, err := protocol.DecodeVLQUint(&payload)
		if err != nil {
			return nil, err
		}
		if id != identifyResponseID {
			m.logf("skipping response %d while identifying", id)
			continue
		}
		respOffset, err := protocol.DecodeVLQUint(&payload)
		if err != nil {
			return nil, err
		}
		if respOffset != offset {
			return nil, fmt.Errorf("%w: offset %d, expected %d", ErrUnexpectedReply, respOffset, offset)
		}
		return protocol.DecodeVLQBytes(&payload)
	}
}

// Dictionary returns the parsed dictionary, or nil before RetrieveDictionary
func (m *MCU) Dictionary() *Dictionary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dictionary
}

// DictionaryRaw returns the dictionary as downloaded
func (m *MCU) DictionaryRaw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dictionaryData
}

// call sends one command and waits for the named response. value_error and
// type_error responses become a *RemoteError.
func (m *MCU) call(ctx context.Context, name string, args func(protocol.OutputBuffer), want string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dictionary == nil {
		return nil, ErrNoDictionary
	}
	cmdID, ok := m.dictionary.CommandID(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	if err := m.transport.SendCommand(ctx, cmdID, args); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	for {
		resp, err := m.transport.ReceiveResponse(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		payload := resp.Payload
		id, err := protocol.DecodeVLQUint(&payload)
		if err != nil {
			return nil, err
		}

		switch got := m.dictionary.ResponseName(uint16(id)); got {
		case want:
			return payload, nil
		case "diag_output":
			line, err := protocol.DecodeVLQString(&payload)
			if err != nil {
				return nil, err
			}
			m.diagnostic(line)
		case "value_error", "type_error":
			msg, err := protocol.DecodeVLQString(&payload)
			if err != nil {
				return nil, err
			}
			return nil, &RemoteError{Kind: got, Msg: msg}
		default:
			m.logf("skipping response %q while waiting for %s", got, want)
		}
	}
}

// Dictionary is the parsed firmware dictionary
type Dictionary struct {
	Version      string                    `json:"version"`
	Config       map[string]string         `json:"config"`
	Commands     map[string]int            `json:"commands"`
	Responses    map[string]int            `json:"responses"`
	Enumerations map[string]map[string]int `json:"enumerations,omitempty"`

	commandIDs    map[string]uint16
	responseNames map[uint16]string
}

// ParseDictionary decodes the dictionary JSON. Commands and responses are
// keyed by "name format"; lookups use the name alone.
func ParseDictionary(data []byte) (*Dictionary, error) {
	d := &Dictionary{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}

	d.commandIDs = make(map[string]uint16, len(d.Commands))
	for sig, id := range d.Commands {
		d.commandIDs[signatureName(sig)] = uint16(id)
	}
	d.responseNames = make(map[uint16]string, len(d.Responses))
	for sig, id := range d.Responses {
		d.responseNames[uint16(id)] = signatureName(sig)
	}
	return d, nil
}

func signatureName(sig string) string {
	name, _, _ := strings.Cut(sig, " ")
	return name
}

// CommandID returns the ID of a host command by name
func (d *Dictionary) CommandID(name string) (uint16, bool) {
	id, ok := d.commandIDs[name]
	return id, ok
}

// ResponseName returns the name of a response ID, or "" if unknown
func (d *Dictionary) ResponseName(id uint16) string {
	return d.responseNames[id]
}

// Constant returns a config constant
func (d *Dictionary) Constant(name string) (string, bool) {
	v, ok := d.Config[name]
	return v, ok
}
