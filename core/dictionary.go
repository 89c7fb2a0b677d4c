package core

import (
	"sort"
	"sync"

	"pic24io/protocol"
)

// Dictionary holds the constants and enumerations published to the host
// next to the command list. The host retrieves it with identify.
type Dictionary struct {
	mu           sync.RWMutex
	constants    map[string]string
	enumerations map[string][]string
	version      string
	cached       []byte
}

var globalDictionary = NewDictionary()

// NewDictionary creates an empty dictionary
func NewDictionary() *Dictionary {
	return &Dictionary{
		constants:    make(map[string]string),
		enumerations: make(map[string][]string),
		version:      "pic24io-" + protocol.Version,
	}
}

// GetGlobalDictionary returns the global dictionary instance
func GetGlobalDictionary() *Dictionary {
	return globalDictionary
}

// RegisterConstant registers a constant in the global dictionary
func RegisterConstant(name string, value interface{}) {
	globalDictionary.AddConstant(name, value)
}

// RegisterEnumeration registers an enumeration in the global dictionary
func RegisterEnumeration(name string, values []string) {
	globalDictionary.AddEnumeration(name, values)
}

// AddConstant adds a constant; it invalidates the cached encoding
func (d *Dictionary) AddConstant(name string, value interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.constants[name] = valueToString(value)
	d.cached = nil
}

// AddEnumeration adds an enumeration whose values are numbered by position
func (d *Dictionary) AddEnumeration(name string, values []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enumerations[name] = append([]string(nil), values...)
	d.cached = nil
}

// Generate returns the JSON dictionary for the given registry. The result is
// cached until a constant or enumeration changes; call it after all commands
// are registered.
func (d *Dictionary) Generate(reg *CommandRegistry) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cached == nil {
		d.cached = d.buildJSON(reg.Entries())
	}
	return d.cached
}

// buildJSON writes the dictionary by hand; the firmware does not link
// encoding/json.
func (d *Dictionary) buildJSON(entries []*Command) []byte {
	out := make([]byte, 0, 1024)

	out = append(out, `{"version":`...)
	out = appendQuoted(out, d.version)

	out = append(out, `,"config":{`...)
	for i, name := range sortedKeys(d.constants) {
		if i > 0 {
			out = append(out, ',')
		}
		out = appendQuoted(out, name)
		out = append(out, ':')
		out = appendQuoted(out, d.constants[name])
	}

	for _, responses := range []bool{false, true} {
		if responses {
			out = append(out, `},"responses":{`...)
		} else {
			out = append(out, `},"commands":{`...)
		}
		first := true
		for _, cmd := range entries {
			if cmd.IsResponse() != responses {
				continue
			}
			if !first {
				out = append(out, ',')
			}
			out = appendQuoted(out, cmd.Signature())
			out = append(out, ':')
			out = append(out, itoa(int(cmd.ID))...)
			first = false
		}
	}
	out = append(out, '}')

	if len(d.enumerations) > 0 {
		out = append(out, `,"enumerations":{`...)
		for i, name := range sortedKeys(d.enumerations) {
			if i > 0 {
				out = append(out, ',')
			}
			out = appendQuoted(out, name)
			out = append(out, ":{"...)
			for j, value := range d.enumerations[name] {
				if j > 0 {
					out = append(out, ',')
				}
				out = appendQuoted(out, value)
				out = append(out, ':')
				out = append(out, itoa(j)...)
			}
			out = append(out, '}')
		}
		out = append(out, '}')
	}

	return append(out, '}')
}

// GetChunk returns up to count bytes of the dictionary starting at offset.
// The chunk is a copy so transmission never aliases the cache.
func (d *Dictionary) GetChunk(reg *CommandRegistry, offset uint32, count uint8) []byte {
	data := d.Generate(reg)
	if offset >= uint32(len(data)) {
		return []byte{}
	}
	end := offset + uint32(count)
	if end > uint32(len(data)) {
		end = uint32(len(data))
	}
	chunk := make([]byte, end-offset)
	copy(chunk, data[offset:end])
	return chunk
}

func appendQuoted(out []byte, s string) []byte {
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return append(out, '"')
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
