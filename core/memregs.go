package core

import "sync"

// MemoryRegisters is a simulated register space. Unwritten words read as
// zero. It backs the simulator and the tests, and counts writes so callers
// can check that a no-op really touched nothing.
type MemoryRegisters struct {
	mu     sync.Mutex
	words  map[uint16]uint16
	writes int
}

// NewMemoryRegisters creates an empty register space
func NewMemoryRegisters() *MemoryRegisters {
	return &MemoryRegisters{words: make(map[uint16]uint16)}
}

func (m *MemoryRegisters) Read16(addr uint16) uint16 {
	assert(addr&1 == 0, "odd register address")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words[addr]
}

func (m *MemoryRegisters) Write16(addr uint16, value uint16) {
	assert(addr&1 == 0, "odd register address")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[addr] = value
	m.writes++
}

// Poke stores a value without counting it as a write (reset values, test setup)
func (m *MemoryRegisters) Poke(addr uint16, value uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[addr] = value
}

// Writes returns the number of Write16 calls so far
func (m *MemoryRegisters) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Snapshot returns a copy of every non-zero word
func (m *MemoryRegisters) Snapshot() map[uint16]uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[uint16]uint16, len(m.words))
	for addr, v := range m.words {
		if v != 0 {
			snap[addr] = v
		}
	}
	return snap
}
