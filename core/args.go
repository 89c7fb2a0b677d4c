package core

import "pic24io/protocol"

// maxArgs bounds the argument count of any native command
const maxArgs = 8

// Args holds the decoded arguments of one native call
type Args struct {
	vals [maxArgs]int32
	n    int
}

// DecodeArgs consumes exactly n VLQ arguments from data. Running out of data
// is an arity error.
func DecodeArgs(data *[]byte, n int) (*Args, error) {
	assert(n <= maxArgs, "too many arguments declared")
	a := &Args{n: n}
	for i := 0; i < n; i++ {
		v, err := protocol.DecodeVLQInt(data)
		if err != nil {
			return nil, typeError("Expected " + itoa(n) + " arguments, got " + itoa(i) + ".")
		}
		a.vals[i] = v
	}
	return a, nil
}

// Len returns the number of decoded arguments
func (a *Args) Len() int {
	return a.n
}

func (a *Args) raw(i int) int32 {
	assert(i >= 0 && i < a.n, "argument index out of range")
	return a.vals[i]
}

// Uint16 returns argument i as an unsigned 16-bit integer
func (a *Args) Uint16(i int) (uint16, error) {
	v := a.raw(i)
	if v < 0 || v > 0xFFFF {
		return 0, typeError("Argument " + itoa(i) + " is not an unsigned 16-bit integer.")
	}
	return uint16(v), nil
}

// Uint32 returns argument i as a %u value. Every 32-bit pattern is valid.
func (a *Args) Uint32(i int) uint32 {
	return uint32(a.raw(i))
}

// Uint8 returns argument i as a %c value
func (a *Args) Uint8(i int) (uint8, error) {
	v := a.raw(i)
	if v < 0 || v > 0xFF {
		return 0, typeError("Argument " + itoa(i) + " is not an unsigned 8-bit integer.")
	}
	return uint8(v), nil
}

// Int16 returns argument i as a signed 16-bit integer
func (a *Args) Int16(i int) (int16, error) {
	v := a.raw(i)
	if v < -0x8000 || v > 0x7FFF {
		return 0, typeError("Argument " + itoa(i) + " is not a signed 16-bit integer.")
	}
	return int16(v), nil
}

// Bool returns argument i, which must be 0 or 1, as a boolean
func (a *Args) Bool(i int) (bool, error) {
	switch a.raw(i) {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, typeError("Argument " + itoa(i) + " is not a boolean.")
}
