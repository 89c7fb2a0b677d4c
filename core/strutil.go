package core

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}

const hexDigits = "0123456789ABCDEF"

// hex renders v as upper-case hex, zero padded to at least width digits
// (the equivalent of %0*X).
func hex(v uint32, width int) string {
	var buf [8]byte
	pos := len(buf)
	for v != 0 || len(buf)-pos < width {
		pos--
		buf[pos] = hexDigits[v&0xF]
		v >>= 4
		if pos == 0 {
			break
		}
	}
	return string(buf[pos:])
}

// pinName renders a port/pin pair the way the datasheets do: port letter
// followed by the pin number, e.g. port 1 pin 5 is "B5".
func pinName(port, pin uint16) string {
	return string([]byte{byte(port) + 'A'}) + itoa(int(pin))
}

// valueToString converts a dictionary constant to its string form
func valueToString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int:
		return itoa(val)
	case uint16:
		return itoa(int(val))
	case uint32:
		return itoa(int(val))
	default:
		return ""
	}
}
