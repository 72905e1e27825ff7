package smf

import (
	"fmt"
)

// The largest value a MIDI variable-length int can hold: 4 bytes of 7 usable
// bits each.
const MaxVariableInt = 0x0fffffff

// Reads a MIDI-format variable-length int (up to 0x0fffffff) from c. Each
// byte contributes its 7 low bits, most-significant group first; a set high
// bit means another byte follows. Returns the decoded value and the number of
// bytes consumed. Fails with ErrVariableIntTooLong if the int doesn't
// terminate within 4 bytes, or ErrUnexpectedEOF if the buffer runs out
// mid-sequence.
func ReadVariableInt(c *Cursor) (uint32, int, error) {
	start := c.Position()
	var value uint32
	for i := 0; i < 4; i++ {
		b, e := c.ReadU8()
		if e != nil {
			return 0, c.Position() - start, e
		}
		value = (value << 7) | uint32(b&0x7f)
		if (b & 0x80) == 0 {
			return value, c.Position() - start, nil
		}
	}
	return 0, 4, newParseError(ErrVariableIntTooLong, start,
		"highest bit not clear on byte 4")
}

// Appends the MIDI variable-length encoding of n to dst and returns the
// extended slice. Returns an error if n doesn't fit in the 28 bits the
// format allows. Appending to a slice with sufficient capacity doesn't
// allocate.
func AppendVariableInt(dst []byte, n uint32) ([]byte, error) {
	if n > MaxVariableInt {
		return dst, fmt.Errorf("Integer 0x%08x is too large for a MIDI int",
			n)
	}
	// Break the number into 7-bit groups, least-significant first, then
	// append them in reverse with the continuation bit set on all but the
	// last.
	var groups [4]byte
	i := len(groups)
	for {
		i--
		groups[i] = byte(n & 0x7f)
		n >>= 7
		if n == 0 {
			break
		}
	}
	for j := i; j < len(groups)-1; j++ {
		groups[j] |= 0x80
	}
	return append(dst, groups[i:]...), nil
}
