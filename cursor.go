package smf

// This file contains the bounds-checked cursor that every other part of the
// decoder reads through.

// A Cursor is a read position over a borrowed byte slice. Every read is
// bounds-checked and returns views into the original slice; the cursor never
// copies data and never advances past the end of the slice. A short read
// fails with an error wrapping ErrUnexpectedEOF and leaves the position
// unchanged.
type Cursor struct {
	data []byte
	pos  int
}

// Returns a Cursor positioned at the start of data. The cursor keeps a
// reference to data; the caller must not modify the slice while the cursor
// (or anything it returned) is in use.
func NewCursor(data []byte) Cursor {
	return Cursor{data: data}
}

// Returns the current byte offset from the start of the wrapped slice.
func (c *Cursor) Position() int {
	return c.pos
}

// Returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Checks that n more bytes can be read. Does not advance.
func (c *Cursor) require(n int) error {
	if c.Remaining() >= n {
		return nil
	}
	return newParseError(ErrUnexpectedEOF, c.pos, "")
}

// Reads and returns the next byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if e := c.require(1); e != nil {
		return 0, e
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// Returns the next byte without advancing the cursor.
func (c *Cursor) PeekU8() (uint8, error) {
	if e := c.require(1); e != nil {
		return 0, e
	}
	return c.data[c.pos], nil
}

// Reads a big-endian 16-bit integer.
func (c *Cursor) ReadU16() (uint16, error) {
	if e := c.require(2); e != nil {
		return 0, e
	}
	v := uint16(c.data[c.pos])<<8 | uint16(c.data[c.pos+1])
	c.pos += 2
	return v, nil
}

// Reads a big-endian 24-bit integer into the low bits of a uint32. MIDI uses
// this width for tempo meta-events.
func (c *Cursor) ReadU24() (uint32, error) {
	if e := c.require(3); e != nil {
		return 0, e
	}
	v := uint32(c.data[c.pos])<<16 | uint32(c.data[c.pos+1])<<8 |
		uint32(c.data[c.pos+2])
	c.pos += 3
	return v, nil
}

// Reads a big-endian 32-bit integer.
func (c *Cursor) ReadU32() (uint32, error) {
	if e := c.require(4); e != nil {
		return 0, e
	}
	v := uint32(c.data[c.pos])<<24 | uint32(c.data[c.pos+1])<<16 |
		uint32(c.data[c.pos+2])<<8 | uint32(c.data[c.pos+3])
	c.pos += 4
	return v, nil
}

// Reads exactly n bytes and returns them as a sub-slice of the wrapped data.
// The returned slice aliases the cursor's underlying slice.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if e := c.require(n); e != nil {
		return nil, e
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Advances the cursor by n bytes without looking at them.
func (c *Cursor) Skip(n int) error {
	if e := c.require(n); e != nil {
		return e
	}
	c.pos += n
	return nil
}
