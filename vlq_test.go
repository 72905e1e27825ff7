package smf

import (
	"bytes"
	"errors"
	"testing"
)

func TestVariableIntRead(t *testing.T) {
	expected := []uint32{
		0x00000000,
		0x00000040,
		0x0000007F,
		0x00000080,
		0x00002000,
		0x00003FFF,
		0x00004000,
		0x00100000,
		0x001FFFFF,
		0x00200000,
		0x08000000,
		0x0FFFFFFF,
	}
	// The variable-length encodings of the values above, back to back.
	data := []byte{
		0x00,
		0x40,
		0x7F,
		0x81, 0x00,
		0xC0, 0x00,
		0xFF, 0x7F,
		0x81, 0x80, 0x00,
		0xC0, 0x80, 0x00,
		0xFF, 0xFF, 0x7F,
		0x81, 0x80, 0x80, 0x00,
		0xC0, 0x80, 0x80, 0x00,
		0xFF, 0xFF, 0xFF, 0x7F,
	}
	c := NewCursor(data)
	for _, v := range expected {
		before := c.Position()
		valueRead, size, e := ReadVariableInt(&c)
		if e != nil {
			t.Logf("Failed reading variable-length int 0x%08x: %s\n", v, e)
			t.FailNow()
		}
		if valueRead != v {
			t.Logf("Read wrong value for variable-length int. Expected "+
				"0x%08x, got 0x%08x.\n", v, valueRead)
			t.FailNow()
		}
		if size != c.Position()-before {
			t.Logf("Reported size %d doesn't match bytes consumed %d\n",
				size, c.Position()-before)
			t.FailNow()
		}
	}
	if c.Remaining() != 0 {
		t.Logf("Didn't consume the whole encoded buffer: %d bytes left\n",
			c.Remaining())
		t.FailNow()
	}
}

func TestVariableIntTooLong(t *testing.T) {
	// The high bit is still set on the 4th byte, so this doesn't fit in the
	// format's 28 bits.
	c := NewCursor([]byte{0xff, 0xff, 0xff, 0x80, 0xff})
	_, _, e := ReadVariableInt(&c)
	if !errors.Is(e, ErrVariableIntTooLong) {
		t.Logf("Didn't get expected error for a 5-byte int: %v\n", e)
		t.FailNow()
	}
	t.Logf("Got expected error for invalid variable-length int: %s\n", e)
}

func TestVariableIntTruncated(t *testing.T) {
	// The continuation bit promises another byte that isn't there. This must
	// be an EOF error, not an overflow: the buffer ended mid-sequence.
	c := NewCursor([]byte{0x81, 0x80})
	_, _, e := ReadVariableInt(&c)
	if !errors.Is(e, ErrUnexpectedEOF) {
		t.Logf("Didn't get EOF error for an incomplete int: %v\n", e)
		t.FailNow()
	}
	t.Logf("Got expected error for incomplete int: %s\n", e)
}

func TestVariableIntRoundTrip(t *testing.T) {
	// The boundary values for 1 through 4 encoded bytes.
	values := []uint32{0, 0x7f, 0x3fff, 0x1fffff, 0x0fffffff}
	for _, v := range values {
		encoded, e := AppendVariableInt(nil, v)
		if e != nil {
			t.Logf("Failed encoding 0x%08x: %s\n", v, e)
			t.FailNow()
		}
		c := NewCursor(encoded)
		decoded, size, e := ReadVariableInt(&c)
		if e != nil {
			t.Logf("Failed decoding the encoding of 0x%08x: %s\n", v, e)
			t.FailNow()
		}
		if decoded != v {
			t.Logf("Round trip changed 0x%08x into 0x%08x\n", v, decoded)
			t.FailNow()
		}
		if size != len(encoded) {
			t.Logf("Decoding 0x%08x consumed %d of %d encoded bytes\n", v,
				size, len(encoded))
			t.FailNow()
		}
	}
	if _, e := AppendVariableInt(nil, MaxVariableInt+1); e == nil {
		t.Logf("Didn't get expected error encoding an int that's too big.\n")
		t.FailNow()
	}
}

func TestVariableIntAppend(t *testing.T) {
	// Check the exact encodings against the values from the read test.
	values := []uint32{0x00, 0x40, 0x7f, 0x80, 0x2000, 0x3fff, 0x4000,
		0x100000, 0x1fffff, 0x200000, 0x08000000, 0x0fffffff}
	expected := []byte{
		0x00,
		0x40,
		0x7F,
		0x81, 0x00,
		0xC0, 0x00,
		0xFF, 0x7F,
		0x81, 0x80, 0x00,
		0xC0, 0x80, 0x00,
		0xFF, 0xFF, 0x7F,
		0x81, 0x80, 0x80, 0x00,
		0xC0, 0x80, 0x80, 0x00,
		0xFF, 0xFF, 0xFF, 0x7F,
	}
	var output []byte
	var e error
	for _, v := range values {
		output, e = AppendVariableInt(output, v)
		if e != nil {
			t.Logf("Failed appending variable int 0x%08x: %s\n", v, e)
			t.FailNow()
		}
	}
	if !bytes.Equal(output, expected) {
		t.Logf("Got different encoded output. Expected % x, got % x\n",
			expected, output)
		t.FailNow()
	}
}
