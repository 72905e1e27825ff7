package smf

// This file contains the outer chunk structure of an SMF file: the MThd
// header decode and the scan over subsequent track chunks.

import (
	"fmt"
)

const (
	headerChunkType = "MThd"
	trackChunkType  = "MTrk"
	// The MThd payload always carries at least format, track count, and
	// division.
	headerDataSize = 6
)

// A Reader provides access to the contents of a single SMF byte buffer. It
// decodes the header chunk once, up front; track chunks are scanned lazily
// via Tracks. The Reader borrows the caller's buffer and never copies it, so
// the buffer must stay unmodified while the Reader, any TrackSet, or any
// event obtained from them is in use.
type Reader struct {
	header Header
	data   []byte
	// The file offset of the first byte after the header chunk.
	chunkStart int
}

// Decodes the header chunk at the start of data and returns a Reader over
// the buffer. Fails with ErrBadChunkType if the buffer doesn't start with an
// MThd chunk, ErrLengthMismatch if the header's declared length is shorter
// than 6 bytes or extends past the buffer, and ErrUnsupportedFormat for a
// format field other than 0, 1, or 2. A declared length over 6 is accepted;
// the extra bytes are skipped without being interpreted.
func NewReader(data []byte) (*Reader, error) {
	c := NewCursor(data)
	tag, e := c.ReadBytes(4)
	if e != nil {
		return nil, e
	}
	if string(tag) != headerChunkType {
		return nil, newParseError(ErrBadChunkType, 0,
			fmt.Sprintf("expected %q, got %q", headerChunkType, tag))
	}
	length, e := c.ReadU32()
	if e != nil {
		return nil, e
	}
	if length < headerDataSize {
		return nil, newParseError(ErrLengthMismatch, 4,
			fmt.Sprintf("header chunk declares %d bytes, need at least %d",
				length, headerDataSize))
	}
	if uint64(length) > uint64(c.Remaining()) {
		return nil, newParseError(ErrLengthMismatch, 4,
			fmt.Sprintf("header chunk declares %d bytes, %d remain", length,
				c.Remaining()))
	}
	format, e := c.ReadU16()
	if e != nil {
		return nil, e
	}
	if format > 2 {
		return nil, newParseError(ErrUnsupportedFormat, c.Position()-2,
			fmt.Sprintf("format field is %d", format))
	}
	trackCount, e := c.ReadU16()
	if e != nil {
		return nil, e
	}
	division, e := c.ReadU16()
	if e != nil {
		return nil, e
	}
	// Skip any bytes the header declares beyond the 6 we understand; a
	// future revision of the format may extend the header.
	if e = c.Skip(int(length) - headerDataSize); e != nil {
		return nil, e
	}
	return &Reader{
		header: Header{
			Format:     Format(format),
			TrackCount: trackCount,
			Division:   TimeDivision(division),
		},
		data:       data,
		chunkStart: c.Position(),
	}, nil
}

// Returns the decoded header chunk.
func (r *Reader) Header() Header {
	return r.header
}

// Returns a fresh scan over the file's track chunks, starting at the first
// chunk after the header. Multiple TrackSets over the same Reader are
// independent.
func (r *Reader) Tracks() *TrackSet {
	c := NewCursor(r.data)
	// Can't fail: NewReader already read this far.
	c.Skip(r.chunkStart)
	return &TrackSet{
		c:        c,
		declared: r.header.TrackCount,
	}
}

// A TrackSet scans the chunks following the header and yields each MTrk
// chunk's payload in file order. Chunks with any other tag are skipped
// without error, so files carrying vendor or future chunk types still
// decode. Use it like bufio.Scanner: call Next until it returns false, then
// check Err.
type TrackSet struct {
	c        Cursor
	declared uint16
	found    int
	track    []byte
	err      error
	done     bool
}

// Advances to the next MTrk chunk. Returns false when the buffer is
// exhausted or a malformed chunk boundary was hit; Err distinguishes the
// two.
func (s *TrackSet) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	for s.c.Remaining() > 0 {
		tagOffset := s.c.Position()
		tag, e := s.c.ReadBytes(4)
		if e != nil {
			s.err = e
			return false
		}
		length, e := s.c.ReadU32()
		if e != nil {
			s.err = e
			return false
		}
		if uint64(length) > uint64(s.c.Remaining()) {
			// Report this at the chunk boundary rather than wherever a read
			// inside the payload would have failed.
			s.err = newParseError(ErrLengthMismatch, tagOffset,
				fmt.Sprintf("chunk %q declares %d bytes, %d remain", tag,
					length, s.c.Remaining()))
			return false
		}
		payload, e := s.c.ReadBytes(int(length))
		if e != nil {
			s.err = e
			return false
		}
		if string(tag) == trackChunkType {
			s.found++
			s.track = payload
			return true
		}
	}
	s.done = true
	return false
}

// Returns the payload of the MTrk chunk found by the last successful Next.
// The slice aliases the file buffer.
func (s *TrackSet) Track() []byte {
	return s.track
}

// Returns an event iterator over the MTrk chunk found by the last successful
// Next.
func (s *TrackSet) Events() *TrackEvents {
	return NewTrackEvents(s.track)
}

// Returns the number of MTrk chunks found so far.
func (s *TrackSet) Found() int {
	return s.found
}

// Returns the first fatal error hit by the scan, or nil if it ended (or is
// still progressing) cleanly.
func (s *TrackSet) Err() error {
	return s.err
}

// Reports whether the number of MTrk chunks found agrees with the header's
// declared track count. Returns nil on agreement, or an error wrapping
// ErrTrackCountMismatch otherwise. The header count is advisory, so this is
// kept separate from Err: tracks already yielded stay valid, and the caller
// decides whether a mismatch is fatal. Only meaningful once Next has
// returned false.
func (s *TrackSet) CountError() error {
	if s.found == int(s.declared) {
		return nil
	}
	return fmt.Errorf("%w: header declares %d, found %d",
		ErrTrackCountMismatch, s.declared, s.found)
}
