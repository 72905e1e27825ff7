package smf

// This file contains the decoded representation of the MThd header chunk.

import (
	"fmt"
)

// The format field of the MThd chunk.
type Format uint16

const (
	// The file contains a single track.
	SingleTrack Format = 0
	// The file contains multiple tracks played simultaneously.
	MultiTrackSync Format = 1
	// The file contains multiple independent single-track sequences.
	MultiTrackAsync Format = 2
)

func (f Format) String() string {
	switch f {
	case SingleTrack:
		return "single track"
	case MultiTrackSync:
		return "multiple synchronous tracks"
	case MultiTrackAsync:
		return "multiple asynchronous tracks"
	}
	return fmt.Sprintf("unknown format %d", uint16(f))
}

// This corresponds to the division field of the MThd chunk.
type TimeDivision uint16

// Returns the number of ticks per quarter note, or 0 if the time division
// specifies an SMPTE time code instead.
func (d TimeDivision) TicksPerQuarterNote() uint16 {
	if (d & 0x8000) != 0 {
		return 0
	}
	return uint16(d)
}

// Returns the SMPTE frames per second followed by the number of MIDI ticks
// per frame, in that order. Returns 0, 0 if the TimeDivision specifies ticks
// per quarter note instead.
func (d TimeDivision) SMPTETimeCode() (uint8, uint8) {
	if (d & 0x8000) == 0 {
		return 0, 0
	}
	// With the top bit set, the upper byte holds the frames per second as a
	// 2's complement negative 8-bit integer.
	fps := uint8(-int8(d >> 8))
	ticksPerFrame := uint8(d & 0xff)
	return fps, ticksPerFrame
}

func (d TimeDivision) String() string {
	if (d & 0x7fff) == 0 {
		return fmt.Sprintf("Invalid TimeDivision value: 0x%04x", uint16(d))
	}
	qnTicks := d.TicksPerQuarterNote()
	if qnTicks != 0 {
		return fmt.Sprintf("%d ticks per quarter note", qnTicks)
	}
	fps, ticksPerFrame := d.SMPTETimeCode()
	return fmt.Sprintf("%d frames per second, %d ticks per frame", fps,
		ticksPerFrame)
}

// The decoded content of the MThd chunk. TrackCount is what the header
// declares; the actual number of MTrk chunks in the file may differ, which
// the track scanner reports separately.
type Header struct {
	Format     Format
	TrackCount uint16
	Division   TimeDivision
}

func (h Header) String() string {
	return fmt.Sprintf("Format %d (%s), with %d track(s), %s",
		uint16(h.Format), h.Format, h.TrackCount, h.Division)
}
