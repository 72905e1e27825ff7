package smf

// This file contains the per-track event iterator: the delta-time and status
// dispatch state machine, including running status.

import (
	"fmt"
)

// A TrackEvents iterates over the timed events in one MTrk chunk's payload.
// It is forward-only and fail-stop: once Next returns false, either the
// track's End Of Track meta-event was reached, the data ran out, or Err
// reports what went wrong; no further events are produced either way.
// Events already returned stay valid.
//
// Running status is tracked per iterator, starting unset: a data byte where
// a status byte was expected reuses the previous channel message's status,
// and sysex and meta-events leave the running status alone. Iterators over
// distinct tracks share nothing and may run concurrently as long as the
// underlying buffer isn't modified.
type TrackEvents struct {
	c       Cursor
	running uint8
	event   Event
	err     error
	done    bool
}

// Returns an iterator over the events in the given track chunk payload. The
// slice is borrowed, not copied.
func NewTrackEvents(track []byte) *TrackEvents {
	return &TrackEvents{c: NewCursor(track)}
}

// Advances to the next event. Returns false once the track is exhausted,
// its End Of Track meta-event was returned, or a decode error occurred;
// check Err to tell a clean end from a failure.
func (t *TrackEvents) Next() bool {
	if t.done || (t.err != nil) {
		return false
	}
	if t.c.Remaining() == 0 {
		t.done = true
		return false
	}
	delta, _, e := ReadVariableInt(&t.c)
	if e != nil {
		t.err = e
		return false
	}
	statusOffset := t.c.Position()
	b, e := t.c.PeekU8()
	if e != nil {
		t.err = e
		return false
	}
	event := Event{Delta: delta}
	switch {
	case b == 0xf0 || b == 0xf7:
		t.c.Skip(1)
		if e = t.readSysEx(&event, b, statusOffset); e != nil {
			t.err = e
			return false
		}
	case b == 0xff:
		t.c.Skip(1)
		if e = t.readMeta(&event); e != nil {
			t.err = e
			return false
		}
		if event.MetaType == MetaEndOfTrack {
			// The event stream ends here even if bytes remain in the chunk.
			t.done = true
		}
	case b >= 0x80 && b < 0xf0:
		t.c.Skip(1)
		t.running = b
		if e = t.readChannelMessage(&event, b); e != nil {
			t.err = e
			return false
		}
	case b < 0x80:
		if t.running == 0 {
			t.err = newParseError(ErrInvalidStatusByte, statusOffset,
				"data byte with no running status")
			return false
		}
		if e = t.readChannelMessage(&event, t.running); e != nil {
			t.err = e
			return false
		}
	default:
		// 0xf1-0xf6 and 0xf8-0xfe: system common and real-time bytes don't
		// belong in track data. Yield a malformed event and stop rather than
		// guessing where the next event starts.
		event.Kind = KindMalformed
		event.Offset = statusOffset
		event.Reason = "system common or real-time status byte in track data"
		t.done = true
	}
	t.event = event
	return true
}

// Returns the event found by the last successful Next.
func (t *TrackEvents) Event() Event {
	return t.event
}

// Returns the error that stopped iteration, or nil if the track ended
// cleanly (or iteration hasn't finished).
func (t *TrackEvents) Err() error {
	return t.err
}

// Reads the data bytes of a channel voice or mode message under the given
// status byte, which has already been consumed (or inherited via running
// status).
func (t *TrackEvents) readChannelMessage(event *Event, status uint8) error {
	event.Status = status
	d1, e := t.c.ReadU8()
	if e != nil {
		return e
	}
	if (d1 & 0x80) != 0 {
		// The spot where a data byte belongs holds a status byte instead.
		*event = Event{
			Delta:  event.Delta,
			Kind:   KindMalformed,
			Offset: t.c.Position() - 1,
			Reason: "status byte where a data byte was expected",
		}
		t.done = true
		return nil
	}
	event.Data1 = d1
	// Program change and channel pressure carry one data byte; everything
	// else carries two.
	messageType := status & 0xf0
	if (messageType != MessageProgramChange) &&
		(messageType != MessageChannelPressure) {
		d2, e := t.c.ReadU8()
		if e != nil {
			return e
		}
		if (d2 & 0x80) != 0 {
			*event = Event{
				Delta:  event.Delta,
				Kind:   KindMalformed,
				Offset: t.c.Position() - 1,
				Reason: "status byte where a data byte was expected",
			}
			t.done = true
			return nil
		}
		event.Data2 = d2
	}
	if (messageType == MessageControlChange) && (d1 >= 120) {
		event.Kind = KindChannelMode
	} else {
		event.Kind = KindChannelVoice
	}
	return nil
}

// Reads a sysex event's length and payload. The status byte (0xf0 or 0xf7)
// has already been consumed.
func (t *TrackEvents) readSysEx(event *Event, status uint8,
	statusOffset int) error {
	length, _, e := ReadVariableInt(&t.c)
	if e != nil {
		return e
	}
	payload, e := t.c.ReadBytes(int(length))
	if e != nil {
		return newParseError(ErrUnterminatedSysEx, statusOffset,
			fmt.Sprintf("declared %d payload bytes, %d remain", length,
				t.c.Remaining()))
	}
	event.Kind = KindSysEx
	event.Status = status
	event.Payload = payload
	event.Terminated = (len(payload) > 0) &&
		(payload[len(payload)-1] == 0xf7)
	return nil
}

// Reads a meta-event's type byte, length, and payload. The 0xff status byte
// has already been consumed.
func (t *TrackEvents) readMeta(event *Event) error {
	metaType, e := t.c.ReadU8()
	if e != nil {
		return e
	}
	length, _, e := ReadVariableInt(&t.c)
	if e != nil {
		return e
	}
	payload, e := t.c.ReadBytes(int(length))
	if e != nil {
		return e
	}
	event.Kind = KindMeta
	event.Status = 0xff
	event.MetaType = metaType
	event.Payload = payload
	return nil
}
