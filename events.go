package smf

// This file contains the Event value produced by track iteration, along with
// the accessors for pulling channel-message fields out of one.

import (
	"fmt"
)

// Identifies which variant of event an Event holds.
type EventKind uint8

const (
	// A channel voice message: note on/off, aftertouch, control change,
	// program change, channel pressure, or pitch bend.
	KindChannelVoice EventKind = iota
	// A channel mode message: a control change whose controller number is in
	// the 120-127 range.
	KindChannelMode
	// A system exclusive message (status 0xf0 or 0xf7).
	KindSysEx
	// A meta-event (status 0xff).
	KindMeta
	// A byte pattern the track iterator couldn't interpret. Carries the
	// offset and a short reason; the iterator stops after yielding one.
	KindMalformed
)

func (k EventKind) String() string {
	switch k {
	case KindChannelVoice:
		return "channel voice message"
	case KindChannelMode:
		return "channel mode message"
	case KindSysEx:
		return "system exclusive message"
	case KindMeta:
		return "meta-event"
	case KindMalformed:
		return "malformed data"
	}
	return fmt.Sprintf("unknown event kind %d", uint8(k))
}

// The high-nibble message types for channel voice messages.
const (
	MessageNoteOff         = 0x80
	MessageNoteOn          = 0x90
	MessageAftertouch      = 0xa0
	MessageControlChange   = 0xb0
	MessageProgramChange   = 0xc0
	MessageChannelPressure = 0xd0
	MessagePitchBend       = 0xe0
)

// A single timed event pulled from a track. Event is a plain value: the
// fields that matter depend on Kind, and Payload (when set) aliases the
// track's byte slice rather than holding a copy. An Event therefore stays
// valid only as long as the buffer it was decoded from.
type Event struct {
	// Ticks elapsed since the previous event in the same track.
	Delta uint32
	Kind  EventKind
	// The full status byte. For channel messages this is the explicit or
	// inherited (running status) byte; for sysex it's 0xf0 or 0xf7; for
	// meta-events it's 0xff.
	Status uint8
	// The channel message data bytes. Data2 is unused for program change and
	// channel pressure messages.
	Data1 uint8
	Data2 uint8
	// The meta-event type byte, valid when Kind is KindMeta.
	MetaType uint8
	// The sysex or meta-event payload, borrowed from the track slice.
	Payload []byte
	// Whether a sysex payload ends with the 0xf7 terminator. False means the
	// message continues in a later 0xf7 packet.
	Terminated bool
	// For KindMalformed: the offset within the track payload of the byte
	// that couldn't be interpreted, and a short description.
	Offset int
	Reason string
}

// Returns the channel number (0-15) for channel voice and mode messages.
func (e Event) Channel() uint8 {
	return e.Status & 0x0f
}

// Returns the high nibble of the status byte: one of the Message constants
// for channel voice and mode messages.
func (e Event) MessageType() uint8 {
	return e.Status & 0xf0
}

// Returns the note number for note on/off and aftertouch messages.
func (e Event) Note() MIDINote {
	return MIDINote(e.Data1)
}

// Returns the velocity for note on/off messages. A note-on with velocity 0
// conventionally means note-off.
func (e Event) Velocity() uint8 {
	return e.Data2
}

// Returns the controller number for control change and channel mode
// messages.
func (e Event) Controller() uint8 {
	return e.Data1
}

// Returns the controller value for control change and channel mode messages.
func (e Event) Value() uint8 {
	return e.Data2
}

// Returns the program number for program change messages.
func (e Event) Program() uint8 {
	return e.Data1
}

// Returns the pressure value for aftertouch and channel pressure messages.
func (e Event) Pressure() uint8 {
	if e.MessageType() == MessageChannelPressure {
		return e.Data1
	}
	return e.Data2
}

// Returns the 14-bit pitch bend value. The "center" value is 0x2000.
func (e Event) PitchBend() uint16 {
	return uint16(e.Data2)<<7 | uint16(e.Data1)
}

// Returns the sysex payload without the trailing 0xf7 terminator, if one is
// present. The slice aliases the track data.
func (e Event) SysExData() []byte {
	if e.Terminated {
		return e.Payload[:len(e.Payload)-1]
	}
	return e.Payload
}

// Holds a MIDI note value. The values corresponding to keys on a standard
// keyboard are 21 (A0) through 108 (C8).
type MIDINote uint8

func (n MIDINote) String() string {
	if (n < 21) || (n > 108) {
		return fmt.Sprintf("MIDI note %d", uint8(n))
	}
	notes := [...]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F",
		"F#", "G", "G#"}
	index := (int(n) - 21) % 12
	octave := (int(n) - 12) / 12
	return fmt.Sprintf("%s%d", notes[index], octave)
}

func (e Event) channelString() string {
	c := fmt.Sprintf("Channel %d: ", e.Channel())
	switch e.MessageType() {
	case MessageNoteOff:
		return c + fmt.Sprintf("%s off, velocity = %d", e.Note(),
			e.Velocity())
	case MessageNoteOn:
		return c + fmt.Sprintf("%s on, velocity = %d", e.Note(), e.Velocity())
	case MessageAftertouch:
		return c + fmt.Sprintf("%s aftertouch pressure %d", e.Note(),
			e.Pressure())
	case MessageControlChange:
		return c + e.controlChangeString()
	case MessageProgramChange:
		return c + fmt.Sprintf("program change to %d", e.Program())
	case MessageChannelPressure:
		return c + fmt.Sprintf("set channel pressure to %d", e.Pressure())
	case MessagePitchBend:
		return c + fmt.Sprintf("pitch bend value %d", e.PitchBend())
	}
	return c + fmt.Sprintf("unknown message type 0x%02x", e.MessageType())
}

func (e Event) controlChangeString() string {
	// The channel mode controllers get their own descriptions.
	switch e.Controller() {
	case 120:
		return fmt.Sprintf("all sound off (v = %d)", e.Value())
	case 121:
		return fmt.Sprintf("reset all controllers (v = %d)", e.Value())
	case 122:
		tmp := "off"
		if e.Value() == 127 {
			tmp = "on"
		} else if e.Value() != 0 {
			tmp = fmt.Sprintf("unknown setting %d", e.Value())
		}
		return "local control " + tmp
	case 123:
		return fmt.Sprintf("all notes off (v = %d)", e.Value())
	case 124:
		return fmt.Sprintf("omni mode off (v = %d)", e.Value())
	case 125:
		return fmt.Sprintf("omni mode on (v = %d)", e.Value())
	case 126:
		return fmt.Sprintf("mono mode on (v = %d)", e.Value())
	case 127:
		return fmt.Sprintf("poly mode on (v = %d)", e.Value())
	}
	return fmt.Sprintf("control change, controller number %d, value %d",
		e.Controller(), e.Value())
}

// A human-readable description of the event. This is a convenience for
// display; it allocates, unlike the decode path.
func (e Event) String() string {
	switch e.Kind {
	case KindChannelVoice, KindChannelMode:
		return e.channelString()
	case KindSysEx:
		return fmt.Sprintf("System exclusive message. %d bytes: % x.",
			len(e.SysExData()), e.SysExData())
	case KindMeta:
		return e.metaString()
	case KindMalformed:
		return fmt.Sprintf("Malformed data at offset %d: %s", e.Offset,
			e.Reason)
	}
	return fmt.Sprintf("Unknown event kind %d", uint8(e.Kind))
}
