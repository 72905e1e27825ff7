package smf

// This file contains the meta-event type constants and the typed accessors
// for decoding well-known meta-event payloads.

import (
	"fmt"
)

// Meta-event type bytes.
const (
	MetaSequenceNumber    = 0x00
	MetaText              = 0x01
	MetaCopyrightNotice   = 0x02
	MetaTrackName         = 0x03
	MetaInstrumentName    = 0x04
	MetaLyric             = 0x05
	MetaMarker            = 0x06
	MetaCuePoint          = 0x07
	MetaChannelPrefix     = 0x20
	MetaEndOfTrack        = 0x2f
	MetaSetTempo          = 0x51
	MetaSMPTEOffset       = 0x54
	MetaTimeSignature     = 0x58
	MetaKeySignature      = 0x59
	MetaSequencerSpecific = 0x7f
)

// Reports whether this is the End Of Track meta-event that terminates a
// track's event stream.
func (e Event) IsEndOfTrack() bool {
	return (e.Kind == KindMeta) && (e.MetaType == MetaEndOfTrack)
}

// Returns the sequence number carried by a sequence-number meta-event.
func (e Event) SequenceNumber() (uint16, error) {
	if (e.Kind != KindMeta) || (e.MetaType != MetaSequenceNumber) {
		return 0, fmt.Errorf("Not a sequence number meta-event")
	}
	if len(e.Payload) != 2 {
		return 0, fmt.Errorf("Bad sequence number event size: %d bytes",
			len(e.Payload))
	}
	return uint16(e.Payload[0])<<8 | uint16(e.Payload[1]), nil
}

// Returns the text payload of a text-class meta-event (types 0x01 through
// 0x0f) as a borrowed byte slice. The second return value is false if the
// event isn't a text-class meta-event.
func (e Event) Text() ([]byte, bool) {
	if (e.Kind != KindMeta) || (e.MetaType < 0x01) || (e.MetaType > 0x0f) {
		return nil, false
	}
	return e.Payload, true
}

// Returns the channel number carried by a channel-prefix meta-event, which
// associates subsequent meta and sysex events with a channel.
func (e Event) ChannelPrefix() (uint8, error) {
	if (e.Kind != KindMeta) || (e.MetaType != MetaChannelPrefix) {
		return 0, fmt.Errorf("Not a channel prefix meta-event")
	}
	if len(e.Payload) != 1 {
		return 0, fmt.Errorf("Bad channel prefix meta-event length: %d",
			len(e.Payload))
	}
	return e.Payload[0], nil
}

// Returns the tempo carried by a set-tempo meta-event, in microseconds per
// quarter note.
func (e Event) Tempo() (uint32, error) {
	if (e.Kind != KindMeta) || (e.MetaType != MetaSetTempo) {
		return 0, fmt.Errorf("Not a set tempo meta-event")
	}
	if len(e.Payload) != 3 {
		return 0, fmt.Errorf("Expected 3 byte length for set tempo event, "+
			"got %d bytes", len(e.Payload))
	}
	return uint32(e.Payload[0])<<16 | uint32(e.Payload[1])<<8 |
		uint32(e.Payload[2]), nil
}

// Returns the tempo carried by a set-tempo meta-event in beats per minute.
func (e Event) BPM() (float64, error) {
	tempo, err := e.Tempo()
	if err != nil {
		return 0, err
	}
	if tempo == 0 {
		return 0, fmt.Errorf("Set tempo event with 0 microseconds per " +
			"quarter note")
	}
	return 60000000.0 / float64(tempo), nil
}

// Holds an SMPTE offset meta-event's data.
type SMPTEOffset struct {
	Hours   uint8
	Minutes uint8
	Seconds uint8
	Frames  uint8
	// Hundredths of a frame.
	FractionalFrames uint8
}

func (s SMPTEOffset) String() string {
	frame := float32(s.Frames)
	frame += float32(s.FractionalFrames) / 100.0
	return fmt.Sprintf("SMPTE offset: %d:%d:%d, %f frames", s.Hours,
		s.Minutes, s.Seconds, frame)
}

// Decodes an SMPTE-offset meta-event's payload.
func (e Event) SMPTEOffset() (SMPTEOffset, error) {
	if (e.Kind != KindMeta) || (e.MetaType != MetaSMPTEOffset) {
		return SMPTEOffset{}, fmt.Errorf("Not an SMPTE offset meta-event")
	}
	if len(e.Payload) != 5 {
		return SMPTEOffset{}, fmt.Errorf("Invalid SMPTE offset meta-event "+
			"length: %d", len(e.Payload))
	}
	return SMPTEOffset{
		Hours:            e.Payload[0],
		Minutes:          e.Payload[1],
		Seconds:          e.Payload[2],
		Frames:           e.Payload[3],
		FractionalFrames: e.Payload[4],
	}, nil
}

// Holds a time-signature meta-event's data.
type TimeSignature struct {
	Numerator uint8
	// A negative power of 2; for example, 5/8 time has Numerator 5 and
	// Denominator 3.
	Denominator uint8
	// MIDI clocks (24ths of a quarter note) per metronome tick.
	ClocksPerMetronomeTick uint8
	// Notated 32nd notes per quarter note.
	Notated32ndNotesPerQuarterNote uint8
}

func (s TimeSignature) String() string {
	base := uint32(1) << uint32(s.Denominator)
	return fmt.Sprintf("Time signature: %d/%d time, %d clocks per metronome "+
		"tick, %d 32nd notes per notated quarter note", s.Numerator, base,
		s.ClocksPerMetronomeTick, s.Notated32ndNotesPerQuarterNote)
}

// Decodes a time-signature meta-event's payload.
func (e Event) TimeSignature() (TimeSignature, error) {
	if (e.Kind != KindMeta) || (e.MetaType != MetaTimeSignature) {
		return TimeSignature{}, fmt.Errorf("Not a time signature meta-event")
	}
	if len(e.Payload) != 4 {
		return TimeSignature{}, fmt.Errorf("Bad time signature meta-event "+
			"size: %d", len(e.Payload))
	}
	return TimeSignature{
		Numerator:                      e.Payload[0],
		Denominator:                    e.Payload[1],
		ClocksPerMetronomeTick:         e.Payload[2],
		Notated32ndNotesPerQuarterNote: e.Payload[3],
	}, nil
}

// Holds a key-signature meta-event's data.
type KeySignature struct {
	// Valid range is -7 to +7: negative counts flats, positive counts
	// sharps, and 0 means no sharps or flats.
	SharpOrFlatCount int8
	// True if the key signature is for a minor key.
	IsMinor bool
}

func (s KeySignature) String() string {
	sf := s.SharpOrFlatCount
	tmp := "sharps or flats"
	if sf < 0 {
		sf = -sf
		tmp = "flat"
	} else if sf > 0 {
		tmp = "sharp"
	}
	if sf > 1 {
		tmp += "s"
	}
	mm := "major"
	if s.IsMinor {
		mm = "minor"
	}
	return fmt.Sprintf("Key signature: %d %s, %s key", sf, tmp, mm)
}

// Decodes a key-signature meta-event's payload.
func (e Event) KeySignature() (KeySignature, error) {
	if (e.Kind != KindMeta) || (e.MetaType != MetaKeySignature) {
		return KeySignature{}, fmt.Errorf("Not a key signature meta-event")
	}
	if len(e.Payload) != 2 {
		return KeySignature{}, fmt.Errorf("Bad key signature meta-event "+
			"size: %d", len(e.Payload))
	}
	sf := int8(e.Payload[0])
	if (sf < -7) || (sf > 7) {
		return KeySignature{}, fmt.Errorf("Bad number of sharps or flats "+
			"in key signature: %d", sf)
	}
	if e.Payload[1] > 1 {
		return KeySignature{}, fmt.Errorf("Invalid major/minor setting in "+
			"key signature: %d", e.Payload[1])
	}
	return KeySignature{
		SharpOrFlatCount: sf,
		IsMinor:          e.Payload[1] == 1,
	}, nil
}

func (e Event) metaString() string {
	switch e.MetaType {
	case MetaSequenceNumber:
		n, err := e.SequenceNumber()
		if err != nil {
			break
		}
		return fmt.Sprintf("Sequence number: %d", n)
	case MetaChannelPrefix:
		c, err := e.ChannelPrefix()
		if err != nil {
			break
		}
		return fmt.Sprintf("Channel prefix: %d", c)
	case MetaEndOfTrack:
		return "End of track"
	case MetaSetTempo:
		tempo, err := e.Tempo()
		if err != nil {
			break
		}
		return fmt.Sprintf("Set tempo to %d us/quarter note (%f BPM)", tempo,
			60000000.0/float64(tempo))
	case MetaSMPTEOffset:
		s, err := e.SMPTEOffset()
		if err != nil {
			break
		}
		return s.String()
	case MetaTimeSignature:
		s, err := e.TimeSignature()
		if err != nil {
			break
		}
		return s.String()
	case MetaKeySignature:
		s, err := e.KeySignature()
		if err != nil {
			break
		}
		return s.String()
	}
	if text, ok := e.Text(); ok {
		var eventType string
		switch e.MetaType {
		case MetaText:
			eventType = "Generic text event"
		case MetaCopyrightNotice:
			eventType = "Copyright notice"
		case MetaTrackName:
			eventType = "Track/sequence name"
		case MetaInstrumentName:
			eventType = "Instrument name"
		case MetaLyric:
			eventType = "Lyric"
		case MetaMarker:
			eventType = "Marker"
		case MetaCuePoint:
			eventType = "Cue point"
		default:
			eventType = fmt.Sprintf("Unknown text event type %d", e.MetaType)
		}
		return fmt.Sprintf("%s: %s", eventType, text)
	}
	return fmt.Sprintf("Meta-event type 0x%02x, size: %d bytes", e.MetaType,
		len(e.Payload))
}
