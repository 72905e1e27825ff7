package smf

import (
	"errors"
	"fmt"
)

// Every decode failure wraps one of these values, so callers can match the
// kind of failure with errors.Is without parsing message text.
var (
	// The buffer ended before a complete value could be read.
	ErrUnexpectedEOF = errors.New("unexpected end of data")
	// The first chunk in the file is not an MThd chunk.
	ErrBadChunkType = errors.New("bad chunk type")
	// A chunk or header declared more bytes than the buffer holds.
	ErrLengthMismatch = errors.New("declared length exceeds available data")
	// The header's format field is not 0, 1, or 2.
	ErrUnsupportedFormat = errors.New("unsupported SMF format")
	// A data byte appeared with no running status to interpret it under.
	ErrInvalidStatusByte = errors.New("invalid status byte")
	// A variable-length int didn't terminate within 4 bytes.
	ErrVariableIntTooLong = errors.New("variable-length int longer than 4 " +
		"bytes")
	// A system-exclusive event's declared payload ran past the track data.
	ErrUnterminatedSysEx = errors.New("unterminated system exclusive message")
	// The number of MTrk chunks found differs from the header's track count.
	// Non-fatal: tracks that were found remain valid.
	ErrTrackCountMismatch = errors.New("track count doesn't match header")
)

// A ParseError reports a specific decode failure along with the byte offset
// at which it occurred. Offsets from chunk scanning are relative to the start
// of the file buffer; offsets from event iteration are relative to the start
// of the track chunk's payload.
type ParseError struct {
	// The offset of the byte that triggered the failure.
	Offset int
	// Optional extra detail. May be empty.
	Reason string
	// One of the Err... values above.
	Err error
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Err, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(kind error, offset int, reason string) *ParseError {
	return &ParseError{
		Offset: offset,
		Reason: reason,
		Err:    kind,
	}
}
