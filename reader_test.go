package smf

import (
	"errors"
	"testing"
)

// Builds a minimal header chunk followed by the given chunk bytes.
func fileWithChunks(format, trackCount uint16, division uint16,
	chunks ...[]byte) []byte {
	data := []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 6,
		byte(format >> 8), byte(format),
		byte(trackCount >> 8), byte(trackCount),
		byte(division >> 8), byte(division),
	}
	for _, c := range chunks {
		data = append(data, c...)
	}
	return data
}

// Builds a chunk with the given tag and payload, declaring the payload's
// real length.
func chunk(tag string, payload ...byte) []byte {
	data := []byte(tag)
	length := uint32(len(payload))
	data = append(data, byte(length>>24), byte(length>>16), byte(length>>8),
		byte(length))
	return append(data, payload...)
}

// A well-formed track containing only an End Of Track meta-event.
func emptyTrack() []byte {
	return chunk("MTrk", 0x00, 0xff, 0x2f, 0x00)
}

func TestReadHeader(t *testing.T) {
	data := fileWithChunks(1, 2, 0x60, emptyTrack(), emptyTrack())
	reader, e := NewReader(data)
	if e != nil {
		t.Logf("Failed reading header: %s\n", e)
		t.FailNow()
	}
	header := reader.Header()
	if header.Format != MultiTrackSync {
		t.Logf("Bad format: expected %d, got %d\n", MultiTrackSync,
			header.Format)
		t.FailNow()
	}
	if header.TrackCount != 2 {
		t.Logf("Bad track count: expected 2, got %d\n", header.TrackCount)
		t.FailNow()
	}
	if header.Division.TicksPerQuarterNote() != 0x60 {
		t.Logf("Bad division: expected 96 ticks/quarter note, got %s\n",
			header.Division)
		t.FailNow()
	}
}

func TestSMPTEDivision(t *testing.T) {
	// -25 frames per second in the top byte, 40 ticks per frame in the
	// bottom byte.
	division := TimeDivision(uint16(0xe7)<<8 | 40)
	if division.TicksPerQuarterNote() != 0 {
		t.Logf("SMPTE division reported %d ticks per quarter note\n",
			division.TicksPerQuarterNote())
		t.FailNow()
	}
	fps, ticksPerFrame := division.SMPTETimeCode()
	if (fps != 25) || (ticksPerFrame != 40) {
		t.Logf("Bad SMPTE time code: got %d fps, %d ticks per frame\n", fps,
			ticksPerFrame)
		t.FailNow()
	}
}

func TestBadMagic(t *testing.T) {
	data := fileWithChunks(1, 0, 0x60)
	data[0] = 'X'
	_, e := NewReader(data)
	if !errors.Is(e, ErrBadChunkType) {
		t.Logf("Didn't get bad chunk type error: %v\n", e)
		t.FailNow()
	}
	t.Logf("Got expected error for a bad first chunk: %s\n", e)
}

func TestOversizedHeaderChunk(t *testing.T) {
	// A header declaring 8 payload bytes: the 2 extra bytes must be skipped
	// by the declared length, not interpreted as chunk data.
	data := []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 8,
		0, 0,
		0, 1,
		0, 0x60,
		0xde, 0xad,
	}
	data = append(data, emptyTrack()...)
	reader, e := NewReader(data)
	if e != nil {
		t.Logf("Failed reading oversized header: %s\n", e)
		t.FailNow()
	}
	if reader.Header().Format != SingleTrack {
		t.Logf("Bad format from oversized header: %d\n",
			reader.Header().Format)
		t.FailNow()
	}
	tracks := reader.Tracks()
	if !tracks.Next() {
		t.Logf("Didn't find the track after an oversized header: %v\n",
			tracks.Err())
		t.FailNow()
	}
}

func TestUndersizedHeaderChunk(t *testing.T) {
	data := []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 4,
		0, 1,
		0, 2,
	}
	_, e := NewReader(data)
	if !errors.Is(e, ErrLengthMismatch) {
		t.Logf("Didn't get length mismatch for a 4-byte header: %v\n", e)
		t.FailNow()
	}
}

func TestUnsupportedFormat(t *testing.T) {
	data := fileWithChunks(3, 1, 0x60, emptyTrack())
	_, e := NewReader(data)
	if !errors.Is(e, ErrUnsupportedFormat) {
		t.Logf("Didn't get unsupported format error: %v\n", e)
		t.FailNow()
	}
}

func TestTrackScan(t *testing.T) {
	// Format 1 with 2 declared tracks and exactly 2 MTrk chunks must yield
	// exactly 2 tracks and no count error.
	data := fileWithChunks(1, 2, 0x60, emptyTrack(), emptyTrack())
	reader, e := NewReader(data)
	if e != nil {
		t.Logf("Failed reading header: %s\n", e)
		t.FailNow()
	}
	tracks := reader.Tracks()
	count := 0
	for tracks.Next() {
		count++
	}
	if e = tracks.Err(); e != nil {
		t.Logf("Track scan failed: %s\n", e)
		t.FailNow()
	}
	if count != 2 {
		t.Logf("Expected 2 tracks, got %d\n", count)
		t.FailNow()
	}
	if e = tracks.CountError(); e != nil {
		t.Logf("Got unexpected track count error: %s\n", e)
		t.FailNow()
	}
}

func TestUnknownChunksSkipped(t *testing.T) {
	// A vendor chunk between two tracks must be skipped without error.
	data := fileWithChunks(1, 2, 0x60, emptyTrack(),
		chunk("XFIH", 0x01, 0x02, 0x03), emptyTrack())
	reader, e := NewReader(data)
	if e != nil {
		t.Logf("Failed reading header: %s\n", e)
		t.FailNow()
	}
	tracks := reader.Tracks()
	count := 0
	for tracks.Next() {
		count++
	}
	if e = tracks.Err(); e != nil {
		t.Logf("Track scan failed on a vendor chunk: %s\n", e)
		t.FailNow()
	}
	if count != 2 {
		t.Logf("Expected 2 tracks around a vendor chunk, got %d\n", count)
		t.FailNow()
	}
	if e = tracks.CountError(); e != nil {
		t.Logf("Vendor chunk caused a count error: %s\n", e)
		t.FailNow()
	}
}

func TestChunkLengthMismatch(t *testing.T) {
	// A chunk declaring more bytes than remain must fail at the chunk
	// boundary with the boundary's offset.
	data := fileWithChunks(1, 1, 0x60)
	boundary := len(data)
	data = append(data, 'M', 'T', 'r', 'k', 0, 0, 0, 50, 0x00, 0xff)
	reader, e := NewReader(data)
	if e != nil {
		t.Logf("Failed reading header: %s\n", e)
		t.FailNow()
	}
	tracks := reader.Tracks()
	if tracks.Next() {
		t.Logf("Scan yielded a track with a short payload.\n")
		t.FailNow()
	}
	e = tracks.Err()
	if !errors.Is(e, ErrLengthMismatch) {
		t.Logf("Didn't get length mismatch error: %v\n", e)
		t.FailNow()
	}
	var parseError *ParseError
	if !errors.As(e, &parseError) {
		t.Logf("Length mismatch isn't a *ParseError: %v\n", e)
		t.FailNow()
	}
	if parseError.Offset != boundary {
		t.Logf("Length mismatch reported at offset %d, expected the chunk "+
			"boundary at %d\n", parseError.Offset, boundary)
		t.FailNow()
	}
}

func TestTrackCountMismatch(t *testing.T) {
	// 3 declared, 2 present: the scan must still yield both tracks, then
	// report the disagreement separately.
	data := fileWithChunks(1, 3, 0x60, emptyTrack(), emptyTrack())
	reader, e := NewReader(data)
	if e != nil {
		t.Logf("Failed reading header: %s\n", e)
		t.FailNow()
	}
	tracks := reader.Tracks()
	count := 0
	for tracks.Next() {
		count++
	}
	if e = tracks.Err(); e != nil {
		t.Logf("Track scan failed: %s\n", e)
		t.FailNow()
	}
	if count != 2 {
		t.Logf("Expected 2 tracks, got %d\n", count)
		t.FailNow()
	}
	e = tracks.CountError()
	if !errors.Is(e, ErrTrackCountMismatch) {
		t.Logf("Didn't get track count mismatch: %v\n", e)
		t.FailNow()
	}
	t.Logf("Got expected count mismatch: %s\n", e)
}

func TestIndependentTrackSets(t *testing.T) {
	// Two scans over the same Reader must not interfere.
	data := fileWithChunks(1, 2, 0x60, emptyTrack(), emptyTrack())
	reader, e := NewReader(data)
	if e != nil {
		t.Logf("Failed reading header: %s\n", e)
		t.FailNow()
	}
	first := reader.Tracks()
	if !first.Next() {
		t.Logf("First scan found no tracks: %v\n", first.Err())
		t.FailNow()
	}
	second := reader.Tracks()
	count := 0
	for second.Next() {
		count++
	}
	if count != 2 {
		t.Logf("Second scan expected 2 tracks, got %d\n", count)
		t.FailNow()
	}
	// The first scan should still be able to finish.
	if !first.Next() {
		t.Logf("First scan lost its second track: %v\n", first.Err())
		t.FailNow()
	}
}
