// Package smf decodes standard MIDI files (SMF, usually with a ".mid"
// extension) from a caller-supplied byte buffer. The core API (NewReader,
// TrackSet, TrackEvents) is lazy and performs no allocation or copying on
// the decode path: tracks and event payloads are views into the caller's
// buffer, so the buffer must outlive them and stay unmodified. Parse is an
// allocating convenience layer for callers who just want every event up
// front. The smf_tool and track_stats directories contain command-line
// utilities built on the library.
package smf

// Holds the fully decoded events of one MTrk chunk, in file order.
type Track struct {
	Events []Event
}

// A fully decoded SMF file.
type File struct {
	Header Header
	// One entry per MTrk chunk actually found, which may differ from
	// Header.TrackCount; see TrackCountErr.
	Tracks []Track
	// Set to an error wrapping ErrTrackCountMismatch if the number of MTrk
	// chunks found differs from the header's declared count. The decoded
	// tracks are valid either way; callers decide whether to care.
	TrackCountErr error
}

// Decodes every track of the SMF file in data. Event payloads still alias
// data rather than holding copies. Fails on the first malformed chunk
// boundary or truncated event; a track-count mismatch is recorded in the
// returned File instead of failing, since the header's count is only
// advisory.
func Parse(data []byte) (*File, error) {
	r, e := NewReader(data)
	if e != nil {
		return nil, e
	}
	f := &File{Header: r.Header()}
	f.Tracks = make([]Track, 0, r.Header().TrackCount)
	tracks := r.Tracks()
	for tracks.Next() {
		var track Track
		events := tracks.Events()
		for events.Next() {
			track.Events = append(track.Events, events.Event())
		}
		if e = events.Err(); e != nil {
			return nil, e
		}
		f.Tracks = append(f.Tracks, track)
	}
	if e = tracks.Err(); e != nil {
		return nil, e
	}
	f.TrackCountErr = tracks.CountError()
	return f, nil
}
