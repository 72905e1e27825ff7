// This defines a command-line utility for gathering timing and key metadata
// from a directory of MIDI files: tempo changes, time signatures, and named
// key signatures.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mtrk/smf"
	"github.com/rs/zerolog"
	"gopkg.in/music-theory.v0/key"
)

var log zerolog.Logger

// Keeps track of accumulated metadata counts across every scanned file.
type metadataStats struct {
	// Counts of each named key signature, e.g. "Eb minor".
	keyCounts map[string]uint64
	// Counts of each time signature, keyed by its description.
	timeSignatureCounts map[string]uint64
	// Counts of each tempo, in whole BPM.
	tempoCounts map[int]uint64
	// The number of malformed events encountered, for reporting only.
	malformedEvents uint64
}

func newMetadataStats() *metadataStats {
	return &metadataStats{
		keyCounts:           map[string]uint64{},
		timeSignatureCounts: map[string]uint64{},
		tempoCounts:         map[int]uint64{},
	}
}

// Converts a key-signature meta-event to a named key, e.g. "Eb minor". The
// sharps-or-flats count indexes the circle of fifths; mode comes from the
// event's major/minor flag. The parsed key.Key is returned alongside the
// name so the caller can tell whether the name resolved to a real key.
func namedKey(s smf.KeySignature) (string, key.Key) {
	// Index -7 (7 flats) through +7 (7 sharps).
	noteNames := []string{"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G",
		"D", "A", "E", "B", "F#", "C#"}
	name := noteNames[int(s.SharpOrFlatCount)+7]
	mode := "major"
	if s.IsMinor {
		mode = "minor"
	}
	name += " " + mode
	return name, key.Of(name)
}

// Dumps the accumulated counts to stdout.
func (s *metadataStats) printInfo() {
	printCounts := func(label string, counts map[string]uint64) {
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s %s: %d event(s).\n", label, name, counts[name])
		}
	}
	printCounts("Key", s.keyCounts)
	printCounts("Time signature", s.timeSignatureCounts)
	tempos := make([]int, 0, len(s.tempoCounts))
	for bpm := range s.tempoCounts {
		tempos = append(tempos, bpm)
	}
	sort.Ints(tempos)
	for _, bpm := range tempos {
		fmt.Printf("Tempo %d BPM: %d event(s).\n", bpm, s.tempoCounts[bpm])
	}
	if s.malformedEvents > 0 {
		fmt.Printf("Encountered %d malformed event(s).\n", s.malformedEvents)
	}
}

// Records one meta event's contribution, if it carries metadata we track.
func (s *metadataStats) addEvent(name string, event smf.Event) {
	if event.Kind == smf.KindMalformed {
		s.malformedEvents++
		log.Warn().Str("file", name).Int("offset", event.Offset).
			Msg(event.Reason)
		return
	}
	if event.Kind != smf.KindMeta {
		return
	}
	switch event.MetaType {
	case smf.MetaKeySignature:
		signature, e := event.KeySignature()
		if e != nil {
			log.Warn().Str("file", name).Err(e).Msg("bad key signature")
			return
		}
		keyName, k := namedKey(signature)
		if k.Root == 0 {
			log.Warn().Str("file", name).Str("key", keyName).
				Msg("unrecognized key signature")
			return
		}
		s.keyCounts[keyName]++
	case smf.MetaTimeSignature:
		signature, e := event.TimeSignature()
		if e != nil {
			log.Warn().Str("file", name).Err(e).Msg("bad time signature")
			return
		}
		base := uint32(1) << uint32(signature.Denominator)
		s.timeSignatureCounts[fmt.Sprintf("%d/%d", signature.Numerator,
			base)]++
	case smf.MetaSetTempo:
		bpm, e := event.BPM()
		if e != nil {
			log.Warn().Str("file", name).Err(e).Msg("bad tempo")
			return
		}
		s.tempoCounts[int(bpm+0.5)]++
	}
}

// Adds the metadata events of the named MIDI file to the running totals.
// Returns an error if one occurs.
func (s *metadataStats) addFile(name string) error {
	data, e := os.ReadFile(name)
	if e != nil {
		return fmt.Errorf("Failed reading %s: %w", name, e)
	}
	reader, e := smf.NewReader(data)
	if e != nil {
		return fmt.Errorf("Failed parsing %s: %w", name, e)
	}
	tracks := reader.Tracks()
	for tracks.Next() {
		events := tracks.Events()
		for events.Next() {
			s.addEvent(name, events.Event())
		}
		if e = events.Err(); e != nil {
			// Metadata gathered before the failure still counts.
			log.Warn().Str("file", name).Err(e).
				Msg("stopped decoding track events")
		}
	}
	if e = tracks.Err(); e != nil {
		return fmt.Errorf("Failed scanning tracks in %s: %w", name, e)
	}
	if e = tracks.CountError(); e != nil {
		log.Warn().Str("file", name).Err(e).
			Msg("track count doesn't match the header")
	}
	return nil
}

func run() int {
	var baseDir string
	var verbose bool
	flag.StringVar(&baseDir, "dir", "", "The directory to scan for .mid "+
		"files")
	flag.BoolVar(&verbose, "v", false, "If set, enable debug logging.")
	flag.Parse()
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).
		With().Timestamp().Logger()
	if baseDir == "" {
		fmt.Println("A base directory must be specified. " +
			"Run with -help for usage.")
		return 1
	}
	filenames, e := filepath.Glob(baseDir + "/*.mid")
	if e != nil {
		log.Error().Err(e).Str("dir", baseDir).
			Msg("failed looking up MIDI files")
		return 1
	}
	if len(filenames) <= 0 {
		fmt.Printf("Didn't find any MIDI (.mid) files in dir %s.\n", baseDir)
		return 1
	}
	stats := newMetadataStats()
	for i, name := range filenames {
		log.Debug().Msgf("scanning file %d/%d: %s", i+1, len(filenames),
			name)
		e = stats.addFile(name)
		if e != nil {
			log.Error().Err(e).Str("file", name).Msg("failed analyzing file")
		}
	}
	stats.printInfo()
	return 0
}

func main() {
	os.Exit(run())
}
