// This defines a command-line utility for inspecting standard MIDI files
// (SMF, usually with a ".mid" extension).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mtrk/smf"
	"github.com/rs/zerolog"
)

var log zerolog.Logger

func dumpTrack(number int, events *smf.TrackEvents) {
	count := 0
	for events.Next() {
		event := events.Event()
		fmt.Printf("  %d. Time-delta %d: %s\n", count+1, event.Delta, event)
		count++
		if event.Kind == smf.KindMalformed {
			log.Warn().Int("track", number).Int("offset", event.Offset).
				Msg(event.Reason)
		}
	}
	if e := events.Err(); e != nil {
		log.Error().Int("track", number).Err(e).
			Msg("stopped decoding track events")
	}
}

func run() int {
	var filename string
	var dumpEvents bool
	var verbose bool
	flag.StringVar(&filename, "input_file", "", "The .mid file to open.")
	flag.BoolVar(&dumpEvents, "dump_events", false, "If set, print a list "+
		"of all events in the file to stdout.")
	flag.BoolVar(&verbose, "v", false, "If set, enable debug logging.")
	flag.Parse()
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).
		With().Timestamp().Logger()
	if filename == "" {
		fmt.Printf("Invalid arguments. Run with -help for more information.\n")
		return 1
	}
	data, e := os.ReadFile(filename)
	if e != nil {
		log.Error().Err(e).Str("file", filename).Msg("couldn't read file")
		return 1
	}
	reader, e := smf.NewReader(data)
	if e != nil {
		log.Error().Err(e).Str("file", filename).Msg("couldn't parse file")
		return 1
	}
	fmt.Printf("Parsed %s OK. %s.\n", filename, reader.Header())
	tracks := reader.Tracks()
	trackNumber := 0
	for tracks.Next() {
		if dumpEvents {
			fmt.Printf("Track %d:\n", trackNumber)
			dumpTrack(trackNumber, tracks.Events())
		}
		trackNumber++
	}
	if e = tracks.Err(); e != nil {
		var parseError *smf.ParseError
		if errors.As(e, &parseError) {
			log.Error().Int("offset", parseError.Offset).Err(e).
				Msg("stopped scanning track chunks")
		} else {
			log.Error().Err(e).Msg("stopped scanning track chunks")
		}
		return 1
	}
	if e = tracks.CountError(); e != nil {
		log.Warn().Err(e).Msg("track count doesn't match the header")
	}
	if !dumpEvents {
		fmt.Printf("Found %d track(s).\n", tracks.Found())
	}
	return 0
}

func main() {
	os.Exit(run())
}
