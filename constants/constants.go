package constants

import (
	"os"
	"strconv"
	"strings"
)

func GetLibraryDir() string {
	path := os.Getenv("MAESTRO_LIBRARY_PATH")
	if path != "" {
		return path
	}
	return "."
}

func GetOutDir() string {
	path := os.Getenv("MAESTRO_OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetClasses() []string {
	classes := os.Getenv("MAESTRO_CLASSES")
	if classes == "" {
		return []string{"CLASS1", "CLASS2", "CLASS3", "CLASS4"}
	}
	var res []string
	for _, c := range strings.Split(classes, ",") {
		if c = strings.TrimSpace(c); c != "" {
			res = append(res, c)
		}
	}
	return res
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

func GetRateLimit() float64 {
	if v, err := strconv.ParseFloat(os.Getenv("MAESTRO_RATE_LIMIT"), 64); err == nil && v > 0 {
		return v
	}
	return 20
}

// GetMetadataEndpoint is empty when metadata lookup is disabled.
func GetMetadataEndpoint() string {
	return os.Getenv("MAESTRO_METADATA_ENDPOINT")
}

func GetMetadataTable() string {
	table := os.Getenv("MAESTRO_METADATA_TABLE")
	if table != "" {
		return table
	}
	return "maestro-metadata"
}

// staccato
const ShortenBy = 0.5
const MinimumDuration = 0.1

const DefaultTempo = 120.0
const DefaultNumerator = 4
const DefaultDenominator = 4

const MinPitch = 0
const MaxPitch = 127

const TicksPerQuarter = 960
const DrumChannel = 9

const OutputFilename = "custom_midi.mid"
const MidiMime = "audio/midi"

// 10MB is far beyond any score the library holds
const MaxUploadSize = 10 * 1024 * 1024

var Instruments = map[int]string{
	0:  "Acoustic Grand Piano",
	25: "Acoustic Guitar (nylon)",
	33: "Electric Bass (finger)",
	40: "Violin",
	73: "Flute",
}

var NoteNames = []string{"C", "C#/Db", "D", "D#/Eb", "E", "F",
	"F#/Gb", "G", "G#/Ab", "A", "A#/Bb", "B"}

// NoteName labels a semitone offset relative to C.
func NoteName(offset int) string {
	i := offset % 12
	if i < 0 {
		i += 12
	}
	return NoteNames[i]
}

func InstrumentName(program int) string {
	if name, ok := Instruments[program]; ok {
		return name
	}
	return "Program " + strconv.Itoa(program)
}
