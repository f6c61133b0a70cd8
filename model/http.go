package model

type ErrorResponse struct {
	Error string `json:"detail"`
	Kind  string `json:"kind"`
}

type Instrument struct {
	Program int    `json:"program"`
	Name    string `json:"name"`
}

type InstrumentsResponse struct {
	Instruments []Instrument `json:"instruments"`
	NoteNames   []string     `json:"note_names"`
}

type ClassSummary struct {
	Name     string                  `json:"name"`
	NumFiles int                     `json:"num_files"`
	Metadata map[string]MidiMetadata `json:"metadata,omitempty"`
}

type MidiMetadata struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Release string `json:"release"`
	Year    uint   `json:"year"`
}
