package model

// Note times are in seconds from the start of the piece.
type Note struct {
	Pitch    int
	Start    float64
	End      float64
	Velocity uint8
}

func (n Note) Duration() float64 {
	return n.End - n.Start
}

type Track struct {
	Program int
	Channel uint8
	IsDrum  bool
	Notes   []Note
}

type TempoSetting struct {
	Bpm float64
}

type TimeSignatureSetting struct {
	Numerator   int
	Denominator int
}

// Score holds a single effective tempo and time signature, both at position zero.
// Mid-piece tempo or meter changes are not modeled.
type Score struct {
	Tracks        []Track
	Tempo         TempoSetting
	TimeSignature TimeSignatureSetting
}

// Clone returns a deep copy. Transformations always work on a clone so that
// callers sharing a source score never see each other's edits.
func (s *Score) Clone() *Score {
	res := &Score{
		Tempo:         s.Tempo,
		TimeSignature: s.TimeSignature,
	}
	if s.Tracks == nil {
		return res
	}
	res.Tracks = make([]Track, len(s.Tracks))
	for i, t := range s.Tracks {
		res.Tracks[i] = t
		if t.Notes != nil {
			res.Tracks[i].Notes = make([]Note, len(t.Notes))
			copy(res.Tracks[i].Notes, t.Notes)
		}
	}
	return res
}

func (s *Score) NumNotes() int {
	var total int
	for _, t := range s.Tracks {
		total += len(t.Notes)
	}
	return total
}

// EndTime is the latest note end across all tracks.
func (s *Score) EndTime() float64 {
	var end float64
	for _, t := range s.Tracks {
		for _, n := range t.Notes {
			if n.End > end {
				end = n.End
			}
		}
	}
	return end
}
