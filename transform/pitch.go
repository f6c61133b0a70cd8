package transform

import (
	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/model"
	"github.com/jsphweid/maestro/util"
)

// Transpose returns a copy of s with every pitch shifted by semitones and
// clamped to the valid midi range. Clamping loses information silently.
func Transpose(s *model.Score, semitones int) *model.Score {
	res := s.Clone()
	transpose(res, semitones)
	return res
}

func transpose(s *model.Score, semitones int) {
	// any offset beyond the pitch range clamps the same way; bounding it
	// first keeps pitch+offset from overflowing
	d := util.Clamp(semitones, -constants.MaxPitch, constants.MaxPitch)
	for i := range s.Tracks {
		notes := s.Tracks[i].Notes
		for j := range notes {
			notes[j].Pitch = util.Clamp(notes[j].Pitch+d, constants.MinPitch, constants.MaxPitch)
		}
	}
}
