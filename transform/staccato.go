package transform

import (
	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/model"
)

// Staccato shortens every note by constants.ShortenBy, never below
// constants.MinimumDuration. When disabled the copy is unchanged.
func Staccato(s *model.Score, enabled bool) *model.Score {
	res := s.Clone()
	if enabled {
		staccato(res)
	}
	return res
}

func staccato(s *model.Score) {
	for i := range s.Tracks {
		notes := s.Tracks[i].Notes
		for j := range notes {
			d := notes[j].Duration() - constants.ShortenBy
			if d < constants.MinimumDuration {
				d = constants.MinimumDuration
			}
			notes[j].End = notes[j].Start + d
		}
	}
}
