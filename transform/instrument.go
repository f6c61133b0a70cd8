package transform

import "github.com/jsphweid/maestro/model"

// Reassign returns a copy of s where every track plays program.
func Reassign(s *model.Score, program int) *model.Score {
	res := s.Clone()
	reassign(res, program)
	return res
}

func reassign(s *model.Score, program int) {
	for i := range s.Tracks {
		s.Tracks[i].Program = program
	}
}
