package sample

import (
	"github.com/jsphweid/maestro/model"
)

const DefaultMaxNotes = 10

// Create cuts a short preview out of s: per track, at most maxNotes notes
// starting at or after offset seconds, moved so the preview starts at zero.
func Create(s *model.Score, offset float64, maxNotes int) *model.Score {
	res := model.Score{
		Tempo:         s.Tempo,
		TimeSignature: s.TimeSignature,
	}

	for _, track := range s.Tracks {
		newTrack := track
		newTrack.Notes = nil
		for _, n := range track.Notes {
			if n.Start < offset {
				continue
			}
			n.Start -= offset
			n.End -= offset
			newTrack.Notes = append(newTrack.Notes, n)
			if len(newTrack.Notes) >= maxNotes {
				break
			}
		}
		res.Tracks = append(res.Tracks, newTrack)
	}

	return &res
}
