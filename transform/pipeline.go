// Package transform rewrites scores: pitch, instrument, metric grid and
// articulation. Every exported function leaves its input untouched.
package transform

import (
	"math"

	"github.com/jsphweid/maestro/model"
	"github.com/pkg/errors"
)

// Transform applies params to a clone of src in a fixed order: pitch,
// instrument, metric remap with the tempo and time signature update, then
// staccato. Staccato runs last so it sees durations in the new time base.
// All checks run before the first stage, so on error nothing is returned.
func Transform(src *model.Score, params model.Parameters) (*model.Score, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := Check(src); err != nil {
		return nil, err
	}

	meter := Meter{
		OriginalTempo: params.SourceTempo(),
		Tempo:         params.TempoBpm,
		TimeSignature: params.TimeSignature,
	}
	if err := meter.validate(); err != nil {
		return nil, err
	}

	res := src.Clone()
	transpose(res, params.TransposeSemitones)
	reassign(res, params.InstrumentProgram)
	remap(res, meter)
	setMeter(res, meter)
	if params.StaccatoEnabled {
		staccato(res)
	}
	return res, nil
}

// Check reports scores the pipeline cannot work on. A score with no tracks
// is valid.
func Check(s *model.Score) error {
	if s == nil {
		return errors.Wrap(model.ErrDecode, "no score")
	}
	for i, t := range s.Tracks {
		for j, n := range t.Notes {
			if n.Pitch < 0 || n.Pitch > 127 {
				return errors.Wrapf(model.ErrDecode, "track %d note %d: pitch %d out of range", i, j, n.Pitch)
			}
			if !finite(n.Start) || !finite(n.End) || n.Start < 0 {
				return errors.Wrapf(model.ErrDecode, "track %d note %d: bad times %v..%v", i, j, n.Start, n.End)
			}
			if n.End < n.Start {
				return errors.Wrapf(model.ErrDecode, "track %d note %d: ends before it starts", i, j)
			}
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
