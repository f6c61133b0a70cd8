package transform

import (
	"math"

	"github.com/jsphweid/maestro/model"
	"github.com/pkg/errors"
)

// Meter describes the grid change applied by Remap.
type Meter struct {
	// OriginalTempo is the tempo the source is assumed to be written at.
	// The source is always treated as 4/4 regardless of what it declares.
	OriginalTempo float64
	Tempo         float64
	TimeSignature model.TimeSignatureSetting
}

func (m Meter) validate() error {
	if !(m.OriginalTempo > 0) || math.IsInf(m.OriginalTempo, 0) {
		return errors.Wrapf(model.ErrInvalidParameter, "original tempo must be positive, got %v", m.OriginalTempo)
	}
	if !(m.Tempo > 0) || math.IsInf(m.Tempo, 0) {
		return errors.Wrapf(model.ErrInvalidParameter, "tempo must be positive, got %v", m.Tempo)
	}
	if m.TimeSignature.Numerator < 1 || m.TimeSignature.Denominator < 1 {
		return errors.Wrapf(model.ErrInvalidParameter, "time signature must be positive, got %d/%d",
			m.TimeSignature.Numerator, m.TimeSignature.Denominator)
	}
	return nil
}

// OriginalMeasureLength is the length in seconds of one 4/4 measure at the
// original tempo.
func (m Meter) OriginalMeasureLength() float64 {
	return 4 * (60 / m.OriginalTempo)
}

// NewMeasureLength is the length in seconds of one N/D measure at the new
// tempo. Denominators that are not powers of two are accepted as is.
func (m Meter) NewMeasureLength() float64 {
	n := float64(m.TimeSignature.Numerator)
	d := float64(m.TimeSignature.Denominator)
	return n * (60 / m.Tempo) * (4 / d)
}

// Position locates a time on the original 4/4 grid.
func (m Meter) Position(t float64) (measureIndex int, fraction float64) {
	l := m.OriginalMeasureLength()
	measureIndex = int(math.Floor(t / l))
	fraction = math.Mod(t, l) / l
	return measureIndex, fraction
}

// Remap returns a copy of s whose notes keep their relative position inside
// each measure while measures take the length of the new meter. Durations
// scale by the ratio of new to original measure length. The copy's tempo
// and time signature are replaced by the new ones.
func Remap(s *model.Score, m Meter) (*model.Score, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	res := s.Clone()
	remap(res, m)
	setMeter(res, m)
	return res, nil
}

func remap(s *model.Score, m Meter) {
	origLen := m.OriginalMeasureLength()
	newLen := m.NewMeasureLength()
	scale := newLen / origLen

	for i := range s.Tracks {
		notes := s.Tracks[i].Notes
		for j := range notes {
			start, end := notes[j].Start, notes[j].End
			measureIndex, fraction := m.Position(start)
			newStart := float64(measureIndex)*newLen + fraction*newLen
			notes[j].Start = newStart
			notes[j].End = newStart + (end-start)*scale
		}
	}
}

// setMeter replaces the score-wide settings. No history is kept.
func setMeter(s *model.Score, m Meter) {
	s.Tempo = model.TempoSetting{Bpm: m.Tempo}
	s.TimeSignature = m.TimeSignature
}
