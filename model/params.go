package model

import (
	"math"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

type Parameters struct {
	TransposeSemitones int
	TempoBpm           float64

	// OriginalTempoBpm is the tempo the source notes are assumed to be laid
	// out at. Zero means the same as TempoBpm.
	OriginalTempoBpm float64

	TimeSignature     TimeSignatureSetting
	InstrumentProgram int
	StaccatoEnabled   bool
}

func DefaultParameters() Parameters {
	return Parameters{
		TempoBpm:      120,
		TimeSignature: TimeSignatureSetting{Numerator: 4, Denominator: 4},
	}
}

func (p Parameters) SourceTempo() float64 {
	if p.OriginalTempoBpm == 0 {
		return p.TempoBpm
	}
	return p.OriginalTempoBpm
}

func validTempo(bpm float64) bool {
	return bpm > 0 && !math.IsInf(bpm, 0) && !math.IsNaN(bpm)
}

func (p Parameters) Validate() error {
	if !validTempo(p.TempoBpm) {
		return errors.Wrapf(ErrInvalidParameter, "tempo must be positive, got %v", p.TempoBpm)
	}
	if !validTempo(p.SourceTempo()) {
		return errors.Wrapf(ErrInvalidParameter, "original tempo must be positive, got %v", p.OriginalTempoBpm)
	}
	if p.TimeSignature.Numerator < 1 || p.TimeSignature.Denominator < 1 {
		return errors.Wrapf(ErrInvalidParameter, "time signature must be positive, got %d/%d",
			p.TimeSignature.Numerator, p.TimeSignature.Denominator)
	}
	if p.InstrumentProgram < 0 || p.InstrumentProgram > 127 {
		return errors.Wrapf(ErrInvalidParameter, "instrument program must be in 0..127, got %d", p.InstrumentProgram)
	}
	return nil
}

// ParseParameters reads parameters from query values, falling back to
// DefaultParameters for anything missing.
func ParseParameters(q url.Values) (Parameters, error) {
	p := DefaultParameters()

	intVal := func(key string, dst *int) error {
		if s := q.Get(key); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return errors.Wrapf(ErrInvalidParameter, "%s: %v", key, err)
			}
			*dst = v
		}
		return nil
	}
	floatVal := func(key string, dst *float64) error {
		if s := q.Get(key); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return errors.Wrapf(ErrInvalidParameter, "%s: %v", key, err)
			}
			*dst = v
		}
		return nil
	}

	if err := intVal("transpose", &p.TransposeSemitones); err != nil {
		return p, err
	}
	if err := floatVal("tempo", &p.TempoBpm); err != nil {
		return p, err
	}
	if err := floatVal("original_tempo", &p.OriginalTempoBpm); err != nil {
		return p, err
	}
	if err := intVal("numerator", &p.TimeSignature.Numerator); err != nil {
		return p, err
	}
	if err := intVal("denominator", &p.TimeSignature.Denominator); err != nil {
		return p, err
	}
	if err := intVal("instrument", &p.InstrumentProgram); err != nil {
		return p, err
	}
	if s := q.Get("staccato"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return p, errors.Wrapf(ErrInvalidParameter, "staccato: %v", err)
		}
		p.StaccatoEnabled = v
	}

	return p, p.Validate()
}
