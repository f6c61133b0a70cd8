package cmd

import (
	"github.com/jsphweid/maestro/midi"
	"github.com/jsphweid/maestro/model"
	"github.com/jsphweid/maestro/transform"
	"github.com/spf13/cobra"
)

func addParamFlags(c *cobra.Command, p *model.Parameters) {
	*p = model.DefaultParameters()
	f := c.Flags()
	f.IntVarP(&p.TransposeSemitones, "transpose", "t", p.TransposeSemitones, "semitone offset, out of range pitches are clamped")
	f.Float64Var(&p.TempoBpm, "tempo", p.TempoBpm, "target tempo in BPM")
	f.Float64Var(&p.OriginalTempoBpm, "original-tempo", p.OriginalTempoBpm, "tempo the source is assumed to be at (0 = same as --tempo)")
	f.IntVar(&p.TimeSignature.Numerator, "numerator", p.TimeSignature.Numerator, "time signature numerator")
	f.IntVar(&p.TimeSignature.Denominator, "denominator", p.TimeSignature.Denominator, "time signature denominator")
	f.IntVarP(&p.InstrumentProgram, "instrument", "i", p.InstrumentProgram, "general midi program for every track")
	f.BoolVar(&p.StaccatoEnabled, "staccato", p.StaccatoEnabled, "shorten every note")
}

// render transforms src and encodes the result.
func render(src *model.Score, p model.Parameters) ([]byte, error) {
	res, err := transform.Transform(src, p)
	if err != nil {
		return nil, err
	}
	return midi.Encode(res)
}
