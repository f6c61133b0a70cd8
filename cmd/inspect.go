package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/midi"
	"github.com/jsphweid/maestro/model"
	"github.com/jsphweid/maestro/sample"
	"github.com/spf13/cobra"
)

var inspectExcerpt float64
var inspectNotes int

func init() {
	inspectCmd.Flags().Float64VarP(&inspectExcerpt, "excerpt", "e", -1, "print notes starting at this many seconds")
	inspectCmd.Flags().IntVarP(&inspectNotes, "notes", "n", sample.DefaultMaxNotes, "notes per track in the excerpt")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects a midi file",
	Long:  `Prints the tempo, time signature and tracks of a midi file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		inspect(os.Stdout, s, inspectExcerpt, inspectNotes)
		return nil
	},
}

func inspect(w io.Writer, s *model.Score, excerpt float64, maxNotes int) {
	fmt.Fprintf(w, "tempo: %v BPM\n", s.Tempo.Bpm)
	fmt.Fprintf(w, "time signature: %v/%v\n", s.TimeSignature.Numerator, s.TimeSignature.Denominator)
	fmt.Fprintf(w, "length: %.2fs\n", s.EndTime())
	for i, t := range s.Tracks {
		kind := constants.InstrumentName(t.Program)
		if t.IsDrum {
			kind = "drums"
		}
		fmt.Fprintf(w, "track %v: channel %v, %v, %v notes\n", i, t.Channel, kind, len(t.Notes))
	}

	if excerpt < 0 {
		return
	}
	for i, t := range sample.Create(s, excerpt, maxNotes).Tracks {
		for _, n := range t.Notes {
			fmt.Fprintf(w, "track %v: pitch %v (%v) %.3f-%.3f vel %v\n",
				i, n.Pitch, constants.NoteName(n.Pitch), n.Start, n.End, n.Velocity)
		}
	}
}
