package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/midi"
	"github.com/jsphweid/maestro/model"
	"github.com/spf13/cobra"
)

var transformParams model.Parameters
var transformOut string

func init() {
	addParamFlags(transformCmd, &transformParams)
	transformCmd.Flags().StringVarP(&transformOut, "out", "o", constants.OutputFilename, "output file")
	rootCmd.AddCommand(transformCmd)
}

var transformCmd = &cobra.Command{
	Use:   "transform <file.mid>",
	Short: "Transforms one midi file",
	Long:  `Transforms one midi file and writes the result.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransform(args[0], transformOut, transformParams)
	},
}

func runTransform(in string, out string, p model.Parameters) error {
	src, err := midi.ReadMidiFile(in)
	if err != nil {
		return err
	}
	data, err := render(src, p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %v (%v notes, %v/%v at %v BPM)\n", out, src.NumNotes(),
		p.TimeSignature.Numerator, p.TimeSignature.Denominator, p.TempoBpm)
	return nil
}
