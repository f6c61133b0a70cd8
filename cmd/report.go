package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/library"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Summarizes every class of the library: files, size, notes and playing time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library.Load(constants.GetLibraryDir(), constants.GetClasses())
		if err != nil {
			return err
		}
		for _, r := range analyzeClasses(lib) {
			r.print(os.Stdout)
		}
		return nil
	},
}

type classReport struct {
	name       string
	numFiles   int
	numBytes   uint64
	numNotes   int
	playTime   time.Duration
	unreadable int
}

func analyzeClasses(lib *library.Library) []classReport {
	var res []classReport
	for _, class := range lib.Classes() {
		report := classReport{name: class}
		files := lib.Files(class)
		for i, path := range files {
			fmt.Printf("Processing %v of %v files in %v\n", i+1, len(files), class)
			report.numFiles += 1
			if stats, err := os.Stat(path); err == nil {
				report.numBytes += uint64(stats.Size())
			}
			s, err := lib.Score(path)
			if err != nil {
				fmt.Printf("Skipping %v because: %v\n", path, err)
				report.unreadable += 1
				continue
			}
			report.numNotes += s.NumNotes()
			report.playTime += time.Duration(s.EndTime() * float64(time.Second))
		}
		res = append(res, report)
	}
	return res
}

func (r classReport) print(w io.Writer) {
	fmt.Fprintf(w, "%v: %v files, %v, %v notes, %v",
		r.name, r.numFiles, humanize.Bytes(r.numBytes), humanize.Comma(int64(r.numNotes)),
		durafmt.Parse(r.playTime.Round(time.Second)).LimitFirstN(2))
	if r.unreadable > 0 {
		fmt.Fprintf(w, " (%v unreadable)", r.unreadable)
	}
	fmt.Fprintln(w)
}
