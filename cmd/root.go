package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Reshapes midi files",
	Long: `maestro transposes, re-voices and re-meters midi files, either one at a
time, in batches picked from a class library, or over HTTP.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
