package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// fs is swapped for an in-memory filesystem in tests.
var fs = afero.NewOsFs()

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "notes",
		Short:         "Turn lecture recordings into cleaned transcripts and study notes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newGenerateCmd())

	return rootCmd
}
