package main

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/xpanvictor/lecturenotes/pkg/transcript"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Normalize a raw transcript",
		Long: "Collapses whitespace, drops repeated sentences and collapses stuttered phrases and words. " +
			"Reads stdin when no file is given. Exits non-zero when nothing is left.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 1 && args[0] != "-" {
				raw, err = afero.ReadFile(fs, args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read transcript: %w", err)
			}

			clean, err := transcript.Clean(string(raw))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), clean)
			return err
		},
	}

	return cmd
}
