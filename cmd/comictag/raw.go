package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"comictag/internal/acbf"
	"comictag/internal/comicarchive"
)

var rawCmd = &cobra.Command{
	Use:   "raw <archive>",
	Short: "Print the archive's ACBF document as XML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := comicarchive.Open(args[0])
		if err != nil {
			return err
		}

		tag := acbf.New(slog.Default())
		text, err := tag.ReadRawTags(archive)
		if err != nil {
			return err
		}
		if text == "" {
			return fmt.Errorf("no ACBF metadata in %s", args[0])
		}
		fmt.Print(text)
		return nil
	},
}
