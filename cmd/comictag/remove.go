package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"comictag/internal/acbf"
	"comictag/internal/comicarchive"
)

var removeCmd = &cobra.Command{
	Use:   "remove <archive>",
	Short: "Remove the ACBF metadata entry from a comic archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := comicarchive.Open(args[0])
		if err != nil {
			return err
		}

		tag := acbf.New(slog.Default())
		if err := tag.RemoveTags(archive); err != nil {
			return err
		}
		slog.Info("removed ACBF metadata", "archive", args[0])
		return nil
	},
}
