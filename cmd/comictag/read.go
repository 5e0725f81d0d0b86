package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"comictag/internal/acbf"
	"comictag/internal/comicarchive"
	"comictag/internal/metadata"
	"comictag/internal/output"
)

var readCmd = &cobra.Command{
	Use:   "read <archive>",
	Short: "Read ACBF metadata from a comic archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := comicarchive.Open(args[0])
		if err != nil {
			return err
		}

		tag := acbf.New(slog.Default())
		md, err := tag.ReadTags(archive)
		if err != nil {
			return err
		}

		if cfg.WarnLanguage {
			warnLanguages(md)
		}

		return output.Print(md)
	},
}

// warnLanguages flags language tags that do not parse as BCP 47. The
// values are reported as-is and never rewritten.
func warnLanguages(md *metadata.Metadata) {
	if !metadata.ValidateLanguage(md.Language) {
		slog.Warn("metadata language is not a valid BCP 47 tag", "language", md.Language)
	}
	for _, c := range md.Credits {
		if !metadata.ValidateLanguage(c.Language) {
			slog.Warn("credit language is not a valid BCP 47 tag",
				"person", c.Person, "language", c.Language)
		}
	}
}
