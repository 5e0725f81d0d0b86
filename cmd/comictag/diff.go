package main

import (
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"comictag/internal/acbf"
	"comictag/internal/comicarchive"
)

var diffCmd = &cobra.Command{
	Use:   "diff <archive>",
	Short: "Preview what a write would change, without touching the archive",
	Long: `Diff renders the ACBF document a write would produce and prints a
unified diff against the archive's current entry. The archive is never
modified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := loadMetadataFile(writeFile)
		if err != nil {
			return err
		}

		archive, err := comicarchive.Open(args[0])
		if err != nil {
			return err
		}

		tag := acbf.New(slog.Default())

		before, err := tag.ReadRawTags(archive)
		if err != nil {
			return err
		}
		after, entry, err := tag.RenderTags(md, archive)
		if err != nil {
			return err
		}

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(before),
			B:        difflib.SplitLines(string(after)),
			FromFile: "a/" + entry,
			ToFile:   "b/" + entry,
			Context:  4,
		})
		if err != nil {
			return fmt.Errorf("failed to compute diff: %w", err)
		}
		if diff == "" {
			slog.Info("no changes", "archive", args[0], "entry", entry)
			return nil
		}
		fmt.Print(diff)
		return nil
	},
}
