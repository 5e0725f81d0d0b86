package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"comictag/internal/acbf"
	"comictag/internal/comicarchive"
	"comictag/internal/metadata"
)

var writeFile string

var writeCmd = &cobra.Command{
	Use:   "write <archive>",
	Short: "Write ACBF metadata into a comic archive",
	Long: `Write merges a normalized metadata record (yaml or json, see the read
command's output for the shape) into the archive's ACBF entry. Fields the
record does not set are left untouched in the existing document.`,
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

		if cfg.Backup {
			backup, err := backupArchive(args[0])
			if err != nil {
				return err
			}
			slog.Info("backed up archive", "backup", backup)
		}

		tag := acbf.New(slog.Default())
		if err := tag.WriteTags(md, archive); err != nil {
			return err
		}
		slog.Info("wrote ACBF metadata", "archive", args[0])
		return nil
	},
}

// backupArchive copies the archive to a .bak sibling, replacing any
// earlier backup, and returns the backup path.
func backupArchive(path string) (string, error) {
	backup := path + ".bak"

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive for backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backup)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to copy archive to backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize backup: %w", err)
	}
	return backup, nil
}

func init() {
	writeCmd.Flags().StringVarP(&writeFile, "file", "f", "", "metadata record file (yaml or json)")
	writeCmd.MarkFlagRequired("file")

	diffCmd.Flags().StringVarP(&writeFile, "file", "f", "", "metadata record file (yaml or json)")
	diffCmd.MarkFlagRequired("file")
}

// loadMetadataFile reads a normalized record from a yaml or json file.
func loadMetadataFile(path string) (*metadata.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	md := metadata.New()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, md); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, md); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	md.IsEmpty = false
	return md, nil
}
