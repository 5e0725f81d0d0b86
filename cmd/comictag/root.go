package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"comictag/internal/config"
	"comictag/internal/home"
	"comictag/internal/output"
	"comictag/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "comictag",
	Short: "Read and write ACBF metadata in comic book archives",
	Long: `Comictag reads, writes and removes ACBF (Advanced Comic Book Format)
metadata stored inside comic book archives (.cbz).

Reads extract the embedded ACBF document into a normalized metadata
record; writes merge a record into any existing document, preserving
hand-authored structure the record does not cover.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.comictag/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "comictag home directory (default: ~/.comictag)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		file, err := resolveConfigFile(cfgFile, homeDir)
		if err != nil {
			return err
		}
		cfg, err = config.Load(file)
		if err != nil {
			return err
		}

		format := cfg.Output
		if outputFormat != "" {
			format = outputFormat
		}
		output.SetFormat(format)

		level := slog.LevelInfo
		if verbose || cfg.Verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		return nil
	}

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigFile picks the config file for this invocation: an explicit
// --config wins, otherwise the home directory's config.yaml if it exists,
// otherwise empty so config.Load falls back to its search paths.
func resolveConfigFile(cfgFile, homeDir string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := home.New(homeDir)
	if err != nil {
		return "", err
	}
	if dir.ConfigExists() {
		return dir.ConfigPath(), nil
	}
	return "", nil
}
