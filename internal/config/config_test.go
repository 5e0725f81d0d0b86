package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// chdir changes to dir for the duration of the test, like t.Chdir
// (which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output != "yaml" {
		t.Errorf("expected yaml output default, got %s", cfg.Output)
	}
	if !cfg.WarnLanguage {
		t.Error("expected language warnings on by default")
	}
	if cfg.Verbose {
		t.Error("expected verbose off by default")
	}
	if cfg.Backup {
		t.Error("expected backups off by default")
	}
}

func TestValidate(t *testing.T) {
	for _, output := range []string{"", "yaml", "json"} {
		cfg := &Config{Output: output}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v", output, err)
		}
	}

	cfg := &Config{Output: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unknown output format")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		viper.Reset()
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		content := `
output: json
warn_language: false
verbose: true
`
		if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(configFile)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Output != "json" {
			t.Errorf("expected json output, got %s", cfg.Output)
		}
		if cfg.WarnLanguage {
			t.Error("expected language warnings disabled")
		}
		if !cfg.Verbose {
			t.Error("expected verbose enabled")
		}
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		viper.Reset()
		chdir(t, t.TempDir())

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Output != "yaml" || !cfg.WarnLanguage {
			t.Errorf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		viper.Reset()
		chdir(t, t.TempDir())
		t.Setenv("COMICTAG_OUTPUT", "json")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Output != "json" {
			t.Errorf("expected json from environment, got %s", cfg.Output)
		}
	})

	t.Run("invalid output value is rejected", func(t *testing.T) {
		viper.Reset()
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(configFile, []byte("output: toml\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := Load(configFile); err == nil {
			t.Error("expected an error for an invalid output format")
		}
	})
}
