// Package config loads draftpad settings from defaults, an optional
// config.yaml in the data directory, and DRAFTPAD_* environment variables,
// in that order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Storage   StorageConfig
	Versions  VersionsConfig
	Reconcile ReconcileConfig
}

type StorageConfig struct {
	// DataDir holds the SQLite database and config.yaml.
	DataDir string
	// DocumentsDir is the content store root for markdown files.
	DocumentsDir string
}

type VersionsConfig struct {
	// Max is the retention cap per document.
	Max int
	// Interval is the minimum gap between interval-throttled snapshots.
	Interval time.Duration
}

type ReconcileConfig struct {
	// Poll is the journal polling interval of the reconcile worker.
	Poll time.Duration
}

const (
	configFileName = "config"
	configFileType = "yaml"

	envPrefix = "DRAFTPAD"
)

// defaultConfigYAML is written to the data dir on first run so the knobs
// are discoverable.
const defaultConfigYAML = `# draftpad configuration

# documents_dir: where markdown files live (defaults to <data dir>/documents)

versions:
  max: 50
  interval: 5m

reconcile:
  poll: 30s
`

func defaults(dataDir string) Config {
	return Config{
		Storage: StorageConfig{
			DataDir:      dataDir,
			DocumentsDir: filepath.Join(dataDir, "documents"),
		},
		Versions: VersionsConfig{
			Max:      50,
			Interval: 5 * time.Minute,
		},
		Reconcile: ReconcileConfig{
			Poll: 30 * time.Second,
		},
	}
}

// Load resolves the data directory, bootstraps a default config.yaml on
// first run, and returns the merged configuration.
func Load() (Config, error) {
	dataDir, err := defaultDataDir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(dataDir)
}

// LoadFrom is Load with an explicit data directory (used by tests and the
// --data-dir flag).
func LoadFrom(dataDir string) (Config, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("creating data dir: %w", err)
	}
	if err := ensureDefaultConfigFile(dataDir); err != nil {
		return Config{}, err
	}

	def := defaults(dataDir)

	v := viper.New()
	v.SetDefault("documents_dir", def.Storage.DocumentsDir)
	v.SetDefault("versions.max", def.Versions.Max)
	v.SetDefault("versions.interval", def.Versions.Interval)
	v.SetDefault("reconcile.poll", def.Reconcile.Poll)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dataDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		Storage: StorageConfig{
			DataDir:      dataDir,
			DocumentsDir: v.GetString("documents_dir"),
		},
		Versions: VersionsConfig{
			Max:      v.GetInt("versions.max"),
			Interval: v.GetDuration("versions.interval"),
		},
		Reconcile: ReconcileConfig{
			Poll: v.GetDuration("reconcile.poll"),
		},
	}
	return cfg, nil
}

// ensureDefaultConfigFile writes the commented default config on first run.
// An existing file is left alone.
func ensureDefaultConfigFile(dataDir string) error {
	path := filepath.Join(dataDir, configFileName+"."+configFileType)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config file: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// defaultDataDir resolves ~/.draftpad, overridable with DRAFTPAD_DATA_DIR.
func defaultDataDir() (string, error) {
	if dir := os.Getenv("DRAFTPAD_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".draftpad"), nil
}
