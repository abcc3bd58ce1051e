package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/asext-labs/asext/internal/branding"
	"github.com/asext-labs/asext/internal/platform"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyExtensionsDir = "extensions_dir"
	KeyOutputDir     = "output_dir"
	KeyDebounce      = "debounce"
)

// Settings holds the fully resolved configuration for one invocation.
// Resolution order per value: flag > environment > config file > default.
type Settings struct {
	// ExtensionsDir is the Aseprite extensions directory installs target.
	ExtensionsDir string

	// OutputDir receives built archives. Empty means the extension root.
	OutputDir string

	// Debounce is the minimum interval between watch-triggered reinstalls.
	Debounce time.Duration
}

// Dir returns the path to the asext config directory (~/.asext/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.asext/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyDebounce, time.Second)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Resolve builds the Settings for this invocation from the loaded config.
// The extensions directory falls back to the platform default, which fails
// on platforms Aseprite does not support.
func Resolve() (*Settings, error) {
	s := &Settings{
		ExtensionsDir: viper.GetString(KeyExtensionsDir),
		OutputDir:     viper.GetString(KeyOutputDir),
		Debounce:      viper.GetDuration(KeyDebounce),
	}

	if s.ExtensionsDir == "" {
		dir, err := platform.DefaultExtensionsDir()
		if err != nil {
			return nil, err
		}
		s.ExtensionsDir = dir
	}

	if s.Debounce <= 0 {
		s.Debounce = time.Second
	}

	return s, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
