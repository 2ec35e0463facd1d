package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultFondDigits = 2
	defaultFileDigits = 2
	defaultItemDigits = 3
	maxDigits         = 12
)

// Settings is the user configuration read from config.yaml and FONDSPOD_* variables.
type Settings struct {
	Language  string    `mapstructure:"language"`
	Library   string    `mapstructure:"library"`
	Logging   Logging   `mapstructure:"logging"`
	Numbering Numbering `mapstructure:"numbering"`
}

type Logging struct {
	Level string `mapstructure:"level"`
	Mode  string `mapstructure:"mode"`
}

// Numbering holds the zero-padding widths for minted numbers.
type Numbering struct {
	FondDigits int `mapstructure:"fond_digits"`
	FileDigits int `mapstructure:"file_digits"`
	ItemDigits int `mapstructure:"item_digits"`
}

// Defaults returns the settings used when no file is present.
func Defaults() *Settings {
	return &Settings{
		Language: "zh_CN",
		Logging: Logging{
			Level: "info",
			Mode:  "development",
		},
		Numbering: Numbering{
			FondDigits: defaultFondDigits,
			FileDigits: defaultFileDigits,
			ItemDigits: defaultItemDigits,
		},
	}
}

// Validate rejects settings the services cannot work with.
func (s *Settings) Validate() error {
	widths := map[string]int{
		"numbering.fond_digits": s.Numbering.FondDigits,
		"numbering.file_digits": s.Numbering.FileDigits,
		"numbering.item_digits": s.Numbering.ItemDigits,
	}
	for key, value := range widths {
		if value < 1 || value > maxDigits {
			return fmt.Errorf("%s must be between 1 and %d, got %d", key, maxDigits, value)
		}
	}
	if strings.TrimSpace(s.Language) == "" {
		return errors.New("language must not be empty")
	}
	return nil
}

// Load reads settings with defaults, then the YAML file, then FONDSPOD_* env vars.
// An empty path uses GetConfigPath and tolerates a missing file; an explicit
// path must exist.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults := Defaults()
	v.SetDefault("language", defaults.Language)
	v.SetDefault("library", defaults.Library)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.mode", defaults.Logging.Mode)
	v.SetDefault("numbering.fond_digits", defaults.Numbering.FondDigits)
	v.SetDefault("numbering.file_digits", defaults.Numbering.FileDigits)
	v.SetDefault("numbering.item_digits", defaults.Numbering.ItemDigits)

	v.SetEnvPrefix("FONDSPOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = GetConfigPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), !explicit && errors.Is(err, os.ErrNotExist):
		case explicit:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &settings, nil
}
