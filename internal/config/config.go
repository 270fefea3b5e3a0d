// Package config loads the settings of the keyflight-update command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	KeySourceType       = "source.type"
	KeySourceRepository = "source.repository"
	KeySourceBaseURL    = "source.base-url"
	KeySourceToken      = "source.token"

	KeyInstallRoot        = "install.root"
	KeyInstallVersionFile = "install.version-file"
	KeyInstallLauncher    = "install.launcher"
	KeyInstallProtected   = "install.protected"

	KeyCheckTimeout   = "check.timeout"
	KeyCheckChecksums = "check.checksums"
)

const (
	// ConfigName is the base name of the configuration file (keyflight-update.yaml, .toml or .json)
	ConfigName = "keyflight-update"
	// DefaultRepository publishes the configurator releases
	DefaultRepository = "keyflight/configurator"
	envPrefix         = "KEYFLIGHT"
)

// Config is the complete configuration of the command.
type Config struct {
	Source  SourceConfig  `mapstructure:"source" toml:"source"`
	Install InstallConfig `mapstructure:"install" toml:"install"`
	Check   CheckConfig   `mapstructure:"check" toml:"check"`
}

// SourceConfig selects the registry publishing the releases.
type SourceConfig struct {
	// Type is one of auto, github, gitlab, gitea or http
	Type       string `mapstructure:"type" toml:"type"`
	Repository string `mapstructure:"repository" toml:"repository"`
	BaseURL    string `mapstructure:"base-url" toml:"base-url,omitempty"`
	Token      string `mapstructure:"token" toml:"token,omitempty"`
}

// InstallConfig describes the installation to update.
type InstallConfig struct {
	// Root defaults to the directory of the executable
	Root        string   `mapstructure:"root" toml:"root,omitempty"`
	VersionFile string   `mapstructure:"version-file" toml:"version-file"`
	Launcher    string   `mapstructure:"launcher" toml:"launcher,omitempty"`
	Protected   []string `mapstructure:"protected" toml:"protected"`
}

// CheckConfig tunes the release check.
type CheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout"`
	// Checksums is the name of the checksums asset of a release. The archive is not validated when empty.
	Checksums string `mapstructure:"checksums" toml:"checksums,omitempty"`
}

// Load reads the configuration with the precedence: defaults < config file < environment variables.
// When path is empty, the file is searched in the user config directory then in the working directory;
// a missing file is not an error.
func Load(path string, defaults map[string]any) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "keyflight"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Check.Timeout < 0 {
		return nil, fmt.Errorf("invalid %s: %s", KeyCheckTimeout, cfg.Check.Timeout)
	}
	return cfg, nil
}

// Render returns the configuration in TOML format. The API token is masked.
func Render(cfg *Config) ([]byte, error) {
	masked := *cfg
	if masked.Source.Token != "" {
		masked.Source.Token = "********"
	}
	return toml.Marshal(masked)
}

// LoadEnvFile adds the variables of a dotenv file to the environment.
// Variables already set in the environment are kept.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}
