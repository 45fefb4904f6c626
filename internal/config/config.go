// Package config handles the XDG configuration directory, file paths and
// settings loaded from config.yaml and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskman"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yaml"

	// TokenFile is the stored bearer token filename.
	TokenFile = "token.json"

	// DefaultBaseURL is the demo task resource.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com/todos"
)

// Variant names select a behavior preset for the view controllers.
const (
	VariantStrict = "strict"
	VariantFast   = "fast"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings holds values read from config.yaml and the environment.
	Settings Settings
}

// Settings are the user-tunable values. Defaults come from DefaultSettings.
type Settings struct {
	BaseURL string `yaml:"base_url" env:"TASKMAN_BASE_URL"`

	// Timeout bounds each API call. Zero leaves the transport defaults alone.
	Timeout time.Duration `yaml:"timeout" env:"TASKMAN_TIMEOUT"`

	// Variant picks the controller behavior preset: "strict" or "fast".
	Variant string `yaml:"variant" env:"TASKMAN_VARIANT"`

	// MinTitleLength overrides the preset's minimum title length when positive.
	MinTitleLength int `yaml:"min_title_length" env:"TASKMAN_MIN_TITLE_LENGTH"`

	Auth AuthSettings `yaml:"auth" env-prefix:"TASKMAN_AUTH_"`
}

// AuthSettings configure the OAuth2 client credentials flow.
// All empty means requests are sent unauthenticated.
type AuthSettings struct {
	ClientID     string   `yaml:"client_id" env:"CLIENT_ID"`
	ClientSecret string   `yaml:"client_secret" env:"CLIENT_SECRET"`
	TokenURL     string   `yaml:"token_url" env:"TOKEN_URL"`
	Scopes       []string `yaml:"scopes" env:"SCOPES" env-separator:","`
}

// Enabled reports whether the client credentials flow is configured.
func (a AuthSettings) Enabled() bool {
	return a.ClientID != "" && a.TokenURL != ""
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskman or $HOME/.config/taskman.
// Settings are loaded from config.yaml when it exists, then from the environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load (re)reads settings.
func (c *Config) Load() error {
	s := DefaultSettings()
	var err error
	if c.HasSettingsFile() {
		err = cleanenv.ReadConfig(c.SettingsPath(), &s)
	} else {
		err = cleanenv.ReadEnv(&s)
	}
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	c.Settings = s
	return nil
}

// Validate checks settings for values the client cannot work with.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.BaseURL) == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	switch s.Variant {
	case VariantStrict, VariantFast:
	default:
		return fmt.Errorf("unknown variant: %s", s.Variant)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if s.MinTitleLength < 0 {
		return fmt.Errorf("min_title_length must not be negative")
	}
	return nil
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		BaseURL: DefaultBaseURL,
		Variant: VariantStrict,
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSettingsFile checks if config.yaml exists.
func (c *Config) HasSettingsFile() bool {
	_, err := os.Stat(c.SettingsPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
