// Package config loads and normalizes the uniclaw configuration. All
// validation happens here, once, at the boundary; downstream code reads the
// struct without re-checking optionality.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/unicitynetwork/uniclaw/internal/constants"
	"github.com/unicitynetwork/uniclaw/internal/identity"
)

//go:embed config.defaults.yaml
var defaultsYAML []byte

// ValidNetworks are the accepted network selectors.
var ValidNetworks = map[string]bool{
	"testnet": true,
	"mainnet": true,
	"dev":     true,
}

// ChannelConfig controls the DM channel account.
type ChannelConfig struct {
	Enabled   bool     `mapstructure:"enabled" yaml:"enabled"`
	Name      string   `mapstructure:"name" yaml:"name,omitempty"`
	DMPolicy  string   `mapstructure:"dmPolicy" yaml:"dmPolicy,omitempty"`
	AllowFrom []string `mapstructure:"allowFrom" yaml:"allowFrom,omitempty"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level,omitempty"`
	Format string `mapstructure:"format" yaml:"format,omitempty"`
}

// Config is the validated uniclaw configuration.
type Config struct {
	Network          string   `mapstructure:"network" yaml:"network"`
	Nametag          string   `mapstructure:"nametag" yaml:"nametag,omitempty"`
	Owner            string   `mapstructure:"owner" yaml:"owner,omitempty"`
	AdditionalRelays []string `mapstructure:"additionalRelays" yaml:"additionalRelays,omitempty"`
	APIKey           string   `mapstructure:"apiKey" yaml:"apiKey,omitempty"`
	DataDir          string   `mapstructure:"dataDir" yaml:"dataDir,omitempty"`
	TrustbaseURL     string   `mapstructure:"trustbaseURL" yaml:"trustbaseURL,omitempty"`
	FaucetURL        string   `mapstructure:"faucetURL" yaml:"faucetURL,omitempty"`

	Channel ChannelConfig `mapstructure:"channel" yaml:"channel,omitempty"`
	Log     LogConfig     `mapstructure:"log" yaml:"log,omitempty"`

	// SecretPassphrase comes from the environment only, never from the file.
	SecretPassphrase string `mapstructure:"-" yaml:"-"`
}

// SearchPaths returns the config file locations, in priority order.
func SearchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", constants.AppName),
			filepath.Join(home, "."+constants.AppName),
		)
	}
	return append(paths, ".")
}

// DefaultPath is where the setup wizard writes the config file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", constants.AppName, "config.yaml"), nil
}

// Load reads embedded defaults, merges the first config.yaml found on the
// search paths, applies UNICLAW_* environment overrides, and normalizes.
func Load() (*Config, error) {
	return LoadFrom(SearchPaths()...)
}

// LoadFrom is Load with explicit search paths (used by tests).
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultsYAML)); err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}

	v.SetConfigName("config")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Normalize()
	return &cfg, nil
}

// Normalize applies defaults and drops invalid optional fields, mirroring
// what a user would get from an empty file.
func (c *Config) Normalize() {
	if !ValidNetworks[c.Network] {
		c.Network = "testnet"
	}

	c.Nametag = identity.NormalizeHandle(c.Nametag)
	if c.Nametag != "" && !identity.ValidNametag(c.Nametag) {
		c.Nametag = ""
	}

	c.Owner = identity.NormalizeHandle(c.Owner)
	if c.Owner != "" && !identity.ValidNametag(c.Owner) {
		c.Owner = ""
	}

	relays := c.AdditionalRelays[:0]
	for _, r := range c.AdditionalRelays {
		if r = strings.TrimSpace(r); r != "" {
			relays = append(relays, r)
		}
	}
	c.AdditionalRelays = relays

	if c.APIKey == "" {
		c.APIKey = constants.DefaultAPIKey
	}
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, "."+constants.AppName)
		} else {
			c.DataDir = "." + constants.AppName
		}
	}
	if url := os.Getenv(constants.TrustbaseURLEnv); url != "" {
		c.TrustbaseURL = url
	}
	if c.TrustbaseURL == "" {
		c.TrustbaseURL = constants.DefaultTrustbaseURL
	}
	if c.FaucetURL == "" {
		c.FaucetURL = constants.DefaultFaucetURL
	}

	switch c.Channel.DMPolicy {
	case "pairing", "allowlist", "open", "disabled":
	default:
		c.Channel.DMPolicy = "open"
	}
	c.Channel.Name = strings.TrimSpace(c.Channel.Name)

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	c.SecretPassphrase = os.Getenv(constants.SecretPassphraseEnv)
}

// SecretPath is the wallet secret location under the data directory.
func (c *Config) SecretPath() string {
	return filepath.Join(c.DataDir, constants.SecretFile)
}

// TrustbasePath is the cached trustbase location under the data directory.
func (c *Config) TrustbasePath() string {
	return filepath.Join(c.DataDir, constants.TrustbaseFile)
}

// TokensPath is the token storage directory for the wallet SDK.
func (c *Config) TokensPath() string {
	return filepath.Join(c.DataDir, constants.TokensDir)
}
