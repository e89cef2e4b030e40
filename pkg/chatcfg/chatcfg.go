// Package chatcfg loads the termchat configuration file. Flags given on
// the command line override whatever the file sets.
package chatcfg

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	// EnvConfigPath names a config file when --config is not given
	EnvConfigPath = "TERMCHAT_CONFIG"

	configFileName = ".termchat.yaml"
)

// Config is the root configuration structure.
type Config struct {
	Client  ClientConfig  `yaml:"client"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ClientConfig controls the interactive client.
type ClientConfig struct {
	URL             string        `yaml:"url"`
	RefreshInterval time.Duration `yaml:"refreshInterval"` // e.g. "1s"
	PollInterval    time.Duration `yaml:"pollInterval"`    // e.g. "16ms"
	Timeout         time.Duration `yaml:"timeout"`         // per request
}

// ServerConfig controls the chat server.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	Database        string `yaml:"database"` // path, sqlite://path, postgres://..., memory://
	MaxMessageBytes int64  `yaml:"maxMessageBytes"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			URL:             "http://127.0.0.1:32123",
			RefreshInterval: time.Second,
			PollInterval:    16 * time.Millisecond,
			Timeout:         5 * time.Second,
		},
		Server: ServerConfig{
			Addr:            "0.0.0.0:32123",
			Database:        "chat.db",
			MaxMessageBytes: 64 * 1024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath is $TERMCHAT_CONFIG if set, else ~/.termchat.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configFileName)
}

// Load reads the config at path over the defaults. An empty path falls
// back to DefaultPath, and a missing default file is not an error; a
// missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// applyDefaults fills fields a config file set to zero
func (c *Config) applyDefaults() {
	d := Default()
	if c.Client.URL == "" {
		c.Client.URL = d.Client.URL
	}
	if c.Client.RefreshInterval == 0 {
		c.Client.RefreshInterval = d.Client.RefreshInterval
	}
	if c.Client.PollInterval == 0 {
		c.Client.PollInterval = d.Client.PollInterval
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = d.Client.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.Database == "" {
		c.Server.Database = d.Server.Database
	}
	if c.Server.MaxMessageBytes == 0 {
		c.Server.MaxMessageBytes = d.Server.MaxMessageBytes
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// Validate rejects settings the client or server cannot run with.
func (c *Config) Validate() error {
	if c.Client.RefreshInterval < 0 {
		return errors.Errorf("client.refreshInterval must be positive, got %s", c.Client.RefreshInterval)
	}
	if c.Client.PollInterval < 0 {
		return errors.Errorf("client.pollInterval must be positive, got %s", c.Client.PollInterval)
	}
	if c.Client.Timeout < 0 {
		return errors.Errorf("client.timeout must not be negative, got %s", c.Client.Timeout)
	}
	if c.Server.MaxMessageBytes < 0 {
		return errors.Errorf("server.maxMessageBytes must be positive, got %d", c.Server.MaxMessageBytes)
	}
	return nil
}

// Marshal renders the config as YAML with durations as strings.
func (c *Config) Marshal() ([]byte, error) {
	out := struct {
		Client struct {
			URL             string `yaml:"url"`
			RefreshInterval string `yaml:"refreshInterval"`
			PollInterval    string `yaml:"pollInterval"`
			Timeout         string `yaml:"timeout"`
		} `yaml:"client"`
		Server  ServerConfig  `yaml:"server"`
		Logging LoggingConfig `yaml:"logging,omitempty"`
	}{
		Server:  c.Server,
		Logging: c.Logging,
	}
	out.Client.URL = c.Client.URL
	out.Client.RefreshInterval = c.Client.RefreshInterval.String()
	out.Client.PollInterval = c.Client.PollInterval.String()
	out.Client.Timeout = c.Client.Timeout.String()
	return yaml.Marshal(out)
}
