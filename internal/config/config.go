// Package config holds the settings for the deviceid CLI and its serve
// mode. The config file is optional; every invocation must work with
// zero setup.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	IPC     IPCConfig     `yaml:"ipc"`
}

type LoggingConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type IPCConfig struct {
	// Socket overrides the unix socket path. Ignored on Windows, where
	// the pipe name is fixed.
	Socket string `yaml:"socket"`
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			File:       "",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
	}
}

// Load reads the config at path. A missing file yields the defaults;
// any other read or parse fault is an error. Environment overrides
// apply after the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DEVICEID_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("DEVICEID_SOCKET"); v != "" {
		c.IPC.Socket = v
	}
}

func (c *Config) Validate() error {
	if c.Logging.MaxSizeMB <= 0 {
		return errors.New("logging.max_size_mb must be > 0")
	}
	if c.Logging.MaxBackups <= 0 {
		return errors.New("logging.max_backups must be > 0")
	}
	return nil
}

func (c *Config) ApplyDefaults() {
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 5
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 2
	}
}
