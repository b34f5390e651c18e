package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/ctpatch/format"
	"github.com/arloliu/ctpatch/internal/logging"
	"github.com/arloliu/ctpatch/transport"
)

// Config is the file configuration of the command. Flags override it.
type Config struct {
	// Port is the raw MIDI device file. Empty means look up PortName.
	Port        string                 `yaml:"port"`
	PortName    string                 `yaml:"port_name"`
	Delay       time.Duration          `yaml:"delay"`
	OpenTimeout time.Duration          `yaml:"open_timeout"`
	PackIndex   uint16                 `yaml:"pack_index"`
	Compression format.CompressionType `yaml:"compression"`
	Log         logging.Config         `yaml:"log"`
}

func defaultConfig() Config {
	return Config{
		PortName:    transport.DefaultPortName,
		Delay:       transport.DefaultDelay,
		OpenTimeout: transport.DefaultOpenTimeout,
		Compression: format.CompressionZstd,
		Log:         logging.Config{Level: "info", Format: "console"},
	}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/ctpatch/config.yaml or its
// platform equivalent.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "ctpatch", "config.yaml")
}

// loadConfig reads path over the defaults. A missing file is only an error
// when required is set.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}

		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}
