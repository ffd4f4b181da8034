package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional extsort configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
}

// DefaultsConfig holds persistent flag defaults. Nil means unset.
type DefaultsConfig struct {
	Workers *int    `toml:"workers"`
	Verbose *bool   `toml:"verbose"`
	Quiet   *bool   `toml:"quiet"`
	Log     *string `toml:"log"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "extsort", "config.toml")
}

// Load reads the config file from the XDG path. A missing file yields a zero
// Config and no error.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields a zero Config and
// no error; undecoded keys are rejected so typos do not go unnoticed.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, &UnknownKeysError{Path: path, Keys: undecoded}
	}
	return cfg, nil
}

// UnknownKeysError lists config keys that match no setting.
type UnknownKeysError struct {
	Path string
	Keys []toml.Key
}

func (e *UnknownKeysError) Error() string {
	msg := e.Path + ": unknown keys:"
	for _, k := range e.Keys {
		msg += " " + k.String()
	}
	return msg
}
