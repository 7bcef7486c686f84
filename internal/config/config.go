// Package config loads optional user settings from a config file and
// environment variables. Everything has a working default; the file is
// never required.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Settings are the tunables a user can set outside of CLI flags.
type Settings struct {
	// Exclude lists directory names (case-insensitive) the scanner skips
	// entirely, e.g. network mounts or huge data directories.
	Exclude []string `mapstructure:"exclude"`

	// Workers bounds the scanner's concurrency.
	Workers int `mapstructure:"workers"`

	// LogDir overrides where default-named run logs are written.
	LogDir string `mapstructure:"log_dir"`
}

// Load reads config.{yaml,toml,json} from the user config directory (and the
// current directory, for development), layered under SCOUR_* environment
// variables. A missing file is not an error.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("config")

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "scour"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("SCOUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("exclude", []string{})
	v.SetDefault("workers", defaultWorkers())
	v.SetDefault("log_dir", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if s.Workers <= 0 {
		s.Workers = defaultWorkers()
	}
	return s, nil
}

// defaultWorkers sizes the scan pool to the machine, capped where more
// goroutines just contend on the disk.
func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 2 {
		n = 2
	}
	return n
}
