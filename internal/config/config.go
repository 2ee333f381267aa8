// Package config resolves runtime settings for the tracker CLI.
//
// Precedence, lowest first: built-in defaults, config.yaml (in the store dir,
// or the file named by TRACKER_CONFIG), TRACKER_* environment variables, and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "TRACKER"
	EnvConfigFile  = "TRACKER_CONFIG"
	ConfigFileName = "config.yaml"
	DefaultDirName = ".tracker"
)

type Config struct {
	Dir       string `mapstructure:"dir"`
	Backend   string `mapstructure:"backend"`
	Format    string `mapstructure:"format"`
	Pretty    bool   `mapstructure:"pretty"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// ConfigFile is the file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"dir":        "dir",
	"backend":    "backend",
	"format":     "format",
	"pretty":     "pretty",
	"log-level":  "log_level",
	"log-format": "log_format",
}

func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

func defaults(v *viper.Viper) {
	v.SetDefault("dir", DefaultDir())
	v.SetDefault("backend", "sqlite")
	v.SetDefault("format", "json")
	v.SetDefault("pretty", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
}

// Load resolves the configuration. flags may be nil; only flags that were
// registered are bound. The store dir is settled before any config file is
// read, so a config file cannot relocate the store it lives in.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	dir := expandHome(v.GetString("dir"))

	path := strings.TrimSpace(os.Getenv(EnvConfigFile))
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, ConfigFileName)
	}
	used, err := readFile(v, path, explicit)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Dir = dir
	cfg.ConfigFile = used
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	return cfg, nil
}

// readFile merges path into v. A missing file is only an error when it was
// named explicitly.
func readFile(v *viper.Viper, path string, explicit bool) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("config file %s: %w", path, err)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read config %s: %w", path, err)
	}
	return path, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
