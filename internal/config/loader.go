package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	return load(viper.GetViper())
}

// LoadWithViper loads configuration into a fresh viper instance and returns
// it alongside the result. A non-empty file replaces the search paths.
func LoadWithViper(file string) (*Config, *viper.Viper, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	}
	cfg, err := load(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// An explicit SetConfigFile takes precedence over the search paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (GITDOWN_*)
	v.SetEnvPrefix("GITDOWN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", DefaultMode)
	v.SetDefault("ssh", false)
	v.SetDefault("strict_cleanup", false)

	v.SetDefault("http.timeout", DefaultHTTPTimeout)
	v.SetDefault("concurrency.workers", DefaultWorkers)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
