// Package config loads runtime configuration for the typeshed CLI.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the typeshed CLI.
// Values are populated from .typeshed.yaml, TYPESHED_* env vars, and CLI flags.
type Config struct {
	StubsDir string `mapstructure:"stubs_dir"`
	Verbose  bool   `mapstructure:"verbose"`
}

// Init wires up viper's config sources. When cfgFile is empty, a .typeshed.yaml
// is looked up in the working directory and the user's home directory.
// A missing config file is fine; defaults and env vars still apply.
func Init(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".typeshed")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("TYPESHED")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("stubs_dir", "stubs")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
