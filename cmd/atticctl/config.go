package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/atticapp/attic-server/internal/config"
)

const (
	envPrefix      = "ATTIC"
	configFileName = "atticctl"
	configFileType = "yaml"

	cfgKeyEnv      = "env"
	cfgKeyLogLevel = "log_level"
	cfgKeyDataPath = "data_path"
)

// loadConfig resolves settings from flags, ATTIC_* variables and an optional
// atticctl.yaml, in that order. A missing config file is not an error.
func loadConfig(flags *pflag.FlagSet, configFile string) (*config.Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyEnv, "development")
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyDataPath, "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.BindPFlag(cfgKeyDataPath, flags.Lookup("data-path")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag(cfgKeyLogLevel, flags.Lookup("log-level")); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/attic")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return config.ForDataPath(v.GetString(cfgKeyEnv), v.GetString(cfgKeyLogLevel), v.GetString(cfgKeyDataPath))
}
