package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// initConfig loads the TOML config, creating its directory on first use.
func initConfig(path string) error {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "socialsimple", "cli", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("SOCIALSIMPLE")
	viper.AutomaticEnv()

	viper.SetDefault("api.base_url", "http://localhost:8000")
	viper.SetDefault("api.timeout", 30)
	viper.SetDefault("auth.token", "")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// saveToken persists the bearer token. The API URL flag is not persisted.
func saveToken(token string) error {
	viper.Set("auth.token", token)
	return viper.WriteConfig()
}
