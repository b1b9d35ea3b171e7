package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress   string        `mapstructure:"SERVER_ADDRESS"`
	DBSource        string        `mapstructure:"DB_SOURCE"`
	GeocoderURL     string        `mapstructure:"GEOCODER_URL"`
	GeocoderTimeout time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	GeocoderCountry string        `mapstructure:"GEOCODER_COUNTRY"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	Persist         bool          `mapstructure:"PERSIST"`
}

// LoadConfig reads configuration from app.env in path, overridden by
// environment variables. A missing file is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_TIMEOUT", 30*time.Second)
	v.SetDefault("GEOCODER_COUNTRY", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PERSIST", false)

	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}
	return config, nil
}
