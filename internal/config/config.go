// Package config provides loading and parsing of the Hermod configuration
// file using Viper. It defines the full configuration schema and exposes
// functions to access it at runtime.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/hermodvoice/hermod/internal/logging"
)

// Config represents the full structure of the hermod configuration file.
type Config struct {
	MQTT    MQTTConfig     `mapstructure:"mqtt"`
	SiteID  string         `mapstructure:"site_id"`
	Apps    AppsConfig     `mapstructure:"apps"`
	Logging logging.Config `mapstructure:"logging"`
}

// MQTTConfig defines how the daemon reaches the broker.
type MQTTConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	ClientID string `mapstructure:"client_id"`
}

// AppsConfig toggles the bundled voice apps.
type AppsConfig struct {
	Timer     bool `mapstructure:"timer"`
	GuessGame bool `mapstructure:"guessgame"`
}

// LoadConfig loads the hermod configuration from disk using Viper.
// It searches for a file named config.yaml in the current working directory
// or common fallback paths, and unmarshals the content into a typed struct.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add high-priority config path: ~/.hermod
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".hermod"))
	}

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/hermod")

	viper.SetDefault("mqtt.host", "localhost")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.client_id", "hermod")
	viper.SetDefault("site_id", "default")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}
