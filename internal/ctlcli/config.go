// Package ctlcli handles loading and managing local hermodctl configuration.
// This includes known broker connection targets for publishing test messages.
package ctlcli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BrokerConfig represents one broker connection target.
type BrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// CTLConfig holds the entire client-side hermodctl configuration.
type CTLConfig struct {
	Brokers  map[string]BrokerConfig `yaml:"brokers"`
	Default  string                  `yaml:"default"`
	SiteID   string                  `yaml:"site_id"`
	LogLevel string                  `yaml:"log_level"`
}

// CtlCfg is the loaded configuration shared by the hermodctl commands.
var CtlCfg *CTLConfig

// LoadCTLConfig loads ~/.hermodctl/config.yaml. A missing file yields a
// default localhost configuration so the tool works out of the box.
func LoadCTLConfig() (*CTLConfig, error) {
	cfgPath := filepath.Join(os.Getenv("HOME"), ".hermodctl", "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return defaultCTLConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	var config CTLConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
	}
	if config.Default == "" {
		for name := range config.Brokers {
			config.Default = name
			break
		}
	}
	if config.SiteID == "" {
		config.SiteID = "default"
	}
	return &config, nil
}

func defaultCTLConfig() *CTLConfig {
	return &CTLConfig{
		Brokers: map[string]BrokerConfig{
			"local": {Host: "localhost", Port: 1883},
		},
		Default: "local",
		SiteID:  "default",
	}
}

// Broker resolves a broker target by name, falling back to the default.
func (c *CTLConfig) Broker(name string) (BrokerConfig, error) {
	if name == "" {
		name = c.Default
	}
	broker, ok := c.Brokers[name]
	if !ok {
		return BrokerConfig{}, fmt.Errorf("unknown broker: %s", name)
	}
	return broker, nil
}
