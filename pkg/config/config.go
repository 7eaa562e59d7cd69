package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds process configuration loaded from a YAML file.
type Config struct {
	DBCreds struct {
		Host      string `yaml:"host"`
		Port      string `yaml:"port"`
		Username  string `yaml:"username"`
		Password  string `yaml:"password"`
		Database  string `yaml:"database"`
		LoadTable string `yaml:"load_table"`
	} `yaml:"db_creds"`

	Import struct {
		BatchSize int `yaml:"batch_size"`
	} `yaml:"import"`

	Postal struct {
		BaseURL       string `yaml:"base_url"`
		TimeoutSecs   int    `yaml:"timeout_secs"`
		RateLimitSecs int    `yaml:"rate_limit_secs"`
		BatchSize     int    `yaml:"batch_size"`
		Region        string `yaml:"region"`
		City          string `yaml:"city"`
	} `yaml:"postal"`
}

// LoadConfig loads the configuration from a YAML file
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %v", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %v", err)
	}

	if config.Import.BatchSize <= 0 {
		config.Import.BatchSize = 1000
	}
	if config.Postal.BatchSize <= 0 {
		config.Postal.BatchSize = 10
	}
	if config.Postal.TimeoutSecs <= 0 {
		config.Postal.TimeoutSecs = 10
	}

	return &config, nil
}
