package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cast-receiver/internal/credentials"
	"cast-receiver/internal/device"

	"github.com/spf13/viper"
)

// Config represents the receiver configuration
type Config struct {
	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// Device classification configuration
	DeviceClass        string   `mapstructure:"device_class"`        // optional override
	Capabilities       []string `mapstructure:"capabilities"`        // mime=codec pairs
	EvaluationInterval int      `mapstructure:"evaluation_interval"` // seconds

	// Media server credentials, keyed by server ID
	Servers map[string]credentials.ServerConfig `mapstructure:"servers"`

	// API server configuration
	APIServer APIServerConfig `mapstructure:"api_server"`
}

// APIServerConfig holds the HTTP API settings
type APIServerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // seconds
	JWTSecret    string `mapstructure:"jwt_secret"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		LogFile:            "",
		DeviceClass:        "",
		Capabilities:       []string{},
		EvaluationInterval: 30,
		Servers:            make(map[string]credentials.ServerConfig),
		APIServer: APIServerConfig{
			Enabled:      true,
			Host:         "0.0.0.0",
			Port:         8008,
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
		},
	}
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/cast-receiver")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cast-receiver"))
		}
	}

	v.SetEnvPrefix("RECEIVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("device_class", cfg.DeviceClass)
	v.SetDefault("capabilities", cfg.Capabilities)
	v.SetDefault("evaluation_interval", cfg.EvaluationInterval)
	v.SetDefault("api_server.enabled", cfg.APIServer.Enabled)
	v.SetDefault("api_server.host", cfg.APIServer.Host)
	v.SetDefault("api_server.port", cfg.APIServer.Port)
	v.SetDefault("api_server.read_timeout", cfg.APIServer.ReadTimeout)
	v.SetDefault("api_server.write_timeout", cfg.APIServer.WriteTimeout)
	v.SetDefault("api_server.idle_timeout", cfg.APIServer.IdleTimeout)
	v.SetDefault("api_server.jwt_secret", cfg.APIServer.JWTSecret)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}

	if c.DeviceClass != "" {
		if _, err := device.ParseClass(c.DeviceClass); err != nil {
			return fmt.Errorf("device_class: %w", err)
		}
	}

	if _, err := device.ParseCapabilities(c.Capabilities); err != nil {
		return fmt.Errorf("capabilities: %w", err)
	}

	if c.EvaluationInterval <= 0 {
		return fmt.Errorf("evaluation_interval must be positive")
	}

	for id, server := range c.Servers {
		if id == "" {
			return fmt.Errorf("servers: server id must not be empty")
		}
		if server.ServerURL == "" {
			return fmt.Errorf("servers.%s: server_url is required", id)
		}
	}

	if c.APIServer.Enabled {
		if c.APIServer.Port <= 0 || c.APIServer.Port > 65535 {
			return fmt.Errorf("api_server.port must be between 1 and 65535")
		}
		if c.APIServer.ReadTimeout <= 0 || c.APIServer.WriteTimeout <= 0 || c.APIServer.IdleTimeout <= 0 {
			return fmt.Errorf("api_server timeouts must be positive")
		}
	}

	return nil
}

// Interval returns the device class evaluation interval
func (c *Config) Interval() time.Duration {
	return time.Duration(c.EvaluationInterval) * time.Second
}

// DeviceCapabilities returns the parsed capability list
func (c *Config) DeviceCapabilities() []device.Capability {
	caps, err := device.ParseCapabilities(c.Capabilities)
	if err != nil {
		return nil
	}
	return caps
}

// ClassOverride returns the configured device class override, if any
func (c *Config) ClassOverride() (device.Class, bool) {
	if c.DeviceClass == "" {
		return "", false
	}
	class, err := device.ParseClass(c.DeviceClass)
	if err != nil {
		return "", false
	}
	return class, true
}
