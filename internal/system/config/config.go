package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabasesConfig `mapstructure:"database"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	TCF      TCFConfig       `mapstructure:"tcf"`
	CORS     CORSConfig      `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname     string        `mapstructure:"hostname"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
}

// DatabasesConfig holds all database configurations
type DatabasesConfig struct {
	Consent DatabaseConfig `mapstructure:"consent"`
}

// DatabaseConfig holds individual database configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// GetDSN builds the data source name for the configured database.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		d.User, d.Password, d.Hostname, d.Port, d.Database)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TCFConfig holds TCF experience configuration
type TCFConfig struct {
	// OverrideVendorPurposes enables publisher overrides: purposes can be
	// excluded from the experience or forced to a specific legal basis.
	OverrideVendorPurposes bool `mapstructure:"override_vendor_purposes"`
	// CacheEnabled controls whether aggregated experience contents are
	// cached between requests.
	CacheEnabled bool `mapstructure:"cache_enabled"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

var globalConfig *Config

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default configuration lookup order:
		// 1. ./repository/conf/deployment.yaml (production - relative to binary)
		// 2. ./cmd/server/repository/conf/deployment.yaml (development)
		v.SetConfigName("deployment")
		v.SetConfigType("yaml")
		v.AddConfigPath("./repository/conf")
		v.AddConfigPath("./cmd/server/repository/conf")
		v.AddConfigPath("../repository/conf")
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix("CONSENT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)
	v.SetDefault("database.consent.type", "mysql")
	v.SetDefault("database.consent.max_open_conns", 25)
	v.SetDefault("database.consent.max_idle_conns", 5)
	v.SetDefault("database.consent.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("tcf.override_vendor_purposes", false)
	v.SetDefault("tcf.cache_enabled", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine; defaults and env vars apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the loaded global configuration. Load must be called first.
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded. Call config.Load first.")
	}
	return globalConfig
}

// Set replaces the global configuration. Intended for tests.
func Set(cfg *Config) {
	globalConfig = cfg
}
