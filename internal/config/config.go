package config

import (
	"github.com/spf13/viper"
)

// Configuration keys
const (
	// Server Configuration
	Port = "PORT"

	// Database Configuration
	DBURL = "DB_URL"

	// Auth Configuration
	JWTSecret = "JWT_SECRET"

	// Logging Configuration
	LogLevel = "LOG_LEVEL"

	// Bidding Configuration
	BidMaxRetries = "BID_MAX_RETRIES"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Logging  LoggingConfig
	Bidding  BiddingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database configuration. An empty URL selects the
// in-memory store.
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// BiddingConfig bounds the conflict-retry loop of the bid transaction
type BiddingConfig struct {
	MaxRetries int
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(Port, "8080")
	v.SetDefault(DBURL, "")
	v.SetDefault(JWTSecret, "")
	v.SetDefault(LogLevel, "info")
	v.SetDefault(BidMaxRetries, 3)

	return &Config{
		Server: ServerConfig{
			Port: v.GetString(Port),
		},
		Database: DatabaseConfig{
			URL: v.GetString(DBURL),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString(JWTSecret),
		},
		Logging: LoggingConfig{
			Level: v.GetString(LogLevel),
		},
		Bidding: BiddingConfig{
			MaxRetries: v.GetInt(BidMaxRetries),
		},
	}
}
