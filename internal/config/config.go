// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	YouTube  YouTubeConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Import   ImportConfig
	Sampling SamplingConfig
	Logging  LoggingConfig
	Server   ServerConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// YouTubeConfig contains YouTube Data API configuration.
type YouTubeConfig struct {
	APIKey         string
	RequestTimeout time.Duration
}

// RedisConfig contains the pool store connection configuration. An empty URL
// selects the in-process store.
type RedisConfig struct {
	URL string
}

// CacheConfig contains pool retention configuration.
type CacheConfig struct {
	TTL time.Duration
}

// ImportConfig contains playlist import limits and filter bounds.
type ImportConfig struct {
	MaxItems         int
	MaxDetailLookups int
	MinDurationSec   int
	MaxDurationSec   int
}

// SamplingConfig contains play sampling limits.
type SamplingConfig struct {
	DefaultCount int
	MaxCount     int
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The bare variable is what deployments historically set.
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = os.Getenv("REDIS_URL")
	}

	return &cfg, nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 4000)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// YouTube
	viper.SetDefault("youtube.apikey", "")
	viper.SetDefault("youtube.requesttimeout", 15*time.Second)

	// Redis
	viper.SetDefault("redis.url", "")

	// Cache
	viper.SetDefault("cache.ttl", 48*time.Hour)

	// Import
	viper.SetDefault("import.maxitems", 2000)
	viper.SetDefault("import.maxdetaillookups", 300)
	viper.SetDefault("import.mindurationsec", 5)
	viper.SetDefault("import.maxdurationsec", 1800)

	// Sampling
	viper.SetDefault("sampling.defaultcount", 10)
	viper.SetDefault("sampling.maxcount", 50)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
