package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	TBA       TBAConfig
	Scheduler SchedulerConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

// TBAConfig holds settings for The Blue Alliance API client.
type TBAConfig struct {
	BaseURL           string
	AuthKey           string
	RequestTimeout    time.Duration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CacheTTL          time.Duration
}

type SchedulerConfig struct {
	CronExpression string
	Enabled        bool
}

type DatabaseConfig struct {
	CachePath string
}

type LoggingConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Attempt to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Warning: .env file not found, using environment variables: %v\n", err)
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("TBA_BASE_URL", "https://www.thebluealliance.com/api/v3")
	viper.SetDefault("TBA_AUTH_KEY", "")
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 15)
	// Kept slightly below the documented upstream quota to be safe.
	viper.SetDefault("RATE_LIMIT_REQUESTS", 25)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("SCHEDULE_CRON", "0 6 * * *") // Every day at 6 AM
	viper.SetDefault("SCHEDULE_ENABLED", true)
	viper.SetDefault("CACHE_DB_PATH", "./storage/cache.db")
	viper.SetDefault("LOG_LEVEL", "info")

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("PORT"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		TBA: TBAConfig{
			BaseURL:           viper.GetString("TBA_BASE_URL"),
			AuthKey:           viper.GetString("TBA_AUTH_KEY"),
			RequestTimeout:    time.Duration(viper.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
			RateLimitRequests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitWindow:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
			CacheTTL:          time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Scheduler: SchedulerConfig{
			CronExpression: viper.GetString("SCHEDULE_CRON"),
			Enabled:        viper.GetBool("SCHEDULE_ENABLED"),
		},
		Database: DatabaseConfig{
			CachePath: viper.GetString("CACHE_DB_PATH"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return config, nil
}
