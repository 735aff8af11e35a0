package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Redis (optional; providers fall back to uncached fetches without it)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Storage root for snapshots, exports and logs
	DataDir string `mapstructure:"DATA_DIR"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// ESPN Fantasy credentials
	ESPNS2      string `mapstructure:"ESPN_S2"`
	SWID        string `mapstructure:"SWID"`
	LeagueID    int    `mapstructure:"LEAGUE_ID"`
	FantasyYear int    `mapstructure:"FANTASY_YEAR"`

	// External APIs
	BallDontLieAPIKey       string        `mapstructure:"BALLDONTLIE_API_KEY"`
	MaxGamesPerRequest      int           `mapstructure:"MAX_GAMES_PER_REQUEST"`
	ProviderTimeout         time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`

	// Background jobs
	EnableBackgroundJobs bool   `mapstructure:"ENABLE_BACKGROUND_JOBS"`
	FantasySyncSchedule  string `mapstructure:"FANTASY_SYNC_SCHEDULE"`
	DailyReportSchedule  string `mapstructure:"DAILY_REPORT_SCHEDULE"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("ESPN_S2", "")
	viper.SetDefault("SWID", "")
	viper.SetDefault("LEAGUE_ID", 0)
	viper.SetDefault("FANTASY_YEAR", 0)
	viper.SetDefault("BALLDONTLIE_API_KEY", "")
	viper.SetDefault("MAX_GAMES_PER_REQUEST", 15) // keeps a full slate under the request timeout
	viper.SetDefault("PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5) // open after 5 consecutive failures
	viper.SetDefault("ENABLE_BACKGROUND_JOBS", false)
	viper.SetDefault("FANTASY_SYNC_SCHEDULE", "0 6 * * *")
	viper.SetDefault("DAILY_REPORT_SCHEDULE", "30 6 * * *")

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// HasFantasyCredentials reports whether the ESPN fantasy client can be built.
func (c *Config) HasFantasyCredentials() bool {
	return c.ESPNS2 != "" && c.SWID != "" && c.LeagueID != 0 && c.FantasyYear != 0
}
