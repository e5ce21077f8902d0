package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName          string `mapstructure:"app_name"`
	Env              string `mapstructure:"app_env"`
	LogLevel         string `mapstructure:"log_level"`
	HTTPAddr         string `mapstructure:"http_addr"`
	CompetitionsFile string `mapstructure:"competitions_file"`
	PublishersFile   string `mapstructure:"publishers_file"`

	FootballAPIBaseURL  string        `mapstructure:"football_api_base_url"`
	FootballAPIToken    string        `mapstructure:"football_api_token"`
	FootballAPIRate     int           `mapstructure:"football_api_requests_per_minute"`
	FetchMaxRetries     int           `mapstructure:"fetch_max_retries"`
	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`

	StorageType         string        `mapstructure:"storage_type"`
	BBoltPath           string        `mapstructure:"bbolt_path"`
	CacheTTLSeconds     int64         `mapstructure:"cache_ttl_seconds"`
	CacheCleanupSeconds int64         `mapstructure:"cache_cleanup_interval_seconds"`
	CacheTTL            time.Duration `mapstructure:"-"`
	CacheCleanup        time.Duration `mapstructure:"-"`

	RefreshIntervalSeconds int64         `mapstructure:"refresh_interval"`
	RefreshInterval        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "soccer-hub")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", "127.0.0.1:8080")
	v.SetDefault("competitions_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("football_api_base_url", "https://api.football-data.org/v4")
	v.SetDefault("football_api_token", "")
	v.SetDefault("football_api_requests_per_minute", 10) // free tier allowance, 0 disables
	v.SetDefault("fetch_max_retries", 3)
	v.SetDefault("fetch_timeout_seconds", 10)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/cache.db")
	v.SetDefault("cache_ttl_seconds", int64((10*time.Minute)/time.Second))
	v.SetDefault("cache_cleanup_interval_seconds", int64(time.Hour/time.Second))
	v.SetDefault("refresh_interval", 0) // seconds, 0 disables the refresher

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.FootballAPIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.FootballAPIBaseURL), "/")
	if cfg.FootballAPIBaseURL == "" {
		return nil, fmt.Errorf("football_api_base_url is required")
	}
	if cfg.FootballAPIRate < 0 {
		return nil, fmt.Errorf("invalid football_api_requests_per_minute (must not be negative)")
	}
	if cfg.FetchMaxRetries < 0 {
		return nil, fmt.Errorf("invalid fetch_max_retries (must not be negative)")
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	if cfg.CacheTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid cache_ttl_seconds (must be positive seconds)")
	}
	if cfg.CacheCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid cache_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	cfg.CacheCleanup = time.Duration(cfg.CacheCleanupSeconds) * time.Second

	if cfg.RefreshIntervalSeconds < 0 {
		return nil, fmt.Errorf("invalid refresh_interval (must be zero or positive seconds)")
	}
	cfg.RefreshInterval = time.Duration(cfg.RefreshIntervalSeconds) * time.Second

	return &cfg, nil
}
