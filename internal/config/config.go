package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	IPQS    IPQSConfig    `mapstructure:"ipqs"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// IPQSConfig configures the upstream fraud-detection API client.
type IPQSConfig struct {
	APIKey                  string `mapstructure:"api_key"`
	BaseURL                 string `mapstructure:"base_url"`
	CountryListURL          string `mapstructure:"country_list_url"`
	UserAgent               string `mapstructure:"user_agent"`
	UserLanguage            string `mapstructure:"user_language"`
	Strictness              int    `mapstructure:"strictness"`
	AllowPublicAccessPoints bool   `mapstructure:"allow_public_access_points"`
	LighterPenalties        bool   `mapstructure:"lighter_penalties"`
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port dial address.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration from config.yaml in the working directory or
// /etc/riskdesk, with RISKDESK_* environment variables taking precedence.
// A missing config file is not an error; defaults plus environment apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/riskdesk")

	v.SetEnvPrefix("RISKDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	// String keys need a registered default, even an empty one, for
	// AutomaticEnv values to reach Unmarshal.
	v.SetDefault("ipqs.api_key", "")
	v.SetDefault("ipqs.user_agent", "")
	v.SetDefault("ipqs.user_language", "")
	v.SetDefault("ipqs.base_url", "https://ipqualityscore.com/api/json")
	v.SetDefault("ipqs.country_list_url", "https://www.ipqualityscore.com/api/countries")
	v.SetDefault("ipqs.strictness", 0)
	v.SetDefault("ipqs.allow_public_access_points", false)
	v.SetDefault("ipqs.lighter_penalties", false)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
}

func (c *Config) validate() error {
	if c.IPQS.APIKey == "" {
		return fmt.Errorf("ipqs.api_key is required (set RISKDESK_IPQS_API_KEY)")
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	}
	if c.IPQS.Strictness < 0 || c.IPQS.Strictness > 3 {
		return fmt.Errorf("ipqs.strictness must be between 0 and 3, got %d", c.IPQS.Strictness)
	}
	return nil
}
