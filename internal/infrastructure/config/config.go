package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/velorie/ticketarchive/internal/shared/config"
)

const envPrefix = "TICKETARCHIVE"

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	Storage   sharedConfig.StorageConfig   `mapstructure:"storage"`
	Render    sharedConfig.RenderConfig    `mapstructure:"render"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
	Metrics   sharedConfig.MetricsConfig   `mapstructure:"metrics"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from an optional .env file, the config file and
// environment variables. An explicit configPath must exist; the default
// search locations are optional so the service can run from env alone.
func Load(env string, configPath string) (*Config, error) {
	// .env is a convenience for local runs; a missing file is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate rejects option values the server cannot act on.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file", "sql", "object":
	default:
		return fmt.Errorf("invalid storage.driver %q (want file, sql or object)", c.Storage.Driver)
	}
	switch c.Storage.ConflictPolicy {
	case "overwrite", "reject":
	default:
		return fmt.Errorf("invalid storage.conflict_policy %q (want overwrite or reject)", c.Storage.ConflictPolicy)
	}
	switch c.Render.ContentFormat {
	case "plain", "markdown":
	default:
		return fmt.Errorf("invalid render.content_format %q (want plain or markdown)", c.Render.ContentFormat)
	}
	if c.Storage.Driver == "sql" {
		switch c.Database.Driver {
		case "mysql", "postgres", "sqlite":
		default:
			return fmt.Errorf("invalid database.driver %q (want mysql, postgres or sqlite)", c.Database.Driver)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.enable_docs", false)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "ticketarchive")
	v.SetDefault("database.path", "data/ticketarchive.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults (empty secret rejects every submission)
	v.SetDefault("auth.api_secret", "")
	v.SetDefault("auth.api_secret_hash", "")

	// Storage defaults
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.conflict_policy", "overwrite")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.object.endpoint", "localhost:9000")
	v.SetDefault("storage.object.bucket", "transcripts")
	v.SetDefault("storage.object.prefix", "transcripts/")
	v.SetDefault("storage.object.use_ssl", false)

	// Render defaults
	v.SetDefault("render.template_path", "")
	v.SetDefault("render.locale", "pl-PL")
	v.SetDefault("render.timezone", "Europe/Warsaw")
	v.SetDefault("render.content_format", "plain")
	v.SetDefault("render.avatar_fallback_url", "https://api.dicebear.com/7.x/avataaars/svg")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 120)

	v.SetDefault("metrics.enabled", true)
}
