package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API       *APIConfig       `mapstructure:"api"`
	Gin       *GinConfig       `mapstructure:"gin"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	Cache     *CacheConfig     `mapstructure:"cache"`
	Storage   *StorageConfig   `mapstructure:"storage"`
	RateLimit *RateLimitConfig `mapstructure:"rate_limit"`
}

type APIConfig struct {
	Environment        string `mapstructure:"environment"`
	Port               string `mapstructure:"port"`
	BaseURL            string `mapstructure:"base_url"`
	JWTSigningKey      string `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

type CacheConfig struct {
	Driver        string `mapstructure:"driver"` // "redis" or "noop"
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type StorageConfig struct {
	ProofRoot     string `mapstructure:"proof_root"`
	ProofMaxBytes int64  `mapstructure:"proof_max_bytes"`
}

type RateLimitConfig struct {
	ReservePerSecond float64 `mapstructure:"reserve_per_second"`
	ReserveBurst     int     `mapstructure:"reserve_burst"`
}

// Load reads the YAML config file, applies RAFFLE_* environment overrides and
// watches the file for changes.
func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)

	viper.SetEnvPrefix("RAFFLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name))
		if err := viper.Unmarshal(conf); err != nil {
			zap.L().Error("failed to reload config", zap.Error(err))
		}
	})
	viper.WatchConfig()

	return conf, nil
}
