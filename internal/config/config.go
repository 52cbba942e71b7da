// Package config loads application configuration from the environment with
// an optional config.yaml overlay.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv  string `mapstructure:"APP_ENV"`
	AppName string `mapstructure:"APP_NAME"`

	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`

	Database struct {
		Type     string `mapstructure:"TYPE"` // sqlite or postgres
		Path     string `mapstructure:"PATH"` // sqlite file
		Host     string `mapstructure:"HOST"`
		Port     string `mapstructure:"PORT"`
		DBName   string `mapstructure:"DBNAME"`
		User     string `mapstructure:"USER"`
		Password string `mapstructure:"PASSWORD"`
		SSLMode  string `mapstructure:"SSLMODE"`
	} `mapstructure:"DATABASE"`

	// Redis is optional; an empty Addr disables the signal cache.
	Redis struct {
		Addr     string `mapstructure:"ADDR"`
		Password string `mapstructure:"PASSWORD"`
		DB       int    `mapstructure:"DB"`
	} `mapstructure:"REDIS"`

	// Impact credentials; leaving them empty disables the provider.
	Impact struct {
		AccountSID string `mapstructure:"ACCOUNT_SID"`
		AuthToken  string `mapstructure:"AUTH_TOKEN"`
	} `mapstructure:"IMPACT"`

	// SerpAPI key; empty disables trend, volume and web-search signals.
	SerpAPI struct {
		APIKey string `mapstructure:"API_KEY"`
	} `mapstructure:"SERPAPI"`

	Search struct {
		DefaultLimit    int `mapstructure:"DEFAULT_LIMIT"`
		LimitPerNetwork int `mapstructure:"LIMIT_PER_NETWORK"`
	} `mapstructure:"SEARCH"`

	Refresher struct {
		Schedule   string `mapstructure:"SCHEDULE"`
		WindowDays int    `mapstructure:"WINDOW_DAYS"`
		Limit      int    `mapstructure:"LIMIT"`
	} `mapstructure:"REFRESHER"`
}

var Module = fx.Module("config", fx.Provide(Load))

func Load() *Config {
	v := viper.New()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "offerscout")
	v.SetDefault("HTTP_SERVER.ADDR", ":8080")
	v.SetDefault("HTTP_SERVER.READ_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_SERVER.WRITE_TIMEOUT", 60*time.Second)
	v.SetDefault("DATABASE.TYPE", "sqlite")
	v.SetDefault("DATABASE.PATH", "offerscout.db")
	v.SetDefault("DATABASE.SSLMODE", "disable")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("SEARCH.DEFAULT_LIMIT", 20)
	v.SetDefault("SEARCH.LIMIT_PER_NETWORK", 50)
	v.SetDefault("REFRESHER.SCHEDULE", "0 6 * * *")
	v.SetDefault("REFRESHER.WINDOW_DAYS", 3)
	v.SetDefault("REFRESHER.LIMIT", 20)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			zap.L().Warn("config file unreadable, using environment only", zap.Error(err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		zap.L().Fatal("failed to unmarshal config", zap.Error(err))
	}
	return &cfg
}
