// Package config загружает конфигурацию сервера из переменных окружения
// (префикс BLOGAPI_) с необязательным config.yaml поверх дефолтов.
// Конфигурация собирается один раз при старте и дальше только читается.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the blogapi server.
type Config struct {
	Server struct {
		Addr       string `mapstructure:"addr"`        // адрес HTTP сервера
		CORSOrigin string `mapstructure:"cors_origin"` // разрешенный CORS origin (пусто — выключено)
		LogLevel   string `mapstructure:"log_level"`   // debug | info | warn | error
	} `mapstructure:"server"`
	Database struct {
		Path string `mapstructure:"path"` // путь к файлу SQLite (":memory:" для тестов)
	} `mapstructure:"database"`
	JWT struct {
		Secret     string        `mapstructure:"secret"`      // HMAC секрет подписи токенов
		AccessTTL  time.Duration `mapstructure:"access_ttl"`  // срок жизни access токена
		RefreshTTL time.Duration `mapstructure:"refresh_ttl"` // срок жизни refresh токена
	} `mapstructure:"jwt"`
	RateLimit struct {
		AuthRequests int           `mapstructure:"auth_requests"` // лимит запросов на auth эндпоинты
		AuthWindow   time.Duration `mapstructure:"auth_window"`   // окно лимита
	} `mapstructure:"rate_limit"`
}

// Load строит Config: дефолты, затем config.yaml (если есть),
// затем переменные окружения. Отсутствие JWT секрета — фатальная ошибка.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("BLOGAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Register keys
	keys := []string{
		"server.addr", "server.cors_origin", "server.log_level",
		"database.path",
		"jwt.secret", "jwt.access_ttl", "jwt.refresh_ttl",
		"rate_limit.auth_requests", "rate_limit.auth_window",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env key %s: %w", key, err)
		}
	}

	// Defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origin", "")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.path", "blogapi.db")
	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 30*24*time.Hour)
	v.SetDefault("rate_limit.auth_requests", 10)
	v.SetDefault("rate_limit.auth_window", time.Minute)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// config.yaml не найден — работаем только на переменных окружения
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required (BLOGAPI_JWT_SECRET)")
	}

	return &cfg, nil
}
