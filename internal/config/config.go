package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	Auth       AuthConfig
	ElevenLabs ElevenLabsConfig
	Cartesia   CartesiaConfig
	Database   DatabaseConfig
	App        AppConfig
}

// AuthConfig содержит настройки аутентификации
type AuthConfig struct {
	SecretKey       string
	TokenTTL        time.Duration
	CredentialsPath string
}

// ElevenLabsConfig содержит настройки ElevenLabs API
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string
}

// CartesiaConfig содержит настройки Cartesia API
type CartesiaConfig struct {
	APIKey  string
	BaseURL string
	Version string
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrationPath string
}

type AppConfig struct {
	Env         string
	LogLevel    string
	Port        int
	FrontendURL string
	MaxRetries  int
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Auth
	cfg.Auth.SecretKey = os.Getenv("SECRET_KEY")
	cfg.Auth.TokenTTL = getEnvDurationDefault("TOKEN_TTL", 7*24*time.Hour)
	cfg.Auth.CredentialsPath = getEnvDefault("CREDENTIALS_PATH", "configs/credentials.json")

	// ElevenLabs
	cfg.ElevenLabs.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	cfg.ElevenLabs.BaseURL = getEnvDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io")

	// Cartesia
	cfg.Cartesia.APIKey = os.Getenv("CARTESIA_API_KEY")
	cfg.Cartesia.BaseURL = getEnvDefault("CARTESIA_BASE_URL", "https://api.cartesia.ai")
	cfg.Cartesia.Version = getEnvDefault("CARTESIA_VERSION", "2025-04-16")

	// Database
	cfg.Database.Host = getEnvDefault("DB_HOST", "localhost")
	cfg.Database.Port = getEnvIntDefault("DB_PORT", 5432)
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = getEnvDefault("DB_SSL_MODE", "disable")
	cfg.Database.MigrationPath = getEnvDefault("MIGRATION_PATH", "scripts/migrations")

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	cfg.App.Port = getEnvIntDefault("APP_PORT", 8080)
	cfg.App.FrontendURL = getEnvDefault("FRONTEND_URL", "http://localhost:3000")
	cfg.App.MaxRetries = getEnvIntDefault("TTS_MAX_RETRIES", 3)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY не установлен")
	}
	if config.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL должен быть положительным")
	}
	if config.Database.Host == "" {
		return fmt.Errorf("DB_HOST не установлен")
	}
	if config.Database.User == "" {
		return fmt.Errorf("DB_USER не установлен")
	}
	if config.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD не установлен")
	}
	if config.Database.Name == "" {
		return fmt.Errorf("DB_NAME не установлен")
	}
	if config.App.MaxRetries <= 0 {
		return fmt.Errorf("TTS_MAX_RETRIES должен быть положительным")
	}

	return nil
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
